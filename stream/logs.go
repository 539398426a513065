package stream

import (
	"strconv"
	"strings"
)

// InvocationFrame is one entry on the reconstructed program call stack.
type InvocationFrame struct {
	ProgramID string
	Depth     uint32
}

// ProgramData is one raw base64 emission attributed to the program that was
// executing when the runtime printed it.
type ProgramData struct {
	ProgramID string
	Data      string
}

// ExtractProgramData walks a transaction's log messages in order, tracking
// program invoke/success nesting on s.stack, and collects every
// "Program data:" emission into s.emissions attributed to the program on top
// of the stack at that point. Both scratch slices are reset at entry; the
// returned slice aliases s.emissions and is only valid until the next call.
//
// The runtime's log output is the only place the emitting program's identity
// survives, so attribution has to replay the nesting exactly as printed.
// Success lines pop the most recent frame with a matching program id rather
// than the literal top of stack: re-entrant calls to the same program are
// common and depth values in the logs are not reliable enough to match on.
func ExtractProgramData(logs []string, s *Scratch) []ProgramData {
	s.stack = s.stack[:0]
	s.emissions = s.emissions[:0]

	for _, line := range logs {
		trimmed := strings.TrimSpace(line)

		if programID, depth, ok := parseInvoke(trimmed); ok {
			s.stack = append(s.stack, InvocationFrame{ProgramID: programID, Depth: depth})
			continue
		}

		if programID, ok := parseSuccess(trimmed); ok {
			for i := len(s.stack) - 1; i >= 0; i-- {
				if s.stack[i].ProgramID == programID {
					s.stack = append(s.stack[:i], s.stack[i+1:]...)
					break
				}
			}
			continue
		}

		if data, ok := strings.CutPrefix(trimmed, "Program data: "); ok {
			emitter := UnknownProgram
			if n := len(s.stack); n > 0 {
				emitter = s.stack[n-1].ProgramID
			}
			s.emissions = append(s.emissions, ProgramData{ProgramID: emitter, Data: data})
		}

		// All other log lines (compute budget, program-internal logs,
		// failures) carry no attribution state.
	}

	return s.emissions
}

// parseInvoke matches "Program <id> invoke [<depth>]". A depth that fails to
// parse falls back to 1; the depth is informational only.
func parseInvoke(line string) (string, uint32, bool) {
	rest, ok := strings.CutPrefix(line, "Program ")
	if !ok || !strings.Contains(rest, " invoke [") {
		return "", 0, false
	}

	programID, rest, _ := strings.Cut(rest, " ")
	if programID == "" {
		return "", 0, false
	}

	depth := uint32(1)
	if start := strings.IndexByte(rest, '['); start >= 0 {
		if end := strings.IndexByte(rest[start:], ']'); end > 0 {
			if d, err := strconv.ParseUint(rest[start+1:start+end], 10, 32); err == nil {
				depth = uint32(d)
			}
		}
	}

	return programID, depth, true
}

// parseSuccess matches "Program <id> success".
func parseSuccess(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "Program ")
	if !ok {
		return "", false
	}
	programID, ok := strings.CutSuffix(rest, " success")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(programID), true
}
