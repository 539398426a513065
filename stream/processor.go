package stream

import (
	"fmt"

	"github.com/mr-tron/base58"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/sirupsen/logrus"
)

// Scratch holds one worker's per-transaction working state. Slices are reset
// between transactions but keep their capacity, so a long-lived worker stops
// allocating once it has seen a transaction of typical size. A Scratch must
// not be shared between goroutines.
type Scratch struct {
	stack     []InvocationFrame
	emissions []ProgramData
	events    []Event
}

// Processor decodes one raw transaction update into typed events.
type Processor struct {
	log *logrus.Logger
}

func NewProcessor(log *logrus.Logger) *Processor {
	return &Processor{log: log}
}

// Process extracts the transaction's signature and log messages, replays the
// logs through the invocation-stack parser, and decodes every attributed
// emission. The returned slice aliases s.events and is only valid until the
// next Process call on the same Scratch.
//
// A missing transaction body or missing log metadata fails this update only.
// Skipped emissions are silently passed over. A decode error on a matched
// discriminator stops processing the remaining emissions of this transaction;
// events decoded before the failure are still returned.
func (p *Processor) Process(tx *pb.SubscribeUpdateTransaction, s *Scratch) ([]Event, error) {
	s.events = s.events[:0]

	info := tx.GetTransaction()
	if info == nil {
		return nil, fmt.Errorf("transaction update without transaction body")
	}

	meta := info.GetMeta()
	if meta == nil || meta.GetLogMessagesNone() {
		return nil, fmt.Errorf("transaction %s has no log messages", base58.Encode(info.GetSignature()))
	}

	signature := base58.Encode(info.GetSignature())
	emissions := ExtractProgramData(meta.GetLogMessages(), s)

	for _, emission := range emissions {
		event, err := DecodeProgramData(emission.ProgramID, emission.Data, signature)
		if err != nil {
			p.log.Errorf("decode failed for %s, dropping remaining emissions: %s", signature, err)
			return s.events, nil
		}
		if event == nil {
			continue
		}
		s.events = append(s.events, *event)
	}

	return s.events, nil
}
