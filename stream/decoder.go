package stream

import (
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// decodeFunc deserializes the bytes following the 8-byte discriminator and
// wraps the result in an Event with the supplied transaction signature
// attached.
type decodeFunc func(decoder *bin.Decoder, signature string) (*Event, error)

// eventRegistry maps emitting program → event discriminator → decoder. The
// set of supported protocols is closed, so a static table built once is all
// the dispatch this needs.
var eventRegistry = map[string]map[[8]byte]decodeFunc{
	PUMP_FUN_PROGRAM_ID.String(): {
		PumpfunCreateEventDiscriminator: decodePumpfunCreate,
		PumpfunTradeEventDiscriminator:  decodePumpfunTrade,
	},
	RAYDIUM_CLMM_PROGRAM_ID.String(): {
		RaydiumClmmSwapEventDiscriminator: decodeRaydiumClmmSwap,
	},
	RAYDIUM_CPMM_PROGRAM_ID.String(): {
		RaydiumCpmmSwapEventDiscriminator: decodeRaydiumCpmmSwap,
	},
	ORCA_PROGRAM_ID.String(): {
		OrcaTradedEventDiscriminator: decodeOrcaTraded,
	},
}

// DecodeProgramData turns one base64 emission into a typed event.
//
// A nil event with a nil error means the payload was skipped: bad base64,
// fewer than 8 decoded bytes, an unknown program, or an unmatched
// discriminator. All of those are expected feed noise. A non-nil error means
// the discriminator matched but the body failed to deserialize, which points
// at schema drift or a corrupt feed and is surfaced to the caller.
func DecodeProgramData(programID, payload, signature string) (*Event, error) {
	// The program lookup runs before the payload is touched; an unknown
	// program skips without paying for the base64 decode. Every pre-decode
	// check here is a skip, so the order is not observable.
	table, ok := eventRegistry[programID]
	if !ok {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, nil
	}
	if len(decoded) < 8 {
		return nil, nil
	}

	decode, ok := table[[8]byte(decoded[:8])]
	if !ok {
		return nil, nil
	}

	event, err := decode(bin.NewBorshDecoder(decoded[8:]), signature)
	if err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", programID, err)
	}
	return event, nil
}

func decodePumpfunCreate(decoder *bin.Decoder, signature string) (*Event, error) {
	var event PumpfunCreateEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("unmarshaling PumpfunCreateEvent: %w", err)
	}
	event.Signature = signature
	return &Event{Kind: KindCreate, Type: PUMP_FUN_CREATE, Data: &event}, nil
}

func decodePumpfunTrade(decoder *bin.Decoder, signature string) (*Event, error) {
	var event PumpfunTradeEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("unmarshaling PumpfunTradeEvent: %w", err)
	}
	event.Signature = signature
	return &Event{Kind: KindTrade, Type: PUMP_FUN_TRADE, Data: &event}, nil
}

func decodeRaydiumClmmSwap(decoder *bin.Decoder, signature string) (*Event, error) {
	var event RaydiumClmmSwapEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("unmarshaling RaydiumClmmSwapEvent: %w", err)
	}
	event.Signature = signature
	return &Event{Kind: KindTrade, Type: RAYDIUM_CLMM_SWAP, Data: &event}, nil
}

func decodeRaydiumCpmmSwap(decoder *bin.Decoder, signature string) (*Event, error) {
	var event RaydiumCpmmSwapEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("unmarshaling RaydiumCpmmSwapEvent: %w", err)
	}
	event.Signature = signature
	return &Event{Kind: KindTrade, Type: RAYDIUM_CPMM_SWAP, Data: &event}, nil
}

func decodeOrcaTraded(decoder *bin.Decoder, signature string) (*Event, error) {
	var event OrcaTradedEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("unmarshaling OrcaTradedEvent: %w", err)
	}
	event.Signature = signature
	return &Event{Kind: KindTrade, Type: ORCA_TRADED, Data: &event}, nil
}
