package stream

import "github.com/gagliardetto/solana-go"

var (
	PUMP_FUN_PROGRAM_ID     = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	RAYDIUM_CLMM_PROGRAM_ID = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RAYDIUM_CPMM_PROGRAM_ID = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	ORCA_PROGRAM_ID         = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
)

// WatchedPrograms is the subscription allow-list: only transactions that touch
// one of these programs are requested from the gateway.
var WatchedPrograms = []string{
	PUMP_FUN_PROGRAM_ID.String(),
	RAYDIUM_CLMM_PROGRAM_ID.String(),
	RAYDIUM_CPMM_PROGRAM_ID.String(),
	ORCA_PROGRAM_ID.String(),
}

// UnknownProgram is the attribution for a data emission logged while no
// program frame is open.
const UnknownProgram = "UNKNOWN"

// 8-byte anchor event discriminators, as emitted in "Program data:" payloads.
// Raydium CLMM and CPMM share the same SwapEvent discriminator; they are told
// apart by the emitting program.
var (
	PumpfunCreateEventDiscriminator   = [8]byte{27, 114, 169, 77, 222, 235, 99, 118}
	PumpfunTradeEventDiscriminator    = [8]byte{189, 219, 127, 211, 78, 230, 97, 238}
	RaydiumClmmSwapEventDiscriminator = [8]byte{64, 198, 205, 232, 38, 8, 113, 226}
	RaydiumCpmmSwapEventDiscriminator = [8]byte{64, 198, 205, 232, 38, 8, 113, 226}
	OrcaTradedEventDiscriminator      = [8]byte{225, 202, 73, 175, 147, 43, 160, 150}
)

type EventKind string

const (
	KindCreate EventKind = "create"
	KindTrade  EventKind = "trade"
)

type EventType string

const (
	PUMP_FUN_CREATE   EventType = "PumpfunCreate"
	PUMP_FUN_TRADE    EventType = "PumpfunTrade"
	RAYDIUM_CLMM_SWAP EventType = "RaydiumClmmSwap"
	RAYDIUM_CPMM_SWAP EventType = "RaydiumCpmmSwap"
	ORCA_TRADED       EventType = "OrcaTraded"
)
