package stream

import (
	"bytes"
	"encoding/base64"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSignature = "4Cod1cNGv6RboJ7rSB79yeVCR4Lfd25rFgLY3eiPJfTJjTGyYP1r2i1upAYZHQsWDqUbGd1bhTRm1bpSQcpWMnEz"

// encodeEventPayload borsh-encodes an event struct behind its discriminator
// and base64-encodes the whole payload, mirroring what the runtime logs as
// "Program data:". Fields tagged bin:"-" (the signature) stay off the wire.
func encodeEventPayload(t *testing.T, discriminator [8]byte, event interface{}) string {
	t.Helper()

	buf := new(bytes.Buffer)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(event))

	payload := append(discriminator[:], buf.Bytes()...)
	return base64.StdEncoding.EncodeToString(payload)
}

func TestDecodePumpfunCreateEventRoundTrip(t *testing.T) {
	fixture := PumpfunCreateEvent{
		Name:                 "Test Token",
		Symbol:               "TEST",
		Uri:                  "https://ipfs.io/ipfs/QmTest",
		Mint:                 solana.NewWallet().PublicKey(),
		BondingCurve:         solana.NewWallet().PublicKey(),
		User:                 solana.NewWallet().PublicKey(),
		Creator:              solana.NewWallet().PublicKey(),
		Timestamp:            1721234567,
		VirtualTokenReserves: 1073000000000000,
		VirtualSolReserves:   30000000000,
		RealTokenReserves:    793100000000000,
		TokenTotalSupply:     1000000000000000,
	}
	payload := encodeEventPayload(t, PumpfunCreateEventDiscriminator, fixture)

	event, err := DecodeProgramData(PUMP_FUN_PROGRAM_ID.String(), payload, testSignature)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, KindCreate, event.Kind)
	assert.Equal(t, PUMP_FUN_CREATE, event.Type)

	decoded, ok := event.Data.(*PumpfunCreateEvent)
	require.True(t, ok)
	assert.Equal(t, testSignature, decoded.Signature)

	fixture.Signature = testSignature
	assert.Equal(t, &fixture, decoded)
}

func TestDecodePumpfunTradeEventRoundTrip(t *testing.T) {
	fixture := PumpfunTradeEvent{
		Mint:                  solana.NewWallet().PublicKey(),
		SolAmount:             150000000,
		TokenAmount:           5120000000000,
		IsBuy:                 true,
		User:                  solana.NewWallet().PublicKey(),
		Timestamp:             1721234567,
		VirtualSolReserves:    30150000000,
		VirtualTokenReserves:  1067880000000000,
		RealSolReserves:       150000000,
		RealTokenReserves:     787980000000000,
		FeeRecipient:          solana.NewWallet().PublicKey(),
		FeeBasisPoints:        95,
		Fee:                   1425000,
		Creator:               solana.NewWallet().PublicKey(),
		CreatorFeeBasisPoints: 5,
		CreatorFee:            75000,
		TrackVolume:           true,
		TotalUnclaimedTokens:  0,
		TotalClaimedTokens:    0,
		CurrentSolVolume:      150000000,
		LastUpdateTimestamp:   1721234567,
		IxName:                "buy",
	}
	payload := encodeEventPayload(t, PumpfunTradeEventDiscriminator, fixture)

	event, err := DecodeProgramData(PUMP_FUN_PROGRAM_ID.String(), payload, testSignature)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, KindTrade, event.Kind)
	assert.Equal(t, PUMP_FUN_TRADE, event.Type)

	decoded, ok := event.Data.(*PumpfunTradeEvent)
	require.True(t, ok)

	fixture.Signature = testSignature
	assert.Equal(t, &fixture, decoded)
}

func TestDecodeRaydiumClmmSwapEventRoundTrip(t *testing.T) {
	fixture := RaydiumClmmSwapEvent{
		PoolState:     solana.NewWallet().PublicKey(),
		Sender:        solana.NewWallet().PublicKey(),
		TokenAccount0: solana.NewWallet().PublicKey(),
		TokenAccount1: solana.NewWallet().PublicKey(),
		Amount0:       1000000,
		TransferFee0:  0,
		Amount1:       254000000,
		TransferFee1:  100,
		ZeroForOne:    true,
		SqrtPriceX64:  bin.Uint128{Lo: 0xDEADBEEF, Hi: 42},
		Liquidity:     bin.Uint128{Lo: 987654321, Hi: 0},
		Tick:          -18372,
	}
	payload := encodeEventPayload(t, RaydiumClmmSwapEventDiscriminator, fixture)

	event, err := DecodeProgramData(RAYDIUM_CLMM_PROGRAM_ID.String(), payload, testSignature)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, KindTrade, event.Kind)
	assert.Equal(t, RAYDIUM_CLMM_SWAP, event.Type)

	decoded, ok := event.Data.(*RaydiumClmmSwapEvent)
	require.True(t, ok)
	assert.Equal(t, testSignature, decoded.Signature)
	assert.Equal(t, fixture.PoolState, decoded.PoolState)
	assert.Equal(t, fixture.Sender, decoded.Sender)
	assert.Equal(t, fixture.Amount0, decoded.Amount0)
	assert.Equal(t, fixture.Amount1, decoded.Amount1)
	assert.True(t, decoded.ZeroForOne)
	assert.Equal(t, fixture.SqrtPriceX64.Lo, decoded.SqrtPriceX64.Lo)
	assert.Equal(t, fixture.SqrtPriceX64.Hi, decoded.SqrtPriceX64.Hi)
	assert.Equal(t, fixture.Liquidity.Lo, decoded.Liquidity.Lo)
	assert.Equal(t, fixture.Tick, decoded.Tick)
}

func TestDecodeRaydiumCpmmSwapEventRoundTrip(t *testing.T) {
	fixture := RaydiumCpmmSwapEvent{
		PoolId:            solana.NewWallet().PublicKey(),
		InputVaultBefore:  500000000000,
		OutputVaultBefore: 120000000000,
		InputAmount:       1000000000,
		OutputAmount:      238000000,
		InputTransferFee:  0,
		OutputTransferFee: 0,
		BaseInput:         true,
	}
	payload := encodeEventPayload(t, RaydiumCpmmSwapEventDiscriminator, fixture)

	event, err := DecodeProgramData(RAYDIUM_CPMM_PROGRAM_ID.String(), payload, testSignature)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, RAYDIUM_CPMM_SWAP, event.Type)

	decoded, ok := event.Data.(*RaydiumCpmmSwapEvent)
	require.True(t, ok)

	fixture.Signature = testSignature
	assert.Equal(t, &fixture, decoded)
}

// The CLMM and CPMM swap events share discriminator bytes; the emitting
// program decides which schema applies.
func TestDecodeSharedDiscriminatorDispatchesByProgram(t *testing.T) {
	fixture := RaydiumCpmmSwapEvent{
		PoolId:      solana.NewWallet().PublicKey(),
		InputAmount: 7,
	}
	payload := encodeEventPayload(t, RaydiumCpmmSwapEventDiscriminator, fixture)

	event, err := DecodeProgramData(RAYDIUM_CPMM_PROGRAM_ID.String(), payload, testSignature)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, RAYDIUM_CPMM_SWAP, event.Type)

	// The same bytes under the CLMM program id dispatch to the CLMM schema,
	// whose longer layout cannot be satisfied by the short CPMM body.
	_, err = DecodeProgramData(RAYDIUM_CLMM_PROGRAM_ID.String(), payload, testSignature)
	assert.Error(t, err)
}

func TestDecodeOrcaTradedEventRoundTrip(t *testing.T) {
	fixture := OrcaTradedEvent{
		Whirlpool:         solana.NewWallet().PublicKey(),
		AToB:              false,
		PreSqrtPrice:      bin.Uint128{Lo: 1 << 32, Hi: 3},
		PostSqrtPrice:     bin.Uint128{Lo: 1 << 33, Hi: 3},
		InputAmount:       42000000,
		OutputAmount:      41000000,
		InputTransferFee:  0,
		OutputTransferFee: 0,
		LpFee:             12600,
		ProtocolFee:       4200,
	}
	payload := encodeEventPayload(t, OrcaTradedEventDiscriminator, fixture)

	event, err := DecodeProgramData(ORCA_PROGRAM_ID.String(), payload, testSignature)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, ORCA_TRADED, event.Type)

	decoded, ok := event.Data.(*OrcaTradedEvent)
	require.True(t, ok)
	assert.Equal(t, testSignature, decoded.Signature)
	assert.Equal(t, fixture.Whirlpool, decoded.Whirlpool)
	assert.False(t, decoded.AToB)
	assert.Equal(t, fixture.PreSqrtPrice.Lo, decoded.PreSqrtPrice.Lo)
	assert.Equal(t, fixture.PostSqrtPrice.Hi, decoded.PostSqrtPrice.Hi)
	assert.Equal(t, fixture.InputAmount, decoded.InputAmount)
	assert.Equal(t, fixture.LpFee, decoded.LpFee)
}

func TestDecodeSkipsExpectedNoise(t *testing.T) {
	// Unknown program.
	event, err := DecodeProgramData(solana.NewWallet().PublicKey().String(), "aGVsbG8gd29ybGQh", testSignature)
	assert.NoError(t, err)
	assert.Nil(t, event)

	// Bad base64.
	event, err = DecodeProgramData(PUMP_FUN_PROGRAM_ID.String(), "not-base64!!", testSignature)
	assert.NoError(t, err)
	assert.Nil(t, event)

	// Fewer than 8 decoded bytes.
	short := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	event, err = DecodeProgramData(PUMP_FUN_PROGRAM_ID.String(), short, testSignature)
	assert.NoError(t, err)
	assert.Nil(t, event)

	// Known program, unmatched discriminator.
	unmatched := base64.StdEncoding.EncodeToString(append(make([]byte, 8), []byte("garbage")...))
	event, err = DecodeProgramData(PUMP_FUN_PROGRAM_ID.String(), unmatched, testSignature)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestDecodeCorruptBodyIsHardError(t *testing.T) {
	// Discriminator matches but the body is truncated mid-struct.
	payload := base64.StdEncoding.EncodeToString(append(PumpfunTradeEventDiscriminator[:], 0xFF, 0x01))

	event, err := DecodeProgramData(PUMP_FUN_PROGRAM_ID.String(), payload, testSignature)
	assert.Error(t, err)
	assert.Nil(t, event)
}
