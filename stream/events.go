package stream

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Event is the tagged union handed to the egress queue. Data holds one of the
// *Event structs below; Kind and Type discriminate it for downstream JSON
// consumers.
type Event struct {
	Kind EventKind   `json:"kind"`
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// PumpfunCreateEvent is emitted by the pump.fun bonding-curve program when a
// new token and curve are created. Field order matches the on-chain borsh
// layout; Signature is attached after decoding and is never on the wire.
type PumpfunCreateEvent struct {
	Signature            string           `bin:"-" json:"signature"`
	Name                 string           `json:"name"`
	Symbol               string           `json:"symbol"`
	Uri                  string           `json:"uri"`
	Mint                 solana.PublicKey `json:"mint"`
	BondingCurve         solana.PublicKey `json:"bonding_curve"`
	User                 solana.PublicKey `json:"user"`
	Creator              solana.PublicKey `json:"creator"`
	Timestamp            int64            `json:"timestamp"`
	VirtualTokenReserves uint64           `json:"virtual_token_reserves"`
	VirtualSolReserves   uint64           `json:"virtual_sol_reserves"`
	RealTokenReserves    uint64           `json:"real_token_reserves"`
	TokenTotalSupply     uint64           `json:"token_total_supply"`
}

// PumpfunTradeEvent is emitted on every buy/sell against a bonding curve.
type PumpfunTradeEvent struct {
	Signature             string           `bin:"-" json:"signature"`
	Mint                  solana.PublicKey `json:"mint"`
	SolAmount             uint64           `json:"sol_amount"`
	TokenAmount           uint64           `json:"token_amount"`
	IsBuy                 bool             `json:"is_buy"`
	User                  solana.PublicKey `json:"user"`
	Timestamp             int64            `json:"timestamp"`
	VirtualSolReserves    uint64           `json:"virtual_sol_reserves"`
	VirtualTokenReserves  uint64           `json:"virtual_token_reserves"`
	RealSolReserves       uint64           `json:"real_sol_reserves"`
	RealTokenReserves     uint64           `json:"real_token_reserves"`
	FeeRecipient          solana.PublicKey `json:"fee_recipient"`
	FeeBasisPoints        uint64           `json:"fee_basis_points"`
	Fee                   uint64           `json:"fee"`
	Creator               solana.PublicKey `json:"creator"`
	CreatorFeeBasisPoints uint64           `json:"creator_fee_basis_points"`
	CreatorFee            uint64           `json:"creator_fee"`
	TrackVolume           bool             `json:"track_volume"`
	TotalUnclaimedTokens  uint64           `json:"total_unclaimed_tokens"`
	TotalClaimedTokens    uint64           `json:"total_claimed_tokens"`
	CurrentSolVolume      uint64           `json:"current_sol_volume"`
	LastUpdateTimestamp   int64            `json:"last_update_timestamp"`
	IxName                string           `json:"ix_name"`
}

// RaydiumClmmSwapEvent is the concentrated-liquidity pool swap event.
type RaydiumClmmSwapEvent struct {
	Signature     string           `bin:"-" json:"signature"`
	PoolState     solana.PublicKey `json:"pool_state"`
	Sender        solana.PublicKey `json:"sender"`
	TokenAccount0 solana.PublicKey `json:"token_account_0"`
	TokenAccount1 solana.PublicKey `json:"token_account_1"`
	Amount0       uint64           `json:"amount_0"`
	TransferFee0  uint64           `json:"transfer_fee_0"`
	Amount1       uint64           `json:"amount_1"`
	TransferFee1  uint64           `json:"transfer_fee_1"`
	ZeroForOne    bool             `json:"zero_for_one"`
	SqrtPriceX64  bin.Uint128      `json:"sqrt_price_x64"`
	Liquidity     bin.Uint128      `json:"liquidity"`
	Tick          int32            `json:"tick"`
}

// RaydiumCpmmSwapEvent is the constant-product pool swap event. Vault amounts
// are pre-swap balances net of trade fees.
type RaydiumCpmmSwapEvent struct {
	Signature         string           `bin:"-" json:"signature"`
	PoolId            solana.PublicKey `json:"pool_id"`
	InputVaultBefore  uint64           `json:"input_vault_before"`
	OutputVaultBefore uint64           `json:"output_vault_before"`
	InputAmount       uint64           `json:"input_amount"`
	OutputAmount      uint64           `json:"output_amount"`
	InputTransferFee  uint64           `json:"input_transfer_fee"`
	OutputTransferFee uint64           `json:"output_transfer_fee"`
	BaseInput         bool             `json:"base_input"`
}

// OrcaTradedEvent is the Whirlpool "Traded" price-oracle event; sqrt prices
// are Q64.64 fixed point.
type OrcaTradedEvent struct {
	Signature         string           `bin:"-" json:"signature"`
	Whirlpool         solana.PublicKey `json:"whirlpool"`
	AToB              bool             `json:"a_to_b"`
	PreSqrtPrice      bin.Uint128      `json:"pre_sqrt_price"`
	PostSqrtPrice     bin.Uint128      `json:"post_sqrt_price"`
	InputAmount       uint64           `json:"input_amount"`
	OutputAmount      uint64           `json:"output_amount"`
	InputTransferFee  uint64           `json:"input_transfer_fee"`
	OutputTransferFee uint64           `json:"output_transfer_fee"`
	LpFee             uint64           `json:"lp_fee"`
	ProtocolFee       uint64           `json:"protocol_fee"`
}
