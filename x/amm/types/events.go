package types

// Event types for the AMM module. Attributes are emitted in the order of the
// PairCreated, Mint, Burn, Swap and Sync layouts, followed by the emitting
// contract (the factory or the pair).
const (
	EventTypePairCreated    = "pair_created"
	EventTypeMint           = "mint"
	EventTypeBurn           = "burn"
	EventTypeSwap           = "swap"
	EventTypeSync           = "sync"
	EventTypeSetFeeTo       = "set_fee_to"
	EventTypeSetFeeToSetter = "set_fee_to_setter"

	AttributeKeyToken0     = "token0"
	AttributeKeyToken1     = "token1"
	AttributeKeyPair       = "pair"
	AttributeKeyPairCount  = "pair_count"
	AttributeKeySender     = "sender"
	AttributeKeyAmount0    = "amount0"
	AttributeKeyAmount1    = "amount1"
	AttributeKeyAmount0In  = "amount0_in"
	AttributeKeyAmount1In  = "amount1_in"
	AttributeKeyAmount0Out = "amount0_out"
	AttributeKeyAmount1Out = "amount1_out"
	AttributeKeyTo         = "to"
	AttributeKeyReserve0   = "reserve0"
	AttributeKeyReserve1   = "reserve1"
	AttributeKeyFeeTo      = "fee_to"
	AttributeKeyFeeSetter  = "fee_to_setter"
	AttributeKeyContract   = "contract"
)
