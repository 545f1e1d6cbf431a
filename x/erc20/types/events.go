package types

// Event types for the ERC20 module. Attribute order follows the
// Transfer(from, to, value) and Approval(owner, spender, value) layouts,
// followed by the emitting token.
const (
	EventTypeTransfer = "transfer"
	EventTypeApproval = "approval"
	EventTypeDeploy   = "token_deployed"

	AttributeKeyFrom     = "from"
	AttributeKeyTo       = "to"
	AttributeKeyValue    = "value"
	AttributeKeyOwner    = "owner"
	AttributeKeySpender  = "spender"
	AttributeKeyDeployer = "deployer"
	AttributeKeyName     = "name"
	AttributeKeySymbol   = "symbol"
	AttributeKeyContract = "contract"
)
