package ledger

// Address is a remote ledger account or contract address, hex with a
// "0x" prefix.
type Address string

func (a Address) String() string {
	return string(a)
}

// NodeInfo describes the sandbox node the client is connected to.
type NodeInfo struct {
	NodeVersion     string `json:"node_version"`
	ChainID         int    `json:"chain_id"`
	ProtocolVersion int    `json:"protocol_version"`
}

// Receipt is the remote ledger's acknowledgement of a settled call.
type Receipt struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	Status      string `json:"status"`
}

// AccountVariant selects the authorization scheme of an account
// contract at deployment time.
type AccountVariant string

const (
	VariantSingleKey    AccountVariant = "single_key"
	VariantHardcodedKey AccountVariant = "hardcoded_key"
	VariantMultisig     AccountVariant = "multisig"
)

// DeployAccountRequest deploys a new account contract. SignerPubKeys is
// only meaningful for the multisig variant and fixes the co-signer slots
// for the lifetime of the contract. DeploymentKey, when set, makes the
// deployment deterministic so a node restart can re-derive the same
// address.
type DeployAccountRequest struct {
	Variant       AccountVariant `json:"variant"`
	SignerPubKeys []string       `json:"signer_pubkeys,omitempty"`
	Threshold     int            `json:"threshold,omitempty"`
	DeploymentKey string         `json:"deployment_key,omitempty"`
}

type DeployAccountResponse struct {
	Address       Address `json:"address"`
	DeploymentKey string  `json:"deployment_key"`
}

// DeployTokenRequest deploys a token contract administered by Admin.
type DeployTokenRequest struct {
	Admin    Address `json:"admin"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Decimals int     `json:"decimals"`
}

// MintPrivateRequest mints Amount into a pending shield committed to
// SecretHash. The tokens become spendable only after a redeem with the
// matching secret.
type MintPrivateRequest struct {
	Token      Address `json:"token"`
	Amount     uint64  `json:"amount"`
	SecretHash string  `json:"secret_hash"`
}

type RedeemShieldRequest struct {
	Token  Address `json:"token"`
	To     Address `json:"to"`
	Amount uint64  `json:"amount"`
	Secret string  `json:"secret"`
}

// TransferCall submits a token transfer from a multisig account. The
// witness carries the concatenated co-signer signatures over the
// transfer message; the contract decides whether they satisfy its
// policy.
type TransferCall struct {
	Token     Address `json:"token"`
	From      Address `json:"from"`
	Recipient Address `json:"recipient"`
	Amount    uint64  `json:"amount"`
	Nonce     uint64  `json:"nonce"`
	Message   string  `json:"message"`
	Witness   []byte  `json:"witness"`
}

type ViewBalanceRequest struct {
	Token Address `json:"token"`
	Owner Address `json:"owner"`
}

type ViewBalanceResponse struct {
	Balance uint64 `json:"balance"`
}
