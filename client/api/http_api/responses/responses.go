package responses

// BaseResponse mirrors the API envelope for clients decoding replies.
type BaseResponse struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

// AccountResponse exposes an account without its private key. Private
// keys never leave the node.
type AccountResponse struct {
	Name   string `json:"name"`
	PubKey string `json:"pubkey"`
}

type BalanceResponse struct {
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

type ExecuteResponse struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	Status      string `json:"status"`
}

type MultisigResponse struct {
	Address string `json:"address"`
}
