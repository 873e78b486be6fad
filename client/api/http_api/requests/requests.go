package requests

type AccountCreateForm struct {
	Name string `json:"name" validate:"attr=name,min=1"`
}

type ProposalCreateForm struct {
	Amount    uint64 `json:"amount" validate:"attr=amount,min=1"`
	Recipient string `json:"recipient" validate:"attr=recipient,min=3"`
	Nonce     uint64 `json:"nonce"`
}

type ProposalIdForm struct {
	ProposalID int `query:"proposalID" json:"proposal_id"`
}

type DecisionForm struct {
	ProposalID int    `json:"proposal_id"`
	Account    string `json:"account" validate:"attr=account,min=1"`
}

type BalanceForm struct {
	Owner string `query:"owner" json:"owner" validate:"attr=owner,min=3"`
}

type MintForm struct {
	Amount uint64 `json:"amount" validate:"attr=amount,min=1"`
}

type JournalOffsetForm struct {
	Offset uint64 `query:"offset" json:"offset"`
}
