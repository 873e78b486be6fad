package dto

// This package contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to service layer

type AccountCreateDTO struct {
	Name string
}

type ProposalCreateDTO struct {
	Amount    uint64
	Recipient string
	Nonce     uint64
}

type ProposalIdDTO struct {
	ProposalID int
}

type DecisionDTO struct {
	ProposalID int
	Account    string
}

type BalanceDTO struct {
	Owner string
}

type MintDTO struct {
	Amount uint64
}
