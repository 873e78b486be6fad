package main

import (
	"github.com/sandcastle-labs/sandcastle/client/api/http_api/responses"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/journal"
)

type AccountsResponse struct {
	ErrorMessage string                      `json:"error_message,omitempty"`
	Result       []responses.AccountResponse `json:"result"`
}

type AccountResponse struct {
	ErrorMessage string                    `json:"error_message,omitempty"`
	Result       responses.AccountResponse `json:"result"`
}

type ProposalsResponse struct {
	ErrorMessage string           `json:"error_message,omitempty"`
	Result       []types.Proposal `json:"result"`
}

type ProposalResponse struct {
	ErrorMessage string         `json:"error_message,omitempty"`
	Result       types.Proposal `json:"result"`
}

type ExecuteResponse struct {
	ErrorMessage string                    `json:"error_message,omitempty"`
	Result       responses.ExecuteResponse `json:"result"`
}

type MultisigResponse struct {
	ErrorMessage string                     `json:"error_message,omitempty"`
	Result       responses.MultisigResponse `json:"result"`
}

type BalanceResponse struct {
	ErrorMessage string                    `json:"error_message,omitempty"`
	Result       responses.BalanceResponse `json:"result"`
}

type JournalResponse struct {
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       []journal.Entry `json:"result"`
}
