package handlers

import (
	"errors"
	"net/http"

	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/repositories/proposal"
	"github.com/sandcastle-labs/sandcastle/client/services/coordinator"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/journal"
	"github.com/sandcastle-labs/sandcastle/ledger"
)

type HTTPApp struct {
	coordinator  coordinator.CoordinatorService
	wallet       wallet.WalletService
	registry     keystore.Registry
	auditJournal journal.Journal
}

func NewHTTPApp(
	coordinatorService coordinator.CoordinatorService,
	walletService wallet.WalletService,
	registry keystore.Registry,
	auditJournal journal.Journal,
) *HTTPApp {
	return &HTTPApp{
		coordinator:  coordinatorService,
		wallet:       walletService,
		registry:     registry,
		auditJournal: auditJournal,
	}
}

// statusForError maps service errors onto HTTP statuses: missing
// entities are 404, lifecycle conflicts 409, remote rejections 422,
// corrupted storage and everything else 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, proposal.ErrProposalNotFound),
		errors.Is(err, proposal.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, coordinator.ErrExecutionInFlight),
		errors.Is(err, coordinator.ErrAlreadyExecuted),
		errors.Is(err, coordinator.ErrThresholdNotMet):
		return http.StatusConflict
	case ledger.IsExecutionRejected(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrCorruptedState):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
