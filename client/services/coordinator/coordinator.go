// Package coordinator drives the proposal workflow: collecting
// decisions from co-signer accounts and pushing fully authorized
// transfers over the ledger boundary.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandcastle-labs/sandcastle/client/api/dto"
	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/repositories/proposal"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/fsm"
	"github.com/sandcastle-labs/sandcastle/journal"
	"github.com/sandcastle-labs/sandcastle/ledger"
	"github.com/sandcastle-labs/sandcastle/signer"
	"github.com/sandcastle-labs/sandcastle/witness"
)

var (
	ErrExecutionInFlight = errors.New("proposal execution already in flight")
	ErrAlreadyExecuted   = errors.New("proposal already executed")
	ErrThresholdNotMet   = errors.New("approval threshold not met")
)

// Proposal lifecycle. A failed execution returns the proposal to open,
// so it can collect more decisions and be retried.
const (
	StateOpen      = fsm.State("state_proposal_open")
	StateExecuting = fsm.State("state_proposal_executing")
	StateExecuted  = fsm.State("state_proposal_executed")

	EventExecuteStart   = fsm.Event("event_execute_start")
	EventExecuteSuccess = fsm.Event("event_execute_success")
	EventExecuteFail    = fsm.Event("event_execute_fail")
)

func newLifecycleFSM(proposalID int) *fsm.FSM {
	return fsm.MustNewFSM(
		fmt.Sprintf("proposal_%d_lifecycle", proposalID),
		StateOpen,
		[]fsm.EventDesc{
			{Name: EventExecuteStart, SrcState: []fsm.State{StateOpen}, DstState: StateExecuting},
			{Name: EventExecuteSuccess, SrcState: []fsm.State{StateExecuting}, DstState: StateExecuted},
			{Name: EventExecuteFail, SrcState: []fsm.State{StateExecuting}, DstState: StateOpen},
		},
	)
}

type CoordinatorService interface {
	CreateProposal(dtoMsg *dto.ProposalCreateDTO) (*types.Proposal, error)
	GetProposals() ([]types.Proposal, error)
	GetProposal(dtoMsg *dto.ProposalIdDTO) (*types.Proposal, error)
	Approve(dtoMsg *dto.DecisionDTO) (*types.Proposal, error)
	Deny(dtoMsg *dto.DecisionDTO) (*types.Proposal, error)
	Execute(ctx context.Context, dtoMsg *dto.ProposalIdDTO) (*ledger.Receipt, error)
	LifecycleState(proposalID int) fsm.State
}

type BaseCoordinatorService struct {
	proposalRepo proposal.ProposalRepo
	registry     keystore.Registry
	wallet       wallet.WalletService
	ledgerClient ledger.Client
	auditJournal journal.Journal
	logger       logger.Logger

	// threshold is the minimum approvals required before submitting.
	// Zero delegates the whole policy to the remote contract.
	threshold int

	machinesMu sync.Mutex
	machines   map[int]*fsm.FSM
}

func NewCoordinatorService(
	proposalRepo proposal.ProposalRepo,
	registry keystore.Registry,
	walletService wallet.WalletService,
	ledgerClient ledger.Client,
	auditJournal journal.Journal,
	log logger.Logger,
	threshold int,
) *BaseCoordinatorService {
	return &BaseCoordinatorService{
		proposalRepo: proposalRepo,
		registry:     registry,
		wallet:       walletService,
		ledgerClient: ledgerClient,
		auditJournal: auditJournal,
		logger:       log,
		threshold:    threshold,
		machines:     make(map[int]*fsm.FSM),
	}
}

func (s *BaseCoordinatorService) CreateProposal(dtoMsg *dto.ProposalCreateDTO) (*types.Proposal, error) {
	p, err := s.proposalRepo.CreateProposal(types.TransferAction{
		Amount:    dtoMsg.Amount,
		Recipient: dtoMsg.Recipient,
		Nonce:     dtoMsg.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.audit(journal.Entry{
		Kind:       journal.KindProposalCreated,
		ProposalID: p.ID,
		Details:    fmt.Sprintf("transfer %d to %s", dtoMsg.Amount, dtoMsg.Recipient),
	})
	s.logger.Log("Created proposal %d: transfer %d to %s", p.ID, dtoMsg.Amount, dtoMsg.Recipient)

	return p, nil
}

func (s *BaseCoordinatorService) GetProposals() ([]types.Proposal, error) {
	return s.proposalRepo.GetProposals()
}

func (s *BaseCoordinatorService) GetProposal(dtoMsg *dto.ProposalIdDTO) (*types.Proposal, error) {
	return s.proposalRepo.GetProposal(dtoMsg.ProposalID)
}

// Approve signs the proposal's canonical message with the account's key
// and records the signature in the account's slot. Approving twice
// overwrites the slot; approving after a denial clears the denial.
func (s *BaseCoordinatorService) Approve(dtoMsg *dto.DecisionDTO) (*types.Proposal, error) {
	account, err := s.resolveAccount(dtoMsg.Account)
	if err != nil {
		return nil, err
	}

	p, err := s.proposalRepo.GetProposal(dtoMsg.ProposalID)
	if err != nil {
		return nil, err
	}

	signature, err := signer.Sign(account.PrivKey, p.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign proposal %d message: %w", p.ID, err)
	}

	updated, err := s.proposalRepo.RecordDecision(p.ID, account.PubKey, proposal.Approved(signature))
	if err != nil {
		return nil, err
	}

	s.audit(journal.Entry{Kind: journal.KindApproved, ProposalID: p.ID, Actor: account.Name})
	s.logger.Log("%s approved proposal %d (%d approvals)", account.Name, p.ID, updated.ApprovalsCount())

	return updated, nil
}

// Deny marks the account's slot as denied without signing anything.
func (s *BaseCoordinatorService) Deny(dtoMsg *dto.DecisionDTO) (*types.Proposal, error) {
	account, err := s.resolveAccount(dtoMsg.Account)
	if err != nil {
		return nil, err
	}

	updated, err := s.proposalRepo.RecordDecision(dtoMsg.ProposalID, account.PubKey, proposal.Denied())
	if err != nil {
		return nil, err
	}

	s.audit(journal.Entry{Kind: journal.KindDenied, ProposalID: dtoMsg.ProposalID, Actor: account.Name})
	s.logger.Log("%s denied proposal %d", account.Name, dtoMsg.ProposalID)

	return updated, nil
}

// Execute assembles the authorization witness from the collected
// signatures and submits the transfer. Proposal data is never mutated
// here: a rejected execution leaves every decision in place, so the
// proposal can gather more approvals and retry.
func (s *BaseCoordinatorService) Execute(ctx context.Context, dtoMsg *dto.ProposalIdDTO) (*ledger.Receipt, error) {
	p, err := s.proposalRepo.GetProposal(dtoMsg.ProposalID)
	if err != nil {
		return nil, err
	}

	if s.threshold > 0 && p.ApprovalsCount() < s.threshold {
		return nil, fmt.Errorf("proposal %d has %d of %d required approvals: %w",
			p.ID, p.ApprovalsCount(), s.threshold, ErrThresholdNotMet)
	}

	machine := s.machine(p.ID)
	if _, err = machine.Do(EventExecuteStart); err != nil {
		switch machine.State() {
		case StateExecuting:
			return nil, fmt.Errorf("proposal %d: %w", p.ID, ErrExecutionInFlight)
		case StateExecuted:
			return nil, fmt.Errorf("proposal %d: %w", p.ID, ErrAlreadyExecuted)
		default:
			return nil, fmt.Errorf("proposal %d lifecycle: %w", p.ID, err)
		}
	}

	receipt, err := s.submit(ctx, p)
	if err != nil {
		if _, fsmErr := machine.Do(EventExecuteFail); fsmErr != nil {
			s.logger.Log("Failed to roll back proposal %d lifecycle: %v", p.ID, fsmErr)
		}
		s.audit(journal.Entry{
			Kind:       journal.KindExecutionFailed,
			ProposalID: p.ID,
			Details:    err.Error(),
		})
		s.logger.Log("Execution of proposal %d failed: %v", p.ID, err)
		return nil, err
	}

	if _, fsmErr := machine.Do(EventExecuteSuccess); fsmErr != nil {
		s.logger.Log("Failed to finalize proposal %d lifecycle: %v", p.ID, fsmErr)
	}
	s.audit(journal.Entry{
		Kind:       journal.KindExecuted,
		ProposalID: p.ID,
		Details:    receipt.TxHash,
	})
	s.logger.Log("Executed proposal %d in tx %s", p.ID, receipt.TxHash)

	return receipt, nil
}

func (s *BaseCoordinatorService) submit(ctx context.Context, p *types.Proposal) (*ledger.Receipt, error) {
	w, err := witness.NewCollectedProvider(p).ProduceWitness(p.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to produce witness: %w", err)
	}

	token, err := s.wallet.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	multisig, err := s.wallet.EnsureMultisig(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := s.ledgerClient.SubmitTransfer(ctx, ledger.TransferCall{
		Token:     token,
		From:      multisig,
		Recipient: ledger.Address(p.Action.Recipient),
		Amount:    p.Action.Amount,
		Nonce:     p.Action.Nonce,
		Message:   p.Message,
		Witness:   w.Payload,
	})
	if err != nil {
		if ledger.IsExecutionRejected(err) {
			return nil, fmt.Errorf("proposal %d: %w", p.ID, err)
		}
		return nil, fmt.Errorf("failed to submit transfer for proposal %d: %w", p.ID, err)
	}

	return receipt, nil
}

// LifecycleState reports the in-memory execution state of a proposal.
// Proposals without a machine yet are open by definition.
func (s *BaseCoordinatorService) LifecycleState(proposalID int) fsm.State {
	s.machinesMu.Lock()
	defer s.machinesMu.Unlock()

	machine, ok := s.machines[proposalID]
	if !ok {
		return StateOpen
	}
	return machine.State()
}

func (s *BaseCoordinatorService) machine(proposalID int) *fsm.FSM {
	s.machinesMu.Lock()
	defer s.machinesMu.Unlock()

	machine, ok := s.machines[proposalID]
	if !ok {
		machine = newLifecycleFSM(proposalID)
		s.machines[proposalID] = machine
	}
	return machine
}

// resolveAccount accepts either an account name or a pubkey, so both the
// CLI ("approve as Alice") and API clients holding keys can decide.
func (s *BaseCoordinatorService) resolveAccount(nameOrPubKey string) (*types.Account, error) {
	accounts, err := s.registry.GetAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	for i := range accounts {
		if accounts[i].Name == nameOrPubKey || accounts[i].PubKey == nameOrPubKey {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: unknown account %q", proposal.ErrAccountNotFound, nameOrPubKey)
}

func (s *BaseCoordinatorService) audit(e journal.Entry) {
	if err := s.auditJournal.Append(e); err != nil {
		s.logger.Log("Failed to append journal entry: %v", err)
	}
}
