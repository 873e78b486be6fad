package proposal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/signer"
)

const proposalsKey = "proposals"

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrAccountNotFound  = errors.New("account not found")
)

// Decision is a co-signer's verdict on a proposal. Built through the
// Approved and Denied constructors so a decision is always one of the
// two.
type Decision struct {
	approved  bool
	signature []byte
}

func Approved(signature []byte) Decision {
	return Decision{approved: true, signature: signature}
}

func Denied() Decision {
	return Decision{}
}

// ProposalRepo is the durable log of transfer proposals. Proposals are
// append-only: once created they are never removed and their signature
// slots never change shape.
type ProposalRepo interface {
	CreateProposal(action types.TransferAction) (*types.Proposal, error)
	GetProposal(id int) (*types.Proposal, error)
	GetProposals() ([]types.Proposal, error)
	RecordDecision(id int, pubKey string, decision Decision) (*types.Proposal, error)
}

type BaseProposalRepo struct {
	sync.Mutex
	state    state.State
	registry keystore.Registry
}

func NewProposalRepo(stg state.State, registry keystore.Registry) *BaseProposalRepo {
	return &BaseProposalRepo{
		state:    stg,
		registry: registry,
	}
}

// CreateProposal appends a proposal whose signature slots snapshot the
// current registry accounts in slot order. Accounts registered later do
// not get a slot on proposals that already exist.
func (r *BaseProposalRepo) CreateProposal(action types.TransferAction) (*types.Proposal, error) {
	r.Lock()
	defer r.Unlock()

	accounts, err := r.registry.GetAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	proposals, err := r.loadProposals()
	if err != nil {
		return nil, err
	}

	signatures := make([]types.Signature, 0, len(accounts))
	for _, account := range accounts {
		signatures = append(signatures, types.Signature{PubKey: account.PubKey})
	}

	p := types.Proposal{
		ID:         len(proposals),
		Action:     action,
		Message:    signer.ComputeTransferHash(action.Amount, action.Recipient, action.Nonce),
		Signatures: signatures,
	}

	proposals = append(proposals, p)
	if err := r.saveProposals(proposals); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *BaseProposalRepo) GetProposal(id int) (*types.Proposal, error) {
	r.Lock()
	defer r.Unlock()

	proposals, err := r.loadProposals()
	if err != nil {
		return nil, err
	}

	if id < 0 || id >= len(proposals) {
		return nil, fmt.Errorf("%w: id %d", ErrProposalNotFound, id)
	}
	return &proposals[id], nil
}

func (r *BaseProposalRepo) GetProposals() ([]types.Proposal, error) {
	r.Lock()
	defer r.Unlock()

	return r.loadProposals()
}

// RecordDecision stores a co-signer's verdict in its proposal slot.
// Re-deciding overwrites the slot, so an approval after a denial clears
// the denial and vice versa.
func (r *BaseProposalRepo) RecordDecision(id int, pubKey string, decision Decision) (*types.Proposal, error) {
	r.Lock()
	defer r.Unlock()

	proposals, err := r.loadProposals()
	if err != nil {
		return nil, err
	}

	if id < 0 || id >= len(proposals) {
		return nil, fmt.Errorf("%w: id %d", ErrProposalNotFound, id)
	}

	p := &proposals[id]
	slot, err := p.SignatureByPubKey(pubKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountNotFound, err)
	}

	if decision.approved {
		slot.Signature = decision.signature
		slot.Denied = false
	} else {
		slot.Signature = nil
		slot.Denied = true
	}

	if err := r.saveProposals(proposals); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *BaseProposalRepo) loadProposals() ([]types.Proposal, error) {
	bz, err := r.state.Get(proposalsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read proposals: %w", err)
	}
	if bz == nil {
		return nil, nil
	}

	var proposals []types.Proposal
	if err := json.Unmarshal(bz, &proposals); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal proposals: %v", types.ErrCorruptedState, err)
	}
	return proposals, nil
}

func (r *BaseProposalRepo) saveProposals(proposals []types.Proposal) error {
	bz, err := json.Marshal(proposals)
	if err != nil {
		return fmt.Errorf("failed to marshal proposals: %w", err)
	}
	if err := r.state.Set(proposalsKey, bz); err != nil {
		return fmt.Errorf("failed to save proposals: %w", err)
	}
	return nil
}
