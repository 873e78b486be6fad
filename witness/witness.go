// Package witness builds the combined authorization payload that proves
// co-signer consent for a proposed action.
package witness

import (
	"fmt"

	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/signer"
)

// Witness is the assembled authorization for a single message. It is
// derived state: rebuilt from the proposal's current signatures on every
// execution attempt and never persisted on its own.
type Witness struct {
	Message string
	Payload []byte
}

// Assemble concatenates the proposal's approved signatures in registry
// slot order. The remote contract verifies signatures against the fixed
// co-signer slots it was deployed with, so approval order must not leak
// into the payload. Denied slots are skipped even when they carry
// signature bytes. With no approvals the payload is empty and the remote
// boundary rejects it; no threshold is enforced here.
func Assemble(p *types.Proposal) *Witness {
	var payload []byte
	for i := range p.Signatures {
		slot := &p.Signatures[i]
		if slot.Denied || len(slot.Signature) == 0 {
			continue
		}
		payload = append(payload, slot.Signature...)
	}

	return &Witness{
		Message: p.Message,
		Payload: payload,
	}
}

// Provider produces an authorization witness for a message. The account
// contract variants (single key, hardcoded dev key, multi-party) are
// separate implementations selected at construction.
type Provider interface {
	ProduceWitness(message string) (*Witness, error)
}

// SingleKeyProvider authorizes with one Schnorr signature.
type SingleKeyProvider struct {
	privHex string
}

func NewSingleKeyProvider(privHex string) *SingleKeyProvider {
	return &SingleKeyProvider{privHex: privHex}
}

func (p *SingleKeyProvider) ProduceWitness(message string) (*Witness, error) {
	signature, err := signer.Sign(p.privHex, message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	return &Witness{
		Message: message,
		Payload: signature,
	}, nil
}

// devKeySeed seeds the fixed key pair used by the hardcoded-key account
// contract. Useful only against a local sandbox.
const devKeySeed = "sandcastle hardcoded dev key"

// NewHardcodedKeyProvider returns a provider signing with the well-known
// development key.
func NewHardcodedKeyProvider() *SingleKeyProvider {
	return &SingleKeyProvider{privHex: DevKeyPair().PrivHex()}
}

func DevKeyPair() *signer.KeyPair {
	return signer.NewKeyPairFromSeed([]byte(devKeySeed))
}

// CollectedProvider authorizes with the signatures already collected on
// a proposal. It refuses to produce a witness for any other message.
type CollectedProvider struct {
	proposal *types.Proposal
}

func NewCollectedProvider(proposal *types.Proposal) *CollectedProvider {
	return &CollectedProvider{proposal: proposal}
}

func (p *CollectedProvider) ProduceWitness(message string) (*Witness, error) {
	if message != p.proposal.Message {
		return nil, fmt.Errorf(
			"message %s does not match proposal %d message %s",
			message, p.proposal.ID, p.proposal.Message,
		)
	}
	return Assemble(p.proposal), nil
}
