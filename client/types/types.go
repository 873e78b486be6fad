package types

import (
	"fmt"
)

// SignatureStatus is the decision state of a single co-signer slot on a
// proposal. Exactly one of the three states holds at any time.
type SignatureStatus uint8

const (
	SignatureUndecided SignatureStatus = iota
	SignatureApproved
	SignatureDenied
)

func (s SignatureStatus) String() string {
	var str = "undefined"
	switch s {
	case SignatureUndecided:
		str = "SignatureUndecided"
	case SignatureApproved:
		str = "SignatureApproved"
	case SignatureDenied:
		str = "SignatureDenied"
	}
	return str
}

// Account is a co-signer identity held by the local registry. Keys are
// hex-encoded edwards25519 scalar/point pairs and never leave the node.
type Account struct {
	Name    string `json:"name"`
	PrivKey string `json:"privkey"`
	PubKey  string `json:"pubkey"`
}

// TransferAction is the pending action a proposal asks the co-signers to
// authorize: move Amount tokens to Recipient under the account's Nonce.
type TransferAction struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
	Nonce     uint64 `json:"nonce"`
}

// Signature is one co-signer's decision slot on a proposal. A slot is
// created undecided, and only the owning account's approve or deny
// mutates it. Denial takes precedence over any signature bytes present.
type Signature struct {
	PubKey    string `json:"pubkey"`
	Signature []byte `json:"signature,omitempty"`
	Denied    bool   `json:"denied"`
}

func (s *Signature) Status() SignatureStatus {
	if s.Denied {
		return SignatureDenied
	}
	if len(s.Signature) > 0 {
		return SignatureApproved
	}
	return SignatureUndecided
}

// Proposal is a pending transfer awaiting multi-party sign-off. The
// signature slots are snapshotted from the registry at creation time;
// accounts added later do not appear on earlier proposals. Message is
// derived from Action once and never recomputed.
type Proposal struct {
	ID         int            `json:"id"`
	Action     TransferAction `json:"action"`
	Message    string         `json:"message"`
	Signatures []Signature    `json:"signatures"`
}

// SignatureByPubKey returns the decision slot owned by the given account,
// or an error when the account was not part of the proposal's snapshot.
func (p *Proposal) SignatureByPubKey(pubKey string) (*Signature, error) {
	for i := range p.Signatures {
		if p.Signatures[i].PubKey == pubKey {
			return &p.Signatures[i], nil
		}
	}
	return nil, fmt.Errorf("no signature slot for pubkey %s on proposal %d", pubKey, p.ID)
}

// ApprovalsCount returns the number of approved, non-denied slots.
func (p *Proposal) ApprovalsCount() int {
	var count int
	for i := range p.Signatures {
		if p.Signatures[i].Status() == SignatureApproved {
			count++
		}
	}
	return count
}
