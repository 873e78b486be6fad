// Package journal is the append-only audit trail of proposal lifecycle
// events. Every decision and execution attempt lands here, so an
// operator can reconstruct who authorized what after the fact.
package journal

import "time"

const (
	KindProposalCreated = "proposal_created"
	KindApproved        = "approved"
	KindDenied          = "denied"
	KindExecuted        = "executed"
	KindExecutionFailed = "execution_failed"
)

type Entry struct {
	ID         string    `json:"id"`
	Offset     uint64    `json:"offset"`
	Kind       string    `json:"kind"`
	ProposalID int       `json:"proposal_id"`
	Actor      string    `json:"actor"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Journal appends entries and reads them back from a given offset.
// Implementations assign ID and Offset on append.
type Journal interface {
	Append(entries ...Entry) error
	Entries(offset uint64) ([]Entry, error)
	Close() error
}

// NopJournal drops everything. Used when auditing is disabled.
type NopJournal struct{}

func NewNopJournal() *NopJournal {
	return &NopJournal{}
}

func (j *NopJournal) Append(_ ...Entry) error {
	return nil
}

func (j *NopJournal) Entries(_ uint64) ([]Entry, error) {
	return nil, nil
}

func (j *NopJournal) Close() error {
	return nil
}
