package proposal_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/repositories/proposal"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/signer"
)

func testRepo(t *testing.T, dbPath string) (*proposal.BaseProposalRepo, keystore.Registry, state.State) {
	stg, err := state.NewLevelDBState(dbPath)
	require.NoError(t, err)

	registry, err := keystore.NewRegistry(stg, logger.NewLogger("test"))
	require.NoError(t, err)

	return proposal.NewProposalRepo(stg, registry), registry, stg
}

func TestProposalRepo_CreateAndRoundTrip(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_proposal_roundtrip"
	)
	defer os.RemoveAll(dbPath)

	repo, _, stg := testRepo(t, dbPath)

	action := types.TransferAction{Amount: 100, Recipient: "0xrecipient", Nonce: 0}
	created, err := repo.CreateProposal(action)
	req.NoError(err)
	req.Equal(0, created.ID)
	req.Equal(signer.ComputeTransferHash(100, "0xrecipient", 0), created.Message)
	req.Len(created.Signatures, 3)
	for _, slot := range created.Signatures {
		req.Equal(types.SignatureUndecided, slot.Status())
	}

	second, err := repo.CreateProposal(types.TransferAction{Amount: 7, Recipient: "0xother", Nonce: 1})
	req.NoError(err)
	req.Equal(1, second.ID)

	// A fresh repo over the same storage must see identical proposals.
	registry, err := keystore.NewRegistry(stg, logger.NewLogger("test"))
	req.NoError(err)
	reloaded := proposal.NewProposalRepo(stg, registry)

	proposals, err := reloaded.GetProposals()
	req.NoError(err)
	req.Len(proposals, 2)
	if diff := cmp.Diff(*created, proposals[0]); diff != "" {
		t.Fatalf("proposal mismatch after reload (-want +got):\n%s", diff)
	}
}

func TestProposalRepo_SlotsSnapshotRegistry(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_proposal_snapshot"
	)
	defer os.RemoveAll(dbPath)

	repo, registry, _ := testRepo(t, dbPath)

	before, err := repo.CreateProposal(types.TransferAction{Amount: 1, Recipient: "0xr", Nonce: 0})
	req.NoError(err)
	req.Len(before.Signatures, 3)

	_, err = registry.CreateAccount("Dave")
	req.NoError(err)

	// The existing proposal keeps its three slots.
	got, err := repo.GetProposal(before.ID)
	req.NoError(err)
	req.Len(got.Signatures, 3)

	// A new proposal picks up the fourth account.
	after, err := repo.CreateProposal(types.TransferAction{Amount: 2, Recipient: "0xr", Nonce: 1})
	req.NoError(err)
	req.Len(after.Signatures, 4)
}

func TestProposalRepo_RecordDecision(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_proposal_decision"
	)
	defer os.RemoveAll(dbPath)

	repo, registry, _ := testRepo(t, dbPath)

	created, err := repo.CreateProposal(types.TransferAction{Amount: 1, Recipient: "0xr", Nonce: 0})
	req.NoError(err)

	accounts, err := registry.GetAccounts()
	req.NoError(err)
	alice := accounts[0]

	firstSig, err := signer.Sign(alice.PrivKey, created.Message)
	req.NoError(err)

	updated, err := repo.RecordDecision(created.ID, alice.PubKey, proposal.Approved(firstSig))
	req.NoError(err)
	req.Equal(types.SignatureApproved, updated.Signatures[0].Status())
	req.Equal(firstSig, updated.Signatures[0].Signature)

	// Re-approving overwrites the slot instead of appending.
	secondSig, err := signer.Sign(alice.PrivKey, created.Message)
	req.NoError(err)

	updated, err = repo.RecordDecision(created.ID, alice.PubKey, proposal.Approved(secondSig))
	req.NoError(err)
	req.Equal(secondSig, updated.Signatures[0].Signature)
	req.Equal(1, updated.ApprovalsCount())

	// A denial replaces the approval, and a later approval clears it.
	updated, err = repo.RecordDecision(created.ID, alice.PubKey, proposal.Denied())
	req.NoError(err)
	req.Equal(types.SignatureDenied, updated.Signatures[0].Status())
	req.Equal(0, updated.ApprovalsCount())

	updated, err = repo.RecordDecision(created.ID, alice.PubKey, proposal.Approved(firstSig))
	req.NoError(err)
	req.Equal(types.SignatureApproved, updated.Signatures[0].Status())
}

func TestProposalRepo_Errors(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_proposal_errors"
	)
	defer os.RemoveAll(dbPath)

	repo, _, stg := testRepo(t, dbPath)

	_, err := repo.GetProposal(42)
	req.ErrorIs(err, proposal.ErrProposalNotFound)

	created, err := repo.CreateProposal(types.TransferAction{Amount: 1, Recipient: "0xr", Nonce: 0})
	req.NoError(err)

	_, err = repo.RecordDecision(created.ID, "0xstranger", proposal.Approved([]byte("sig")))
	req.ErrorIs(err, proposal.ErrAccountNotFound)

	_, err = repo.RecordDecision(42, created.Signatures[0].PubKey, proposal.Approved([]byte("sig")))
	req.ErrorIs(err, proposal.ErrProposalNotFound)

	req.NoError(stg.Set("proposals", []byte(`not json`)))
	_, err = repo.GetProposals()
	req.ErrorIs(err, types.ErrCorruptedState)
}
