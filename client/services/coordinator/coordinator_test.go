package coordinator_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/sandcastle-labs/sandcastle/client/api/dto"
	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/repositories/proposal"
	"github.com/sandcastle-labs/sandcastle/client/services/coordinator"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/journal"
	"github.com/sandcastle-labs/sandcastle/ledger"
	"github.com/sandcastle-labs/sandcastle/mocks/ledgerMocks"
	"github.com/sandcastle-labs/sandcastle/signer"
)

const (
	testMultisigAddr = ledger.Address("0xmultisig")
	testTokenAddr    = ledger.Address("0xtoken")
)

type testEnv struct {
	coordinator  *coordinator.BaseCoordinatorService
	registry     keystore.Registry
	ledgerClient *ledgerMocks.MockClient
}

func newTestEnv(t *testing.T, dbPath string, threshold int) *testEnv {
	stg, err := state.NewLevelDBState(dbPath)
	require.NoError(t, err)

	log := logger.NewLogger("test")

	registry, err := keystore.NewRegistry(stg, log)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	ledgerClient := ledgerMocks.NewMockClient(ctrl)

	ledgerClient.EXPECT().DeployAccount(gomock.Any(), gomock.Any()).Return(
		&ledger.DeployAccountResponse{Address: testMultisigAddr, DeploymentKey: "0xdeploykey"}, nil,
	).AnyTimes()
	ledgerClient.EXPECT().DeployToken(gomock.Any(), gomock.Any()).Return(testTokenAddr, nil).AnyTimes()

	walletService := wallet.NewWalletService(stg, registry, ledgerClient, log)
	proposalRepo := proposal.NewProposalRepo(stg, registry)

	return &testEnv{
		coordinator: coordinator.NewCoordinatorService(
			proposalRepo, registry, walletService, ledgerClient, journal.NewNopJournal(), log, threshold,
		),
		registry:     registry,
		ledgerClient: ledgerClient,
	}
}

func (e *testEnv) accounts(t *testing.T) []types.Account {
	accounts, err := e.registry.GetAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	return accounts
}

func TestCoordinator_SingleApprovalRejectedThenRetrySucceeds(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_coordinator_retry"
		ctx    = context.Background()
	)
	defer os.RemoveAll(dbPath)

	env := newTestEnv(t, dbPath, 0)
	accounts := env.accounts(t)

	p, err := env.coordinator.CreateProposal(&dto.ProposalCreateDTO{Amount: 100, Recipient: "0xrecipient", Nonce: 0})
	req.NoError(err)

	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[0].Name})
	req.NoError(err)

	// One signature does not satisfy the contract's 2-of-3 policy.
	env.ledgerClient.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any()).Return(
		nil, &ledger.ExecutionRejectedError{Reason: "not enough signatures"},
	)

	_, err = env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.Error(err)
	req.True(ledger.IsExecutionRejected(err))

	// The proposal survives the rejection with its approval intact.
	got, err := env.coordinator.GetProposal(&dto.ProposalIdDTO{ProposalID: p.ID})
	req.NoError(err)
	req.Equal(1, got.ApprovalsCount())
	req.Equal(coordinator.StateOpen, env.coordinator.LifecycleState(p.ID))

	// A second approval makes the retry succeed.
	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[2].Name})
	req.NoError(err)

	env.ledgerClient.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any()).Return(
		&ledger.Receipt{TxHash: "0xtx", Status: "mined"}, nil,
	)

	receipt, err := env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.NoError(err)
	req.Equal("0xtx", receipt.TxHash)
	req.Equal(coordinator.StateExecuted, env.coordinator.LifecycleState(p.ID))

	// An executed proposal cannot run again.
	_, err = env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.ErrorIs(err, coordinator.ErrAlreadyExecuted)
}

func TestCoordinator_DeniedSlotExcludedFromWitness(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_coordinator_denied"
		ctx    = context.Background()
	)
	defer os.RemoveAll(dbPath)

	env := newTestEnv(t, dbPath, 0)
	accounts := env.accounts(t)

	p, err := env.coordinator.CreateProposal(&dto.ProposalCreateDTO{Amount: 50, Recipient: "0xrecipient", Nonce: 1})
	req.NoError(err)

	// Approvals land out of slot order, Bob denies in between.
	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[2].Name})
	req.NoError(err)
	_, err = env.coordinator.Deny(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[1].Name})
	req.NoError(err)
	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[0].Name})
	req.NoError(err)

	env.ledgerClient.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, call ledger.TransferCall) (*ledger.Receipt, error) {
			req.Equal(testTokenAddr, call.Token)
			req.Equal(testMultisigAddr, call.From)
			req.Equal(p.Message, call.Message)

			// Alice's then Charles's signature, Bob's slot skipped.
			req.Len(call.Witness, 2*signer.SignatureSize)
			req.NoError(signer.Verify(accounts[0].PubKey, call.Message, call.Witness[:signer.SignatureSize]))
			req.NoError(signer.Verify(accounts[2].PubKey, call.Message, call.Witness[signer.SignatureSize:]))

			return &ledger.Receipt{TxHash: "0xtx2", Status: "mined"}, nil
		},
	)

	_, err = env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.NoError(err)
}

func TestCoordinator_ConcurrentExecuteFailsFast(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_coordinator_concurrent"
		ctx    = context.Background()
	)
	defer os.RemoveAll(dbPath)

	env := newTestEnv(t, dbPath, 0)
	accounts := env.accounts(t)

	p, err := env.coordinator.CreateProposal(&dto.ProposalCreateDTO{Amount: 10, Recipient: "0xrecipient", Nonce: 2})
	req.NoError(err)
	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[0].Name})
	req.NoError(err)

	started := make(chan struct{})
	release := make(chan struct{})

	env.ledgerClient.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ ledger.TransferCall) (*ledger.Receipt, error) {
			close(started)
			<-release
			return &ledger.Receipt{TxHash: "0xtx3", Status: "mined"}, nil
		},
	)

	done := make(chan error, 1)
	go func() {
		_, execErr := env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
		done <- execErr
	}()

	<-started
	_, err = env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.ErrorIs(err, coordinator.ErrExecutionInFlight)

	close(release)
	req.NoError(<-done)
}

func TestCoordinator_ThresholdGate(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_coordinator_threshold"
		ctx    = context.Background()
	)
	defer os.RemoveAll(dbPath)

	env := newTestEnv(t, dbPath, 2)
	accounts := env.accounts(t)

	p, err := env.coordinator.CreateProposal(&dto.ProposalCreateDTO{Amount: 10, Recipient: "0xrecipient", Nonce: 3})
	req.NoError(err)

	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[0].Name})
	req.NoError(err)

	_, err = env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.ErrorIs(err, coordinator.ErrThresholdNotMet)

	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: p.ID, Account: accounts[1].Name})
	req.NoError(err)

	env.ledgerClient.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any()).Return(
		&ledger.Receipt{TxHash: "0xtx4", Status: "mined"}, nil,
	)

	_, err = env.coordinator.Execute(ctx, &dto.ProposalIdDTO{ProposalID: p.ID})
	req.NoError(err)
}

func TestCoordinator_UnknownAccountAndProposal(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_coordinator_errors"
	)
	defer os.RemoveAll(dbPath)

	env := newTestEnv(t, dbPath, 0)
	accounts := env.accounts(t)

	_, err := env.coordinator.Approve(&dto.DecisionDTO{ProposalID: 0, Account: "Mallory"})
	req.ErrorIs(err, proposal.ErrAccountNotFound)

	_, err = env.coordinator.Approve(&dto.DecisionDTO{ProposalID: 99, Account: accounts[0].Name})
	req.ErrorIs(err, proposal.ErrProposalNotFound)

	_, err = env.coordinator.Execute(context.Background(), &dto.ProposalIdDTO{ProposalID: 99})
	req.ErrorIs(err, proposal.ErrProposalNotFound)
}
