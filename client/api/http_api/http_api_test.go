package http_api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sandcastle-labs/sandcastle/client/api/http_api/responses"
	"github.com/sandcastle-labs/sandcastle/client/api/http_api/router"
	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/repositories/proposal"
	"github.com/sandcastle-labs/sandcastle/client/services/coordinator"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/journal"
	"github.com/sandcastle-labs/sandcastle/mocks/ledgerMocks"
)

func newTestServer(t *testing.T, dbPath string) *echo.Echo {
	stg, err := state.NewLevelDBState(dbPath)
	require.NoError(t, err)

	log := logger.NewLogger("test")

	registry, err := keystore.NewRegistry(stg, log)
	require.NoError(t, err)

	ledgerClient := ledgerMocks.NewMockClient(gomock.NewController(t))
	walletService := wallet.NewWalletService(stg, registry, ledgerClient, log)
	proposalRepo := proposal.NewProposalRepo(stg, registry)
	coordinatorService := coordinator.NewCoordinatorService(
		proposalRepo, registry, walletService, ledgerClient, journal.NewNopJournal(), log, 0,
	)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = customHTTPErrorHandler
	e.Use(contextServiceMiddleware)
	router.SetRouter(e, coordinatorService, walletService, registry, journal.NewNopJournal())

	return e
}

func doJSON(e *echo.Echo, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		bz, _ := json.Marshal(body)
		reader = bytes.NewReader(bz)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, target, reader)
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, request)
	return recorder
}

func TestHTTPApi_GetAccounts(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_api_accounts"
	)
	defer os.RemoveAll(dbPath)

	e := newTestServer(t, dbPath)

	recorder := doJSON(e, http.MethodGet, "/getAccounts", nil)
	req.Equal(http.StatusOK, recorder.Code)

	var response struct {
		Result []responses.AccountResponse `json:"result"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	req.Len(response.Result, 3)
	req.Equal("Alice", response.Result[0].Name)
	req.NotEmpty(response.Result[0].PubKey)

	// Private keys must never appear in API responses.
	req.NotContains(recorder.Body.String(), "privkey")
}

func TestHTTPApi_ProposalFlow(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_api_proposals"
	)
	defer os.RemoveAll(dbPath)

	e := newTestServer(t, dbPath)

	recorder := doJSON(e, http.MethodPost, "/createProposal", map[string]interface{}{
		"amount":    100,
		"recipient": "0xrecipient",
		"nonce":     0,
	})
	req.Equal(http.StatusOK, recorder.Code)

	var created struct {
		Result types.Proposal `json:"result"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &created))
	req.Len(created.Result.Signatures, 3)

	recorder = doJSON(e, http.MethodPost, "/approveProposal", map[string]interface{}{
		"proposal_id": created.Result.ID,
		"account":     "Alice",
	})
	req.Equal(http.StatusOK, recorder.Code)

	var approved struct {
		Result types.Proposal `json:"result"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &approved))
	req.Equal(1, approved.Result.ApprovalsCount())

	recorder = doJSON(e, http.MethodGet, "/getProposals", nil)
	req.Equal(http.StatusOK, recorder.Code)
}

func TestHTTPApi_Errors(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_api_errors"
	)
	defer os.RemoveAll(dbPath)

	e := newTestServer(t, dbPath)

	// Unknown proposal maps to 404 inside the error envelope.
	recorder := doJSON(e, http.MethodGet, "/getProposal?proposalID=42", nil)
	req.Equal(http.StatusNotFound, recorder.Code)
	req.Contains(recorder.Body.String(), "error_message")

	// Unknown account on a decision.
	recorder = doJSON(e, http.MethodPost, "/createProposal", map[string]interface{}{
		"amount":    10,
		"recipient": "0xrecipient",
		"nonce":     0,
	})
	req.Equal(http.StatusOK, recorder.Code)

	recorder = doJSON(e, http.MethodPost, "/approveProposal", map[string]interface{}{
		"proposal_id": 0,
		"account":     "Mallory",
	})
	req.Equal(http.StatusNotFound, recorder.Code)

	// Validation failure is a 400.
	recorder = doJSON(e, http.MethodPost, "/createProposal", map[string]interface{}{
		"amount":    0,
		"recipient": "0xrecipient",
	})
	req.Equal(http.StatusBadRequest, recorder.Code)
}
