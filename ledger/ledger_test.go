package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandcastle-labs/sandcastle/ledger"
)

func envelope(result interface{}) []byte {
	bz, _ := json.Marshal(map[string]interface{}{"result": result})
	return bz
}

func TestHTTPClient_GetNodeInfo(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/node-info", r.URL.Path)
		w.Write(envelope(ledger.NodeInfo{NodeVersion: "0.1.0", ChainID: 31337}))
	}))
	defer server.Close()

	client := ledger.NewHTTPClient(server.URL, time.Second)

	info, err := client.GetNodeInfo(context.Background())
	req.NoError(err)
	req.Equal("0.1.0", info.NodeVersion)
	req.Equal(31337, info.ChainID)
}

func TestHTTPClient_SubmitTransferRejected(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/transfers", r.URL.Path)

		var call ledger.TransferCall
		req.NoError(json.NewDecoder(r.Body).Decode(&call))
		req.Equal(uint64(100), call.Amount)

		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"result": {}, "error_message": "assertion failed: not enough signatures"}`))
	}))
	defer server.Close()

	client := ledger.NewHTTPClient(server.URL, time.Second)

	_, err := client.SubmitTransfer(context.Background(), ledger.TransferCall{Amount: 100})
	req.Error(err)
	req.True(ledger.IsExecutionRejected(err))
	req.Contains(err.Error(), "not enough signatures")
}

func TestHTTPClient_ServerError(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"result": {}, "error_message": "boom"}`))
	}))
	defer server.Close()

	client := ledger.NewHTTPClient(server.URL, time.Second)

	_, err := client.ViewBalance(context.Background(), ledger.ViewBalanceRequest{Token: "0xtoken", Owner: "0xowner"})
	req.Error(err)
	req.False(ledger.IsExecutionRejected(err))
	req.Contains(err.Error(), "boom")
}

func TestHTTPClient_WaitReady(t *testing.T) {
	req := require.New(t)

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"result": {}, "error_message": "starting up"}`))
			return
		}
		w.Write(envelope(ledger.NodeInfo{NodeVersion: "0.1.0"}))
	}))
	defer server.Close()

	client := ledger.NewHTTPClient(server.URL, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req.NoError(client.WaitReady(ctx))
	req.GreaterOrEqual(calls, 3)
}

func TestHTTPClient_WaitReadyTimeout(t *testing.T) {
	req := require.New(t)

	client := ledger.NewHTTPClient("http://127.0.0.1:1", 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := client.WaitReady(ctx)
	req.Error(err)
}
