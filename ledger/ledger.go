// Package ledger is the node's only boundary to the remote ledger. All
// effects on chain state go through the Client interface; everything
// above it treats the ledger as opaque.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client executes remote ledger calls. Implementations must map a
// refusal to execute into *ExecutionRejectedError so callers can
// distinguish it from transport failures.
type Client interface {
	GetNodeInfo(ctx context.Context) (*NodeInfo, error)
	WaitReady(ctx context.Context) error
	DeployAccount(ctx context.Context, request DeployAccountRequest) (*DeployAccountResponse, error)
	DeployToken(ctx context.Context, request DeployTokenRequest) (Address, error)
	MintPrivate(ctx context.Context, request MintPrivateRequest) (*Receipt, error)
	RedeemShield(ctx context.Context, request RedeemShieldRequest) (*Receipt, error)
	SubmitTransfer(ctx context.Context, call TransferCall) (*Receipt, error)
	ViewBalance(ctx context.Context, request ViewBalanceRequest) (uint64, error)
}

const waitReadyInterval = time.Second

type rawResponse struct {
	Result       json.RawMessage `json:"result"`
	ErrorMessage string          `json:"error_message"`
}

// HTTPClient talks to a sandbox node over its JSON HTTP API. Responses
// arrive in a {result, error_message} envelope; a 422 status marks an
// execution rejection as opposed to a transport or node failure.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GetNodeInfo(ctx context.Context) (*NodeInfo, error) {
	var info NodeInfo
	if err := c.call(ctx, http.MethodGet, "/node-info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// WaitReady polls the node until it answers or the context expires. The
// sandbox takes a while to boot, so callers gate startup on this.
func (c *HTTPClient) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(waitReadyInterval)
	defer ticker.Stop()

	for {
		if _, err := c.GetNodeInfo(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("node did not become ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *HTTPClient) DeployAccount(ctx context.Context, request DeployAccountRequest) (*DeployAccountResponse, error) {
	var response DeployAccountResponse
	if err := c.call(ctx, http.MethodPost, "/accounts", request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *HTTPClient) DeployToken(ctx context.Context, request DeployTokenRequest) (Address, error) {
	var response struct {
		Address Address `json:"address"`
	}
	if err := c.call(ctx, http.MethodPost, "/tokens", request, &response); err != nil {
		return "", err
	}
	return response.Address, nil
}

func (c *HTTPClient) MintPrivate(ctx context.Context, request MintPrivateRequest) (*Receipt, error) {
	var receipt Receipt
	if err := c.call(ctx, http.MethodPost, "/tokens/mint-private", request, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *HTTPClient) RedeemShield(ctx context.Context, request RedeemShieldRequest) (*Receipt, error) {
	var receipt Receipt
	if err := c.call(ctx, http.MethodPost, "/tokens/redeem-shield", request, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *HTTPClient) SubmitTransfer(ctx context.Context, call TransferCall) (*Receipt, error) {
	var receipt Receipt
	if err := c.call(ctx, http.MethodPost, "/transfers", call, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *HTTPClient) ViewBalance(ctx context.Context, request ViewBalanceRequest) (uint64, error) {
	var response ViewBalanceResponse
	if err := c.call(ctx, http.MethodPost, "/balances", request, &response); err != nil {
		return 0, err
	}
	return response.Balance, nil
}

func (c *HTTPClient) call(ctx context.Context, method, path string, request, result interface{}) error {
	var body bytes.Buffer
	if request != nil {
		if err := json.NewEncoder(&body).Encode(request); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	var envelope rawResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &ExecutionRejectedError{Reason: envelope.ErrorMessage}
	}

	if resp.StatusCode != http.StatusOK || envelope.ErrorMessage != "" {
		return fmt.Errorf("ledger call %s failed: %s", path, envelope.ErrorMessage)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal result from %s: %w", path, err)
		}
	}

	return nil
}
