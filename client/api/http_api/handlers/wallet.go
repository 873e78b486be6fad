package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/sandcastle-labs/sandcastle/client/api/dto"
	cs "github.com/sandcastle-labs/sandcastle/client/api/http_api/context_service"
	req "github.com/sandcastle-labs/sandcastle/client/api/http_api/requests"
	"github.com/sandcastle-labs/sandcastle/client/api/http_api/responses"
	"github.com/sandcastle-labs/sandcastle/ledger"
)

// GetMultisig deploys the multisig account on first call and returns
// its address.
func (a *HTTPApp) GetMultisig(c echo.Context) error {
	stx := c.(*cs.ContextService)

	address, err := a.wallet.EnsureMultisig(stx.Request().Context())
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to ensure multisig: %v", err),
		)
	}

	return stx.Json(http.StatusOK, responses.MultisigResponse{Address: address.String()})
}

func (a *HTTPApp) Mint(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.MintForm{}
	formDTO := &MintDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	receipt, err := a.wallet.MintShielded(stx.Request().Context(), formDTO.Amount)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to mint: %v", err),
		)
	}

	return stx.Json(http.StatusOK, responses.ExecuteResponse{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		Status:      receipt.Status,
	})
}

func (a *HTTPApp) GetBalance(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.BalanceForm{}
	formDTO := &BalanceDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	balance, err := a.wallet.GetBalance(stx.Request().Context(), ledger.Address(formDTO.Owner))
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to get balance: %v", err),
		)
	}

	return stx.Json(http.StatusOK, responses.BalanceResponse{
		Owner:   formDTO.Owner,
		Balance: balance,
	})
}
