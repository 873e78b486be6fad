package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/sandcastle-labs/sandcastle/client/api/dto"
	cs "github.com/sandcastle-labs/sandcastle/client/api/http_api/context_service"
	req "github.com/sandcastle-labs/sandcastle/client/api/http_api/requests"
	"github.com/sandcastle-labs/sandcastle/client/api/http_api/responses"
)

func (a *HTTPApp) GetAccounts(c echo.Context) error {
	stx := c.(*cs.ContextService)

	accounts, err := a.registry.GetAccounts()
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to get accounts: %v", err),
		)
	}

	result := make([]responses.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, responses.AccountResponse{
			Name:   account.Name,
			PubKey: account.PubKey,
		})
	}

	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) CreateAccount(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.AccountCreateForm{}
	formDTO := &AccountCreateDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	account, err := a.registry.CreateAccount(formDTO.Name)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to create account: %v", err),
		)
	}

	return stx.Json(http.StatusOK, responses.AccountResponse{
		Name:   account.Name,
		PubKey: account.PubKey,
	})
}
