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

func (a *HTTPApp) CreateProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalCreateForm{}
	formDTO := &ProposalCreateDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	p, err := a.coordinator.CreateProposal(formDTO)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to create proposal: %v", err),
		)
	}

	return stx.Json(http.StatusOK, p)
}

func (a *HTTPApp) GetProposals(c echo.Context) error {
	stx := c.(*cs.ContextService)

	proposals, err := a.coordinator.GetProposals()
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to get proposals: %v", err),
		)
	}

	return stx.Json(http.StatusOK, proposals)
}

func (a *HTTPApp) GetProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalIdForm{}
	formDTO := &ProposalIdDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	p, err := a.coordinator.GetProposal(formDTO)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to get proposal: %v", err),
		)
	}

	return stx.Json(http.StatusOK, p)
}

func (a *HTTPApp) ApproveProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.DecisionForm{}
	formDTO := &DecisionDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	p, err := a.coordinator.Approve(formDTO)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to approve proposal: %v", err),
		)
	}

	return stx.Json(http.StatusOK, p)
}

func (a *HTTPApp) DenyProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.DecisionForm{}
	formDTO := &DecisionDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	p, err := a.coordinator.Deny(formDTO)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to deny proposal: %v", err),
		)
	}

	return stx.Json(http.StatusOK, p)
}

func (a *HTTPApp) ExecuteProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalIdForm{}
	formDTO := &ProposalIdDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	receipt, err := a.coordinator.Execute(stx.Request().Context(), formDTO)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to execute proposal: %v", err),
		)
	}

	return stx.Json(http.StatusOK, responses.ExecuteResponse{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		Status:      receipt.Status,
	})
}
