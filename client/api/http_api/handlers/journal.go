package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	cs "github.com/sandcastle-labs/sandcastle/client/api/http_api/context_service"
	req "github.com/sandcastle-labs/sandcastle/client/api/http_api/requests"
)

func (a *HTTPApp) GetJournal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.JournalOffsetForm{}
	if err := stx.BindToRequest(request); err != nil {
		return err
	}

	entries, err := a.auditJournal.Entries(request.Offset)
	if err != nil {
		return stx.JsonError(
			statusForError(err),
			fmt.Errorf("failed to get journal entries: %v", err),
		)
	}

	return stx.Json(http.StatusOK, entries)
}
