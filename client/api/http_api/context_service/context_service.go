package context_service

import (
	"fmt"
	"net/http"

	"github.com/censync/go-dto"
	"github.com/censync/go-validator"
	"github.com/labstack/echo/v4"
)

// ContextService wraps the echo context with the API's response
// envelope: every reply is {"result": ...} with an optional
// "error_message".
type ContextService struct {
	echo.Context
}

func New(c echo.Context) *ContextService {
	return &ContextService{c}
}

type CSJsonResp struct {
	Result interface{} `json:"result"`
}

type CSErrorResp struct {
	Result       interface{} `json:"result"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

func (e *CSErrorResp) Error() string {
	if e == nil {
		return ""
	}
	return e.ErrorMessage
}

// BindToRequest populates the request form from path, query and body
// parameters and validates it.
func (cs *ContextService) BindToRequest(request interface{}) error {
	if err := cs.Bind(request); err != nil {
		return cs.JsonError(http.StatusBadRequest, fmt.Errorf("failed to read request body: %v", err))
	}
	if err := validator.Validate(request); !err.IsEmpty() {
		return cs.JsonError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// BindToDTO binds the request form and converts it to a DTO for the
// service layer.
func (cs *ContextService) BindToDTO(requestForm, dtoForm interface{}) error {
	if err := cs.BindToRequest(requestForm); err != nil {
		return err
	}
	if err := dto.RequestToDTO(dtoForm, requestForm); err != nil {
		return cs.JsonError(http.StatusBadRequest, err)
	}
	return nil
}

func (cs *ContextService) Json(code int, data interface{}) error {
	if data == nil {
		data = struct{}{}
	}
	return cs.JSON(code, &CSJsonResp{
		Result: data,
	})
}

func (cs *ContextService) JsonError(code int, err error) error {
	message := "undefined error"
	if err != nil {
		message = err.Error()
	}
	return cs.JSON(code, &CSErrorResp{
		Result:       struct{}{},
		ErrorMessage: message,
	})
}
