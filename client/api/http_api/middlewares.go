package http_api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	cs "github.com/sandcastle-labs/sandcastle/client/api/http_api/context_service"
)

func contextServiceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return next(cs.New(ctx))
	}
}

// customHTTPErrorHandler keeps unhandled errors inside the response
// envelope instead of echo's default error body.
func customHTTPErrorHandler(err error, c echo.Context) {
	csError, ok := err.(*cs.CSErrorResp)
	if !ok {
		if he, isHTTPError := err.(*echo.HTTPError); isHTTPError {
			csError = &cs.CSErrorResp{
				Result:       struct{}{},
				ErrorMessage: fmt.Sprintf("%s", he.Message),
			}
		} else {
			csError = &cs.CSErrorResp{
				Result:       struct{}{},
				ErrorMessage: http.StatusText(http.StatusInternalServerError),
			}
		}
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(http.StatusInternalServerError)
		} else {
			_ = c.JSON(http.StatusInternalServerError, csError)
		}
	}
}
