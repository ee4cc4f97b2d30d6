package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
)

// messageResponse is the uniform body for business errors and bare
// acknowledgements.
type messageResponse struct {
	Msg string `json:"msg"`
}

// NewErrorHandler builds the echo error boundary. Application errors render
// their own status and message; anything else is logged with the stack and
// replaced by an opaque log id so internals never leak to the caller.
func NewErrorHandler(l *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if appErr, ok := apperr.AsError(err); ok {
			_ = c.JSON(appErr.Status(), messageResponse{Msg: appErr.Message})
			return
		}
		if httpErr, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(httpErr.Code, messageResponse{Msg: http.StatusText(httpErr.Code)})
			return
		}

		logID := uuid.NewString()
		l.Error("unexpected error",
			"log_id", logID,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err.Error(),
			"stack", string(debug.Stack()))

		_ = c.JSON(http.StatusInternalServerError, messageResponse{Msg: "ERROR! #" + logID})
	}
}
