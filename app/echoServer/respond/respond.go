// Package respond writes the {success, message} envelope shared by every handler.
package respond

import (
	"log/slog"
	"net/http"

	"campuscloset/util/apperr"

	"github.com/labstack/echo/v4"
)

func OK(c echo.Context, body echo.Map) error {
	if body == nil {
		body = echo.Map{}
	}
	body["success"] = true
	return c.JSON(http.StatusOK, body)
}

func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// Fail maps a service error to its status. Causes are logged, never returned.
func Fail(c echo.Context, log *slog.Logger, op string, err error) error {
	code := apperr.Code(err)
	status := apperr.Status(code)
	if log == nil {
		log = slog.Default()
	}

	rid := c.Response().Header().Get(echo.HeaderXRequestID)
	attrs := []any{
		"err", err,
		"code", string(code),
		"req_id", rid,
		"path", c.Path(),
		"method", c.Request().Method,
	}
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", attrs...)
	} else {
		log.Warn(op+" rejected", attrs...)
	}
	return Error(c, status, apperr.Message(err))
}
