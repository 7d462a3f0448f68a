package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/session"
)

func respondError(c echo.Context, err error) error {
	var validation models.ValidationError
	var integrity models.DataIntegrityError
	var upstream *models.UpstreamError

	switch {
	case errors.As(err, &validation):
		return writeError(c, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, session.ErrNotFound):
		return writeError(c, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, session.ErrStaleSearch):
		return writeError(c, http.StatusConflict, "stale_search", err.Error())
	case errors.As(err, &integrity):
		return writeError(c, http.StatusBadGateway, "data_integrity_error", err.Error())
	case errors.As(err, &upstream):
		msg := upstream.Message
		if msg == "" {
			msg = err.Error()
		}
		return writeError(c, http.StatusBadGateway, "upstream_error", msg)
	default:
		return writeError(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   kind,
		Message: msg,
		Code:    status,
	})
}
