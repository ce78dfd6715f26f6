package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"personafeedback/internal/delivery/http/helpers"
	"personafeedback/internal/domain"
)

// writeDomainError maps the domain sentinel errors onto the API error codes
// every controller shares. Anything unmapped is logged and reported as 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidMethod),
		errors.Is(err, domain.ErrMissingRecipient):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrExpired):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeExpired, "invitation has expired")
	case errors.Is(err, domain.ErrAlreadyCompleted):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadyCompleted, "invitation already completed")
	case errors.Is(err, domain.ErrUsageExceeded):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeUsageExceeded, "invitation usage limit reached")
	case errors.Is(err, domain.ErrAlreadySubmitted):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadySubmitted, "feedback already submitted from this device")
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
