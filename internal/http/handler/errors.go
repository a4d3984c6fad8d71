package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/service"
)

// handleServiceError writes err with its text as the message. notFoundStatus
// is used for ErrNotFound, which reads report as 404 and writes as 500.
func handleServiceError(w http.ResponseWriter, err error, notFoundStatus int) {
	switch {
	case errors.Is(err, service.ErrArgumentMissing):
		WriteError(w, http.StatusBadRequest, "ARGUMENT_MISSING", err.Error())
	case errors.Is(err, repository.ErrNoSuchField), errors.Is(err, repository.ErrInvalidQuery):
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		WriteError(w, http.StatusInternalServerError, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, notFoundStatus, "NOT_FOUND", err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
