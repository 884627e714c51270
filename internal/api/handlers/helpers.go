package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/validation"
)

// maxBodyBytes bounds JSON request bodies. Backups use their own limit.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	return req, nil
}

// respondValidationError writes a 400 with the per-field messages of a validation failure.
func respondValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

// respondServiceError maps a service error to its HTTP status. Not-found sentinels are 404,
// conflicts 409, bad references 400, engine input rejections 422, feed failures 502.
// Anything else is a 500 reported under fallback.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrStockNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrPriceNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		response.RespondError(w, http.StatusNotFound, rootMessage(err), err.Error())
	case errors.Is(err, apperrors.ErrDuplicateEntry),
		errors.Is(err, apperrors.ErrAccountInUse),
		errors.Is(err, apperrors.ErrStockInUse):
		response.RespondError(w, http.StatusConflict, rootMessage(err), err.Error())
	case errors.Is(err, apperrors.ErrUnknownReference),
		errors.Is(err, apperrors.ErrInvalidBackup):
		response.RespondError(w, http.StatusBadRequest, rootMessage(err), err.Error())
	case service.IsInvalidInput(err):
		response.RespondError(w, http.StatusUnprocessableEntity, "invalid holding", err.Error())
	case errors.Is(err, apperrors.ErrNoData),
		errors.Is(err, apperrors.ErrFeedUnavailable):
		response.RespondError(w, http.StatusBadGateway, rootMessage(err), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}

// rootMessage returns the text of the sentinel err wraps.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		apperrors.ErrAccountNotFound, apperrors.ErrStockNotFound, apperrors.ErrHoldingNotFound,
		apperrors.ErrPriceNotFound, apperrors.ErrSnapshotNotFound, apperrors.ErrDuplicateEntry,
		apperrors.ErrAccountInUse, apperrors.ErrStockInUse, apperrors.ErrUnknownReference,
		apperrors.ErrInvalidBackup, apperrors.ErrNoData, apperrors.ErrFeedUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
