package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-feedback-backend/internal/services"
)

// Error codes carried in ErrorResponse.Code. Clients branch on these, so
// they never change once published. Middleware rejections use their own
// codes (rate_limited, unauthorized, admin_disabled, bad_idempotency_key).
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeInternal         = "internal_error"

	ErrCodeSubmitFailed       = "submit_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeDashboardFailed    = "dashboard_failed"
	ErrCodeStorageUnavailable = "storage_unavailable"
)

// failService maps a service error onto the envelope. Validation errors are
// shown verbatim; anything unrecognised becomes a 500 with fallbackCode and
// a generic message, and the cause only reaches the log.
func failService(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrEmptyReview),
		errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrRecordNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		failCause(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "feedback storage is temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		failCause(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "request timed out", err)
	default:
		failCause(c, http.StatusInternalServerError, fallbackCode, "the request could not be completed", err)
	}
}
