// Feedback HTTP handlers.
//
// This file exposes the public, unauthenticated endpoints:
//   - POST /feedback  (submit a rating and review)
//   - GET  /stats     (total submissions and average rating)
//
// Submissions accept an optional Idempotency-Key header. A replayed key
// returns the record created by the first request instead of generating and
// storing a second one.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/http/middleware"
)

// HeaderIdempotencyReplayed marks a response served from a prior submission.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// SubmitFeedbackRequest is the JSON payload for a new submission.
//
// Rating is a pointer so that a missing field is told apart from an out of
// range value; both are rejected with 400.
type SubmitFeedbackRequest struct {
	Rating *int   `json:"rating" binding:"required" example:"5"`
	Review string `json:"review" example:"Fast delivery and friendly staff."`
}

// SubmittedFeedback is the customer-facing view of a stored record. The
// admin summary and recommended actions are not exposed here.
type SubmittedFeedback struct {
	ID         string `json:"id"          example:"20250314150926535897"`
	Timestamp  string `json:"timestamp"   example:"2025-03-14 15:09:26"`
	Rating     int    `json:"rating"      example:"5"`
	Review     string `json:"review"      example:"Fast delivery and friendly staff."`
	AIResponse string `json:"ai_response" example:"Thank you so much for the kind words!"`
}

func toSubmitted(r *domain.FeedbackRecord) SubmittedFeedback {
	return SubmittedFeedback{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		Rating:     r.Rating,
		Review:     r.Review,
		AIResponse: r.AIResponse,
	}
}

// SubmitFeedback godoc
// @ID          submitFeedback
// @Summary     Submit feedback
// @Description Stores a star rating and review, and returns the generated customer reply. Generation failures fall back to a fixed reply and never fail the request.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key header string false "Client-chosen key that makes retries safe" example(9b1f0c7e-retry-1)
// @Param       body            body   handlers.SubmitFeedbackRequest true "Feedback payload"
//
// @Success     201  {object} handlers.SubmittedFeedback
// @Success     200  {object} handlers.SubmittedFeedback "Replay of an earlier submission"
// @Failure     400  {object} handlers.ErrorResponse "Invalid rating or empty review"
// @Failure     429  {object} handlers.ErrorResponse "Rate limit exceeded"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /feedback [post]
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	ctx := c.Request.Context()

	if id, replay := middleware.ReplayRecordID(c); replay {
		rec, err := h.fbSvc.Get(ctx, id)
		if err == nil {
			c.Header(HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, toSubmitted(rec))
			return
		}
		// The stored id no longer resolves; treat as a fresh submission.
		middleware.LoggerFrom(c).Warn().Err(err).Str("record_id", id).Msg("idempotent replay lookup failed")
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating (1-5) and review are required")
		return
	}

	rec, err := h.fbSvc.Submit(ctx, *req.Rating, req.Review)
	if err != nil {
		failService(c, err, ErrCodeSubmitFailed)
		return
	}

	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil {
		if err := h.idem.Remember(ctx, middleware.ClientID(c), middleware.IdempotencyScope(c), key, rec.ID); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("record_id", rec.ID).Msg("failed to remember idempotency key")
		}
	}

	ok(c, http.StatusCreated, toSubmitted(rec))
}

// Stats godoc
// @ID          getStats
// @Summary     Quick statistics
// @Description Total number of submissions and, when any exist, the average rating.
// @Tags        Feedback
// @Produce     json
// @Success     200  {object} services.QuickStats
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	st, err := h.dashSvc.Stats(c.Request.Context())
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}
