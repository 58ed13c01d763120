// Package handlers implements the HTTP endpoints of the feedback API.
//
// Handlers are transport-thin: they bind and validate inputs, delegate to
// the services through the narrow interfaces below, and map service errors
// to the standard ErrorResponse envelope.
package handlers

import (
	"context"

	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/services"
)

//
// Service contracts
//

// FeedbackService defines submission and lookup of feedback records.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type FeedbackService interface {
	// Submit validates, generates the AI texts and persists a record.
	Submit(ctx context.Context, rating int, review string) (*domain.FeedbackRecord, error)
	// Get returns a single record by id.
	Get(ctx context.Context, id string) (*domain.FeedbackRecord, error)
}

// DashboardService defines the read-only admin and stats views.
type DashboardService interface {
	Dashboard(ctx context.Context) (services.Snapshot, error)
	Query(ctx context.Context, q services.ListQuery) (services.ListResult, error)
	Stats(ctx context.Context) (services.QuickStats, error)
}

// IdempotencyStore remembers which record an Idempotency-Key produced.
type IdempotencyStore interface {
	Remember(ctx context.Context, clientID, scope, key, recordID string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	fbSvc   FeedbackService
	dashSvc DashboardService
	idem    IdempotencyStore // optional
}

// New constructs a Handlers instance bound to the given services. idem may be
// nil, which disables recording of idempotency keys.
func New(fbSvc FeedbackService, dashSvc DashboardService, idem IdempotencyStore) *Handlers {
	return &Handlers{fbSvc: fbSvc, dashSvc: dashSvc, idem: idem}
}
