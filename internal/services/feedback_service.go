// Package services – FeedbackService
//
// This file implements FeedbackService, the submission use-case: validate the
// rating and review, obtain the three generated texts, assemble a
// FeedbackRecord and append it to the configured RecordStore. Generation
// failures never reach the caller (see ResponseGenerator); storage failures
// are retried once and then surfaced as ErrStorageUnavailable so a submission
// is never lost silently.
//
// Observability: public methods are OpenTelemetry-instrumented and persisted
// submissions are counted in feedback_submissions_total.

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/repo"
)

// FeedbackService coordinates submission and retrieval of feedback records.
type FeedbackService struct {
	Store     repo.RecordStore
	Responder *ResponseGenerator

	// Optional guard; 0 disables.
	MaxReviewRunes int

	clockOnce sync.Once
	clock     *idClock
}

// NewFeedbackService wires a service over store and responder. now may be nil
// (time.Now).
func NewFeedbackService(store repo.RecordStore, responder *ResponseGenerator, now func() time.Time) *FeedbackService {
	return &FeedbackService{Store: store, Responder: responder, clock: newIDClock(now)}
}

// Submit validates input, generates the three texts and persists the record.
//
// Validation happens before any generation or storage call:
//   - rating outside 1..5 → ErrInvalidRating
//   - blank review → ErrEmptyReview
//   - review over MaxReviewRunes → ErrTooLong
//
// The review is stored exactly as given.
func (s *FeedbackService) Submit(ctx context.Context, rating int, review string) (*domain.FeedbackRecord, error) {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.Int("feedback.rating", rating)),
	)
	defer span.End()

	if !domain.ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(review) == "" {
		return nil, ErrEmptyReview
	}
	if s.MaxReviewRunes > 0 && utf8.RuneCountInString(review) > s.MaxReviewRunes {
		return nil, ErrTooLong
	}

	texts := s.Responder.Generate(ctx, rating, review)

	now := s.idClock().Next()
	rec := domain.FeedbackRecord{
		ID:                 domain.FormatRecordID(now),
		Timestamp:          domain.FormatTimestamp(now),
		Rating:             rating,
		Review:             review,
		AIResponse:         texts.AIResponse,
		AdminSummary:       texts.AdminSummary,
		RecommendedActions: texts.RecommendedActions,
	}
	span.SetAttributes(attribute.String("feedback.id", rec.ID))

	if err := s.appendWithRetry(ctx, &rec); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return nil, err
	}

	submissionsTotal.WithLabelValues(strconv.Itoa(rating)).Inc()
	logFrom(ctx).Info().
		Str("feedback_id", rec.ID).
		Int("rating", rating).
		Msg("feedback stored")
	return &rec, nil
}

// appendWithRetry appends rec, retrying once. A duplicate id (another
// process wrote the same microsecond) is resolved by issuing a fresh id.
func (s *FeedbackService) appendWithRetry(ctx context.Context, rec *domain.FeedbackRecord) error {
	err := s.Store.Append(ctx, *rec)
	if err == nil {
		return nil
	}
	logFrom(ctx).Warn().Err(err).Str("feedback_id", rec.ID).Msg("append failed; retrying once")

	if errors.Is(err, repo.ErrDuplicateRecord) {
		t := s.idClock().Next()
		rec.ID = domain.FormatRecordID(t)
		rec.Timestamp = domain.FormatTimestamp(t)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, ctx.Err())
	}
	if err = s.Store.Append(ctx, *rec); err != nil {
		logFrom(ctx).Error().Err(err).Str("feedback_id", rec.ID).Msg("append failed after retry")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// List returns the full collection in insertion order.
func (s *FeedbackService) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	recs, err := s.Store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	span.SetAttributes(attribute.Int("feedback.count", len(recs)))
	return recs, nil
}

// Get returns the record with id, or ErrRecordNotFound.
func (s *FeedbackService) Get(ctx context.Context, id string) (*domain.FeedbackRecord, error) {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("feedback.id", id)),
	)
	defer span.End()

	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := repo.FindRecord(recs, id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

func (s *FeedbackService) idClock() *idClock {
	s.clockOnce.Do(func() {
		if s.clock == nil {
			s.clock = newIDClock(nil)
		}
	})
	return s.clock
}
