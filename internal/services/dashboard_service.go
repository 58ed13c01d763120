// Package services – DashboardService
//
// DashboardService backs the admin views. Every call re-reads the store and
// hands the collection to the analytics package; nothing is cached.

package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-feedback-backend/internal/analytics"
	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/search"
)

// RecordLister is the read side of FeedbackService.
type RecordLister interface {
	List(ctx context.Context) ([]domain.FeedbackRecord, error)
}

// ListQuery selects and orders records for the admin list.
type ListQuery struct {
	Ratings analytics.RatingSet // nil means all ratings
	Sort    analytics.SortMode
	Keyword string // optional free-text filter
	// ReviewOnly matches Keyword against the review alone, not the admin
	// summary.
	ReviewOnly bool
}

// listStopwords never narrow a keyword search.
var listStopwords = []string{"a", "an", "and", "the", "or", "of", "to", "is", "was", "it"}

// QuickStats is the public summary: total and, when any record exists, the
// average rating.
type QuickStats struct {
	Total         int      `json:"total"                    example:"12"`
	AverageRating *float64 `json:"average_rating,omitempty" example:"4.2"`
}

// ListResult is the filtered view plus the fingerprint of the collection.
type ListResult struct {
	Items  []domain.FeedbackRecord
	Terms  []string // folded keyword terms that were applied
	Total  int
	LastID string
}

// Snapshot is a dashboard plus a cheap fingerprint of the collection it was
// built from.
type Snapshot struct {
	Dashboard analytics.Dashboard
	Total     int
	LastID    string
}

// DashboardService computes admin aggregates.
type DashboardService struct {
	Records RecordLister
}

// NewDashboardService returns a service reading from records.
func NewDashboardService(records RecordLister) *DashboardService {
	return &DashboardService{Records: records}
}

// Dashboard returns every aggregate metric. With no records it returns a
// zero Snapshot and analytics.ErrEmptyCollection.
func (s *DashboardService) Dashboard(ctx context.Context) (Snapshot, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "Dashboard")
	defer span.End()

	recs, err := s.Records.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	d, err := analytics.BuildDashboard(recs)
	if err != nil {
		return Snapshot{}, err
	}
	span.SetAttributes(attribute.Int("feedback.count", d.Total))
	return Snapshot{Dashboard: d, Total: len(recs), LastID: lastID(recs)}, nil
}

// Query filters by rating and keyword, then sorts. Total and LastID describe
// the full collection, not the filtered view.
func (s *DashboardService) Query(ctx context.Context, q ListQuery) (ListResult, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "Query",
		trace.WithAttributes(
			attribute.String("sort", string(q.Sort)),
			attribute.Int("ratings", len(q.Ratings)),
			attribute.Bool("keyword", q.Keyword != ""),
		),
	)
	defer span.End()

	recs, err := s.Records.List(ctx)
	if err != nil {
		return ListResult{}, err
	}
	allowed := q.Ratings
	if allowed == nil {
		allowed = analytics.AllRatings()
	}
	opts := []search.Option{search.WithStopwords(listStopwords...)}
	if q.ReviewOnly {
		opts = append(opts, search.ReviewOnly())
	}
	view := search.Filter(recs, q.Keyword, opts...)
	out := analytics.FilterAndSort(view, allowed, q.Sort)
	span.SetAttributes(attribute.Int("feedback.matched", len(out)))
	return ListResult{
		Items:  out,
		Terms:  search.Parse(q.Keyword, opts...).Terms(),
		Total:  len(recs),
		LastID: lastID(recs),
	}, nil
}

// Stats returns the quick stats shown to every visitor.
func (s *DashboardService) Stats(ctx context.Context) (QuickStats, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "Stats")
	defer span.End()

	recs, err := s.Records.List(ctx)
	if err != nil {
		return QuickStats{}, err
	}
	st := QuickStats{Total: analytics.Count(recs)}
	avg, err := analytics.AverageRating(recs)
	switch {
	case err == nil:
		st.AverageRating = &avg
	case errors.Is(err, analytics.ErrEmptyCollection):
	default:
		return QuickStats{}, err
	}
	return st, nil
}

func lastID(recs []domain.FeedbackRecord) string {
	if len(recs) == 0 {
		return ""
	}
	return recs[len(recs)-1].ID
}
