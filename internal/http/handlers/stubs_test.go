package handlers

import (
	"context"

	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/services"
)

// ---- stubs to satisfy handlers.New() dependencies ----

type stubFeedbackSvc struct {
	submit func(ctx context.Context, rating int, review string) (*domain.FeedbackRecord, error)
	get    func(ctx context.Context, id string) (*domain.FeedbackRecord, error)
}

func (s stubFeedbackSvc) Submit(ctx context.Context, rating int, review string) (*domain.FeedbackRecord, error) {
	if s.submit != nil {
		return s.submit(ctx, rating, review)
	}
	return nil, nil
}

func (s stubFeedbackSvc) Get(ctx context.Context, id string) (*domain.FeedbackRecord, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, services.ErrRecordNotFound
}

type stubDashSvc struct {
	dashboard func(ctx context.Context) (services.Snapshot, error)
	query     func(ctx context.Context, q services.ListQuery) (services.ListResult, error)
	stats     func(ctx context.Context) (services.QuickStats, error)
}

func (s stubDashSvc) Dashboard(ctx context.Context) (services.Snapshot, error) {
	if s.dashboard != nil {
		return s.dashboard(ctx)
	}
	return services.Snapshot{}, nil
}

func (s stubDashSvc) Query(ctx context.Context, q services.ListQuery) (services.ListResult, error) {
	if s.query != nil {
		return s.query(ctx, q)
	}
	return services.ListResult{}, nil
}

func (s stubDashSvc) Stats(ctx context.Context) (services.QuickStats, error) {
	if s.stats != nil {
		return s.stats(ctx)
	}
	return services.QuickStats{}, nil
}

type rememberCall struct {
	clientID, scope, key, recordID string
}

type stubIdem struct {
	calls []rememberCall
	err   error
}

func (s *stubIdem) Remember(_ context.Context, clientID, scope, key, recordID string) error {
	s.calls = append(s.calls, rememberCall{clientID, scope, key, recordID})
	return s.err
}

func sampleRecord(id string, rating int) *domain.FeedbackRecord {
	return &domain.FeedbackRecord{
		ID:                 id,
		Timestamp:          "2025-03-14 15:09:26",
		Rating:             rating,
		Review:             "Great service",
		AIResponse:         "Thanks!",
		AdminSummary:       "Happy customer.",
		RecommendedActions: "• Keep it up",
	}
}
