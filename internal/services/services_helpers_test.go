package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/go-feedback-backend/internal/domain"
	"github.com/tbourn/go-feedback-backend/internal/llm"
	"github.com/tbourn/go-feedback-backend/internal/repo"
)

// stubGen answers by artifact, detected from the prompt's opening words.
type stubGen struct {
	mu    sync.Mutex
	calls int
	reply string
	sum   string
	acts  string
	err   error
}

func (g *stubGen) Name() string { return "stub" }

func (g *stubGen) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	switch {
	case strings.HasPrefix(prompt, "You are a friendly"):
		return g.reply, nil
	case strings.HasPrefix(prompt, "Analyze this"):
		return g.sum, nil
	default:
		return g.acts, nil
	}
}

func (g *stubGen) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// blockingGen waits for ctx to end.
type blockingGen struct{}

func (blockingGen) Name() string { return "blocking" }
func (blockingGen) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// flakyStore fails the first n appends, then delegates.
type flakyStore struct {
	repo.RecordStore
	mu       sync.Mutex
	failures int
	err      error
	appends  int
}

func (f *flakyStore) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	f.mu.Lock()
	f.appends++
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return f.err
	}
	f.mu.Unlock()
	return f.RecordStore.Append(ctx, rec)
}

func newJSONStore(t *testing.T) *repo.JSONFileStore {
	t.Helper()
	st := repo.NewJSONFileStore(filepath.Join(t.TempDir(), "feedback_data.json"))
	if err := st.Initialize(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return st
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func unreachable() llm.Generator {
	return &stubGen{err: errors.New("dial tcp: connection refused")}
}
