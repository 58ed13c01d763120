// Package services – ResponseGenerator
//
// ResponseGenerator turns a (rating, review) pair into the three texts stored
// with every submission: the customer reply, the admin summary and the
// recommended actions. Each text comes from its own call to the configured
// llm.Generator. A failed call never propagates: that artifact alone gets its
// fixed fallback and the submission proceeds.

package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-feedback-backend/internal/llm"
)

// Artifact names one generated text.
type Artifact string

const (
	ArtifactReply   Artifact = "customer_reply"
	ArtifactSummary Artifact = "admin_summary"
	ArtifactActions Artifact = "recommended_actions"
)

// Fallback texts stored when the corresponding call fails.
const (
	FallbackReply   = "Thank you for your feedback! We value your input and will use it to improve our services."
	FallbackSummary = "Analysis unavailable."
	FallbackActions = "• Review feedback\n• Take appropriate action\n• Follow up with customer"
)

// DefaultGenerationTimeout bounds a single generation call.
const DefaultGenerationTimeout = 30 * time.Second

// Responses holds the three generated texts.
type Responses struct {
	AIResponse         string
	AdminSummary       string
	RecommendedActions string
}

// ResponseGenerator issues the three generation calls.
type ResponseGenerator struct {
	Gen     llm.Generator
	Timeout time.Duration // per call; <=0 uses DefaultGenerationTimeout
}

// NewResponseGenerator returns a generator backed by gen.
func NewResponseGenerator(gen llm.Generator, timeout time.Duration) *ResponseGenerator {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &ResponseGenerator{Gen: gen, Timeout: timeout}
}

// CustomerReply drafts the reply shown to the customer.
func (g *ResponseGenerator) CustomerReply(ctx context.Context, rating int, review string) string {
	return g.call(ctx, ArtifactReply, llm.CustomerReplyPrompt(rating, review), FallbackReply)
}

// AdminSummary drafts the internal one-to-two sentence summary.
func (g *ResponseGenerator) AdminSummary(ctx context.Context, rating int, review string) string {
	return g.call(ctx, ArtifactSummary, llm.AdminSummaryPrompt(rating, review), FallbackSummary)
}

// RecommendedActions drafts the bulleted action list.
func (g *ResponseGenerator) RecommendedActions(ctx context.Context, rating int, review string) string {
	return g.call(ctx, ArtifactActions, llm.RecommendedActionsPrompt(rating, review), FallbackActions)
}

// Generate runs the three calls concurrently and always returns three
// non-empty texts.
func (g *ResponseGenerator) Generate(ctx context.Context, rating int, review string) Responses {
	tr := otel.Tracer("services/ResponseGenerator")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(attribute.Int("feedback.rating", rating)),
	)
	defer span.End()

	var out Responses
	var eg errgroup.Group
	eg.Go(func() error {
		out.AIResponse = g.CustomerReply(ctx, rating, review)
		return nil
	})
	eg.Go(func() error {
		out.AdminSummary = g.AdminSummary(ctx, rating, review)
		return nil
	})
	eg.Go(func() error {
		out.RecommendedActions = g.RecommendedActions(ctx, rating, review)
		return nil
	})
	_ = eg.Wait() // calls never fail; each substitutes its fallback
	return out
}

func (g *ResponseGenerator) call(ctx context.Context, artifact Artifact, prompt, fallback string) string {
	if g == nil || g.Gen == nil {
		generationFailures.WithLabelValues(string(artifact)).Inc()
		return fallback
	}
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	text, err := g.Gen.Generate(cctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		generationFailures.WithLabelValues(string(artifact)).Inc()
		logFrom(ctx).Warn().
			Err(err).
			Str("provider", g.Gen.Name()).
			Str("artifact", string(artifact)).
			Dur("elapsed", time.Since(start)).
			Msg("generation failed; using fallback")
		return fallback
	}
	return text
}
