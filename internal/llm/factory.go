package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// NewGenerator creates the provider named by cfg.Provider. A known provider
// without credentials degrades to StaticGenerator with a warning, so the
// service still accepts feedback and stores fallback texts.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini", "google":
		if cfg.GeminiAPIKey == "" {
			log.Warn().Msg("llm: GOOGLE_API_KEY not set; using static fallbacks")
			return StaticGenerator{}, nil
		}
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", g.Name()).Str("model", g.model).Msg("llm provider ready")
		return g, nil

	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn().Msg("llm: OPENAI_API_KEY not set; using static fallbacks")
			return StaticGenerator{}, nil
		}
		o := NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		log.Info().Str("provider", o.Name()).Str("model", o.model).Msg("llm provider ready")
		return o, nil

	case "static", "none":
		log.Info().Str("provider", "static").Msg("llm provider ready")
		return StaticGenerator{}, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: gemini, openai, static)", cfg.Provider)
	}
}
