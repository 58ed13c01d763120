package llm

import "context"

// StaticGenerator never produces text. It stands in when no provider is
// configured so every artifact takes its fallback.
type StaticGenerator struct{}

func (StaticGenerator) Name() string { return "static" }

func (StaticGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrGenerationUnavailable
}
