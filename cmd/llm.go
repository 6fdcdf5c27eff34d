package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/workforce-intel/internal/config"
	"github.com/sells-group/workforce-intel/internal/cost"
	"github.com/sells-group/workforce-intel/internal/report"
	"github.com/sells-group/workforce-intel/pkg/anthropic"
	"github.com/sells-group/workforce-intel/pkg/gemini"
)

// generatorFactory is swapped in tests.
var generatorFactory = newGenerator

// newModel builds the configured generative model. Credentials are read from
// c on every call.
func newModel(ctx context.Context, c *config.Config) (report.Model, error) {
	calc := cost.NewCalculator(c.Pricing.Rates())

	switch c.LLM.Provider {
	case config.ProviderAnthropic, "":
		if c.Anthropic.Key == "" {
			return nil, eris.New("llm: anthropic.key is required")
		}
		return report.NewAnthropicModel(anthropic.NewClient(c.Anthropic.Key), c.Anthropic.Model, calc), nil
	case config.ProviderGemini:
		if c.Gemini.Key == "" {
			return nil, eris.New("llm: gemini.key is required")
		}
		client, err := gemini.NewClient(ctx, c.Gemini.Key)
		if err != nil {
			return nil, eris.Wrap(err, "llm: init gemini client")
		}
		return report.NewGeminiModel(client, c.Gemini.Model, calc), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", c.LLM.Provider)
	}
}

func newGenerator(ctx context.Context, c *config.Config) (*report.Generator, error) {
	m, err := newModel(ctx, c)
	if err != nil {
		return nil, err
	}
	return report.NewGenerator(m,
		report.WithMaxTokens(c.LLM.MaxTokens),
		report.WithExcerptChars(c.LLM.ExcerptChars),
	), nil
}
