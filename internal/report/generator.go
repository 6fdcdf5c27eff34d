// Package report turns an analysis result into a generated report: it
// composes the prompt, makes one call to the generative service and
// post-processes the text.
package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/workforce-intel/internal/analysis"
	"github.com/sells-group/workforce-intel/internal/model"
)

// Defaults for the output budget and the raw excerpt on parse failure.
const (
	DefaultMaxTokens    = 16000
	DefaultExcerptChars = 2000
)

// Output is the post-processed report. Exactly one of HTML and Findings is
// set unless ParseError is true, in which case RawExcerpt holds the start of
// the unparsed text.
type Output struct {
	Format     model.Format
	HTML       string
	Findings   json.RawMessage
	ParseError bool
	RawExcerpt string
	Completion *Completion
}

// Generator makes one model call per report.
type Generator struct {
	model        Model
	maxTokens    int64
	excerptChars int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxTokens sets the output token budget.
func WithMaxTokens(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithExcerptChars sets the raw excerpt length used on parse failure.
func WithExcerptChars(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.excerptChars = n
		}
	}
}

// NewGenerator returns a Generator backed by m.
func NewGenerator(m Model, opts ...Option) *Generator {
	g := &Generator{
		model:        m,
		maxTokens:    DefaultMaxTokens,
		excerptChars: DefaultExcerptChars,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders res in format. Upstream failures are returned as
// *UpstreamError in the chain and never retried. Unparseable JSON output is
// not an error: the Output carries ParseError and an excerpt instead.
func (g *Generator) Generate(ctx context.Context, res *analysis.Result, format model.Format) (*Output, error) {
	format = format.OrDefault()

	start := time.Now()
	comp, err := g.model.Complete(ctx, Request{
		System:    Instructions(format),
		Prompt:    BuildPrompt(res, format),
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: generate")
	}

	zap.L().Info("report generated",
		zap.String("model", comp.Model),
		zap.String("format", string(format)),
		zap.String("stop_reason", comp.StopReason),
		zap.Int64("input_tokens", comp.InputTokens),
		zap.Int64("output_tokens", comp.OutputTokens),
		zap.Int64("cached_tokens", comp.CachedTokens),
		zap.Float64("estimated_cost_usd", comp.CostUSD),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := &Output{Format: format, Completion: comp}
	if format == model.FormatHTML {
		out.HTML = ExtractHTML(comp.Text)
		return out, nil
	}

	findings, err := ParseFindings(comp.Text)
	if err != nil {
		zap.L().Warn("report: findings unparseable, returning excerpt",
			zap.Error(err),
			zap.Int("text_len", len(comp.Text)),
		)
		out.ParseError = true
		out.RawExcerpt = Excerpt(comp.Text, g.excerptChars)
		return out, nil
	}
	out.Findings = findings
	return out, nil
}
