package report

import (
	"context"
	"errors"

	"github.com/sells-group/workforce-intel/internal/cost"
	"github.com/sells-group/workforce-intel/pkg/anthropic"
	"github.com/sells-group/workforce-intel/pkg/gemini"
)

// Request is one prompt for the generative service.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int64
}

// Completion is the unstructured text returned by the service.
type Completion struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int64
	OutputTokens int64
	CachedTokens int64
	CostUSD      float64
}

// Model is a generative text service. Implementations make exactly one
// upstream call per Complete.
type Model interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// AnthropicModel adapts an anthropic.Client to Model.
type AnthropicModel struct {
	client anthropic.Client
	model  string
	calc   *cost.Calculator
}

// NewAnthropicModel returns a Model backed by client.
func NewAnthropicModel(client anthropic.Client, model string, calc *cost.Calculator) *AnthropicModel {
	return &AnthropicModel{client: client, model: model, calc: calc}
}

// Complete sends the instructions as a cached system block and the
// aggregates as the single user message.
func (m *AnthropicModel) Complete(ctx context.Context, req Request) (*Completion, error) {
	resp, err := m.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     m.model,
		MaxTokens: req.MaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(req.System),
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return nil, upstream("anthropic", err)
	}

	u := resp.Usage
	out := &Completion{
		Text:         resp.Text(),
		Model:        m.model,
		StopReason:   resp.StopReason,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		CachedTokens: u.CacheReadInputTokens,
	}
	if m.calc != nil {
		out.CostUSD = m.calc.Claude(m.model, u.InputTokens, u.OutputTokens, u.CacheCreationInputTokens, u.CacheReadInputTokens)
	}
	return out, nil
}

// GeminiModel adapts a gemini.Client to Model.
type GeminiModel struct {
	client gemini.Client
	model  string
	calc   *cost.Calculator
}

// NewGeminiModel returns a Model backed by client.
func NewGeminiModel(client gemini.Client, model string, calc *cost.Calculator) *GeminiModel {
	return &GeminiModel{client: client, model: model, calc: calc}
}

// Complete sends one generate-content request.
func (m *GeminiModel) Complete(ctx context.Context, req Request) (*Completion, error) {
	resp, err := m.client.GenerateText(ctx, gemini.TextRequest{
		Model:           m.model,
		System:          req.System,
		Prompt:          req.Prompt,
		MaxOutputTokens: int32(min(req.MaxTokens, 1<<31-1)),
	})
	if err != nil {
		return nil, upstream("gemini", err)
	}

	u := resp.Usage
	out := &Completion{
		Text:         resp.Text,
		Model:        m.model,
		StopReason:   resp.FinishReason,
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CandidatesTokens,
		CachedTokens: u.CachedTokens,
	}
	if m.calc != nil {
		out.CostUSD = m.calc.Gemini(m.model, u.PromptTokens, u.CandidatesTokens, u.CachedTokens)
	}
	return out, nil
}

func upstream(provider string, err error) *UpstreamError {
	ue := &UpstreamError{Provider: provider, Detail: err.Error(), Err: err}

	var aErr *anthropic.APIError
	var gErr *gemini.APIError
	switch {
	case errors.As(err, &aErr):
		ue.StatusCode, ue.Detail = aErr.StatusCode, aErr.Body
	case errors.As(err, &gErr):
		ue.StatusCode, ue.Detail = gErr.StatusCode, gErr.Body
	}
	return ue
}
