// Package gemini wraps the Google GenAI generate-content API behind a small
// interface so callers can substitute a mock.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// Client defines the Gemini operations used for report generation.
type Client interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error)
}

// TextRequest is a single-turn text generation request.
type TextRequest struct {
	Model           string
	System          string
	Prompt          string
	MaxOutputTokens int32
}

// TextResponse is the flattened generation result.
type TextResponse struct {
	Model        string
	Text         string
	FinishReason string
	Usage        TokenUsage
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int64
	CandidatesTokens int64
	CachedTokens     int64
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*genai.ClientConfig)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = url
	}
}

type sdkClient struct {
	client *genai.Client
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: client}, nil
}

func (c *sdkClient) GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, eris.Wrap(fromSDKError(err), "gemini: generate content")
	}
	return fromSDKResponse(req.Model, resp), nil
}

func fromSDKResponse(model string, resp *genai.GenerateContentResponse) *TextResponse {
	out := &TextResponse{Model: model, Text: resp.Text()}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = TokenUsage{
			PromptTokens:     int64(u.PromptTokenCount),
			CandidatesTokens: int64(u.CandidatesTokenCount),
			CachedTokens:     int64(u.CachedContentTokenCount),
		}
	}
	return out
}

func fromSDKError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
