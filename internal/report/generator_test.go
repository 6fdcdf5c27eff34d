package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/workforce-intel/internal/model"
)

func TestGenerate_HTML(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.MaxTokens == DefaultMaxTokens &&
			strings.Contains(req.System, "<!DOCTYPE html>") &&
			strings.Contains(req.Prompt, "Company: Northwind")
	})).Return(&Completion{
		Text:  "```html\n<!DOCTYPE html><html><body>Report</body></html>\n```",
		Model: "claude-sonnet-4-20250514",
	}, nil).Once()

	out, err := NewGenerator(m).Generate(context.Background(), sampleResult(t), "")
	require.NoError(t, err)
	assert.Equal(t, model.FormatHTML, out.Format)
	assert.Equal(t, "<!DOCTYPE html><html><body>Report</body></html>", out.HTML)
	assert.Nil(t, out.Findings)
	assert.False(t, out.ParseError)
	m.AssertExpectations(t)
}

func TestGenerate_JSON(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.MaxTokens == 4000 && strings.Contains(req.System, `"key_findings"`)
	})).Return(&Completion{
		Text: "Here is the analysis:\n{\"executive_summary\":\"Older, family-heavy workforce\",\"key_findings\":[]}",
	}, nil).Once()

	out, err := NewGenerator(m, WithMaxTokens(4000)).Generate(context.Background(), sampleResult(t), model.FormatJSON)
	require.NoError(t, err)
	assert.False(t, out.ParseError)
	assert.JSONEq(t, `{"executive_summary":"Older, family-heavy workforce","key_findings":[]}`, string(out.Findings))
	assert.Empty(t, out.HTML)
	m.AssertExpectations(t)
}

func TestGenerate_JSONParseFailureDegrades(t *testing.T) {
	text := "I was unable to produce JSON. " + strings.Repeat("x", 100)
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return(&Completion{Text: text}, nil).Once()

	out, err := NewGenerator(m, WithExcerptChars(20)).Generate(context.Background(), sampleResult(t), model.FormatJSON)
	require.NoError(t, err)
	assert.True(t, out.ParseError)
	assert.Equal(t, text[:20], out.RawExcerpt)
	assert.Nil(t, out.Findings)
}

func TestGenerate_UpstreamFailureIsSingleAttempt(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).
		Return(nil, &UpstreamError{Provider: "anthropic", StatusCode: 529, Detail: `{"type":"overloaded_error"}`}).Once()

	_, err := NewGenerator(m).Generate(context.Background(), sampleResult(t), model.FormatHTML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report: generate")

	ue, ok := AsUpstream(err)
	require.True(t, ok)
	assert.Equal(t, 529, ue.StatusCode)
	m.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGenerate_ContextPassedThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := new(MockModel)
	m.On("Complete", ctx, mock.Anything).Return(nil, errors.New("context canceled")).Once()

	_, err := NewGenerator(m).Generate(ctx, sampleResult(t), model.FormatHTML)
	require.Error(t, err)
	m.AssertExpectations(t)
}

func TestGeneratorOptions_IgnoreNonPositive(t *testing.T) {
	g := NewGenerator(new(MockModel), WithMaxTokens(0), WithExcerptChars(-1))
	assert.Equal(t, int64(DefaultMaxTokens), g.maxTokens)
	assert.Equal(t, DefaultExcerptChars, g.excerptChars)
}
