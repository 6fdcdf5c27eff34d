// Package cost estimates the USD cost of generative model calls.
package cost

// Rates holds per-provider pricing configuration.
type Rates struct {
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    map[string]ModelRate `yaml:"gemini" mapstructure:"gemini"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost for a Claude API call. Unknown models cost 0.
func (c *Calculator) Claude(model string, input, output, cacheWrite, cacheRead int64) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}

	inCost := perMillion(input) * rate.Input
	outCost := perMillion(output) * rate.Output
	cwCost := perMillion(cacheWrite) * rate.Input * rate.CacheWriteMul
	crCost := perMillion(cacheRead) * rate.Input * rate.CacheReadMul

	return inCost + outCost + cwCost + crCost
}

// Gemini computes the cost for a Gemini API call. Cached tokens are part of
// the prompt count and are billed at the cache-read multiplier instead.
func (c *Calculator) Gemini(model string, prompt, output, cached int64) float64 {
	rate, ok := c.rates.Gemini[model]
	if !ok {
		return 0
	}
	if cached > prompt {
		cached = prompt
	}

	inCost := perMillion(prompt-cached) * rate.Input
	crCost := perMillion(cached) * rate.Input * rate.CacheReadMul
	outCost := perMillion(output) * rate.Output

	return inCost + crCost + outCost
}

func perMillion(tokens int64) float64 {
	return float64(tokens) / 1e6
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-sonnet-4-20250514": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"claude-sonnet-4-5-20250929": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"claude-opus-4-1-20250805": {
				Input: 15.00, Output: 75.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
		Gemini: map[string]ModelRate{
			"gemini-2.5-pro": {
				Input: 1.25, Output: 10.00,
				CacheReadMul: 0.25,
			},
			"gemini-2.5-flash": {
				Input: 0.30, Output: 2.50,
				CacheReadMul: 0.25,
			},
		},
	}
}
