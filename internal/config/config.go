package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/workforce-intel/internal/census"
	"github.com/sells-group/workforce-intel/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	Environment    string   `yaml:"environment" mapstructure:"environment"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// IsDevelopment reports whether internal error detail may be exposed.
func (s ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(s.Environment, "development")
}

// AnalysisConfig configures the aggregation engine.
type AnalysisConfig struct {
	ReferenceDate string `yaml:"reference_date" mapstructure:"reference_date"`
}

// Reference parses the configured reference date.
func (a AnalysisConfig) Reference() (time.Time, error) {
	return census.ParseReferenceDate(a.ReferenceDate)
}

// LLMConfig selects and bounds the generative service.
type LLMConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	MaxTokens    int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	ExcerptChars int    `yaml:"excerpt_chars" mapstructure:"excerpt_chars"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// PricingConfig holds per-provider pricing rates that override the built-in
// table. Entries are lists because model names contain dots, which viper
// treats as key separators.
type PricingConfig struct {
	Anthropic []ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    []ModelPricing `yaml:"gemini" mapstructure:"gemini"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Model         string  `yaml:"model" mapstructure:"model"`
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

func (mp ModelPricing) rate() cost.ModelRate {
	return cost.ModelRate{
		Input:         mp.Input,
		Output:        mp.Output,
		CacheWriteMul: mp.CacheWriteMul,
		CacheReadMul:  mp.CacheReadMul,
	}
}

// Rates merges configured pricing over cost.DefaultRates.
func (p PricingConfig) Rates() cost.Rates {
	rates := cost.DefaultRates()
	for _, mp := range p.Anthropic {
		rates.Anthropic[mp.Model] = mp.rate()
	}
	for _, mp := range p.Gemini {
		rates.Gemini[mp.Model] = mp.rate()
	}
	return rates
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Supported values for llm.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WORKFORCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "production")
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.rate_limit", 2.0)
	v.SetDefault("server.rate_burst", 4)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("analysis.reference_date", census.DefaultReferenceDate)
	v.SetDefault("llm.provider", ProviderAnthropic)
	v.SetDefault("llm.max_tokens", 16000)
	v.SetDefault("llm.excerpt_chars", 2000)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.5-pro")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is "serve" or
// "analyze"; report generation additionally requires the provider key.
func (c *Config) Validate(mode string, needsModel bool) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxBodyBytes <= 0 {
			errs = append(errs, "server.max_body_bytes must be > 0")
		}
		if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
			errs = append(errs, "server.rate_limit and server.rate_burst must be > 0")
		}
	case "analyze":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if _, err := c.Analysis.Reference(); err != nil {
		errs = append(errs, "analysis.reference_date must be YYYY-MM-DD")
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, "llm.max_tokens must be > 0")
	}

	switch c.LLM.Provider {
	case ProviderAnthropic:
		if needsModel && c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	case ProviderGemini:
		if needsModel && c.Gemini.Key == "" {
			errs = append(errs, "gemini.key is required")
		}
	default:
		errs = append(errs, "llm.provider must be anthropic or gemini")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
