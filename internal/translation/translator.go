package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultSourceLang  = "English"
	DefaultTargetLang  = "Polish"
)

// ErrNoAPIKey is returned when the selected provider has no API key.
var ErrNoAPIKey = errors.New("API key not found")

// Translator translates a single word.
type Translator interface {
	Translate(ctx context.Context, word string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider   string
	Model      string
	SourceLang string
	TargetLang string
	OpenAIKey  string
	GeminiKey  string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOpenAI,
		SourceLang: DefaultSourceLang,
		TargetLang: DefaultTargetLang,
	}
}

// New creates the configured provider wrapped in a circuit breaker.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Translator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SourceLang == "" {
		cfg.SourceLang = DefaultSourceLang
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = DefaultTargetLang
	}

	var (
		tr  Translator
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		tr, err = NewOpenAI(cfg)
	case ProviderGemini:
		tr, err = NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithBreaker(cfg.Provider, tr, logger), nil
}

func prompt(cfg Config, word string) string {
	return fmt.Sprintf("Translate the %s word '%s' to %s. Respond with only the %s translation, nothing else.",
		cfg.SourceLang, word, cfg.TargetLang, cfg.TargetLang)
}

// clean strips what chat models like to wrap a one word answer in.
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(strings.TrimSuffix(s, "."))
}
