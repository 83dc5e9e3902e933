package cli

import (
	"os"

	"github.com/spf13/viper"

	"codeberg.org/snonux/neoanki/internal/backup"
	"codeberg.org/snonux/neoanki/internal/translation"
)

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}

// StorePaths resolves the backup files from store.path, falling back to
// the default location next to the executable.
func StorePaths() (backup.Paths, error) {
	if p := viper.GetString("store.path"); p != "" {
		return backup.PathsFor(p), nil
	}
	return backup.DefaultPaths()
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool {
	return viper.GetBool("log.verbose")
}

// DeckName returns the configured APKG deck name or fallback.
func DeckName(fallback string) string {
	if name := viper.GetString("export.deck_name"); name != "" {
		return name
	}
	return fallback
}

// TranslationConfig merges the translation settings with the provider
// defaults. Empty values keep the default.
func TranslationConfig() translation.Config {
	cfg := translation.DefaultConfig()
	if v := viper.GetString("translation.provider"); v != "" {
		cfg.Provider = v
	}
	if v := viper.GetString("translation.model"); v != "" {
		cfg.Model = v
	}
	if v := viper.GetString("translation.source_lang"); v != "" {
		cfg.SourceLang = v
	}
	if v := viper.GetString("translation.target_lang"); v != "" {
		cfg.TargetLang = v
	}
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.GeminiKey = GetGeminiKey()
	return cfg
}
