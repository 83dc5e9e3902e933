package cli

import "codeberg.org/snonux/neoanki/internal/translation"

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	StorePath string
	Verbose   bool

	// Import flags
	JSON    bool
	Replace bool

	// Export flags
	Format   string
	Output   string
	DeckName string

	// Translation flags
	Provider    string
	Model       string
	SourceLang  string
	TargetLang  string
	Concurrency int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Format:      "apkg",
		Provider:    translation.ProviderOpenAI,
		SourceLang:  translation.DefaultSourceLang,
		TargetLang:  translation.DefaultTargetLang,
		Concurrency: translation.DefaultConcurrency,
	}
}
