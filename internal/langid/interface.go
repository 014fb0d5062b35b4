package langid

import (
	"context"

	"accentdetect/internal/model"
)

// Result represents the outcome of a language-identification run
type Result struct {
	// Candidates is the ranked list of detected languages, highest
	// confidence first. Empty means "language undetermined", which is a
	// normal outcome, not an error.
	Candidates []model.LanguageCandidate

	Transcript  string // transcribed text, may be empty
	Provider    string // the provider used (e.g. "assemblyai")
	RawResponse string // raw response from the provider (for debugging/logging)
}

// Provider defines the interface for hosted language-identification services
type Provider interface {
	// IdentifyLanguage submits an audio file and returns the ranked
	// language candidates detected in it.
	IdentifyLanguage(ctx context.Context, audioPath string) (*Result, error)

	// Name returns the name of the provider (e.g. "assemblyai")
	Name() string
}
