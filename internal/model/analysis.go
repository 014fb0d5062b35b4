package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Analysis statuses. An analysis moves strictly forward through
// validating -> acquiring -> analyzing -> done, or drops to failed
// from any of the intermediate states.
const (
	StatusValidating = "validating"
	StatusAcquiring  = "acquiring"
	StatusAnalyzing  = "analyzing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// SourceKind discriminates the two MediaSource variants.
type SourceKind string

const (
	SourceLocalFile SourceKind = "local_file"
	SourceRemoteURL SourceKind = "remote_url"
)

// MediaSource is the validated input to the acquisition step. Exactly one
// variant is populated: a local file (path, size, detected MIME type) or a
// remote URL.
type MediaSource struct {
	Kind     SourceKind
	Path     string
	Size     int64
	MimeType string
	URL      string
}

// LocalFile builds the local-file variant.
func LocalFile(path string, size int64, mimeType string) MediaSource {
	return MediaSource{Kind: SourceLocalFile, Path: path, Size: size, MimeType: mimeType}
}

// RemoteURL builds the remote-URL variant.
func RemoteURL(url string) MediaSource {
	return MediaSource{Kind: SourceRemoteURL, URL: url}
}

// Validate checks the exactly-one-variant invariant.
func (s MediaSource) Validate() error {
	switch s.Kind {
	case SourceLocalFile:
		if s.Path == "" {
			return fmt.Errorf("local file source requires a path")
		}
		if s.Size <= 0 {
			return fmt.Errorf("local file source requires a known size")
		}
		if s.URL != "" {
			return fmt.Errorf("local file source must not carry a URL")
		}
	case SourceRemoteURL:
		if s.URL == "" {
			return fmt.Errorf("remote URL source requires a URL")
		}
		if s.Path != "" {
			return fmt.Errorf("remote URL source must not carry a path")
		}
	default:
		return fmt.Errorf("unknown media source kind %q", s.Kind)
	}
	return nil
}

// AudioArtifact is the audio file produced by the acquisition step. It is
// owned exclusively by the request that created it and deleted at the end of
// the request regardless of outcome.
type AudioArtifact struct {
	Path        string
	CreatedAt   time.Time
	DurationSec float64 // 0 when the adapter could not report a duration
}

// LanguageCandidate is one entry of the ranked language list returned by the
// language-identification provider, highest confidence first.
type LanguageCandidate struct {
	LanguageCode string  `json:"language_code"`
	Confidence   float64 `json:"confidence"` // 0.0-1.0
}

// AbsentReason explains why no accent result was produced. Both are normal
// negative outcomes, not failures.
type AbsentReason string

const (
	ReasonUndetermined AbsentReason = "undetermined"
	ReasonNonEnglish   AbsentReason = "non_english"
)

// AccentResult is the terminal artifact of an analysis. When Detected is
// false the Reason field carries why, and LanguageCode holds the offending
// code for the non-English case.
type AccentResult struct {
	Detected          bool         `json:"detected"`
	AccentLabel       string       `json:"accent_label,omitempty"`
	ConfidencePercent float64      `json:"confidence_percent,omitempty"` // 0-100 scale, never a raw fraction
	Clarity           string       `json:"clarity,omitempty"`
	Summary           string       `json:"summary,omitempty"`
	Reason            AbsentReason `json:"reason,omitempty"`
	LanguageCode      string       `json:"language_code,omitempty"`
}

// Analysis is one pipeline run as recorded in the in-memory store.
type Analysis struct {
	ID               uuid.UUID              `json:"id"`
	Source           string                 `json:"source"` // "upload" or "url"
	Input            string                 `json:"input"`  // original filename or URL
	Status           string                 `json:"status"`
	Result           *AccentResult          `json:"result,omitempty"`
	ErrorKind        *string                `json:"error_kind,omitempty"`
	ErrorMessage     *string                `json:"error_message,omitempty"`
	ProcessingTimeMs *int                   `json:"processing_time_ms,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}
