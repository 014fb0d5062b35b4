// Package accent maps detected language codes to human-readable English
// accent labels. Pure lookup and formatting; no I/O and no failure mode.
package accent

import (
	"fmt"
	"strings"

	"accentdetect/internal/model"
)

// FallbackLabel is used for English variants missing from the table.
const FallbackLabel = "Other English"

// Table maps locale codes to display labels. Immutable for the process
// lifetime.
var Table = map[string]string{
	"en-US":     "American",
	"en-GB":     "British",
	"en-AU":     "Australian",
	"en-IN":     "Indian",
	"en-CA":     "Canadian",
	"en-IE":     "Irish",
	"en-GB-SCT": "Scottish",
}

// Clarity buckets a 0.0-1.0 confidence into a qualitative descriptor.
// Thresholds are strict: exactly 0.90 is "clear", exactly 0.70 is "moderate".
func Clarity(confidence float64) string {
	switch {
	case confidence > 0.90:
		return "very clear"
	case confidence > 0.70:
		return "clear"
	default:
		return "moderate"
	}
}

// MapResult turns the ranked language candidates into an accent result. Only
// the top-ranked candidate is examined; lower-ranked candidates (code
// switching, multiple speakers) are deliberately discarded.
func MapResult(candidates []model.LanguageCandidate) model.AccentResult {
	if len(candidates) == 0 {
		return model.AccentResult{
			Detected: false,
			Reason:   model.ReasonUndetermined,
			Summary:  "Could not detect language or accent.",
		}
	}

	top := candidates[0]
	if !strings.HasPrefix(strings.ToLower(top.LanguageCode), "en") {
		return model.AccentResult{
			Detected:     false,
			Reason:       model.ReasonNonEnglish,
			LanguageCode: top.LanguageCode,
			Summary:      "Non-English speech detected.",
		}
	}

	label, ok := Table[top.LanguageCode]
	if !ok {
		label = FallbackLabel
	}

	percent := top.Confidence * 100
	clarity := Clarity(top.Confidence)

	return model.AccentResult{
		Detected:          true,
		AccentLabel:       label,
		ConfidencePercent: percent,
		Clarity:           clarity,
		LanguageCode:      top.LanguageCode,
		Summary: fmt.Sprintf(
			"Detected a %s English accent with %.1f%% confidence. The speech is %s and consistent throughout the recording.",
			label, percent, clarity),
	}
}
