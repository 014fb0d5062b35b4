// Package pipeline sequences one analysis request end to end: validate the
// input, acquire a normalized audio artifact, identify the spoken language,
// and map it to an accent result. Each request runs synchronously and
// releases its scratch storage on every exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"accentdetect/internal/accent"
	"accentdetect/internal/config"
	"accentdetect/internal/langid"
	"accentdetect/internal/media"
	"accentdetect/internal/model"
	"accentdetect/internal/resolve"
	"accentdetect/internal/scratch"
	"accentdetect/internal/storage"
)

// Commentator adds an optional natural-language note to a detected accent.
type Commentator interface {
	Commentary(ctx context.Context, accentLabel string, confidencePercent float64, transcriptExcerpt string) (string, error)
}

// Input is one raw user request: either a URL or an uploaded file already
// saved to disk.
type Input struct {
	URL      string
	FilePath string
	FileName string
	Size     int64
}

func (in Input) source() string {
	if in.URL != "" {
		return "url"
	}
	return "upload"
}

func (in Input) describe() string {
	if in.URL != "" {
		return in.URL
	}
	return in.FileName
}

// Pipeline owns the per-request state machine. All collaborators are
// injected; the pipeline itself holds no mutable state between requests.
type Pipeline struct {
	cfg         *config.Config
	resolver    *resolve.Resolver
	acquirer    media.Acquirer
	provider    langid.Provider
	commentator Commentator // nil when no OpenAI key is configured
	store       *storage.Store
}

func New(cfg *config.Config, resolver *resolve.Resolver, acquirer media.Acquirer, provider langid.Provider, commentator Commentator, store *storage.Store) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		resolver:    resolver,
		acquirer:    acquirer,
		provider:    provider,
		commentator: commentator,
		store:       store,
	}
}

// Run executes the full pipeline for one input. The returned analysis always
// reflects the terminal state; the error is non-nil (and of type *Error)
// only when the run failed.
func (p *Pipeline) Run(ctx context.Context, in Input) (*model.Analysis, *Error) {
	rec := p.store.Create(in.source(), in.describe())
	start := time.Now()

	log.Printf("[Pipeline] %s: starting %s analysis of %s", rec.ID, rec.Source, rec.Input)

	fail := func(kind Kind, message string, cause error) (*model.Analysis, *Error) {
		perr := newError(kind, message, cause)
		elapsed := int(time.Since(start).Milliseconds())
		p.store.Fail(rec.ID, string(kind), perr.Error(), elapsed)
		log.Printf("[Pipeline] %s: failed (%s): %v", rec.ID, kind, perr)
		final, _ := p.store.Get(rec.ID)
		return final, perr
	}

	// Validating
	var src model.MediaSource
	var err error
	if in.URL != "" {
		src, err = p.resolver.ResolveURL(in.URL)
	} else {
		src, err = p.resolver.ResolveUpload(in.FilePath, in.FileName, in.Size)
	}
	if err != nil {
		return fail(KindValidation, "invalid input", err)
	}

	dir, err := scratch.Dir()
	if err != nil {
		return fail(KindAcquisition, "failed to allocate scratch storage", err)
	}
	// Scratch cleanup is unconditional: success, policy rejection and
	// adapter failure all pass through here, partial artifacts included.
	defer scratch.CleanupDir(dir)

	// Acquiring
	p.store.UpdateStatus(rec.ID, model.StatusAcquiring)
	artifact, err := p.acquirer.Acquire(ctx, src, dir)
	if err != nil {
		if errors.Is(err, media.ErrForbidden) {
			return fail(KindForbidden, "the source platform refused the download", err)
		}
		return fail(KindAcquisition, "failed to extract audio from the video", err)
	}
	log.Printf("[Pipeline] %s: acquired audio %s (duration: %.1fs)", rec.ID, artifact.Path, artifact.DurationSec)

	if artifact.DurationSec > p.cfg.MaxDurationSec {
		msg := fmt.Sprintf("video duration %.0fs exceeds the %.0fs limit", artifact.DurationSec, p.cfg.MaxDurationSec)
		return fail(KindDurationExceeded, msg, nil)
	}

	// Analyzing
	p.store.UpdateStatus(rec.ID, model.StatusAnalyzing)
	idResult, err := p.provider.IdentifyLanguage(ctx, artifact.Path)
	if err != nil {
		return fail(KindAnalysis, "language identification failed", err)
	}

	result := accent.MapResult(idResult.Candidates)

	metadata := map[string]interface{}{
		"provider":   idResult.Provider,
		"candidates": idResult.Candidates,
	}
	if idResult.Transcript != "" {
		metadata["transcript_preview"] = truncate(idResult.Transcript, 100)
	}

	if p.commentator != nil && result.Detected {
		commentary, cerr := p.commentator.Commentary(ctx, result.AccentLabel, result.ConfidencePercent, truncate(idResult.Transcript, 300))
		if cerr != nil {
			log.Printf("[Pipeline] %s: Warning: accent commentary failed: %v. Using template summary only.", rec.ID, cerr)
		} else {
			metadata["ai_commentary"] = commentary
		}
	}

	elapsed := int(time.Since(start).Milliseconds())
	p.store.Complete(rec.ID, result, metadata, elapsed)

	if result.Detected {
		log.Printf("[Pipeline] %s: done: %s accent, confidence=%.1f%%, took %dms", rec.ID, result.AccentLabel, result.ConfidencePercent, elapsed)
	} else {
		log.Printf("[Pipeline] %s: done: no accent result (%s), took %dms", rec.ID, result.Reason, elapsed)
	}

	final, _ := p.store.Get(rec.ID)
	return final, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
