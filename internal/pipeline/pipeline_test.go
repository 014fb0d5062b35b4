package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accentdetect/internal/config"
	"accentdetect/internal/langid"
	"accentdetect/internal/media"
	"accentdetect/internal/model"
	"accentdetect/internal/resolve"
	"accentdetect/internal/storage"
)

type fakeAcquirer struct {
	duration float64
	err      error

	called  bool
	destDir string
}

func (f *fakeAcquirer) Acquire(_ context.Context, _ model.MediaSource, destDir string) (model.AudioArtifact, error) {
	f.called = true
	f.destDir = destDir
	if f.err != nil {
		// Simulate a partial artifact left behind by a failed tool run.
		_ = os.WriteFile(filepath.Join(destDir, "partial.mp3.part"), []byte("x"), 0644)
		return model.AudioArtifact{}, f.err
	}
	path := filepath.Join(destDir, "audio.mp3")
	_ = os.WriteFile(path, []byte("audio"), 0644)
	return model.AudioArtifact{Path: path, DurationSec: f.duration}, nil
}

type fakeProvider struct {
	result *langid.Result
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IdentifyLanguage(context.Context, string) (*langid.Result, error) {
	return f.result, f.err
}

type fakeCommentator struct {
	commentary string
	err        error
}

func (f *fakeCommentator) Commentary(context.Context, string, float64, string) (string, error) {
	return f.commentary, f.err
}

type videoSniffer struct{}

func (videoSniffer) Name() string                  { return "fixed" }
func (videoSniffer) Detect(string) (string, error) { return "video/mp4", nil }

func newTestPipeline(acq *fakeAcquirer, prov *fakeProvider, comm Commentator) (*Pipeline, *storage.Store) {
	cfg := &config.Config{MaxUploadBytes: 200 << 20, MaxDurationSec: 600}
	resolver := resolve.NewWithSniffers(cfg.MaxUploadBytes, videoSniffer{}, resolve.ExtensionGuesser{})
	store := storage.New()
	return New(cfg, resolver, acq, prov, comm, store), store
}

func englishResult(code string, confidence float64) *langid.Result {
	return &langid.Result{
		Candidates: []model.LanguageCandidate{{LanguageCode: code, Confidence: confidence}},
		Transcript: "hello there",
		Provider:   "fake",
	}
}

func TestRunURLHappyPath(t *testing.T) {
	acq := &fakeAcquirer{duration: 120}
	pl, store := newTestPipeline(acq, &fakeProvider{result: englishResult("en-GB", 0.95)}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.Nil(t, perr)
	require.NotNil(t, analysis)

	assert.Equal(t, model.StatusDone, analysis.Status)
	require.NotNil(t, analysis.Result)
	assert.True(t, analysis.Result.Detected)
	assert.Equal(t, "British", analysis.Result.AccentLabel)
	assert.InDelta(t, 95.0, analysis.Result.ConfidencePercent, 0.05)
	assert.Contains(t, analysis.Result.Summary, "very clear")
	require.NotNil(t, analysis.ProcessingTimeMs)

	// The store holds the same terminal record.
	stored, ok := store.Get(analysis.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusDone, stored.Status)

	// Scratch storage is fully released after the run.
	_, err := os.Stat(acq.destDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunUploadHappyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uploaded_video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0644))

	acq := &fakeAcquirer{duration: 30}
	pl, _ := newTestPipeline(acq, &fakeProvider{result: englishResult("en-US", 0.85)}, nil)

	analysis, perr := pl.Run(context.Background(), Input{FilePath: path, FileName: "clip.mp4", Size: 5})
	require.Nil(t, perr)
	assert.Equal(t, "upload", analysis.Source)
	assert.Equal(t, "American", analysis.Result.AccentLabel)
	assert.Equal(t, "clear", analysis.Result.Clarity)
}

func TestRunValidationFailureSkipsAcquisition(t *testing.T) {
	acq := &fakeAcquirer{}
	pl, _ := newTestPipeline(acq, &fakeProvider{}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "ftp://x.com/a.mp4"})
	require.NotNil(t, perr)
	assert.Equal(t, KindValidation, perr.Kind)
	assert.Equal(t, model.StatusFailed, analysis.Status)
	require.NotNil(t, analysis.ErrorKind)
	assert.Equal(t, string(KindValidation), *analysis.ErrorKind)
	assert.False(t, acq.called, "acquisition must not run for invalid input")
}

func TestRunForbiddenDownload(t *testing.T) {
	acq := &fakeAcquirer{err: fmt.Errorf("%w: HTTP Error 403", media.ErrForbidden)}
	pl, _ := newTestPipeline(acq, &fakeProvider{}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.NotNil(t, perr)
	assert.Equal(t, KindForbidden, perr.Kind)
	assert.Equal(t, model.StatusFailed, analysis.Status)

	// Partial artifacts are cleaned up even on failure.
	_, err := os.Stat(acq.destDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunDurationExceeded(t *testing.T) {
	acq := &fakeAcquirer{duration: 601}
	pl, _ := newTestPipeline(acq, &fakeProvider{result: englishResult("en-GB", 0.9)}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.NotNil(t, perr)
	assert.Equal(t, KindDurationExceeded, perr.Kind)
	assert.Contains(t, perr.Error(), "601")
	assert.Equal(t, model.StatusFailed, analysis.Status)

	// The completed artifact is still deleted on the policy rejection.
	_, err := os.Stat(acq.destDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunAnalysisFailure(t *testing.T) {
	acq := &fakeAcquirer{duration: 60}
	pl, _ := newTestPipeline(acq, &fakeProvider{err: fmt.Errorf("service down")}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.NotNil(t, perr)
	assert.Equal(t, KindAnalysis, perr.Kind)
	assert.Equal(t, model.StatusFailed, analysis.Status)

	_, err := os.Stat(acq.destDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunNonEnglishIsDoneNotFailed(t *testing.T) {
	acq := &fakeAcquirer{duration: 60}
	result := &langid.Result{
		Candidates: []model.LanguageCandidate{{LanguageCode: "fr-FR", Confidence: 0.97}},
		Provider:   "fake",
	}
	pl, _ := newTestPipeline(acq, &fakeProvider{result: result}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.Nil(t, perr)
	assert.Equal(t, model.StatusDone, analysis.Status)
	require.NotNil(t, analysis.Result)
	assert.False(t, analysis.Result.Detected)
	assert.Equal(t, model.ReasonNonEnglish, analysis.Result.Reason)
	assert.Equal(t, "fr-FR", analysis.Result.LanguageCode)
}

func TestRunUndeterminedIsDoneNotFailed(t *testing.T) {
	acq := &fakeAcquirer{duration: 60}
	pl, _ := newTestPipeline(acq, &fakeProvider{result: &langid.Result{Provider: "fake"}}, nil)

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.Nil(t, perr)
	assert.Equal(t, model.StatusDone, analysis.Status)
	assert.Equal(t, model.ReasonUndetermined, analysis.Result.Reason)
}

func TestRunAttachesCommentary(t *testing.T) {
	acq := &fakeAcquirer{duration: 60}
	pl, _ := newTestPipeline(acq, &fakeProvider{result: englishResult("en-AU", 0.92)},
		&fakeCommentator{commentary: "Broad vowels typical of Australian speech."})

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.Nil(t, perr)
	assert.Equal(t, "Broad vowels typical of Australian speech.", analysis.Metadata["ai_commentary"])
}

func TestRunCommentaryFailureIsNonFatal(t *testing.T) {
	acq := &fakeAcquirer{duration: 60}
	pl, _ := newTestPipeline(acq, &fakeProvider{result: englishResult("en-AU", 0.92)},
		&fakeCommentator{err: fmt.Errorf("quota exceeded")})

	analysis, perr := pl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
	require.Nil(t, perr)
	assert.Equal(t, model.StatusDone, analysis.Status)
	assert.NotContains(t, analysis.Metadata, "ai_commentary")
}
