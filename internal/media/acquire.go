// Package media acquires a normalized audio artifact from a validated media
// source: local video files are transcoded with ffmpeg, remote URLs are
// fetched and demuxed with yt-dlp. Both tools run as subprocesses.
package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"accentdetect/internal/config"
	"accentdetect/internal/model"
)

// ErrForbidden marks a download the source platform refused (HTTP 403).
// The presentation layer attaches platform-specific remediation tips to it.
var ErrForbidden = errors.New("access to this video is forbidden")

// Fixed browser-like header set sent with remote fetches to reduce blocking
// by source platforms.
var requestHeaders = []string{
	"User-Agent: Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language: en-us,en;q=0.5",
	"Sec-Fetch-Mode: navigate",
}

// Acquirer turns a MediaSource into an audio artifact inside destDir.
type Acquirer interface {
	Acquire(ctx context.Context, src model.MediaSource, destDir string) (model.AudioArtifact, error)
}

// ToolAcquirer shells out to ffmpeg, ffprobe and yt-dlp.
type ToolAcquirer struct {
	FFmpeg  string
	FFprobe string
	YTDLP   string
}

func NewToolAcquirer(cfg *config.Config) *ToolAcquirer {
	return &ToolAcquirer{
		FFmpeg:  cfg.FFmpegPath,
		FFprobe: cfg.FFprobePath,
		YTDLP:   cfg.YTDLPPath,
	}
}

// Acquire produces a stereo 44.1kHz MP3 inside destDir and probes its
// duration. The caller owns destDir and is responsible for cleanup.
func (a *ToolAcquirer) Acquire(ctx context.Context, src model.MediaSource, destDir string) (model.AudioArtifact, error) {
	if err := src.Validate(); err != nil {
		return model.AudioArtifact{}, err
	}

	var audioPath string
	var err error
	switch src.Kind {
	case model.SourceLocalFile:
		audioPath, err = a.transcodeLocal(ctx, src.Path, destDir)
	case model.SourceRemoteURL:
		audioPath, err = a.fetchRemote(ctx, src.URL, destDir)
	default:
		err = fmt.Errorf("unknown media source kind %q", src.Kind)
	}
	if err != nil {
		return model.AudioArtifact{}, err
	}

	artifact := model.AudioArtifact{Path: audioPath, CreatedAt: time.Now()}

	duration, err := a.probeDuration(ctx, audioPath)
	if err != nil {
		// The duration policy is enforced by the orchestrator; a failed
		// probe leaves the duration unreported rather than failing the run.
		log.Printf("[Media] Warning: could not probe duration of %s: %v", audioPath, err)
	} else {
		artifact.DurationSec = duration
	}
	return artifact, nil
}

// transcodeLocal converts a local video file to audio using ffmpeg.
func (a *ToolAcquirer) transcodeLocal(ctx context.Context, videoPath, destDir string) (string, error) {
	audioPath := filepath.Join(destDir, "audio.mp3")
	args := ffmpegArgs(videoPath, audioPath)

	log.Printf("[Media] Transcoding %s -> %s", videoPath, audioPath)
	if output, err := runTool(ctx, a.FFmpeg, args); err != nil {
		return "", fmt.Errorf("ffmpeg error: %w: %s", err, output)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio conversion failed: no output produced")
	}
	return audioPath, nil
}

// fetchRemote downloads a video URL and extracts its audio using yt-dlp. The
// output file carries the service-assigned video id ({id}.mp3).
func (a *ToolAcquirer) fetchRemote(ctx context.Context, url, destDir string) (string, error) {
	args := ytdlpArgs(url, destDir)

	log.Printf("[Media] Downloading audio from %s", url)
	if output, err := runTool(ctx, a.YTDLP, args); err != nil {
		if strings.Contains(output, "403") || strings.Contains(output, "Forbidden") {
			return "", fmt.Errorf("%w: %s", ErrForbidden, err)
		}
		return "", fmt.Errorf("error downloading video: %w: %s", err, output)
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "*.mp3"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("audio file was not downloaded successfully")
	}
	return matches[0], nil
}

func ffmpegArgs(videoPath, audioPath string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-ac", "2",
		"-ar", "44100",
		"-c:a", "libmp3lame",
		audioPath,
	}
}

func ytdlpArgs(url, destDir string) []string {
	args := []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--no-check-certificates",
		"--geo-bypass",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
	}
	for _, h := range requestHeaders {
		args = append(args, "--add-header", h)
	}
	return append(args, "--", url)
}
