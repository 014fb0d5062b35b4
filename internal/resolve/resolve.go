// Package resolve classifies and validates raw user input (an uploaded file
// or a URL string) into a model.MediaSource before any external call is made.
package resolve

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"accentdetect/internal/model"
)

// Video containers accepted for upload, and URL hosts the downloader is
// known to handle.
var (
	allowedExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}
	allowedHosts      = []string{"loom.com", "youtube.com", "youtu.be"}
)

// IsURL reports whether the input looks like a URL rather than a local path.
// This is a prefix heuristic, not a guarantee: a local path literally named
// "www.clip" would misclassify as a URL. Known limitation, kept on purpose.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// Resolver validates inputs against the boundary constraints. The MIME
// sniffer strategy is injectable; content inspection is preferred and the
// extension guesser is consulted only when it fails.
type Resolver struct {
	MaxUploadBytes int64
	sniffer        Sniffer
	fallback       Sniffer
}

// New returns a Resolver with content sniffing as the primary strategy.
func New(maxUploadBytes int64) *Resolver {
	return &Resolver{
		MaxUploadBytes: maxUploadBytes,
		sniffer:        ContentSniffer{},
		fallback:       ExtensionGuesser{},
	}
}

// NewWithSniffers returns a Resolver with explicit sniffer strategies.
func NewWithSniffers(maxUploadBytes int64, primary, fallback Sniffer) *Resolver {
	return &Resolver{MaxUploadBytes: maxUploadBytes, sniffer: primary, fallback: fallback}
}

// ResolveURL validates a remote video URL. The URL must use a supported
// scheme prefix and either end in a known video extension or contain one of
// the allow-listed host substrings.
func (r *Resolver) ResolveURL(raw string) (model.MediaSource, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return model.MediaSource{}, fmt.Errorf("video URL is required")
	}
	if !IsURL(url) {
		return model.MediaSource{}, fmt.Errorf("unsupported URL %q: must start with http://, https:// or www.", url)
	}
	if !hasVideoExtension(url) && !hasAllowedHost(url) {
		return model.MediaSource{}, fmt.Errorf("unsupported video URL. Supported: direct links ending in .mp4/.mov/.avi/.mkv, or videos hosted on loom.com, youtube.com, youtu.be")
	}
	return model.RemoteURL(url), nil
}

// ResolveUpload validates an uploaded video file that has already been
// written to path. Size and extension are checked before the file content is
// touched.
func (r *Resolver) ResolveUpload(path, filename string, size int64) (model.MediaSource, error) {
	if size <= 0 {
		return model.MediaSource{}, fmt.Errorf("uploaded file size is unknown")
	}
	if size > r.MaxUploadBytes {
		return model.MediaSource{}, fmt.Errorf("file size exceeds %dMB limit", r.MaxUploadBytes>>20)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	valid := false
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			valid = true
			break
		}
	}
	if !valid {
		return model.MediaSource{}, fmt.Errorf("unsupported video format. Supported: mp4, mov, avi, mkv")
	}

	mimeType, err := r.sniffer.Detect(path)
	if err != nil {
		log.Printf("[Resolve] %s sniffer failed (%v), falling back to %s", r.sniffer.Name(), err, r.fallback.Name())
		mimeType, err = r.fallback.Detect(path)
		if err != nil {
			return model.MediaSource{}, fmt.Errorf("could not determine file type: %w", err)
		}
	}
	if !strings.HasPrefix(mimeType, "video/") {
		return model.MediaSource{}, fmt.Errorf("file does not look like a video (detected type: %s)", mimeType)
	}

	return model.LocalFile(path, size, mimeType), nil
}

func hasVideoExtension(url string) bool {
	lower := strings.ToLower(url)
	// Ignore any query string when matching the extension.
	if i := strings.IndexByte(lower, '?'); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func hasAllowedHost(url string) bool {
	lower := strings.ToLower(url)
	for _, host := range allowedHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}
