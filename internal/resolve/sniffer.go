package resolve

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Sniffer reports the MIME type of a file on disk.
type Sniffer interface {
	// Detect returns the MIME type (e.g. "video/mp4") for the file at path.
	Detect(path string) (string, error)

	// Name returns the name of the strategy (e.g. "content", "extension")
	Name() string
}

// ContentSniffer detects the MIME type by inspecting file content.
type ContentSniffer struct{}

func (ContentSniffer) Name() string { return "content" }

func (ContentSniffer) Detect(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to sniff file content: %w", err)
	}
	return mtype.String(), nil
}

// extensionTypes covers the video containers accepted at the boundary.
// mime.TypeByExtension handles everything else, when the platform knows it.
var extensionTypes = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
	".avi": "video/x-msvideo",
	".mkv": "video/x-matroska",
}

// ExtensionGuesser guesses the MIME type from the file extension. It is the
// fallback strategy when content inspection fails.
type ExtensionGuesser struct{}

func (ExtensionGuesser) Name() string { return "extension" }

func (ExtensionGuesser) Detect(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("file has no extension to guess from")
	}
	if t, ok := extensionTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t, nil
	}
	return "", fmt.Errorf("unknown file extension %q", ext)
}
