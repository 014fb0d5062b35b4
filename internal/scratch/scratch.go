// Package scratch manages request-scoped temporary storage for intermediate
// media artifacts. Every pipeline run allocates its own subdirectory under
// the system temp root, and cleanup is best-effort on every exit path.
package scratch

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const dirPrefix = "accent-"

// Dir allocates a fresh scratch directory under the system temp root.
// Ownership belongs exclusively to the request that created it.
func Dir() (string, error) {
	dir := filepath.Join(os.TempDir(), dirPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, nil
}

// Cleanup removes a file and, when its parent directory lives under the
// system temp root, the parent directory too. A missing file or an already
// removed directory is not an error; Cleanup never reports one.
func Cleanup(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)

	parent := filepath.Dir(path)
	tempRoot := os.TempDir()
	if parent != tempRoot && strings.HasPrefix(parent, tempRoot) {
		_ = os.RemoveAll(parent)
	}
}

// CleanupDir releases a whole scratch directory, partial artifacts included.
// Only directories under the system temp root are touched.
func CleanupDir(dir string) {
	if dir == "" {
		return
	}
	tempRoot := os.TempDir()
	if dir != tempRoot && strings.HasPrefix(dir, tempRoot) {
		_ = os.RemoveAll(dir)
	}
}

// SaveUpload writes an uploaded file into dir and returns the saved path.
// The original extension is preserved for downstream tooling.
func SaveUpload(file *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(dir, "uploaded_video"+ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return dst, nil
}
