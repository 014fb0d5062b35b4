package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// probeResult is the slice of ffprobe JSON output we care about.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeDuration asks ffprobe for the duration of a media file, in seconds.
func (a *ToolAcquirer) probeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-of", "json",
		"--", path,
	}
	output, err := runTool(ctx, a.FFprobe, args)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w: %s", err, output)
	}
	return parseProbeDuration([]byte(output))
}

func parseProbeDuration(data []byte) (float64, error) {
	var result probeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}
	raw := strings.TrimSpace(result.Format.Duration)
	if raw == "" {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", raw, err)
	}
	return duration, nil
}

// runTool executes an external binary and returns its combined output,
// trimmed for error reporting.
func runTool(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}
