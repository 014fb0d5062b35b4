package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAssemblyAIKey(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASSEMBLYAI_API_KEY is required")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("ASSEMBLYAI_BASE_URL", "")
	t.Setenv("LANGID_PROVIDER", "")
	t.Setenv("FFMPEG_PATH", "")
	t.Setenv("FFPROBE_PATH", "")
	t.Setenv("YTDLP_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test-key", cfg.AssemblyAIKey)
	assert.Equal(t, "https://api.assemblyai.com/v2", cfg.AssemblyAIURL)
	assert.Equal(t, "assemblyai", cfg.LangIDProvider)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, "yt-dlp", cfg.YTDLPPath)
	assert.Equal(t, int64(200<<20), cfg.MaxUploadBytes)
	assert.Equal(t, float64(600), cfg.MaxDurationSec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "test-key")
	t.Setenv("PORT", "9999")
	t.Setenv("ASSEMBLYAI_BASE_URL", "http://localhost:8123/v2")
	t.Setenv("YTDLP_PATH", "/opt/bin/yt-dlp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "http://localhost:8123/v2", cfg.AssemblyAIURL)
	assert.Equal(t, "/opt/bin/yt-dlp", cfg.YTDLPPath)
}
