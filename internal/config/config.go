package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port string

	// AssemblyAI is the only required credential. Absence is a fatal
	// startup error, never a per-request error.
	AssemblyAIKey string
	AssemblyAIURL string

	// OpenAI key is optional (only needed for AI accent commentary).
	OpenAIKey string

	LangIDProvider string

	FFmpegPath  string
	FFprobePath string
	YTDLPPath   string

	MaxUploadBytes int64
	MaxDurationSec float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AssemblyAIKey:  os.Getenv("ASSEMBLYAI_API_KEY"),
		AssemblyAIURL:  getEnv("ASSEMBLYAI_BASE_URL", "https://api.assemblyai.com/v2"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		LangIDProvider: getEnv("LANGID_PROVIDER", "assemblyai"),
		FFmpegPath:     getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:    getEnv("FFPROBE_PATH", "ffprobe"),
		YTDLPPath:      getEnv("YTDLP_PATH", "yt-dlp"),
		MaxUploadBytes: 200 << 20, // 200 MiB
		MaxDurationSec: 600,       // 10 minutes
	}

	// Validate required environment variables
	if cfg.AssemblyAIKey == "" {
		return nil, fmt.Errorf("ASSEMBLYAI_API_KEY is required. Please set it as environment variable:\n  Windows PowerShell: $env:ASSEMBLYAI_API_KEY=\"your_key\"\n  Windows CMD: set ASSEMBLYAI_API_KEY=your_key\n  Linux/Mac: export ASSEMBLYAI_API_KEY=\"your_key\"")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
