package langid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accentdetect/internal/config"
)

func TestCreateProviderDefaultsToAssemblyAI(t *testing.T) {
	cfg := &config.Config{AssemblyAIKey: "key", AssemblyAIURL: "https://api.assemblyai.com/v2"}

	p, err := CreateProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "assemblyai", p.Name())

	cfg.LangIDProvider = "AssemblyAI" // case-insensitive
	p, err = CreateProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "assemblyai", p.Name())
}

func TestCreateProviderUnsupported(t *testing.T) {
	_, err := CreateProvider(&config.Config{AssemblyAIKey: "key", LangIDProvider: "whisper"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language-ID provider")
}

func TestCreateProviderRequiresKey(t *testing.T) {
	_, err := CreateProvider(&config.Config{LangIDProvider: "assemblyai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASSEMBLYAI_API_KEY")
}
