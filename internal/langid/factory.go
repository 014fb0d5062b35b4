package langid

import (
	"fmt"
	"log"
	"strings"

	"accentdetect/internal/config"
)

// CreateProvider creates a language-identification provider from the loaded
// configuration.
func CreateProvider(cfg *config.Config) (Provider, error) {
	providerName := strings.ToLower(cfg.LangIDProvider)

	// Default to AssemblyAI if not specified
	if providerName == "" {
		providerName = "assemblyai"
		log.Printf("[LangID Factory] LANGID_PROVIDER not set, defaulting to 'assemblyai'")
	}

	switch providerName {
	case "assemblyai":
		return createAssemblyAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported language-ID provider: %s. Supported: assemblyai", providerName)
	}
}

func createAssemblyAIProvider(cfg *config.Config) (Provider, error) {
	if cfg.AssemblyAIKey == "" {
		return nil, fmt.Errorf("ASSEMBLYAI_API_KEY environment variable is not set")
	}

	url := cfg.AssemblyAIURL
	if url == "" {
		url = "https://api.assemblyai.com/v2"
		log.Printf("[LangID Factory] ASSEMBLYAI_BASE_URL not set, using default: %s", url)
	}

	log.Printf("[LangID Factory] Creating AssemblyAI provider")
	return NewAssemblyAIProvider(cfg.AssemblyAIKey, url), nil
}
