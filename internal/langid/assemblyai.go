package langid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"accentdetect/internal/model"
)

// AssemblyAIProvider implements language identification using the AssemblyAI
// v2 REST API: upload the audio, create a transcript with language detection
// enabled, then poll until the job settles.
type AssemblyAIProvider struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
}

// NewAssemblyAIProvider creates a new AssemblyAI provider
func NewAssemblyAIProvider(apiKey, baseURL string) *AssemblyAIProvider {
	return &AssemblyAIProvider{
		apiKey:       apiKey,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 90 * time.Second},
		pollInterval: 3 * time.Second,
		maxPolls:     100,
	}
}

// Name returns the provider name
func (p *AssemblyAIProvider) Name() string {
	return "assemblyai"
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
	Error     string `json:"error,omitempty"`
}

type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	LanguageDetection bool   `json:"language_detection"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	AutoHighlights    bool   `json:"auto_highlights"`
}

type transcriptResponse struct {
	ID                     string  `json:"id"`
	Status                 string  `json:"status"` // queued, processing, completed, error
	Error                  string  `json:"error,omitempty"`
	Text                   string  `json:"text,omitempty"`
	LanguageCode           string  `json:"language_code,omitempty"`
	LanguageConfidence     float64 `json:"language_confidence,omitempty"`
	LanguageIdentification []struct {
		LanguageCode string  `json:"language_code"`
		Confidence   float64 `json:"confidence"`
	} `json:"language_identification,omitempty"`
}

// IdentifyLanguage uploads the audio file and runs a transcription job with
// language identification, speaker labels and auto highlights requested.
func (p *AssemblyAIProvider) IdentifyLanguage(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	log.Printf("[AssemblyAI] Processing audio file: %s, extension: %s", audioPath, filepath.Ext(audioPath))

	uploadURL, err := p.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	transcriptID, err := p.createTranscript(ctx, uploadURL)
	if err != nil {
		return nil, err
	}

	resp, raw, err := p.pollTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Transcript:  resp.Text,
		Provider:    p.Name(),
		RawResponse: raw,
	}
	for _, li := range resp.LanguageIdentification {
		result.Candidates = append(result.Candidates, model.LanguageCandidate{
			LanguageCode: li.LanguageCode,
			Confidence:   li.Confidence,
		})
	}
	// Older responses carry a single detected language instead of the
	// ranked list.
	if len(result.Candidates) == 0 && resp.LanguageCode != "" {
		result.Candidates = append(result.Candidates, model.LanguageCandidate{
			LanguageCode: resp.LanguageCode,
			Confidence:   resp.LanguageConfidence,
		})
	}

	log.Printf("[AssemblyAI] Identification finished: candidates=%d, transcript length=%d, duration=%v",
		len(result.Candidates), len(result.Transcript), time.Since(startTime))
	return result, nil
}

// upload sends the raw audio bytes and returns the service-side URL.
func (p *AssemblyAIProvider) upload(ctx context.Context, audioPath string) (string, error) {
	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	// Check if audio file is too small (likely empty or corrupted)
	if len(audioBytes) < 1000 {
		return "", fmt.Errorf("audio file too small (%d bytes), may be empty or corrupted", len(audioBytes))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/upload", bytes.NewReader(audioBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("authorization", p.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	body, status, err := p.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to AssemblyAI: %w", err)
	}
	if status != http.StatusOK {
		log.Printf("[AssemblyAI] Upload error: Status %d, Body: %s", status, body)
		return "", fmt.Errorf("AssemblyAI upload returned status %d: %s", status, body)
	}

	var uploadResp uploadResponse
	if err := json.Unmarshal([]byte(body), &uploadResp); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if uploadResp.UploadURL == "" {
		return "", fmt.Errorf("AssemblyAI upload returned no upload_url: %s", body)
	}
	return uploadResp.UploadURL, nil
}

// createTranscript starts a transcription job for an uploaded audio URL.
func (p *AssemblyAIProvider) createTranscript(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(transcriptRequest{
		AudioURL:          audioURL,
		LanguageDetection: true,
		SpeakerLabels:     true,
		AutoHighlights:    true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("authorization", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	body, status, err := p.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create AssemblyAI transcript: %w", err)
	}
	if status != http.StatusOK {
		log.Printf("[AssemblyAI] Transcript create error: Status %d, Body: %s", status, body)
		return "", fmt.Errorf("AssemblyAI transcript create returned status %d: %s", status, body)
	}

	var resp transcriptResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return "", fmt.Errorf("failed to parse transcript response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("AssemblyAI returned no transcript id: %s", body)
	}
	return resp.ID, nil
}

// pollTranscript polls the job until it completes or errors.
func (p *AssemblyAIProvider) pollTranscript(ctx context.Context, id string) (*transcriptResponse, string, error) {
	for attempt := 0; attempt < p.maxPolls; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/transcript/"+id, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create poll request: %w", err)
		}
		req.Header.Set("authorization", p.apiKey)

		body, status, err := p.do(req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to poll AssemblyAI transcript: %w", err)
		}
		if status != http.StatusOK {
			log.Printf("[AssemblyAI] Poll error: Status %d, Body: %s", status, body)
			return nil, "", fmt.Errorf("AssemblyAI poll returned status %d: %s", status, body)
		}

		var resp transcriptResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			return nil, "", fmt.Errorf("failed to parse poll response: %w", err)
		}

		switch resp.Status {
		case "completed":
			preview := body
			if len(preview) > 500 {
				preview = preview[:500] + "..."
			}
			log.Printf("[AssemblyAI] Response preview: %s", preview)
			return &resp, body, nil
		case "error":
			return nil, "", fmt.Errorf("AssemblyAI transcription failed: %s", resp.Error)
		}

		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
	return nil, "", fmt.Errorf("AssemblyAI transcript %s did not complete in time", id)
}

func (p *AssemblyAIProvider) do(req *http.Request) (string, int, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), resp.StatusCode, nil
}
