package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Commentator produces a short natural-language note about a detected
// accent. It is optional: the pipeline runs without it when no OpenAI key is
// configured, and its failures never fail a request.
type Commentator struct {
	client *openai.Client
}

func NewCommentator(apiKey string) *Commentator {
	return &Commentator{client: openai.NewClient(apiKey)}
}

// Commentary asks the model for one or two sentences about the detected
// accent, grounded in a transcript excerpt.
func (c *Commentator) Commentary(ctx context.Context, accentLabel string, confidencePercent float64, transcriptExcerpt string) (string, error) {
	systemPrompt := "You are a speech coach. Given a detected English accent and a transcript excerpt, " +
		"write one or two short sentences describing notable features of that accent in the excerpt. " +
		"Plain text only, no headings, no markdown."

	userPrompt := fmt.Sprintf("Detected accent: %s English (%.1f%% confidence).\nTranscript excerpt:\n%s",
		accentLabel, confidencePercent, transcriptExcerpt)

	log.Printf("[AI] Requesting accent commentary (accent=%s, excerpt length=%d)", accentLabel, len(transcriptExcerpt))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3, // Low temperature for factual output
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models wrap plain text in code fences anyway.
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("OpenAI returned empty commentary")
	}

	log.Printf("[AI] Commentary received (%d chars)", len(content))
	return content, nil
}
