package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"NewsGenie/internal/config"
	"NewsGenie/internal/ports"
)

const defaultSystemPrompt = "You summarize news articles in a few neutral sentences."

// ChatGPTSummarizer implements ports.Summarizer backed by OpenAI-compatible APIs.
type ChatGPTSummarizer struct {
	client       openai.Client
	model        string
	systemPrompt string
}

var _ ports.Summarizer = (*ChatGPTSummarizer)(nil)

// NewChatGPTSummarizer builds a client from configuration. Retries are left
// to the caller's fallback policy.
func NewChatGPTSummarizer(cfg config.ChatGPTConfig, httpClient *http.Client) *ChatGPTSummarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &ChatGPTSummarizer{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		systemPrompt: safePrompt(cfg.SystemPrompt),
	}
}

// Summarize asks the chat model for a summary capped at maxLength tokens.
func (c *ChatGPTSummarizer) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if c == nil {
		return "", errors.New("chatgpt client is nil")
	}
	if c.model == "" {
		return "", errors.New("chatgpt client misconfigured")
	}

	prompt := fmt.Sprintf("Summarize the following article in at most %d words:\n\n%s", maxLength, text)
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxLength) * 2),
	})
	if err != nil {
		return "", fmt.Errorf("chatgpt request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chatgpt returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("chatgpt returned an empty summary")
	}
	return summary, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
