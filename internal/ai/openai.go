package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultBaseURL is Mistral's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.mistral.ai/v1"

// Settings configure an OpenAICompleter.
type Settings struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

// OpenAICompleter calls any OpenAI-compatible chat completions endpoint.
type OpenAICompleter struct {
	client   openai.Client
	settings Settings
}

// NewOpenAICompleter builds a client; an empty BaseURL targets Mistral.
func NewOpenAICompleter(s Settings) *OpenAICompleter {
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.Model == "" {
		s.Model = "mistral-small-latest"
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 200
	}
	if s.Timeout == 0 {
		s.Timeout = 20 * time.Second
	}
	client := openai.NewClient(
		option.WithAPIKey(s.APIKey),
		option.WithBaseURL(s.BaseURL),
		option.WithMaxRetries(1),
	)
	return &OpenAICompleter{client: client, settings: s}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.settings.Timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.settings.Model),
		Messages:    messages,
		Temperature: openai.Float(c.settings.Temperature),
		MaxTokens:   openai.Int(c.settings.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: completion: %v", ErrCollaborator, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrCollaborator)
	}
	return resp.Choices[0].Message.Content, nil
}
