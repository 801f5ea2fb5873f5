package generate

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultMaxTokens   = 1024
)

// GroqClient generates text completions through Groq's OpenAI-compatible
// API. It implements royaltix.TextGenerator.
type GroqClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// GroqConfig options for the text generation client
type GroqConfig struct {
	APIKey    string // API key (required)
	BaseURL   string // Defaults to the Groq OpenAI-compatible endpoint
	Model     string // Defaults to llama-3.3-70b-versatile
	MaxTokens int    // Defaults to 1024
}

// NewGroq creates a new text generation client
func NewGroq(config GroqConfig) (*GroqClient, error) {
	if config.APIKey == "" {
		return nil, errors.New("groq api key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultGroqBaseURL
	}
	if config.Model == "" {
		config.Model = defaultGroqModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaultMaxTokens
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return &GroqClient{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     config.Model,
		maxTokens: config.MaxTokens,
	}, nil
}

// GenerateText requests a completion for the prompt. Single attempt; any
// provider failure or empty completion is a GenerationError.
func (c *GroqClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 1,
		MaxTokens:   c.maxTokens,
		TopP:        1,
	})
	if err != nil {
		return "", &royaltix.GenerationError{Provider: "groq", Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &royaltix.GenerationError{
			Provider: "groq",
			Err:      fmt.Errorf("%w: no completion in response", royaltix.ErrEmptyResult),
		}
	}

	return resp.Choices[0].Message.Content, nil
}
