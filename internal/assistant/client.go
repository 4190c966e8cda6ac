package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the single operation the assistant needs from an LLM
// provider: one user message in, free-form text out.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

// Config holds LLM client configuration. Injected explicitly so the
// assistant is testable without environment mutation.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns defaults targeting Groq's OpenAI-compatible API.
func DefaultConfig() Config {
	return Config{
		Model:   "llama-3.3-70b-versatile",
		BaseURL: "https://api.groq.com/openai/v1",
		Timeout: 60 * time.Second,
	}
}

// GroqClient implements ChatCompleter against Groq's chat-completion
// endpoint through the OpenAI-compatible client.
type GroqClient struct {
	client *openai.Client
	config Config
	logger *slog.Logger
}

// NewGroqClient creates a Groq-backed chat completion client.
func NewGroqClient(cfg Config, logger *slog.Logger) *GroqClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &GroqClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		logger: logger,
	}
}

// ChatCompletion sends a single-message conversation and returns the
// model's text verbatim. No caching, no retry: every invocation is a
// fresh network call.
func (c *GroqClient) ChatCompletion(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	timeout := c.config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	apiCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(apiCtx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned from model %s", c.config.Model)
	}

	c.logger.Debug("chat completion",
		"model", c.config.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}
