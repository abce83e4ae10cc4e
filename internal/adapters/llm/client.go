// Package llm adapts the OpenAI completion API to the scoring.Completer
// contract: one user message in, free text out, within a fixed output
// token budget.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hackfest/vibeboard/pkg/metrics"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing OpenAI API key")

const defaultModel = "gpt-4o-mini"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the SDK at a compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client wraps the OpenAI SDK.
type Client struct {
	sdk     openai.Client
	model   string
	baseURL string
}

// NewClient builds a completion client for the given API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}

	sdkOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(c.baseURL))
	}
	c.sdk = openai.NewClient(sdkOpts...)

	return c, nil
}

// Complete sends one user-role message and returns the raw reply text.
// No retries: callers degrade to defaults on failure.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()

	resp, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:     c.model,
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	metrics.RecordLLMLatency(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}

	return resp.Choices[0].Message.Content, nil
}
