package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/go-resty/resty/v2"
)

var errProviderNotConfigured = errors.New("provider not configured")

// CompletionRequest is the vendor-neutral shape of one tutor question.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	Temperature  float64
}

// ChatProvider answers one tutor question. Implementations make a single
// attempt and return an error on any failure.
type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionBody struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	MaxTokens   int                     `json:"max_tokens"`
	Temperature float64                 `json:"temperature"`
}

type chatCompletionResult struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAICompatibleProvider talks to any chat-completions endpoint that
// follows the OpenAI request and response layout.
type OpenAICompatibleProvider struct {
	model  string
	url    string
	apiKey string
	client *resty.Client
}

func NewOpenAICompatibleProvider(url, apiKey, model string, timeout time.Duration) *OpenAICompatibleProvider {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(shared.JSONMarshal).
		SetJSONUnmarshaler(shared.JSONUnmarshal)

	return &OpenAICompatibleProvider{
		model:  model,
		url:    url,
		apiKey: apiKey,
		client: client,
	}
}

// providerFromEnv builds a provider from <prefix>_URL, <prefix>_API_KEY and
// <prefix>_MODEL. A missing URL yields a provider that always fails.
func providerFromEnv(prefix, defaultModel string, timeout time.Duration) *OpenAICompatibleProvider {
	return NewOpenAICompatibleProvider(
		envOr(prefix+"_URL", ""),
		envOr(prefix+"_API_KEY", ""),
		envOr(prefix+"_MODEL", defaultModel),
		timeout,
	)
}

func (p *OpenAICompatibleProvider) Name() string {
	return p.model
}

func (p *OpenAICompatibleProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.url == "" {
		return "", errProviderNotConfigured
	}

	body := chatCompletionBody{
		Model: p.model,
		Messages: []chatCompletionMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserMessage},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var result chatCompletionResult
	r := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result)
	if p.apiKey != "" {
		r.SetAuthToken(p.apiKey)
	}

	resp, err := r.Post(p.url)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", p.model, err)
	}
	if resp.IsError() {
		if result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("%s returned %d: %s", p.model, resp.StatusCode(), result.Error.Message)
		}
		return "", fmt.Errorf("%s returned %d", p.model, resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.model)
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s returned an empty message", p.model)
	}
	return content, nil
}
