// Package ai wraps the OpenAI chat completion API for document analysis,
// case chat and demand letter generation. Each call resolves provider
// settings per user, falling back to the server-level configuration.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when neither the user nor the server has
// an AI provider configured.
var ErrNotConfigured = errors.New("ai provider not configured")

// Settings are the resolved provider settings for a single call
type Settings struct {
	ApiKey         string
	Endpoint       string
	DeploymentName string
	Model          string
}

// Message is a single conversation turn sent to the model
type Message struct {
	Role    string
	Content string
}

// AnalysisResult is the structured outcome of document analysis
type AnalysisResult struct {
	Summary       string
	ExtractedData string
	Model         string
}

// Client calls chat completion endpoints with per-user provider settings
type Client struct {
	defaults config.AIConfig
	logger   *zap.Logger
}

// NewClient creates an AI client with server-level defaults
func NewClient(cfg *config.AIConfig, logger *zap.Logger) *Client {
	return &Client{defaults: *cfg, logger: logger}
}

// Resolve merges a user's provider settings over the server defaults.
// A user supplying their own API key supplies their own endpoint context
// too, so endpoint and deployment are only taken from the user when the
// key is theirs.
func (c *Client) Resolve(user *domain.User) Settings {
	s := Settings{
		ApiKey:         c.defaults.ApiKey,
		Endpoint:       c.defaults.Endpoint,
		DeploymentName: c.defaults.DeploymentName,
		Model:          c.defaults.Model,
	}
	if user != nil && user.AiApiKey != "" {
		s.ApiKey = user.AiApiKey
		s.Endpoint = user.AiEndpoint
		s.DeploymentName = user.AiDeploymentName
	}
	return s
}

// Configured reports whether a completion call could succeed for this user
func (c *Client) Configured(user *domain.User) bool {
	return c.Resolve(user).ApiKey != ""
}

func (c *Client) clientFor(s Settings) *openai.Client {
	if s.Endpoint != "" {
		cfg := openai.DefaultAzureConfig(s.ApiKey, s.Endpoint)
		if s.DeploymentName != "" {
			deployment := s.DeploymentName
			cfg.AzureModelMapperFunc = func(model string) string { return deployment }
		}
		return openai.NewClientWithConfig(cfg)
	}
	return openai.NewClient(s.ApiKey)
}

// Complete sends a conversation to the model and returns the assistant
// reply together with the model name that produced it.
func (c *Client) Complete(ctx context.Context, user *domain.User, messages []Message) (string, string, error) {
	s := c.Resolve(user)
	if s.ApiKey == "" {
		return "", "", ErrNotConfigured
	}

	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	req := openai.ChatCompletionRequest{
		Model:    s.Model,
		Messages: msgs,
	}
	if c.defaults.MaxTokens > 0 {
		req.MaxTokens = c.defaults.MaxTokens
	}

	resp, err := c.clientFor(s).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.Debug("Chat completion finished",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, resp.Model, nil
}

// AnalyzeDocument runs the analysis prompt over extracted document text.
// The model is instructed to reply with a JSON object containing a
// "summary" string and an "extracted" object; replies that are not valid
// JSON fall back to using the whole reply as the summary.
func (c *Client) AnalyzeDocument(ctx context.Context, user *domain.User, systemPrompt, filename, text string) (*AnalysisResult, error) {
	userMsg := fmt.Sprintf("Document filename: %s\n\nDocument content:\n%s", filename, text)

	reply, model, err := c.Complete(ctx, user, []Message{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userMsg},
	})
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{Model: model}

	var parsed struct {
		Summary   string          `json:"summary"`
		Extracted json.RawMessage `json:"extracted"`
	}
	body := stripCodeFence(reply)
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Summary != "" {
		result.Summary = parsed.Summary
		if len(parsed.Extracted) > 0 {
			result.ExtractedData = string(parsed.Extracted)
		}
	} else {
		result.Summary = strings.TrimSpace(reply)
	}

	return result, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models
// frequently wrap JSON replies in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
