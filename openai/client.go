package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/randalmurphal/enc/audit"
	"github.com/randalmurphal/enc/provider"
)

// Name is the provider name this package registers.
const Name = "openai"

// DefaultBaseURL is the API root used when no base URL is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

// Temperature is fixed for code generation.
const Temperature = 0.2

// Audit section labels.
const (
	LabelRequest  = "OPENAI REQUEST"
	LabelResponse = "OPENAI RESPONSE"
)

// Client implements provider.Adapter for chat-completion backends.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    provider.HTTPDoer
	audit   audit.Sink
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures Client.
type Option func(*Client)

// New creates a new chat client for model.
func New(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   model,
		http:    &http.Client{},
		audit:   audit.Discard,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL sets the API root (for example "http://localhost:8080/v1").
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient sets the HTTP transport.
func WithHTTPClient(h provider.HTTPDoer) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithAudit sets the sink receiving request and response snapshots.
func WithAudit(s audit.Sink) Option {
	return func(c *Client) { c.audit = audit.OrDiscard(s) }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Provider implements provider.Adapter.
func (c *Client) Provider() string { return Name }

// SystemMessage returns the system message used for a target language.
func SystemMessage(targetLanguage string) string {
	return fmt.Sprintf("You are an expert programmer specializing in %s.", targetLanguage)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Seed        *int          `json:"seed,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type requestLog struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	RequestParams  chatRequest `json:"request_params"`
	ThinkingBudget *int        `json:"thinking_budget_requested"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate implements provider.Adapter.
func (c *Client) Generate(ctx context.Context, req provider.Request) (*provider.Result, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	system := SystemMessage(req.TargetLanguage)

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: Temperature,
		Seed:        req.Seed,
		MaxTokens:   req.MaxTokens,
	}
	c.audit.Record(LabelRequest, requestLog{
		Provider:       Name,
		Model:          model,
		RequestParams:  body,
		ThinkingBudget: req.ThinkingBudget,
	})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, provider.NewError(Name, "encode", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, provider.NewError(Name, "generate", fmt.Errorf("%w: %w", provider.ErrCommunication, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := c.now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, provider.NewError(Name, "generate", fmt.Errorf("%w: %w", provider.ErrCommunication, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.NewError(Name, "generate", fmt.Errorf("%w: read response: %w", provider.ErrCommunication, err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &provider.Error{
			Provider:   Name,
			Op:         "generate",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: status %d: %s", provider.ErrAPI, resp.StatusCode, apiMessage(raw)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, provider.NewError(Name, "decode", fmt.Errorf("%w: %w", provider.ErrInvalidResponse, err))
	}
	c.audit.Record(LabelResponse, json.RawMessage(raw))

	res := &provider.Result{
		Model:    parsed.Model,
		Duration: c.now().Sub(start),
	}
	if len(parsed.Choices) > 0 {
		res.FinishReason = parsed.Choices[0].FinishReason
		if content := parsed.Choices[0].Message.Content; content != nil {
			res.Content = strings.TrimSpace(*content)
		}
	}
	if res.Content == "" {
		c.logger.Warn("openai response was empty", "model", model, "finish_reason", res.FinishReason)
		res.Content = provider.Placeholder(Name, req.TargetLanguage)
		res.Blocked = true
	}

	res.Usage = c.usage(parsed, system, req.Prompt, res.Content)
	return res, nil
}

func (c *Client) usage(parsed chatResponse, system, prompt, output string) provider.Usage {
	if parsed.Usage == nil {
		c.logger.Warn("token usage information not available from openai; falling back to character counts")
		return provider.CharacterUsage(output, system, prompt)
	}
	if parsed.Usage.PromptTokens == 0 && parsed.Usage.CompletionTokens == 0 {
		c.logger.Warn("openai reported 0 tokens for both input and output; falling back to character counts")
		return provider.CharacterUsage(output, system, prompt)
	}
	return provider.Usage{
		Input:  parsed.Usage.PromptTokens,
		Output: parsed.Usage.CompletionTokens,
		Kind:   provider.UnitTokens,
	}
}

func apiMessage(raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return provider.Excerpt(e.Error.Message)
	}
	return provider.Excerpt(string(raw))
}
