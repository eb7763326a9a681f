package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/randalmurphal/enc/audit"
	"github.com/randalmurphal/enc/provider"
)

// Name is the provider name this package registers.
const Name = "google"

// backendName identifies the backend in placeholders and warnings.
const backendName = "gemini"

// DefaultBaseURL is the API root used when no base URL is configured.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Sampling temperatures.
const (
	Temperature       = 0.2
	SeededTemperature = 0.0
)

// Audit section labels.
const (
	LabelRequest  = "GEMINI REQUEST"
	LabelResponse = "GEMINI RESPONSE"
)

// Client implements provider.Adapter for the Gemini API.
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

// New creates a new Gemini client for model.
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

// WithBaseURL sets the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
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

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// GenerationConfig is the sampling configuration sent with each request.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens *int    `json:"maxOutputTokens,omitempty"`
}

// NewGenerationConfig builds the sampling configuration for a request.
func NewGenerationConfig(req provider.Request) GenerationConfig {
	cfg := GenerationConfig{Temperature: Temperature, MaxOutputTokens: req.MaxTokens}
	if req.Seed != nil {
		cfg.Temperature = SeededTemperature
	}
	return cfg
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type requestLog struct {
	Provider         string           `json:"provider"`
	Model            string           `json:"model"`
	Prompt           string           `json:"prompt"`
	GenerationConfig GenerationConfig `json:"generation_config"`
	ThinkingBudget   *int             `json:"thinking_budget_requested"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
	ModelVersion  string         `json:"modelVersion"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate implements provider.Adapter.
func (c *Client) Generate(ctx context.Context, req provider.Request) (*provider.Result, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	genCfg := NewGenerationConfig(req)

	c.audit.Record(LabelRequest, requestLog{
		Provider:         Name,
		Model:            model,
		Prompt:           req.Prompt,
		GenerationConfig: genCfg,
		ThinkingBudget:   req.ThinkingBudget,
	})

	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: genCfg,
	})
	if err != nil {
		return nil, provider.NewError(Name, "encode", err)
	}

	endpoint := c.baseURL + "/models/" + url.PathEscape(strings.TrimPrefix(model, "models/")) + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, provider.NewError(Name, "generate", fmt.Errorf("%w: %w", provider.ErrCommunication, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

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

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, provider.NewError(Name, "decode", fmt.Errorf("%w: %w", provider.ErrInvalidResponse, err))
	}
	c.audit.Record(LabelResponse, json.RawMessage(raw))

	res := &provider.Result{
		Model:    parsed.ModelVersion,
		Duration: c.now().Sub(start),
	}
	if len(parsed.Candidates) > 0 {
		cand := parsed.Candidates[0]
		res.FinishReason = cand.FinishReason
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		res.Content = strings.TrimSpace(sb.String())
	}
	if res.Content == "" {
		attrs := []any{"model", model, "finish_reason", res.FinishReason}
		if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
			attrs = append(attrs, "block_reason", parsed.PromptFeedback.BlockReason)
		}
		c.logger.Warn("gemini response seems empty or was blocked", attrs...)
		res.Content = provider.Placeholder(backendName, req.TargetLanguage)
		res.Blocked = true
	}

	res.Usage = c.usage(parsed.UsageMetadata, req.Prompt, res.Content)
	return res, nil
}

func (c *Client) usage(meta *usageMetadata, prompt, output string) provider.Usage {
	if meta == nil {
		c.logger.Warn("token usage information (usageMetadata) not available from gemini; falling back to character counts")
		return provider.CharacterUsage(output, prompt)
	}
	if meta.PromptTokenCount == 0 && meta.CandidatesTokenCount == 0 && meta.TotalTokenCount == 0 {
		c.logger.Warn("token usage information from gemini metadata is all zero; falling back to character counts")
		return provider.CharacterUsage(output, prompt)
	}
	return provider.TokenUsage(meta.PromptTokenCount, meta.CandidatesTokenCount, meta.TotalTokenCount)
}

func apiMessage(raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		if e.Error.Status != "" {
			return provider.Excerpt(e.Error.Status + ": " + e.Error.Message)
		}
		return provider.Excerpt(e.Error.Message)
	}
	return provider.Excerpt(string(raw))
}
