// Package provider implements the outbound completion boundary against the
// Anthropic Messages API, plus the web-search research helpers built on it.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"linkdraft/internal/domain"
)

const (
	anthropicAPIURL    = "https://api.anthropic.com/v1/messages"
	anthropicVersion   = "2023-06-01"
	defaultModel       = "claude-sonnet-4-20250514"
	defaultMaxTokens   = 1024
	defaultHTTPTimeout = 120 * time.Second
)

// Anthropic implements domain.CompletionService against the Messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

type Config struct {
	APIKey string
	Model  string
	Logger *slog.Logger
}

func NewAnthropic(cfg Config) *Anthropic {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Anthropic{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: anthropicAPIURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:  cfg.Logger,
	}
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Thinking  *apiThinking `json:"thinking,omitempty"`
	Tools     []apiTool    `json:"tools,omitempty"`
	Messages  []apiMessage `json:"messages"`
}

type apiThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

type apiTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []apiContent `json:"content"`
	Error   *apiError    `json:"error"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Message string `json:"message"`
}

// Invoke sends one prompt and returns the concatenated text blocks. Thinking
// blocks are internal reasoning and are skipped. Errors come back as
// *domain.Failure so the engine can surface them by category.
func (a *Anthropic) Invoke(ctx context.Context, req domain.InvokeRequest) (string, error) {
	if a.apiKey == "" {
		return "", domain.NewFailure(domain.FailConfiguration,
			"API key not configured. Set your API key before generating.")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body := apiRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages:  []apiMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.ThinkingBudget > 0 {
		body.Thinking = &apiThinking{Type: "enabled", BudgetTokens: req.ThinkingBudget}
	}
	if req.WebSearch {
		body.Tools = append(body.Tools, apiTool{
			Type:    "web_search",
			Name:    "web_search",
			MaxUses: req.MaxSearchUses,
		})
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", domain.NewFailure(domain.FailMalformed, "marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.NewFailure(domain.FailMalformed, "new request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewFailure(domain.FailNetwork, "request timed out: %v", err)
		}
		return "", domain.NewFailure(domain.FailNetwork,
			"Network error. Please check your internet connection.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", a.statusFailure(resp)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", domain.NewFailure(domain.FailUpstream, "decode response: %v", err)
	}

	var parts []string
	for _, block := range decoded.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

func (a *Anthropic) statusFailure(resp *http.Response) *domain.Failure {
	respBody, _ := io.ReadAll(resp.Body)
	var decoded apiResponse
	message := ""
	if json.Unmarshal(respBody, &decoded) == nil && decoded.Error != nil {
		message = decoded.Error.Message
	}
	if message == "" {
		message = fmt.Sprintf("API error: %d", resp.StatusCode)
	}

	a.logger.Warn("completion request failed", "status", resp.StatusCode, "message", message)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.NewFailure(domain.FailUnauthorized,
			"Invalid API key. Please check your API key in the settings.")
	case http.StatusTooManyRequests:
		return domain.NewFailure(domain.FailRateLimited,
			"API rate limit reached. Please wait a moment and try again.")
	case http.StatusBadRequest:
		return domain.NewFailure(domain.FailMalformed,
			"Invalid request. The conversation may be too long or contain invalid content.")
	default:
		return domain.NewFailure(domain.FailUpstream, "%s", message)
	}
}
