// Package llm provides the suggestions provider backed by an OpenAI-compatible
// chat completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/provider"
	"github.com/voyago/voyago/internal/resilience"
)

const systemPrompt = `You are a travel activity planner. Respond ONLY with a JSON array of activities.
Each activity has: "time" (like "10:00 AM"), "title", "type" (one of "sightseeing", "meal", "activity", "entertainment"), "location", "notes", "duration" (like "2 hours").
No prose before or after the JSON.`

// Client generates personalized activity suggestions via chat completions.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	httpClient  *http.Client
	breaker     *resilience.Breaker
	callTimeout time.Duration
}

// NewClient creates a suggestions client from LLM configuration.
func NewClient(cfg config.LLM) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
		callTimeout: timeout,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Suggest asks the model for activities filling one time slot. Malformed
// model output is an error; callers treat it like any other provider failure
// and keep their deterministic schedule.
func (c *Client) Suggest(ctx context.Context, req provider.SuggestionRequest) ([]trip.Activity, error) {
	userPrompt := fmt.Sprintf("Suggest 2-3 %s activities in %s on %s.", req.Slot, req.Destination, req.Date)
	if len(req.Interests) > 0 {
		userPrompt += " The travelers are interested in: " + strings.Join(req.Interests, ", ") + "."
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	data, err := c.post(ctx, "/v1/chat/completions", body)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	activities, err := parseActivities(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	return activities, nil
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// parseActivities extracts the JSON array from model output, tolerating
// markdown fences and surrounding prose.
func parseActivities(content string) ([]trip.Activity, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in output")
	}

	var activities []trip.Activity
	if err := json.Unmarshal([]byte(content[start:end+1]), &activities); err != nil {
		return nil, fmt.Errorf("unmarshal activities: %w", err)
	}

	for i := range activities {
		if activities[i].Type == "" {
			activities[i].Type = trip.ActivityGeneric
		}
		activities[i].Status = "suggested"
	}
	return activities, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	var result []byte
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("llm API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Do(ctx, c.callTimeout, call); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := call(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
