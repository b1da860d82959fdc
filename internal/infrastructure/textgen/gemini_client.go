// Package textgen calls the hosted generative-text API used for document enhancement and chat.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNotConfigured = errors.New("text generation is not configured")
	ErrEmptyResponse = errors.New("text generation returned no text")
)

// Config holds the endpoint settings for GeminiClient
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiClient implements the text generator port over the generateContent REST endpoint.
// It never retries.
type GeminiClient struct {
	http  *resty.Client
	model string
	key   string
}

func NewGeminiClient(cfg Config) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	return &GeminiClient{http: c, model: cfg.Model, key: cfg.APIKey}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt with the given temperature and returns the concatenated text of the
// first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.key == "" {
		return "", ErrNotConfigured
	}

	var out generateResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.key).
		SetBody(generateRequest{
			Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
			GenerationConfig: generationConfig{Temperature: temperature},
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/" + url.PathEscape(c.model) + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("generate content: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
