package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/oykulab/masal-api/internal/config"
)

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

var (
	// ErrNotConfigured means no API key was provided; callers translate this
	// into a configuration error response.
	ErrNotConfigured = errors.New("openrouter api key is not configured")

	// ErrEmptyCompletion means the upstream answered without usable text.
	ErrEmptyCompletion = errors.New("completion did not contain any text")
)

// Some models wrap their output in instruct-template artifacts; strip them.
var artifactPattern = regexp.MustCompile(`(?i)<s>|</s>|\[/?INST\]|\[/?OUT\]`)

// Completer produces a text completion for a single user prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls the OpenRouter chat completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OpenRouter client from configuration.
func NewClient(cfg config.OpenRouterConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the cleaned
// completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter request failed with status: %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(artifactPattern.ReplaceAllString(result.Choices[0].Message.Content, ""))
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}
