package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// DefaultEndpoint is the Docker Model Runner chat completions path, reached over the unix socket.
const DefaultEndpoint = "http://localhost/exp/vDD4.40/engines/llama.cpp/v1/chat/completions"

// DefaultTemperature matches the sampling the assistant prompt was tuned with.
const DefaultTemperature = 0.7

// ClientConfig holds model runner chat configuration.
type ClientConfig struct {
	SocketPath  string  // Unix socket path for Docker Model Runner
	Model       string  // Model name (e.g., "ai/gemma3")
	Endpoint    string  // defaults to DefaultEndpoint
	MaxTokens   int     // 0 means no limit
	Temperature float64 // 0 selects DefaultTemperature
}

// Client answers questions with the Docker Model Runner chat completions API.
type Client struct {
	httpClient  *http.Client
	model       string
	endpoint    string
	maxTokens   int
	temperature float64
}

// NewClient creates a model runner chat client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.SocketPath == "" {
		return nil, fmt.Errorf("socket path is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", config.SocketPath)
		},
	}

	return &Client{
		httpClient:  &http.Client{Transport: transport},
		model:       config.Model,
		endpoint:    config.Endpoint,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
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
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate answers question from the retrieved context.
func (c *Client) Generate(ctx context.Context, retrieved, question string) (string, error) {
	slog.Debug("generating answer", "model", c.model, "context_len", len(retrieved))
	return c.Complete(ctx, BuildPrompt(retrieved, question))
}

// Complete sends a single user prompt and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("chat API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
