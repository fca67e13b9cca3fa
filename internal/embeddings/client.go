package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
)

// DefaultEndpoint is the Docker Model Runner embeddings path, reached over the unix socket.
const DefaultEndpoint = "http://localhost/exp/vDD4.40/engines/llama.cpp/v1/embeddings"

// ClientConfig holds model runner embeddings configuration.
type ClientConfig struct {
	SocketPath string // Unix socket path for Docker Model Runner
	Model      string // Model name (e.g., "ai/all-minilm")
	Endpoint   string // defaults to DefaultEndpoint
}

// Client embeds text with the Docker Model Runner embeddings API.
type Client struct {
	httpClient *http.Client
	model      string
	endpoint   string
}

// NewClient creates a model runner embeddings client.
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

	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", config.SocketPath)
		},
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		model:      config.Model,
		endpoint:   config.Endpoint,
	}, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// MaxInputRunes limits input to stay within the model context window.
// Corpus chunks are far below it.
const MaxInputRunes = 8000

// Embed returns the embedding vector for text.
// Text longer than MaxInputRunes is truncated from the end.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if r := []rune(text); len(r) > MaxInputRunes {
		slog.Debug("truncating embedding input", "runes", len(r), "max", MaxInputRunes)
		text = string(r[:MaxInputRunes])
	}

	body, err := json.Marshal(embeddingRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("embeddings API error: %s", embResp.Error.Message)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return embResp.Data[0].Embedding, nil
}

// Dimensions returns the vector size of the configured model.
func (c *Client) Dimensions() int {
	return Dimensions(c.model)
}

// Dimensions returns the expected embedding dimensions for common models.
func Dimensions(model string) int {
	switch model {
	case "ai/all-minilm":
		return 384
	case "ai/embeddinggemma", "ai/nomic-embed-text-v1.5":
		return 768
	case "ai/snowflake-arctic-embed", "ai/mxbai-embed-large":
		return 1024
	case "ai/qwen3-embedding":
		return 2560
	default:
		return 768
	}
}
