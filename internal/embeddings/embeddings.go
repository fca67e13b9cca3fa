// Package embeddings provides text embedders for the retrieval index.
package embeddings

import (
	"context"
	"fmt"
)

// Embedder turns text into a fixed-size vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Provider names accepted by New.
const (
	ProviderHash = "hash"
	ProviderDMR  = "dmr"
)

// Config selects and configures an embedder.
type Config struct {
	Provider   string `mapstructure:"provider"`
	Dimensions int    `mapstructure:"dimensions"`
	SocketPath string `mapstructure:"socket_path"`
	Model      string `mapstructure:"model"`
}

// New returns the embedder named by config.Provider. An empty provider
// selects the Hasher.
func New(config Config) (Embedder, error) {
	switch config.Provider {
	case "", ProviderHash:
		return NewHasher(config.Dimensions), nil
	case ProviderDMR:
		c, err := NewClient(ClientConfig{SocketPath: config.SocketPath, Model: config.Model})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", config.Provider)
	}
}
