// Package gemini answers questions with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sachinhub/saas-sales-agent/internal/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var _ llm.Answerer = (*Answerer)(nil)

// Config holds Gemini configuration.
type Config struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Answerer implements llm.Answerer using Gemini.
type Answerer struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, config Config) (*genai.Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// NewAnswerer creates an Answerer. An empty model selects DefaultModel.
func NewAnswerer(client *genai.Client, model string) *Answerer {
	if model == "" {
		model = DefaultModel
	}
	return &Answerer{client: client, model: model}
}

// Generate answers question from the retrieved context.
func (a *Answerer) Generate(ctx context.Context, retrieved, question string) (string, error) {
	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: llm.UserPrompt(retrieved, question)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return "", errors.New("gemini returned nil result")
	}

	answer := strings.TrimSpace(result.Text())
	if answer == "" {
		return "", errors.New("gemini returned an empty answer")
	}
	return answer, nil
}

// BuildConfig returns the generation settings: the assistant instructions as
// the system instruction and the tuned temperature.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(llm.DefaultTemperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: llm.Instructions}},
		},
		Temperature: &temp,
	}
}
