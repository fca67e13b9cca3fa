package gemini

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sachinhub/saas-sales-agent/internal/llm"
)

func TestBuildConfig(t *testing.T) {
	cfg := BuildConfig()
	if cfg.SystemInstruction == nil || len(cfg.SystemInstruction.Parts) != 1 {
		t.Fatalf("SystemInstruction = %+v", cfg.SystemInstruction)
	}
	if cfg.SystemInstruction.Parts[0].Text != llm.Instructions {
		t.Errorf("system instruction = %q", cfg.SystemInstruction.Parts[0].Text)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(llm.DefaultTemperature) {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); err == nil {
		t.Error("NewClient() expected error without API key")
	}
}

func TestNewAnswerer_DefaultModel(t *testing.T) {
	if a := NewAnswerer(nil, ""); a.model != DefaultModel {
		t.Errorf("model = %q, want %q", a.model, DefaultModel)
	}
}

func TestAnswerer_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(ctx, Config{APIKey: apiKey})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	answer, err := NewAnswerer(client, "").Generate(ctx,
		"Product: Libera\nFeatures:\n- Route Optimization: AI-powered route optimization",
		"What does Libera's route optimization do?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(strings.ToLower(answer), "route") {
		t.Errorf("answer should mention routes: %q", answer)
	}
}
