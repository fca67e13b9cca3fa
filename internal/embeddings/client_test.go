package embeddings

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

// startMockRunner serves handler on a unix socket and returns the socket path.
func startMockRunner(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "runner.sock")

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to create Unix socket: %v", err)
	}
	server := &http.Server{Handler: handler}
	go server.Serve(listener)
	t.Cleanup(func() { server.Close() })

	return socketPath
}

func writeEmbedding(w http.ResponseWriter, vec []float32) {
	var resp embeddingResponse
	resp.Data = append(resp.Data, struct {
		Embedding []float32 `json:"embedding"`
	}{Embedding: vec})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{"empty socket path", ClientConfig{Model: "ai/all-minilm"}, true},
		{"empty model", ClientConfig{SocketPath: "/tmp/test.sock"}, true},
		{"valid config", ClientConfig{SocketPath: "/tmp/test.sock", Model: "ai/all-minilm"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"ai/all-minilm", 384},
		{"ai/embeddinggemma", 768},
		{"ai/snowflake-arctic-embed", 1024},
		{"ai/qwen3-embedding", 2560},
		{"unknown-model", 768},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := Dimensions(tt.model); got != tt.want {
				t.Errorf("Dimensions(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestEmbed_Success(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3}
	var gotReq embeddingRequest

	socketPath := startMockRunner(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected application/json content type")
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		writeEmbedding(w, want)
	})

	client, err := NewClient(ClientConfig{SocketPath: socketPath, Model: "ai/all-minilm"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	got, err := client.Embed(context.Background(), "route optimization")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != len(want) || got[0] != want[0] || got[2] != want[2] {
		t.Errorf("Embed() = %v, want %v", got, want)
	}
	if gotReq.Model != "ai/all-minilm" || gotReq.Input != "route optimization" {
		t.Errorf("request = %+v", gotReq)
	}
	if client.Dimensions() != 384 {
		t.Errorf("Dimensions() = %d", client.Dimensions())
	}
}

func TestEmbed_TruncatesLongInput(t *testing.T) {
	var inputRunes int
	socketPath := startMockRunner(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		inputRunes = utf8.RuneCountInString(req.Input)
		writeEmbedding(w, []float32{1})
	})

	client, _ := NewClient(ClientConfig{SocketPath: socketPath, Model: "m"})
	if _, err := client.Embed(context.Background(), strings.Repeat("é", MaxInputRunes+50)); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if inputRunes != MaxInputRunes {
		t.Errorf("server received %d runes, want %d", inputRunes, MaxInputRunes)
	}
}

func TestEmbed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
		}},
		{"empty data", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[]}`))
		}},
		{"api error", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[],"error":{"message":"model not loaded"}}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			socketPath := startMockRunner(t, tt.handler)
			client, _ := NewClient(ClientConfig{SocketPath: socketPath, Model: "m"})
			if _, err := client.Embed(context.Background(), "text"); err == nil {
				t.Error("Embed() expected error")
			}
		})
	}
}

func TestEmbed_Integration(t *testing.T) {
	socketPath := os.Getenv("DOCKER_SOCKET")
	if socketPath == "" {
		socketPath = os.ExpandEnv("$HOME/.docker/run/docker.sock")
	}
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		t.Skip("Docker socket not available, skipping integration test")
	}

	client, err := NewClient(ClientConfig{SocketPath: socketPath, Model: "ai/all-minilm"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	embedding, err := client.Embed(context.Background(), "Hello, this is a test")
	if err != nil {
		t.Skipf("DMR not available or model not pulled: %v", err)
	}
	if len(embedding) != client.Dimensions() {
		t.Errorf("Expected %d dimensions, got %d", client.Dimensions(), len(embedding))
	}
}
