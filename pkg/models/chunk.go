package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Source label prefixes used in corpus text and chunk labels.
const (
	ProductLabel  = "Product:"
	IndustryLabel = "Industry:"
)

// Classification values returned with an answer.
const (
	ClassificationGeneral = "general"
	ClassificationError   = "error"
)

// Chunk is a passage of corpus text fed to the retrieval index.
type Chunk struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	SourceLabel string `json:"source_label,omitempty"` // "Product: X", "Industry: Y" or empty
	Position    int    `json:"position"`
}

// Hit is a chunk returned by a retrieval query with its similarity score.
type Hit struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Answer is the result of answering one question.
type Answer struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	Classification string   `json:"classification"`
}

// GenerateID creates a deterministic ID from an arbitrary key.
// The ID is the first 16 hex chars of the SHA-256 of the key.
func GenerateID(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])[:16]
}

// ChunkID derives a stable chunk ID from its position and text.
func ChunkID(position int, text string) string {
	return GenerateID(fmt.Sprintf("%d\x00%s", position, text))
}

// Label formats a source label such as "Product: Libera".
func Label(prefix, name string) string {
	return prefix + " " + name
}
