package llm

import (
	"context"
	"sort"
	"strings"

	"github.com/sachinhub/saas-sales-agent/internal/embeddings"
)

// NoAnswer is returned by Extractive when no context line relates to the question.
const NoAnswer = "I could not find information about that in the ElasticRun knowledge base."

// DefaultMaxLines bounds how many context lines Extractive quotes.
const DefaultMaxLines = 5

// Extractive answers without a model by quoting the context lines that share
// the most words with the question, in their original order.
type Extractive struct {
	MaxLines int
}

// NewExtractive creates an Extractive answerer.
func NewExtractive() *Extractive {
	return &Extractive{MaxLines: DefaultMaxLines}
}

// Generate implements Answerer.
func (e *Extractive) Generate(ctx context.Context, retrieved, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	limit := e.MaxLines
	if limit <= 0 {
		limit = DefaultMaxLines
	}

	want := make(map[string]struct{})
	for _, tok := range embeddings.Tokenize(question) {
		want[tok] = struct{}{}
	}

	type scored struct {
		line  string
		order int
		score int
	}
	var candidates []scored
	seen := make(map[string]struct{})
	for i, line := range strings.Split(retrieved, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}

		score := 0
		for _, tok := range embeddings.Tokenize(line) {
			if _, ok := want[tok]; ok {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{line: line, order: i, score: score})
		}
	}
	if len(candidates) == 0 {
		return NoAnswer, nil
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	sort.Slice(candidates, func(a, b int) bool {
		return candidates[a].order < candidates[b].order
	})

	var b strings.Builder
	b.WriteString("Based on the ElasticRun knowledge base:\n")
	for _, c := range candidates {
		b.WriteString("\n")
		if !strings.HasPrefix(c.line, "- ") {
			b.WriteString("- ")
		}
		b.WriteString(c.line)
	}
	return b.String(), nil
}
