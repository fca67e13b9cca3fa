// Package llm holds the answerers that turn retrieved context into a reply.
package llm

import (
	"context"
	"strings"
)

// Answerer composes an answer to question from retrieved context.
type Answerer interface {
	Generate(ctx context.Context, retrieved, question string) (string, error)
}

// Instructions is the assistant's standing guidance, shared by every model-backed answerer.
const Instructions = `You are an AI assistant for ElasticRun. Use the following context to answer the question.
If the question asks for a summary, provide a concise summary.
If the question asks for a comparison, compare the relevant items.
If the question asks for specific details, provide those details.
Always maintain a professional and helpful tone.`

// BuildPrompt renders the full prompt for a question and its context.
func BuildPrompt(retrieved, question string) string {
	var b strings.Builder
	b.WriteString(Instructions)
	b.WriteString("\n\nContext:\n")
	b.WriteString(retrieved)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// UserPrompt renders only the context and question, for models that take
// Instructions as a separate system instruction.
func UserPrompt(retrieved, question string) string {
	return "Context:\n" + retrieved + "\n\nQuestion: " + question + "\n\nAnswer:"
}
