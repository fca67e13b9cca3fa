// Package orchestrator answers questions by retrieving catalog chunks and
// delegating to an answerer. It owns the catalog and the current index.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/internal/corpus"
	"github.com/sachinhub/saas-sales-agent/internal/llm"
	"github.com/sachinhub/saas-sales-agent/internal/retrieval"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// EmptyQuestionAnswer is the reply to a blank question.
const EmptyQuestionAnswer = "Please provide a question."

// errorAnswerPrefix starts every reply produced from a failure.
const errorAnswerPrefix = "I apologize, but I encountered an error: "

// IndexBuilder builds a searchable index from corpus chunks.
type IndexBuilder interface {
	Build(ctx context.Context, chunks []models.Chunk) (retrieval.Searcher, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTopK sets how many chunks back an answer.
func WithTopK(k int) Option {
	return func(o *Orchestrator) { o.topK = k }
}

// WithEntityK sets how many chunks are scanned for relevant entities.
func WithEntityK(k int) Option {
	return func(o *Orchestrator) { o.entityK = k }
}

// WithCorpusOptions sets the chunking used by Rebuild.
func WithCorpusOptions(opts ...corpus.Option) Option {
	return func(o *Orchestrator) { o.corpusOpts = opts }
}

type holder struct {
	searcher retrieval.Searcher
	chunks   int
}

// Orchestrator is safe for concurrent use. Rebuild swaps in a new index
// atomically, so queries see either the old or the new one.
type Orchestrator struct {
	catalog    *catalog.Catalog
	builder    IndexBuilder
	answerer   llm.Answerer
	current    atomic.Pointer[holder]
	topK       int
	entityK    int
	corpusOpts []corpus.Option
}

// New creates an orchestrator. Call Rebuild before querying.
func New(cat *catalog.Catalog, builder IndexBuilder, answerer llm.Answerer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:  cat,
		builder:  builder,
		answerer: answerer,
		topK:     retrieval.DefaultK,
		entityK:  retrieval.EntityK,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.topK <= 0 {
		o.topK = retrieval.DefaultK
	}
	if o.entityK <= 0 {
		o.entityK = retrieval.EntityK
	}
	return o
}

// Catalog returns the owned catalog.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// Rebuild regenerates the corpus from the catalog and replaces the index.
// On failure the previous index stays in service.
func (o *Orchestrator) Rebuild(ctx context.Context) error {
	chunks := corpus.Build(o.catalog, o.corpusOpts...)

	s, err := o.builder.Build(ctx, chunks)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	o.current.Store(&holder{searcher: s, chunks: len(chunks)})
	slog.Info("index rebuilt", "chunks", len(chunks))
	return nil
}

// Ready reports whether an index has been built.
func (o *Orchestrator) Ready() bool {
	return o.current.Load() != nil
}

// Search returns the raw top-k hits for query.
func (o *Orchestrator) Search(ctx context.Context, query string, k int) ([]models.Hit, error) {
	h := o.current.Load()
	if h == nil {
		return nil, &RetrievalError{Err: ErrIndexNotBuilt}
	}
	hits, err := h.searcher.Search(ctx, query, k)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	return hits, nil
}

// Query answers a question. Failures, including panics in collaborators,
// are reported inside the Answer with the error classification.
func (o *Orchestrator) Query(ctx context.Context, question string) (ans models.Answer) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Answer{
			Answer:         EmptyQuestionAnswer,
			Sources:        []string{},
			Classification: models.ClassificationError,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("query panicked", "question", question, "panic", r)
			ans = errorAnswer(fmt.Errorf("%v", r))
		}
	}()

	hits, err := o.Search(ctx, question, o.topK)
	if err != nil {
		slog.Warn("query retrieval failed", "question", question, "error", err)
		return errorAnswer(err)
	}

	sources := make([]string, len(hits))
	for i, h := range hits {
		sources[i] = h.Chunk.Text
	}

	answer, err := o.answerer.Generate(ctx, strings.Join(sources, "\n"), question)
	if err != nil {
		err = &AnswererError{Err: err}
		slog.Warn("query answer failed", "question", question, "error", err)
		return errorAnswer(err)
	}

	return models.Answer{
		Answer:         answer,
		Sources:        sources,
		Classification: models.ClassificationGeneral,
	}
}

func errorAnswer(err error) models.Answer {
	return models.Answer{
		Answer:         errorAnswerPrefix + err.Error(),
		Sources:        []string{},
		Classification: models.ClassificationError,
	}
}

// RelevantProducts returns the catalog products named in the chunks most
// similar to query, in first-seen order.
func (o *Orchestrator) RelevantProducts(ctx context.Context, query string) ([]models.Product, error) {
	names, err := o.labelledNames(ctx, query, models.ProductLabel)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	seen := make(map[string]struct{})
	for _, n := range names {
		p, ok := o.catalog.ProductByName(n)
		if !ok {
			continue
		}
		if _, dup := seen[p.Name]; !dup {
			seen[p.Name] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

// RelevantIndustries is the industry counterpart of RelevantProducts.
func (o *Orchestrator) RelevantIndustries(ctx context.Context, query string) ([]models.Industry, error) {
	names, err := o.labelledNames(ctx, query, models.IndustryLabel)
	if err != nil {
		return nil, err
	}
	var out []models.Industry
	seen := make(map[string]struct{})
	for _, n := range names {
		ind, ok := o.catalog.IndustryByName(n)
		if !ok {
			continue
		}
		if _, dup := seen[ind.Name]; !dup {
			seen[ind.Name] = struct{}{}
			out = append(out, ind)
		}
	}
	return out, nil
}

// labelledNames takes, per hit, the text after the first label up to the
// line break, deduplicated in first-seen order.
func (o *Orchestrator) labelledNames(ctx context.Context, query, label string) ([]string, error) {
	hits, err := o.Search(ctx, query, o.entityK)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]struct{})
	for _, h := range hits {
		name, ok := nameAfter(h.Chunk.Text, label)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

func nameAfter(text, label string) (string, bool) {
	_, rest, ok := strings.Cut(text, label)
	if !ok {
		return "", false
	}
	line, _, _ := strings.Cut(rest, "\n")
	name := strings.TrimSpace(line)
	return name, name != ""
}
