package embeddings

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultDimensions is the vector size of the Hasher.
const DefaultDimensions = 384

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "this": {}, "to": {}, "what": {}, "which": {}, "who": {}, "with": {},
}

// Hasher is a deterministic feature-hashing embedder. Each lowercased word
// token lands in one of the vector's buckets with a hash-derived sign.
// It needs no model and is used offline and in tests.
type Hasher struct {
	dims int
}

// NewHasher creates a Hasher; a non-positive size selects DefaultDimensions.
func NewHasher(dims int) *Hasher {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Hasher{dims: dims}
}

// Dimensions returns the vector size.
func (h *Hasher) Dimensions() int {
	return h.dims
}

// Embed returns the L2-normalized hashed bag of words of text.
// Text without tokens yields the zero vector.
func (h *Hasher) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, h.dims)
	for _, tok := range Tokenize(text) {
		sum := xxhash.Sum64String(tok)
		i := sum % uint64(h.dims)
		if sum>>63 == 1 {
			vec[i]--
		} else {
			vec[i]++
		}
	}
	normalize(vec)
	return vec, nil
}

// Tokenize splits text into lowercased letter/digit runs of at least two
// runes, skipping common English function words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
