package corpus

// Default chunking parameters, counted in runes.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators are tried in order when looking for a natural chunk end.
var separators = []string{"\n\n", "\n", ". ", " "}

// Span is a half-open rune range [Start, End) of the split text.
type Span struct {
	Start, End int
}

// normalize applies the chunking defaults: a non-positive size becomes
// DefaultChunkSize, a negative overlap DefaultChunkOverlap, and an overlap
// not smaller than the size is clamped to size/4.
func normalize(size, overlap int) (int, int) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return size, overlap
}

// Split cuts text into windows of at most size runes where consecutive
// windows share exactly overlap runes. A window ends just after the last
// separator that keeps it longer than overlap, or is cut hard at size.
func Split(text string, size, overlap int) []Span {
	size, overlap = normalize(size, overlap)
	return splitRunes([]rune(text), size, overlap)
}

func splitRunes(r []rune, size, overlap int) []Span {
	n := len(r)
	if n == 0 {
		return nil
	}

	var spans []Span
	start := 0
	for {
		end := start + size
		if end >= n {
			spans = append(spans, Span{start, n})
			return spans
		}

		cut := end
		for _, sep := range separators {
			if c := lastBreak(r, start, end, overlap, []rune(sep)); c > 0 {
				cut = c
				break
			}
		}

		spans = append(spans, Span{start, cut})
		start = cut - overlap
	}
}

// lastBreak returns the end offset just after the last sep inside r[start:end]
// that leaves more than overlap runes in the window, or 0.
func lastBreak(r []rune, start, end, overlap int, sep []rune) int {
	for i := end - len(sep); i >= start; i-- {
		cut := i + len(sep)
		if cut-start <= overlap {
			return 0
		}
		if matchAt(r, i, sep) {
			return cut
		}
	}
	return 0
}

func matchAt(r []rune, i int, sep []rune) bool {
	for j, s := range sep {
		if r[i+j] != s {
			return false
		}
	}
	return true
}

// SplitIntoChunks returns the text of each window produced by Split.
// Joining the first chunk with every later chunk minus its first overlap
// runes reproduces text.
func SplitIntoChunks(text string, size, overlap int) []string {
	r := []rune(text)
	size, overlap = normalize(size, overlap)
	spans := splitRunes(r, size, overlap)
	chunks := make([]string, len(spans))
	for i, s := range spans {
		chunks[i] = string(r[s.Start:s.End])
	}
	return chunks
}
