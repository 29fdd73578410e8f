package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Hashing is a bag-of-words hashing embedder. Each word is hashed into one of
// dim buckets and the resulting count vector is L2 normalized. It is cheap,
// deterministic, and good enough to separate stylistically distinct sources.
type Hashing struct {
	name string
	dim  int
}

// NewHashing creates a hashing embedder producing vectors of the given width.
func NewHashing(dim int) *Hashing {
	return &Hashing{name: "hashing", dim: dim}
}

// Name returns the name of the embedder.
func (h *Hashing) Name() string { return h.name }

// Dim returns the dimension of the embeddings.
func (h *Hashing) Dim() int { return h.dim }

// Embed produces the normalized bucket-count vector of a text.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, h.dim)
	words := strings.Fields(strings.ToLower(text))
	for _, w := range words {
		w = strings.Trim(w, ".,!?-\"'()")
		if w == "" || isStopWord(w) {
			continue
		}

		hash := fnv.New32a()
		_, _ = hash.Write([]byte(w))
		idx := int(hash.Sum32()) % h.dim
		if idx < 0 {
			idx = -idx
		}
		vec[idx] += 1.0
	}

	// L2 normalization
	var sumSq float32
	for _, v := range vec {
		sumSq += v * v
	}
	if sumSq > 0 {
		norm := float32(1.0 / math.Sqrt(float64(sumSq)))
		for i, v := range vec {
			vec[i] = v * norm
		}
	}
	return vec, nil
}

var stopWords = map[string]bool{
	"i": true, "me": true, "my": true, "we": true, "our": true, "you": true,
	"your": true, "he": true, "him": true, "his": true, "she": true, "her": true,
	"it": true, "its": true, "they": true, "them": true, "their": true,
	"what": true, "which": true, "who": true, "this": true, "that": true,
	"these": true, "those": true, "am": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "a": true, "an": true, "the": true, "and": true, "but": true,
	"if": true, "or": true, "because": true, "as": true, "until": true,
	"while": true, "of": true, "at": true, "by": true, "for": true,
	"with": true, "about": true, "against": true, "between": true,
	"into": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "to": true, "from": true,
	"up": true, "down": true, "in": true, "out": true, "on": true,
	"off": true, "over": true, "under": true, "again": true, "then": true,
	"once": true, "here": true, "there": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "any": true, "both": true,
	"each": true, "few": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "no": true, "nor": true, "not": true,
	"only": true, "own": true, "same": true, "so": true, "than": true,
	"too": true, "very": true, "s": true, "t": true, "can": true,
	"will": true, "just": true, "don": true, "should": true, "now": true,
}

func isStopWord(w string) bool {
	return stopWords[w]
}
