package model

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	chromem "github.com/philippgille/chromem-go"
)

// embeddingDim is the default dimensionality of the hashing embedder.
const embeddingDim = 256

// HashingEmbedder maps text to a fixed-size bag-of-words vector by hashing
// tokens into buckets. It is fully deterministic and needs no model
// artifact, which keeps the semantic enhancer usable offline. Paraphrase
// recall is limited to shared vocabulary; swap in a learned embedder for
// better generalization.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates an embedder with the given dimensionality.
// Non-positive dimensions fall back to the default.
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = embeddingDim
	}
	return &HashingEmbedder{dim: dim}
}

// Embed returns the L2-normalized hashed bag-of-words vector for text.
// Case and punctuation are ignored so "Verify account!" and "verify
// account" land in the same buckets.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dim)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// EmbeddingFunc adapts the embedder to chromem's callback shape.
func (e *HashingEmbedder) EmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text)
	}
}

// Dimension returns the vector dimensionality.
func (e *HashingEmbedder) Dimension() int {
	return e.dim
}
