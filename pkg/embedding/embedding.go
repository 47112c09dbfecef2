// Package embedding defines the sentence-embedding collaborator consumed by
// the centroid router and provides an OpenAI-compatible client.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces fixed-dimension float vectors for natural-language
// strings. Implementations must be deterministic for a given model version
// and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedOne embeds a single text.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for a single input", len(vecs))
	}
	return vecs[0], nil
}
