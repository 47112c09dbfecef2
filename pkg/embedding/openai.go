package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. Local
// inference servers exposing the same API (TEI, vLLM, llama.cpp) work too,
// which is how the multilingual sentence model is served in production.
type OpenAIEmbedder struct {
	client openai.EmbeddingService
	model  string
}

// NewOpenAIEmbedder creates an embedder for the given endpoint and model.
// apiKey may be empty for keyless local endpoints.
func NewOpenAIEmbedder(endpoint, apiKey, model string) *OpenAIEmbedder {
	opts := []option.RequestOption{option.WithBaseURL(endpoint)}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &OpenAIEmbedder{
		client: openai.NewEmbeddingService(opts...),
		model:  model,
	}
}

// Embed returns one vector per input text, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := e.client.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: e.model,
	})
	if err != nil {
		logging.Errorf("Embedding request failed (model=%s, inputs=%d): %v", e.model, len(texts), err)
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(res.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, item := range res.Data {
		idx := int(item.Index)
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("embedding response index %d out of range", idx)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		out[idx] = vec
	}
	return out, nil
}
