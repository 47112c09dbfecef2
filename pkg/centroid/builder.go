package centroid

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/config"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/corpus"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/embedding"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/metrics"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// builder turns the labeled corpus into the intent -> centroid map.
type builder struct {
	embedder embedding.Embedder
	cfg      *config.RouterConfig
	cache    Cache // may be nil when caching is disabled
}

// build computes (or loads from cache) one centroid per usable intent.
// Per-intent anomalies are logged and skipped; an embedding failure or an
// empty result map aborts construction.
func (b *builder) build(ctx context.Context, c *corpus.Corpus) (map[int]IntentCentroid, error) {
	start := time.Now()
	centroids := make(map[int]IntentCentroid, len(c.Intents))

	for _, intent := range c.Intents {
		vec, ok := b.cachedVector(intent.ID)
		if !ok {
			if !intent.HasMainExamples() {
				logging.Warnf("Intent %d (%s) has no usable example utterances, skipping", intent.ID, intent.Name)
				continue
			}
			var err error
			vec, err = b.computeVector(ctx, intent)
			if err != nil {
				return nil, fmt.Errorf("failed to build centroid for intent %d (%s): %w", intent.ID, intent.Name, err)
			}
			if b.cache != nil {
				if err := b.cache.Put(intent.ID, vec); err != nil {
					// The cache is purely opportunistic.
					logging.Warnf("Failed to cache centroid for intent %d: %v", intent.ID, err)
				}
			}
		}

		centroids[intent.ID] = IntentCentroid{
			IntentID:          intent.ID,
			IntentName:        intent.Name,
			PromptTarget:      intent.PromptTarget,
			Score:             intent.Score,
			BoostInterrogatif: intent.BoostInterrogatif,
			Keywords:          intent.Keywords,
			Centroid:          vec,
		}
	}

	if len(centroids) == 0 {
		return nil, fmt.Errorf("no intent centroids could be built from the corpus")
	}

	elapsed := time.Since(start)
	metrics.RecordBuild(elapsed.Seconds(), len(centroids))
	logging.Infof("Built %d intent centroids in %v", len(centroids), elapsed)
	return centroids, nil
}

func (b *builder) cachedVector(intentID int) ([]float32, bool) {
	if b.cache == nil {
		return nil, false
	}
	vec, ok := b.cache.Get(intentID)
	if ok {
		logging.Debugf("Loaded centroid for intent %d from cache", intentID)
	}
	return vec, ok
}

// computeVector builds the weighted mean of per-group mean embeddings and
// L2-normalizes it.
func (b *builder) computeVector(ctx context.Context, intent corpus.Intent) ([]float32, error) {
	weights := b.cfg.Weights.Default
	if intent.ID == b.cfg.Routing.DeliveryIntentID || intent.ID == b.cfg.Routing.TrackingIntentID {
		weights = b.cfg.Weights.Sharpened
	}

	groups := []struct {
		texts  []string
		weight float64
	}{
		{intent.Natural, weights.Natural},
		{intent.Noisy, weights.Noisy},
		{intent.Colloquial, weights.Colloquial},
		{intent.Ambiguous, weights.Ambiguous},
		{intent.GenericZones, weights.Extra},
		{intent.Confirmations, weights.Extra},
	}

	var parts [][]float64
	var partWeights []float64
	for _, g := range groups {
		if len(g.texts) == 0 {
			continue
		}
		mean, err := b.groupMean(ctx, g.texts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, mean)
		partWeights = append(partWeights, g.weight)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no example group produced a vector")
	}

	dim := len(parts[0])
	acc := make([]float64, dim)
	totalWeight := 0.0
	for i, part := range parts {
		if len(part) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimension: %d vs %d", len(part), dim)
		}
		w := partWeights[i]
		for j, v := range part {
			acc[j] += v * w
		}
		totalWeight += w
	}
	if totalWeight > 0 {
		for j := range acc {
			acc[j] /= totalWeight
		}
	}

	var normSq float64
	for _, v := range acc {
		normSq += v * v
	}
	vec := make([]float32, dim)
	if n := math.Sqrt(normSq); n > 0 {
		for j, v := range acc {
			vec[j] = float32(v / n)
		}
	}
	return vec, nil
}

// groupMean embeds every text of a group in one call and returns the
// arithmetic mean vector.
func (b *builder) groupMean(ctx context.Context, texts []string) ([]float64, error) {
	vecs, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding backend unavailable: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors for %d texts", len(texts))
	}

	dim := len(vecs[0])
	mean := make([]float64, dim)
	for _, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimension: %d vs %d", len(v), dim)
		}
		for j, x := range v {
			mean[j] += float64(x)
		}
	}
	for j := range mean {
		mean[j] /= float64(len(vecs))
	}
	return mean, nil
}
