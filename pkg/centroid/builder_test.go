package centroid

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/corpus"
)

func unitNorm(t *testing.T, vec []float32) float64 {
	t.Helper()
	var sq float64
	for _, v := range vec {
		sq += float64(v) * float64(v)
	}
	return math.Sqrt(sq)
}

func TestBuild_WeightedCentroid(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"n1": {1, 0, 0},
		"n2": {0, 1, 0},
		"b1": {0, 0, 1},
	}}
	b := &builder{embedder: emb, cfg: testConfig()}

	c := &corpus.Corpus{Intents: []corpus.Intent{{
		ID:      1,
		Name:    "test",
		Natural: []string{"n1", "n2"},
		Noisy:   []string{"b1"},
	}}}

	centroids, err := b.build(context.Background(), c)
	require.NoError(t, err)
	require.Contains(t, centroids, 1)

	// Expected: natural mean (0.5, 0.5, 0) at weight 1.0 plus noisy (0, 0, 1)
	// at weight 0.9, divided by 1.9, then L2-normalized.
	raw := []float64{0.5 / 1.9, 0.5 / 1.9, 0.9 / 1.9}
	norm := math.Sqrt(raw[0]*raw[0] + raw[1]*raw[1] + raw[2]*raw[2])

	got := centroids[1].Centroid
	require.Len(t, got, 3)
	for i := range raw {
		assert.InDelta(t, raw[i]/norm, float64(got[i]), 1e-6, "component %d", i)
	}
	assert.InDelta(t, 1.0, unitNorm(t, got), 1e-6)
}

func TestBuild_SharpenedWeightsExcludeAmbiguous(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"clear": {1, 0, 0},
		"vague": {0, 1, 0},
	}}
	cfg := testConfig()
	b := &builder{embedder: emb, cfg: cfg}

	c := &corpus.Corpus{Intents: []corpus.Intent{{
		ID:        cfg.Routing.DeliveryIntentID,
		Name:      "livraison",
		Natural:   []string{"clear"},
		Ambiguous: []string{"vague"},
	}}}

	centroids, err := b.build(context.Background(), c)
	require.NoError(t, err)

	got := centroids[cfg.Routing.DeliveryIntentID].Centroid
	// The sharpened weight set zeroes the ambiguous group, so the centroid
	// must point exactly along the natural example.
	assert.InDelta(t, 1.0, float64(got[0]), 1e-6)
	assert.InDelta(t, 0.0, float64(got[1]), 1e-6)
}

func TestBuild_SkipsIntentWithoutMainExamples(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"hello": {1, 0}}}
	b := &builder{embedder: emb, cfg: testConfig()}

	c := &corpus.Corpus{Intents: []corpus.Intent{
		{ID: 1, Name: "ok", Natural: []string{"hello"}},
		{ID: 2, Name: "zones-only", GenericZones: []string{"some zone"}},
	}}

	centroids, err := b.build(context.Background(), c)
	require.NoError(t, err)
	assert.Contains(t, centroids, 1)
	assert.NotContains(t, centroids, 2, "supplementary groups alone cannot keep an intent alive")
}

func TestBuild_FatalWhenNoCentroids(t *testing.T) {
	b := &builder{embedder: &stubEmbedder{vectors: map[string][]float32{}}, cfg: testConfig()}

	c := &corpus.Corpus{Intents: []corpus.Intent{
		{ID: 1, Name: "empty"},
	}}

	_, err := b.build(context.Background(), c)
	require.Error(t, err)
}

func TestBuild_FatalWhenEmbedderUnavailable(t *testing.T) {
	emb := &stubEmbedder{err: fmt.Errorf("backend down")}
	b := &builder{embedder: emb, cfg: testConfig()}

	c := &corpus.Corpus{Intents: []corpus.Intent{
		{ID: 1, Name: "x", Natural: []string{"hello"}},
	}}

	_, err := b.build(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestBuild_CacheHitSkipsEmbedding(t *testing.T) {
	cache := newFakeCache()
	cache.entries[1] = []float32{0, 1}

	emb := &stubEmbedder{vectors: map[string][]float32{}}
	b := &builder{embedder: emb, cfg: testConfig(), cache: cache}

	c := &corpus.Corpus{Intents: []corpus.Intent{
		{ID: 1, Name: "cached", Natural: []string{"never embedded"}},
	}}

	centroids, err := b.build(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, centroids[1].Centroid)
	assert.Zero(t, emb.calls, "cache hit must not touch the embedder")
}

func TestBuild_CacheWriteFailureIsNonFatal(t *testing.T) {
	cache := newFakeCache()
	cache.putErr = fmt.Errorf("disk full")

	emb := &stubEmbedder{vectors: map[string][]float32{"hello": {1, 0}}}
	b := &builder{embedder: emb, cfg: testConfig(), cache: cache}

	c := &corpus.Corpus{Intents: []corpus.Intent{
		{ID: 1, Name: "x", Natural: []string{"hello"}},
	}}

	centroids, err := b.build(context.Background(), c)
	require.NoError(t, err)
	assert.Contains(t, centroids, 1)
	assert.Equal(t, 1, cache.puts)
}

func TestBuild_PopulatesCache(t *testing.T) {
	cache := newFakeCache()
	emb := &stubEmbedder{vectors: map[string][]float32{"hello": {3, 4}}}
	b := &builder{embedder: emb, cfg: testConfig(), cache: cache}

	c := &corpus.Corpus{Intents: []corpus.Intent{
		{ID: 5, Name: "x", Natural: []string{"hello"}},
	}}

	centroids, err := b.build(context.Background(), c)
	require.NoError(t, err)

	stored, ok := cache.Get(5)
	require.True(t, ok)
	assert.Equal(t, centroids[5].Centroid, stored)
	// (3,4) normalizes to (0.6, 0.8).
	assert.InDelta(t, 0.6, float64(stored[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(stored[1]), 1e-6)
}
