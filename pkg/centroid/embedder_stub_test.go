package centroid

import (
	"context"
	"fmt"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/config"
)

// stubEmbedder returns fixed vectors per exact input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := s.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no stub vector for %q", t)
		}
		// Copy: the router normalizes message vectors in place.
		out[i] = append([]float32(nil), v...)
	}
	return out, nil
}

// testConfig returns the tuned defaults with the disk cache disabled.
func testConfig() *config.RouterConfig {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	return cfg
}

// fakeCache is an in-memory Cache with an optional forced write error.
type fakeCache struct {
	entries map[int][]float32
	putErr  error
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[int][]float32)}
}

func (f *fakeCache) Get(intentID int) ([]float32, bool) {
	v, ok := f.entries[intentID]
	return v, ok
}

func (f *fakeCache) Put(intentID int, vec []float32) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.entries[intentID] = vec
	return nil
}
