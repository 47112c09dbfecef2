package centroid

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/config"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/corpus"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/embedding"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/metrics"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// Boost bounds for the lexical signals. The delivery/tracking trigger boosts
// grow 10% per hit up to +40%; the generic per-intent keyword boost grows 3%
// per hit up to +15%; cross-deboost applies when only one signal type fires.
const (
	triggerBoostPerHit = 0.10
	triggerBoostMax    = 0.40
	keywordBoostPerHit = 0.03
	keywordBoostMax    = 0.15
	crossDeboostFactor = 0.75
)

// DefaultTopK is the candidate list size used by Route.
const DefaultTopK = 3

// Router classifies free-text messages against intent centroids. It is
// immutable after construction; concurrent Route calls are safe as long as
// the embedder is.
type Router struct {
	cfg      *config.RouterConfig
	embedder embedding.Embedder

	centroids map[int]IntentCentroid
	corp      *corpus.Corpus

	// Precomputed lookups. Interrogative markers match the lowercased raw
	// message (accents intact); triggers and keywords match the
	// accent-stripped form.
	interrogatives []string
	shipTriggers   []string
	trackTriggers  []string
	normKeywords   map[int][]string
}

// NewRouter loads the corpus from cfg.CorpusPath, opens the disk cache when
// enabled, and builds all centroids. Corpus or embedding-backend failures
// and an empty centroid map are fatal.
func NewRouter(ctx context.Context, cfg *config.RouterConfig, embedder embedding.Embedder) (*Router, error) {
	c, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, err
	}

	var cache Cache
	if cfg.Cache.Enabled {
		disk, err := NewDiskCache(cfg.Cache.Dir, cfg.Embedding.Model)
		if err != nil {
			logging.Warnf("Centroid cache unavailable, continuing without: %v", err)
		} else {
			cache = disk
		}
	}

	return NewRouterFromCorpus(ctx, cfg, embedder, c, cache)
}

// NewRouterFromCorpus builds a router over an already-loaded corpus. cache
// may be nil to disable centroid persistence.
func NewRouterFromCorpus(ctx context.Context, cfg *config.RouterConfig, embedder embedding.Embedder, c *corpus.Corpus, cache Cache) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{embedder: embedder, cfg: cfg, cache: cache}
	centroids, err := b.build(ctx, c)
	if err != nil {
		return nil, err
	}

	interrogatives := make([]string, len(cfg.Routing.InterrogativeMarkers))
	for i, m := range cfg.Routing.InterrogativeMarkers {
		interrogatives[i] = strings.ToLower(m)
	}

	normKeywords := make(map[int][]string)
	for id, ic := range centroids {
		if len(ic.Keywords) > 0 {
			normKeywords[id] = normalizeAll(ic.Keywords)
		}
	}

	logging.Infof("Centroid router initialized with %d intents", len(centroids))
	return &Router{
		cfg:            cfg,
		embedder:       embedder,
		centroids:      centroids,
		corp:           c,
		interrogatives: interrogatives,
		shipTriggers:   normalizeAll(cfg.Routing.DeliveryTriggers),
		trackTriggers:  normalizeAll(cfg.Routing.TrackingTriggers),
		normKeywords:   normKeywords,
	}, nil
}

// Corpus returns the corpus the router was built from.
func (r *Router) Corpus() *corpus.Corpus { return r.corp }

// Centroid returns the centroid for an intent id, if registered.
func (r *Router) Centroid(intentID int) (IntentCentroid, bool) {
	c, ok := r.centroids[intentID]
	return c, ok
}

// IntentIDs returns all registered intent ids in ascending order.
func (r *Router) IntentIDs() []int {
	ids := make([]int, 0, len(r.centroids))
	for id := range r.centroids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Route classifies a message with the default candidate list size and
// boosting enabled. The only possible error is an embedding-backend failure;
// empty input never errors.
func (r *Router) Route(ctx context.Context, message string) (*Result, error) {
	return r.RouteTopK(ctx, message, DefaultTopK, true)
}

// RouteTopK classifies a message, returning up to topK ranked candidates.
// applyBoost=false disables the interrogative boost; the lexical keyword
// boosts always apply.
func (r *Router) RouteTopK(ctx context.Context, message string, topK int, applyBoost bool) (*Result, error) {
	start := time.Now()

	text := strings.TrimSpace(message)
	if text == "" {
		res := r.fallbackResult()
		metrics.RecordRouting(res.IntentName, res.Method, false, false, 0, time.Since(start).Seconds())
		return res, nil
	}

	msgVec, err := embedding.EmbedOne(ctx, r.embedder, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed message: %w", err)
	}
	normalizeVector(msgVec)

	// Raw cosine similarities against every centroid.
	similarities := make(map[int]float64, len(r.centroids))
	for id, c := range r.centroids {
		similarities[id] = dot(msgVec, c.Centroid)
	}

	// Interrogative boost for flagged intents, capped at the maximum
	// possible cosine value.
	boosted := make(map[int]float64, len(similarities))
	for id, s := range similarities {
		boosted[id] = s
	}
	boostApplied := false
	if applyBoost && r.hasInterrogative(text) {
		for id, c := range r.centroids {
			if c.BoostInterrogatif {
				boosted[id] = math.Min(similarities[id]*r.cfg.Routing.InterrogativeBoost, 1.0)
				boostApplied = true
			}
		}
	}

	r.applyKeywordBoosts(text, boosted)

	ranked := r.rank(boosted)
	topIntents := r.topIntents(ranked, topK)

	isAmbiguous := false
	delta := 1.0
	if len(topIntents) >= 2 {
		delta = topIntents[0].Confidence - topIntents[1].Confidence
		if delta < r.cfg.Routing.AmbiguityThreshold {
			isAmbiguous = true
		}
	}

	// Dedicated tie-break for the delivery/tracking confusable pair: when
	// they occupy the top two slots within the loose threshold, the side
	// with strictly more lexical signal wins. Confidences are preserved;
	// only the rank order changes.
	if len(topIntents) >= 2 && delta < r.cfg.Routing.TieBreakThreshold {
		a, b := topIntents[0].IntentID, topIntents[1].IntentID
		dID, tID := r.cfg.Routing.DeliveryIntentID, r.cfg.Routing.TrackingIntentID
		if (a == dID && b == tID) || (a == tID && b == dID) {
			shipHits, trackHits := r.shipTrackHits(text)
			best := a
			if shipHits > trackHits {
				best = dID
			} else if trackHits > shipHits {
				best = tID
			}
			if best != a {
				ranked = promote(ranked, best)
				topIntents = r.topIntents(ranked, topK)
				logging.Debugf("Tie-break reordered intents %d/%d (ship_hits=%d, track_hits=%d)", dID, tID, shipHits, trackHits)
			}
		}
	}

	var bestID int
	if len(topIntents) > 0 {
		bestID = topIntents[0].IntentID
	} else {
		bestID = ranked[0].id
	}
	best := r.centroids[bestID]

	res := &Result{
		IntentID:        best.IntentID,
		IntentName:      best.IntentName,
		PromptTarget:    best.PromptTarget,
		Score:           best.Score,
		Similarity:      similarities[bestID],
		Confidence:      boosted[bestID],
		Method:          MethodCentroidCosine,
		BoostApplied:    boostApplied,
		TopKIntents:     topIntents,
		IsAmbiguous:     isAmbiguous,
		ConfidenceDelta: delta,
	}

	metrics.RecordRouting(res.IntentName, res.Method, res.IsAmbiguous, res.BoostApplied, res.Confidence, time.Since(start).Seconds())
	logging.Debugf("Routed message to intent %d (%s): similarity=%.4f, confidence=%.4f, ambiguous=%v",
		res.IntentID, res.IntentName, res.Similarity, res.Confidence, res.IsAmbiguous)
	return res, nil
}

// fallbackResult is the deterministic answer for empty input: the configured
// fallback intent when registered, otherwise the lowest intent id.
func (r *Router) fallbackResult() *Result {
	id := r.cfg.Routing.FallbackIntentID
	if _, ok := r.centroids[id]; !ok {
		ids := r.IntentIDs()
		id = ids[0]
	}
	c := r.centroids[id]
	return &Result{
		IntentID:        c.IntentID,
		IntentName:      c.IntentName,
		PromptTarget:    c.PromptTarget,
		Score:           c.Score,
		Confidence:      0.0,
		Method:          MethodCentroidCosine,
		BoostApplied:    false,
		TopKIntents:     []TopIntent{},
		IsAmbiguous:     false,
		ConfidenceDelta: 1.0,
	}
}

func (r *Router) hasInterrogative(message string) bool {
	lower := strings.ToLower(message)
	for _, w := range r.interrogatives {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// applyKeywordBoosts mutates sims in place with the delivery/tracking
// trigger boosts, the cross-deboost, and the generic per-intent keyword
// boost.
func (r *Router) applyKeywordBoosts(rawMessage string, sims map[int]float64) {
	msg := normalizeText(rawMessage)
	if strings.TrimSpace(msg) == "" {
		return
	}

	shipHits := countTriggerHits(msg, r.shipTriggers)
	trackHits := countTriggerHits(msg, r.trackTriggers)

	dID, tID := r.cfg.Routing.DeliveryIntentID, r.cfg.Routing.TrackingIntentID
	apply := func(id int, factor float64) {
		if _, ok := sims[id]; !ok {
			return
		}
		sims[id] = math.Max(math.Min(sims[id]*factor, 1.0), -1.0)
	}

	if shipHits > 0 {
		apply(dID, 1.0+math.Min(triggerBoostPerHit*float64(shipHits), triggerBoostMax))
	}
	if trackHits > 0 {
		apply(tID, 1.0+math.Min(triggerBoostPerHit*float64(trackHits), triggerBoostMax))
	}

	// Cross-deboost when exactly one signal type is present.
	if trackHits > 0 && shipHits == 0 {
		apply(dID, crossDeboostFactor)
	}
	if shipHits > 0 && trackHits == 0 {
		apply(tID, crossDeboostFactor)
	}

	for id, keywords := range r.normKeywords {
		kwHits := countTriggerHits(msg, keywords)
		if kwHits > 0 {
			sims[id] = math.Min(sims[id]*(1.0+math.Min(keywordBoostPerHit*float64(kwHits), keywordBoostMax)), 1.0)
		}
	}
}

func (r *Router) shipTrackHits(rawMessage string) (int, int) {
	msg := normalizeText(rawMessage)
	if msg == "" {
		return 0, 0
	}
	return countTriggerHits(msg, r.shipTriggers), countTriggerHits(msg, r.trackTriggers)
}

type scoredIntent struct {
	id         int
	confidence float64
}

// rank sorts all intents by confidence descending. Exact ties order by
// ascending intent id so results are deterministic across runs.
func (r *Router) rank(confidences map[int]float64) []scoredIntent {
	ranked := make([]scoredIntent, 0, len(confidences))
	for id, conf := range confidences {
		ranked = append(ranked, scoredIntent{id: id, confidence: conf})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].confidence != ranked[j].confidence {
			return ranked[i].confidence > ranked[j].confidence
		}
		return ranked[i].id < ranked[j].id
	})
	return ranked
}

func (r *Router) topIntents(ranked []scoredIntent, topK int) []TopIntent {
	if topK > len(ranked) {
		topK = len(ranked)
	}
	if topK < 0 {
		topK = 0
	}
	out := make([]TopIntent, 0, topK)
	for _, s := range ranked[:topK] {
		c := r.centroids[s.id]
		out = append(out, TopIntent{
			IntentID:     s.id,
			IntentName:   c.IntentName,
			Confidence:   s.confidence,
			PromptTarget: c.PromptTarget,
		})
	}
	return out
}

// promote moves the given intent to the front, preserving the relative
// order (and confidences) of the rest.
func promote(ranked []scoredIntent, intentID int) []scoredIntent {
	out := make([]scoredIntent, 0, len(ranked))
	for _, s := range ranked {
		if s.id == intentID {
			out = append(out, s)
		}
	}
	for _, s := range ranked {
		if s.id != intentID {
			out = append(out, s)
		}
	}
	return out
}

// normalizeVector L2-normalizes in place. A zero vector is left unchanged.
func normalizeVector(v []float32) {
	var normSq float64
	for _, x := range v {
		normSq += float64(x) * float64(x)
	}
	n := math.Sqrt(normSq)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
}

// dot computes the cosine similarity of two unit vectors.
func dot(a []float32, b []float32) float64 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	var sum float64
	for i := 0; i < minLen; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
