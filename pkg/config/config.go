// Package config holds the router configuration: corpus location, embedding
// backend settings, centroid cache settings, and the lexical heuristics that
// drive boosting. The heuristic word lists are tuned for French / Ivorian
// French customer messages and are deliberately kept as editable data rather
// than code.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// RouterConfig is the top-level configuration for the centroid router.
type RouterConfig struct {
	// CorpusPath is the labeled intent corpus (JSON).
	CorpusPath string `yaml:"corpus_path"`

	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Routing   RoutingConfig   `yaml:"routing"`
	Weights   WeightsConfig   `yaml:"weights"`
}

// EmbeddingConfig selects the embedding backend. The endpoint must be
// OpenAI-compatible (POST /embeddings).
type EmbeddingConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// CacheConfig controls the on-disk centroid cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// RoutingConfig carries the classification thresholds and the lexical
// trigger lists.
type RoutingConfig struct {
	// FallbackIntentID is returned for empty input when present in the
	// centroid map.
	FallbackIntentID int `yaml:"fallback_intent_id"`
	// DeliveryIntentID and TrackingIntentID identify the confusable pair
	// that receives sharpened weights, trigger boosts and the dedicated
	// tie-break.
	DeliveryIntentID int `yaml:"delivery_intent_id"`
	TrackingIntentID int `yaml:"tracking_intent_id"`

	// AmbiguityThreshold marks a result ambiguous when the top-2 confidence
	// gap falls below it.
	AmbiguityThreshold float64 `yaml:"ambiguity_threshold"`
	// TieBreakThreshold is the looser gap under which the delivery/tracking
	// tie-break may reorder the top candidates.
	TieBreakThreshold float64 `yaml:"tie_break_threshold"`
	// InterrogativeBoost multiplies the similarity of boost-flagged intents
	// when the message contains an interrogative marker.
	InterrogativeBoost float64 `yaml:"interrogative_boost"`

	InterrogativeMarkers []string `yaml:"interrogative_markers"`
	DeliveryTriggers     []string `yaml:"delivery_triggers"`
	TrackingTriggers     []string `yaml:"tracking_triggers"`
}

// GroupWeights are the per-variation-group weights used when averaging group
// mean embeddings into a centroid. Extra covers the generic-zone and
// delivery-confirmation groups.
type GroupWeights struct {
	Natural    float64 `yaml:"natural"`
	Noisy      float64 `yaml:"noisy"`
	Colloquial float64 `yaml:"colloquial"`
	Ambiguous  float64 `yaml:"ambiguous"`
	Extra      float64 `yaml:"extra"`
}

// WeightsConfig holds the default weight set and the sharpened set applied
// to the delivery and tracking intents, whose ambiguous examples dilute the
// distinction between them.
type WeightsConfig struct {
	Default   GroupWeights `yaml:"default"`
	Sharpened GroupWeights `yaml:"sharpened"`
}

// Default returns the production-tuned configuration.
func Default() *RouterConfig {
	return &RouterConfig{
		CorpusPath: "intents/ecommerce_intents_full.json",
		Embedding: EmbeddingConfig{
			Endpoint:  "http://localhost:8081/v1",
			Model:     "paraphrase-multilingual-mpnet-base-v2",
			APIKeyEnv: "EMBEDDING_API_KEY",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "cache/embeddings",
		},
		Routing: RoutingConfig{
			FallbackIntentID:   3,
			DeliveryIntentID:   9,
			TrackingIntentID:   11,
			AmbiguityThreshold: 0.10,
			TieBreakThreshold:  0.25,
			InterrogativeBoost: 1.2,
			InterrogativeMarkers: []string{
				"où", "comment", "quand", "quel", "quelle", "quels", "quelles",
				"combien", "pourquoi", "est-ce que", "c'est quoi", "qui", "quoi",
				"c ou", "c koi", "c combien",
			},
			DeliveryTriggers: []string{
				"livraison", "livrer", "livraisons", "livr", "liv ", "expedi", "expedition",
				"frais", "cout", "couts", "adresse", "address", "express", "standard",
				"zone", "quartier", "delai", "delais", "prix liv", "prix de liv",
				"point relais", "relais", "aujourd", "aujourd hui", "aujourdhui", "demain",
				"heure", "adresse exacte", "lieu de livraison", "point de repere", "presentement je suis",
				"cocody", "koumassi", "abobo", "yopougon", "marcory", "songon",
			},
			TrackingTriggers: []string{
				"suivi", "suivre", "tracking", "track", "statut", "status", "en route",
				"en cours", "numero", "num de suivi", "no de suivi", "n de suivi",
				"ou en est", "ou est", "il est ou", "expedie", "arrive", "arriver", "arrivé",
				"colis parti", "livreur", "fait signe", "pas fait signe", "toujours pas",
				"recu", "reçu", "livre", "livré", "livree", "il est passe", "il est passé",
				"recupere", "recupéré", "recuperer", "nouvelle", "nouvelles", "j attends", "j'attends",
				"confirmation", "reception",
			},
		},
		Weights: WeightsConfig{
			Default:   GroupWeights{Natural: 1.0, Noisy: 0.9, Colloquial: 0.9, Ambiguous: 0.2, Extra: 0.20},
			Sharpened: GroupWeights{Natural: 0.8, Noisy: 1.15, Colloquial: 1.1, Ambiguous: 0.0, Extra: 0.35},
		},
	}
}

// Parse loads the YAML file at configPath over the default configuration.
// Fields absent from the file keep their tuned defaults.
func Parse(configPath string) (*RouterConfig, error) {
	// Resolve symlinks to handle Kubernetes ConfigMap mounts.
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Infof("Config loaded from %s (corpus=%s, model=%s)", resolved, cfg.CorpusPath, cfg.Embedding.Model)
	return cfg, nil
}

// APIKey resolves the embedding API key from the configured environment
// variable. An empty result is valid for keyless local endpoints.
func (e EmbeddingConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// Validate checks that thresholds and weights are in sane ranges.
func (c *RouterConfig) Validate() error {
	if c.CorpusPath == "" {
		return fmt.Errorf("corpus_path must be set")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model must be set")
	}
	r := c.Routing
	if r.AmbiguityThreshold <= 0 || r.AmbiguityThreshold >= 1 {
		return fmt.Errorf("routing.ambiguity_threshold must be in (0, 1), got %.3f", r.AmbiguityThreshold)
	}
	if r.TieBreakThreshold < r.AmbiguityThreshold || r.TieBreakThreshold >= 1 {
		return fmt.Errorf("routing.tie_break_threshold must be in [ambiguity_threshold, 1), got %.3f", r.TieBreakThreshold)
	}
	if r.InterrogativeBoost < 1.0 {
		return fmt.Errorf("routing.interrogative_boost must be >= 1.0, got %.3f", r.InterrogativeBoost)
	}
	if len(r.InterrogativeMarkers) == 0 {
		return fmt.Errorf("routing.interrogative_markers must not be empty")
	}
	if r.DeliveryIntentID == r.TrackingIntentID {
		return fmt.Errorf("routing.delivery_intent_id and routing.tracking_intent_id must differ")
	}
	for _, w := range []struct {
		name string
		gw   GroupWeights
	}{{"default", c.Weights.Default}, {"sharpened", c.Weights.Sharpened}} {
		for _, v := range []float64{w.gw.Natural, w.gw.Noisy, w.gw.Colloquial, w.gw.Ambiguous, w.gw.Extra} {
			if v < 0 {
				return fmt.Errorf("weights.%s must be non-negative", w.name)
			}
		}
		if w.gw.Natural+w.gw.Noisy+w.gw.Colloquial+w.gw.Ambiguous == 0 {
			return fmt.Errorf("weights.%s main groups must not all be zero", w.name)
		}
	}
	return nil
}
