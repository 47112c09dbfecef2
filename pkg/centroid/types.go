// Package centroid implements intent classification over weighted-mean
// embedding centroids: one unit vector per intent, built from labeled
// example utterances, queried by cosine similarity with lexical and
// interrogative re-ranking.
package centroid

// MethodCentroidCosine tags results produced by cosine classification
// against intent centroids.
const MethodCentroidCosine = "centroid_cosine"

// IntentCentroid is an intent together with its unit-length centroid vector.
// Instances are immutable after construction.
type IntentCentroid struct {
	IntentID          int
	IntentName        string
	PromptTarget      string
	Score             int
	BoostInterrogatif bool
	Keywords          []string
	Centroid          []float32
}

// TopIntent is one entry of the ranked candidate list.
type TopIntent struct {
	IntentID     int     `json:"intent_id"`
	IntentName   string  `json:"intent_name"`
	Confidence   float64 `json:"confidence"`
	PromptTarget string  `json:"prompt_target"`
}

// Result is the outcome of routing a single message.
type Result struct {
	IntentID     int    `json:"intent_id"`
	IntentName   string `json:"intent_name"`
	PromptTarget string `json:"prompt_target"`
	Score        int    `json:"score"`

	// Similarity is the raw cosine similarity of the message to the winning
	// centroid, before any boost. Confidence is the post-boost score that
	// drove the decision.
	Similarity float64 `json:"similarity"`
	Confidence float64 `json:"confidence"`

	Method       string      `json:"method"`
	BoostApplied bool        `json:"boost_applied"`
	TopKIntents  []TopIntent `json:"top_k_intents"`

	// IsAmbiguous is true when the top-2 confidence gap is below the
	// configured threshold. ConfidenceDelta is that gap (1.0 when fewer
	// than two candidates exist).
	IsAmbiguous     bool    `json:"is_ambiguous"`
	ConfidenceDelta float64 `json:"confidence_delta"`
}
