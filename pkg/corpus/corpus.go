// Package corpus loads the labeled intent corpus. Legacy field names from
// earlier corpus revisions (prompt_cible, score_hierarchie, the two spellings
// of the ambiguous-variations key) are normalized into one canonical schema
// here, so nothing downstream needs alias fallbacks.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// Intent is one labeled intent with its example-utterance groups. All string
// lists are already filtered of blank entries.
type Intent struct {
	ID                int
	Name              string
	PromptTarget      string
	Score             int
	BoostInterrogatif bool
	// Keywords are lowercase trigger words for the generic lexical boost.
	Keywords []string

	// Example-utterance groups, each weighted differently during centroid
	// construction.
	Natural       []string // variations_naturelles
	Noisy         []string // variations_bruitees
	Colloquial    []string // variations_nouchi
	Ambiguous     []string // variations_ambiguës / variations_ambiguees
	GenericZones  []string // variations_zones_generiques
	Confirmations []string // variations_confirmation_reception
}

// Corpus is the full labeled corpus, in file order.
type Corpus struct {
	Intents []Intent
}

type rawIntent struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	PromptTarget      string   `json:"prompt_target"`
	PromptCible       string   `json:"prompt_cible"` // legacy alias
	Score             int      `json:"score"`
	ScoreHierarchie   int      `json:"score_hierarchie"` // legacy alias
	BoostInterrogatif bool     `json:"boost_interrogatif"`
	Keywords          []string `json:"keywords"`

	Natural        []string `json:"variations_naturelles"`
	Noisy          []string `json:"variations_bruitees"`
	Colloquial     []string `json:"variations_nouchi"`
	Ambiguous      []string `json:"variations_ambiguës"`
	AmbiguousASCII []string `json:"variations_ambiguees"` // legacy alias
	GenericZones   []string `json:"variations_zones_generiques"`
	Confirmations  []string `json:"variations_confirmation_reception"`
}

type rawCorpus struct {
	Intents []rawIntent `json:"intents"`
}

// Load reads and normalizes the corpus JSON at path. A missing or
// unparseable file is a fatal error for the caller: the router cannot be
// constructed without a corpus.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent corpus %s: %w", path, err)
	}
	return Parse(data)
}

// Parse normalizes raw corpus JSON.
func Parse(data []byte) (*Corpus, error) {
	var raw rawCorpus
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse intent corpus: %w", err)
	}

	c := &Corpus{Intents: make([]Intent, 0, len(raw.Intents))}
	for _, ri := range raw.Intents {
		c.Intents = append(c.Intents, normalize(ri))
	}

	logging.Infof("Loaded intent corpus: %d intents", len(c.Intents))
	return c, nil
}

func normalize(ri rawIntent) Intent {
	promptTarget := strings.TrimSpace(ri.PromptTarget)
	if promptTarget == "" {
		promptTarget = strings.TrimSpace(ri.PromptCible)
	}
	if promptTarget == "" {
		promptTarget = "A"
	}

	score := ri.Score
	if score == 0 {
		score = ri.ScoreHierarchie
	}

	ambiguous := ri.Ambiguous
	if len(ambiguous) == 0 {
		ambiguous = ri.AmbiguousASCII
	}

	keywords := make([]string, 0, len(ri.Keywords))
	for _, k := range ri.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}

	return Intent{
		ID:                ri.ID,
		Name:              ri.Name,
		PromptTarget:      promptTarget,
		Score:             score,
		BoostInterrogatif: ri.BoostInterrogatif,
		Keywords:          keywords,
		Natural:           cleanStrings(ri.Natural),
		Noisy:             cleanStrings(ri.Noisy),
		Colloquial:        cleanStrings(ri.Colloquial),
		Ambiguous:         cleanStrings(ambiguous),
		GenericZones:      cleanStrings(ri.GenericZones),
		Confirmations:     cleanStrings(ri.Confirmations),
	}
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// HasMainExamples reports whether the intent carries at least one example in
// the four main groups. Intents without any are never registered; the
// generic-zone and confirmation groups alone contribute only supplementary
// signal and cannot keep an intent alive.
func (i Intent) HasMainExamples() bool {
	return len(i.Natural)+len(i.Noisy)+len(i.Colloquial)+len(i.Ambiguous) > 0
}
