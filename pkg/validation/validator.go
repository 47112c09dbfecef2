// Package validation replays the labeled corpus through the router to
// measure classification accuracy and surface the most confidently wrong
// predictions. It is an offline harness: one embedding call per utterance,
// read-only against the router, and it reports findings as data rather than
// errors.
package validation

import (
	"context"
	"sort"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/centroid"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/corpus"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// IntentMetrics is the accuracy breakdown for one intent.
type IntentMetrics struct {
	IntentName         string  `json:"intent_name"`
	Accuracy           float64 `json:"accuracy"`
	TotalSamples       int     `json:"total_samples"`
	CorrectPredictions int     `json:"correct_predictions"`
}

// Report aggregates global and per-intent accuracy over the corpus.
type Report struct {
	OverallAccuracy    float64               `json:"overall_accuracy"`
	TotalSamples       int                   `json:"total_samples"`
	CorrectPredictions int                   `json:"correct_predictions"`
	PerIntent          map[int]IntentMetrics `json:"per_intent"`
}

// Misclassification records one wrong prediction with the confidence the
// router assigned to it.
type Misclassification struct {
	Message             string               `json:"message"`
	TrueIntentID        int                  `json:"true_intent_id"`
	TrueIntentName      string               `json:"true_intent_name"`
	PredictedIntentID   int                  `json:"predicted_intent_id"`
	PredictedIntentName string               `json:"predicted_intent_name"`
	Confidence          float64              `json:"confidence"`
	TopK                []centroid.TopIntent `json:"top_k"`
}

// Validator replays labeled utterances through a router.
type Validator struct {
	router *centroid.Router
}

// New creates a validator over the router's own corpus.
func New(router *centroid.Router) *Validator {
	return &Validator{router: router}
}

// labeledSamples yields the accuracy-pass utterances: the natural, noisy and
// colloquial groups. Ambiguous, generic-zone and confirmation examples are
// excluded — they are deliberately off-center and would only measure noise.
func labeledSamples(intent corpus.Intent) []string {
	samples := make([]string, 0, len(intent.Natural)+len(intent.Noisy)+len(intent.Colloquial))
	samples = append(samples, intent.Natural...)
	samples = append(samples, intent.Noisy...)
	samples = append(samples, intent.Colloquial...)
	return samples
}

// ValidateOnCorpus replays every labeled utterance and accumulates global
// and per-intent accuracy. Routing failures (embedding errors) count as
// incorrect predictions, never abort the pass.
func (v *Validator) ValidateOnCorpus(ctx context.Context) *Report {
	report := &Report{PerIntent: make(map[int]IntentMetrics)}

	for _, intent := range v.router.Corpus().Intents {
		samples := labeledSamples(intent)
		if len(samples) == 0 {
			continue
		}

		m := IntentMetrics{IntentName: intent.Name}
		for _, sample := range samples {
			m.TotalSamples++
			report.TotalSamples++

			res, err := v.router.Route(ctx, sample)
			if err != nil {
				logging.Warnf("Validation routing failed for %q: %v", sample, err)
				continue
			}
			if res.IntentID == intent.ID {
				m.CorrectPredictions++
				report.CorrectPredictions++
			}
		}
		if m.TotalSamples > 0 {
			m.Accuracy = float64(m.CorrectPredictions) / float64(m.TotalSamples)
		}
		report.PerIntent[intent.ID] = m
	}

	if report.TotalSamples > 0 {
		report.OverallAccuracy = float64(report.CorrectPredictions) / float64(report.TotalSamples)
	}

	logging.Infof("Corpus validation: %d/%d correct (%.1f%%) across %d intents",
		report.CorrectPredictions, report.TotalSamples, report.OverallAccuracy*100, len(report.PerIntent))
	return report
}

// AnalyzeErrors replays the corpus and returns the topN most confidently
// wrong predictions, the most informative cases for debugging centroid
// quality.
func (v *Validator) AnalyzeErrors(ctx context.Context, topN int) []Misclassification {
	var errs []Misclassification

	for _, intent := range v.router.Corpus().Intents {
		for _, sample := range labeledSamples(intent) {
			res, err := v.router.Route(ctx, sample)
			if err != nil {
				logging.Warnf("Error analysis routing failed for %q: %v", sample, err)
				continue
			}
			if res.IntentID == intent.ID {
				continue
			}
			errs = append(errs, Misclassification{
				Message:             sample,
				TrueIntentID:        intent.ID,
				TrueIntentName:      intent.Name,
				PredictedIntentID:   res.IntentID,
				PredictedIntentName: res.IntentName,
				Confidence:          res.Confidence,
				TopK:                res.TopKIntents,
			})
		}
	}

	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Confidence != errs[j].Confidence {
			return errs[i].Confidence > errs[j].Confidence
		}
		return errs[i].Message < errs[j].Message
	})

	if topN >= 0 && topN < len(errs) {
		errs = errs[:topN]
	}
	return errs
}
