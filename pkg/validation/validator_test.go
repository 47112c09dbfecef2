package validation_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/centroid"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/config"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/corpus"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/validation"
)

// fixedEmbedder maps exact utterances to fixed vectors.
type fixedEmbedder struct {
	vectors map[string][]float32
}

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = append([]float32(nil), v...)
	}
	return out, nil
}

var _ = Describe("Validator", func() {
	var (
		ctx       context.Context
		validator *validation.Validator
	)

	// Two intents with controlled geometry. Intent 1 carries a noisy sample
	// ("stray") whose embedding sits exactly on intent 2's centroid, so the
	// replay yields one confident misclassification out of five samples.
	// Intent 5 has only ambiguous examples, which the accuracy pass excludes.
	BeforeEach(func() {
		ctx = context.Background()

		c := &corpus.Corpus{Intents: []corpus.Intent{
			{ID: 1, Name: "alpha", Natural: []string{"alpha one", "alpha two"}, Noisy: []string{"stray"}},
			{ID: 2, Name: "beta", Natural: []string{"beta one", "beta off"}},
			{ID: 5, Name: "gamma", Ambiguous: []string{"vague thing"}},
		}}
		emb := &fixedEmbedder{vectors: map[string][]float32{
			"alpha one":   {1, 0, 0},
			"alpha two":   {1, 0, 0},
			"stray":       {0, 1, 0},
			"beta one":    {0, 1, 0},
			"beta off":    {0, 1, 0},
			"vague thing": {0, 0, 1},
		}}

		cfg := config.Default()
		cfg.Cache.Enabled = false

		router, err := centroid.NewRouterFromCorpus(ctx, cfg, emb, c, nil)
		Expect(err).NotTo(HaveOccurred())

		validator = validation.New(router)
	})

	Describe("ValidateOnCorpus", func() {
		It("accumulates global accuracy over the labeled samples", func() {
			report := validator.ValidateOnCorpus(ctx)

			Expect(report.TotalSamples).To(Equal(5))
			Expect(report.CorrectPredictions).To(Equal(4))
			Expect(report.OverallAccuracy).To(BeNumerically("~", 0.8, 1e-9))
		})

		It("breaks accuracy down per intent", func() {
			report := validator.ValidateOnCorpus(ctx)

			alpha := report.PerIntent[1]
			Expect(alpha.IntentName).To(Equal("alpha"))
			Expect(alpha.TotalSamples).To(Equal(3))
			Expect(alpha.CorrectPredictions).To(Equal(2))
			Expect(alpha.Accuracy).To(BeNumerically("~", 2.0/3.0, 1e-9))

			beta := report.PerIntent[2]
			Expect(beta.TotalSamples).To(Equal(2))
			Expect(beta.CorrectPredictions).To(Equal(2))
			Expect(beta.Accuracy).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("keeps the per-intent counts consistent with the totals", func() {
			report := validator.ValidateOnCorpus(ctx)

			var total, correct int
			for _, m := range report.PerIntent {
				total += m.TotalSamples
				correct += m.CorrectPredictions
			}
			Expect(total).To(Equal(report.TotalSamples))
			Expect(correct).To(Equal(report.CorrectPredictions))
		})

		It("excludes intents without natural, noisy or colloquial samples", func() {
			report := validator.ValidateOnCorpus(ctx)

			Expect(report.PerIntent).NotTo(HaveKey(5))
		})
	})

	Describe("AnalyzeErrors", func() {
		It("returns misclassifications ordered by confidence", func() {
			errs := validator.AnalyzeErrors(ctx, 10)

			Expect(errs).To(HaveLen(1))
			Expect(errs[0].Message).To(Equal("stray"))
			Expect(errs[0].TrueIntentID).To(Equal(1))
			Expect(errs[0].TrueIntentName).To(Equal("alpha"))
			Expect(errs[0].PredictedIntentID).To(Equal(2))
			Expect(errs[0].PredictedIntentName).To(Equal("beta"))
			Expect(errs[0].Confidence).To(BeNumerically("~", 1.0, 1e-6))
			Expect(errs[0].TopK).NotTo(BeEmpty())
		})

		It("truncates to the requested size", func() {
			Expect(validator.AnalyzeErrors(ctx, 0)).To(BeEmpty())
		})
	})
})
