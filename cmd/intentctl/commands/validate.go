package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/cli"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/validation"
)

// NewValidateCmd measures routing accuracy over the labeled corpus.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Replay the labeled corpus and report routing accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			router, err := buildRouter(ctx, cmd)
			if err != nil {
				return err
			}

			report := validation.New(router).ValidateOnCorpus(ctx)

			if handled, err := printStructured(cmd, report); handled {
				return err
			}

			ids := make([]int, 0, len(report.PerIntent))
			for id := range report.PerIntent {
				ids = append(ids, id)
			}
			sort.Ints(ids)

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				m := report.PerIntent[id]
				rows = append(rows, []string{
					fmt.Sprintf("%d", id),
					m.IntentName,
					fmt.Sprintf("%.1f%%", m.Accuracy*100),
					fmt.Sprintf("%d/%d", m.CorrectPredictions, m.TotalSamples),
				})
			}
			cli.PrintTable([]string{"ID", "Intent", "Accuracy", "Correct"}, rows)

			summary := fmt.Sprintf("Overall: %d/%d correct (%.1f%%)",
				report.CorrectPredictions, report.TotalSamples, report.OverallAccuracy*100)
			if report.OverallAccuracy >= 0.9 {
				cli.Success(summary)
			} else {
				cli.Warning(summary)
			}
			return nil
		},
	}
}
