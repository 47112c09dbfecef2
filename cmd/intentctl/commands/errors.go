package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/cli"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/validation"
)

// NewErrorsCmd extracts the most confidently wrong predictions.
func NewErrorsCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List the most confident misclassifications over the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			router, err := buildRouter(ctx, cmd)
			if err != nil {
				return err
			}

			errs := validation.New(router).AnalyzeErrors(ctx, topN)

			if handled, err := printStructured(cmd, errs); handled {
				return err
			}

			if len(errs) == 0 {
				cli.Success("No misclassifications on the labeled corpus")
				return nil
			}

			rows := make([][]string, 0, len(errs))
			for _, e := range errs {
				rows = append(rows, []string{
					e.Message,
					e.TrueIntentName,
					e.PredictedIntentName,
					fmt.Sprintf("%.4f", e.Confidence),
				})
			}
			cli.PrintTable([]string{"Message", "True", "Predicted", "Confidence"}, rows)
			cli.Warning("%d misclassification(s) shown, most confident first", len(errs))
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 10, "Number of misclassifications to show")
	return cmd
}
