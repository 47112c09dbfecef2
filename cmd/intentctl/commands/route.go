package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/cli"
)

// NewRouteCmd routes a single message and shows the candidate breakdown.
func NewRouteCmd() *cobra.Command {
	var (
		topK    int
		noBoost bool
	)

	cmd := &cobra.Command{
		Use:   "route <message>",
		Short: "Route one message and print the ranked candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			router, err := buildRouter(ctx, cmd)
			if err != nil {
				return err
			}

			res, err := router.RouteTopK(ctx, args[0], topK, !noBoost)
			if err != nil {
				return err
			}

			if handled, err := printStructured(cmd, res); handled {
				return err
			}

			cli.Info("Intent %d (%s) -> prompt %s", res.IntentID, res.IntentName, res.PromptTarget)
			fmt.Printf("similarity=%.4f confidence=%.4f delta=%.4f boost=%v ambiguous=%v\n",
				res.Similarity, res.Confidence, res.ConfidenceDelta, res.BoostApplied, res.IsAmbiguous)

			rows := make([][]string, 0, len(res.TopKIntents))
			for rank, ti := range res.TopKIntents {
				rows = append(rows, []string{
					fmt.Sprintf("%d", rank+1),
					fmt.Sprintf("%d", ti.IntentID),
					ti.IntentName,
					fmt.Sprintf("%.4f", ti.Confidence),
					ti.PromptTarget,
				})
			}
			cli.PrintTable([]string{"Rank", "ID", "Intent", "Confidence", "Prompt"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 3, "Number of candidates to return")
	cmd.Flags().BoolVar(&noBoost, "no-boost", false, "Disable the interrogative boost")
	return cmd
}
