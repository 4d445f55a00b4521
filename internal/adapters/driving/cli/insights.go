package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var insightsJSON bool

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize recent operations into health statements",
	Long: `Aggregates documents from the last 30 days into per-type groups and
emits templated health statements: frequent operations, low or high
success rates, and an overall system assessment.`,
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	if insightService == nil {
		return errors.New("insight service not configured")
	}

	report := insightService.HealthInsights(cmd.Context())

	if insightsJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(headingStyle.Render("Health insights:"))
	for _, insight := range report.Insights {
		cmd.Printf("  - %s\n", insight)
	}
	if len(report.Groups) > 0 {
		cmd.Println()
		cmd.Println(headingStyle.Render("Groups:"))
		for _, g := range report.Groups {
			cmd.Printf("  %-20s %3d ops, %3.0f%% success, %d recent\n",
				g.Type, g.Frequency, g.SuccessRate*100, g.RecentActivity)
		}
	}
	cmd.Println()
	cmd.Println(dimStyle.Render(fmt.Sprintf("Confidence: %.1f (%d analyzable groups)", report.Confidence, report.PatternsFound)))
	return nil
}
