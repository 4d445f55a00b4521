package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fathomlabs/opsrecall/internal/metrics"
)

var statsMetrics bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsMetrics, "metrics", false, "also dump engine operation counters")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats := retrievalService.Statistics(cmd.Context())

	cmd.Println(headingStyle.Render("Corpus:"))
	cmd.Printf("  Documents:        %d\n", stats.TotalDocuments)
	cmd.Printf("  Vocabulary terms: %d\n", stats.VocabularySize)
	cmd.Printf("  Recent (7 days):  %d\n", stats.RecentDocuments)
	cmd.Printf("  Patterns tracked: %d\n", stats.PatternsTracked)

	if len(stats.DocumentsByType) > 0 {
		cmd.Println()
		cmd.Println(headingStyle.Render("By type:"))
		types := make([]string, 0, len(stats.DocumentsByType))
		for docType := range stats.DocumentsByType {
			types = append(types, docType)
		}
		sort.Strings(types)
		for _, docType := range types {
			cmd.Printf("  %-20s %d\n", docType, stats.DocumentsByType[docType])
		}
	}

	if storePath != "" {
		cmd.Println()
		cmd.Println(dimStyle.Render("Store: " + storePath))
	}

	if statsMetrics {
		cmd.Println()
		cmd.Println(headingStyle.Render("Engine counters:"))
		families, err := metrics.Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		for _, family := range families {
			for _, m := range family.GetMetric() {
				if counter := m.GetCounter(); counter != nil {
					cmd.Printf("  %-40s %.0f\n", family.GetName(), counter.GetValue())
				}
			}
		}
	}

	return nil
}
