package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

var (
	queryTopK       int
	queryMinSim     float64
	queryJSON       bool
	queryNoResponse bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Find similar past events and synthesize a diagnosis",
	Long: `Ranks stored documents against the query with TF-IDF similarity and
synthesizes a rule-based diagnosis/solution suggestion from the results
and the mined pattern table. An empty result set means no stored
document shares enough terms with the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 5, "maximum number of results")
	queryCmd.Flags().Float64Var(&queryMinSim, "min-similarity", 0.1, "minimum similarity score")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryNoResponse, "no-response", false, "skip response synthesis, print matches only")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	query := args[0]

	results := retrievalService.RetrieveSimilar(cmd.Context(), query, queryTopK, queryMinSim)

	var resp *domain.Response
	if !queryNoResponse {
		if responseService == nil {
			return errors.New("response service not configured")
		}
		contextDocs := make([]domain.Document, 0, len(results))
		for _, r := range results {
			contextDocs = append(contextDocs, r.Document)
		}
		r := responseService.GenerateResponse(cmd.Context(), query, contextDocs)
		resp = &r
	}

	if queryJSON {
		return outputQueryJSON(cmd, results, resp)
	}
	outputQueryText(cmd, results, resp)
	return nil
}

func outputQueryJSON(cmd *cobra.Command, results []domain.RetrievalResult, resp *domain.Response) error {
	payload := struct {
		Results  []domain.RetrievalResult `json:"results"`
		Response *domain.Response         `json:"response,omitempty"`
	}{Results: results, Response: resp}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, results []domain.RetrievalResult, resp *domain.Response) {
	if len(results) == 0 {
		cmd.Println("No similar documents found.")
	} else {
		cmd.Println(headingStyle.Render("Similar documents:"))
		for i, r := range results {
			cmd.Printf("  [%d] %s %s\n", i+1,
				snippet(r.Document.Content),
				scoreStyle.Render(fmt.Sprintf("(%.3f)", r.Score)))
			detail := r.Document.Metadata.Type
			if len(r.MatchingKeywords) > 0 {
				detail += " · matched: " + strings.Join(r.MatchingKeywords, ", ")
			}
			cmd.Printf("      %s\n", dimStyle.Render(detail))
		}
	}

	if resp != nil {
		cmd.Println()
		cmd.Println(headingStyle.Render("Assessment:"))
		cmd.Println(resp.Render())
	}
}

// snippet returns the first line of content, shortened for display.
func snippet(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return line
}
