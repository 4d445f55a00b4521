package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	analyzeFile    string
	analyzeTargets []string
	analyzeJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-name]",
	Short: "Analyze one automation job output",
	Long: `Scans a job's output for known error shapes, stores it for future
retrieval, and synthesizes a diagnosis from similar past events. The
output is read from stdin, or from a file with --file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read job output from a file instead of stdin")
	analyzeCmd.Flags().StringSliceVar(&analyzeTargets, "targets", nil, "hosts the job ran against")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if responseService == nil {
		return errors.New("response service not configured")
	}
	jobName := args[0]

	output, err := analyzeInput(cmd)
	if err != nil {
		return err
	}

	analysis := responseService.AnalyzeToolOutput(cmd.Context(), output, jobName, analyzeTargets)

	if analyzeJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s %s\n", headingStyle.Render("Run:"), analysis.RunID)
	if analysis.Success {
		cmd.Println(okStyle.Render("No error shapes detected."))
	} else {
		cmd.Println(errStyle.Render("Errors detected:"))
		for _, line := range analysis.ErrorSummary {
			cmd.Printf("  %s\n", line)
		}
		cmd.Println()
		cmd.Println(analysis.Response.Render())
	}
	if len(analysis.Recommendations) > 0 {
		cmd.Println()
		cmd.Println(headingStyle.Render("Recommendations:"))
		for _, rec := range analysis.Recommendations {
			cmd.Printf("  - %s\n", rec)
		}
	}
	if analysis.DocumentID != "" {
		cmd.Println()
		cmd.Println(dimStyle.Render("Stored as " + analysis.DocumentID))
	}
	return nil
}

func analyzeInput(cmd *cobra.Command) (string, error) {
	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", analyzeFile, err)
		}
		return string(data), nil
	}
	return textArgOrStdin(cmd, nil)
}
