package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

var (
	ingestType     string
	ingestPlaybook string
	ingestSuccess  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [text]",
	Short: "Store operational text for later retrieval",
	Long: `Stores one unit of operational text plus metadata. The text is
keyword-indexed for similarity queries and mined for recurring error
and solution patterns. With no argument the text is read from stdin.

Re-ingesting identical text and metadata is a no-op: the document ID is
a deterministic hash of both.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "command-output", "metadata type label")
	ingestCmd.Flags().StringVar(&ingestPlaybook, "playbook", "", "automation job name that produced the text")
	ingestCmd.Flags().BoolVar(&ingestSuccess, "success", false, "mark the operation as succeeded (or failed with --success=false)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	content, err := textArgOrStdin(cmd, args)
	if err != nil {
		return err
	}

	meta := domain.Metadata{
		Type:     ingestType,
		Playbook: ingestPlaybook,
	}
	if cmd.Flags().Changed("success") {
		meta.Success = &ingestSuccess
	}

	id, stored := ingestService.AddDocument(cmd.Context(), content, meta)
	if !stored {
		cmd.Println(warnStyle.Render("Skipped: privacy policy declined this document type, or storage failed."))
		return nil
	}

	cmd.Printf("Stored document %s\n", id)
	return nil
}

// textArgOrStdin returns the positional argument, or the whole of stdin
// when no argument was given.
func textArgOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("no input: pass text as an argument or on stdin")
	}
	return string(data), nil
}
