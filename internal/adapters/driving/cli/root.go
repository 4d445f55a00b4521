// Package cli implements the opsrecall command-line interface. Each
// command lives in its own file and registers itself on the root
// command in init(). Services are wired once in the root command's
// PersistentPreRunE; tests inject in-memory services instead.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fathomlabs/opsrecall/internal/adapters/driven/config/file"
	"github.com/fathomlabs/opsrecall/internal/adapters/driven/storage/sqlite"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driving"
	"github.com/fathomlabs/opsrecall/internal/core/services"
	"github.com/fathomlabs/opsrecall/internal/logger"
	"github.com/fathomlabs/opsrecall/internal/vocab"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired by initEngine, or injected
// directly by tests.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	responseService  driving.ResponseService
	insightService   driving.InsightService
	configStore      driven.ConfigStore
	storePath        string
)

var (
	verboseFlag   bool
	dataDirFlag   string
	configDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "opsrecall",
	Short: "Local retrieval and pattern mining for operational text",
	Long: `opsrecall indexes command outputs, error logs, and resolved-issue
notes, and answers "what happened before that looks like this" queries
with similarity-ranked results, a rule-based diagnosis, and aggregate
health insights. Everything runs locally; there is no network service
and no trained model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if cmd.Name() == "version" {
			return nil
		}
		return initEngine(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.opsrecall/data)")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default ~/.opsrecall)")
}

// initEngine builds the full service graph over the SQLite store.
// Already-wired services (tests, embedding applications) are left
// untouched.
func initEngine(ctx context.Context) error {
	if retrievalService != nil {
		return nil
	}

	store, err := sqlite.NewStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	storePath = store.Path()

	cfg, err := file.NewConfigStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cfg

	index := vocab.NewIndex()
	ingest := services.NewIngestService(store.DocumentStore(), store.PatternStore(), cfg, index)
	retrieval := services.NewRetrievalService(store.DocumentStore(), store.PatternStore(), index)
	retrieval.RebuildIndex(ctx)

	ingestService = ingest
	retrievalService = retrieval
	responseService = services.NewResponseService(retrieval, ingest, store.PatternStore())
	insightService = services.NewInsightService(store.DocumentStore())

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
