package driving

import (
	"context"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// ResponseService synthesizes rule-based diagnoses from queries and
// retrieved context.
type ResponseService interface {
	// GenerateResponse produces a diagnosis/solution/confidence triple
	// for the query. When contextDocs is nil the service retrieves its
	// own context; pass an empty slice to suppress retrieval.
	GenerateResponse(ctx context.Context, query string, contextDocs []domain.Document) domain.Response

	// AnalyzeToolOutput ingests one automation job output and returns a
	// synthesized analysis of it.
	AnalyzeToolOutput(ctx context.Context, output, jobName string, targets []string) domain.OutputAnalysis
}
