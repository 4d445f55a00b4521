package driving

import (
	"context"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// InsightService aggregates recent document metadata into health
// statements. It runs on demand; there is no internal scheduler.
type InsightService interface {
	// HealthInsights summarizes documents from the last 30 days.
	HealthInsights(ctx context.Context) domain.InsightReport
}
