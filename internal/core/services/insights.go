package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driving"
	"github.com/fathomlabs/opsrecall/internal/logger"
	"github.com/fathomlabs/opsrecall/internal/metrics"
)

// Ensure InsightService implements the interface.
var _ driving.InsightService = (*InsightService)(nil)

// Sampling bounds for one aggregation pass.
const (
	insightWindowDays = 30
	insightSampleCap  = 50
	minGroupSize      = 2
)

// InsightService aggregates recent document metadata into health
// statements.
type InsightService struct {
	docStore driven.DocumentStore
}

// NewInsightService creates a new insight service.
func NewInsightService(docStore driven.DocumentStore) *InsightService {
	return &InsightService{docStore: docStore}
}

// HealthInsights summarizes up to 50 documents from the last 30 days
// into templated health statements. An empty sample, or a storage
// failure, produces the single "no recent data" insight at confidence
// 0.1.
func (s *InsightService) HealthInsights(ctx context.Context) domain.InsightReport {
	logger.Section("Health Insights")
	metrics.InsightRuns.Inc()
	now := time.Now().UTC()

	docs, err := s.docStore.ListRecent(ctx, now.AddDate(0, 0, -insightWindowDays), insightSampleCap)
	if err != nil {
		logger.Warn("List recent documents: %v", err)
		metrics.StorageFailures.Inc()
		return noDataReport()
	}
	if len(docs) == 0 {
		return noDataReport()
	}

	groups := groupByType(docs, now)
	logger.Debug("Sampled %d documents, %d analyzable type groups", len(docs), len(groups))

	report := domain.InsightReport{
		Groups:        groups,
		PatternsFound: len(groups),
	}

	for _, g := range groups {
		if g.Frequency >= 5 {
			report.Insights = append(report.Insights,
				fmt.Sprintf("Frequent %s operations: %d in the last %d days", g.Type, g.Frequency, insightWindowDays))
		}
		if g.SuccessRate < 0.5 {
			report.Insights = append(report.Insights,
				fmt.Sprintf("Low success rate for %s operations: %.0f%%", g.Type, g.SuccessRate*100))
		}
		if g.SuccessRate > 0.8 {
			report.Insights = append(report.Insights,
				fmt.Sprintf("High success rate for %s operations: %.0f%%", g.Type, g.SuccessRate*100))
		}
	}

	overall := overallSuccessRate(docs)
	if overall < 0.6 {
		report.Insights = append(report.Insights,
			fmt.Sprintf("Overall success rate is low (%.0f%%): recent operations need attention", overall*100))
	}
	if overall > 0.9 {
		report.Insights = append(report.Insights,
			fmt.Sprintf("System running smoothly: %.0f%% of recent operations succeeded", overall*100))
	}

	report.Confidence = 0.3 + 0.1*float64(report.PatternsFound)
	if report.Confidence > 0.9 {
		report.Confidence = 0.9
	}

	return report
}

// groupByType aggregates sampled documents into per-type groups of at
// least two members, ordered by frequency descending then type name.
func groupByType(docs []domain.Document, now time.Time) []domain.TypeInsight {
	weekAgo := now.AddDate(0, 0, -7)

	type bucket struct {
		count     int
		successes int
		recent    int
	}
	buckets := make(map[string]*bucket)

	for _, doc := range docs {
		b := buckets[doc.Metadata.Type]
		if b == nil {
			b = &bucket{}
			buckets[doc.Metadata.Type] = b
		}
		b.count++
		if doc.Metadata.Succeeded() {
			b.successes++
		}
		if !doc.CreatedAt.Before(weekAgo) {
			b.recent++
		}
	}

	var groups []domain.TypeInsight
	for docType, b := range buckets {
		if b.count < minGroupSize {
			continue
		}
		groups = append(groups, domain.TypeInsight{
			Type:           docType,
			Frequency:      b.count,
			SuccessRate:    float64(b.successes) / float64(b.count),
			RecentActivity: b.recent,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Frequency != groups[j].Frequency {
			return groups[i].Frequency > groups[j].Frequency
		}
		return groups[i].Type < groups[j].Type
	})

	return groups
}

// overallSuccessRate is the share of explicitly successful documents
// across the whole sample.
func overallSuccessRate(docs []domain.Document) float64 {
	successes := 0
	for _, doc := range docs {
		if doc.Metadata.Succeeded() {
			successes++
		}
	}
	return float64(successes) / float64(len(docs))
}

// noDataReport is the fallback when nothing recent is available.
func noDataReport() domain.InsightReport {
	return domain.InsightReport{
		Insights:   []string{"No recent operational data to analyze"},
		Confidence: 0.1,
	}
}
