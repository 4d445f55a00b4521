package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// saveDoc writes directly to the store so tests control timestamps.
func saveDoc(t *testing.T, e *testEngine, id, docType string, success *bool, createdAt time.Time) {
	t.Helper()
	_, err := e.docStore.SaveDocument(context.Background(), &domain.Document{
		ID:        id,
		Content:   id,
		Metadata:  domain.Metadata{Type: docType, Success: success},
		Keywords:  []string{id},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestHealthInsights_EmptySample(t *testing.T) {
	e := newTestEngine(t)

	report := e.insights.HealthInsights(context.Background())

	require.Len(t, report.Insights, 1)
	assert.Equal(t, "No recent operational data to analyze", report.Insights[0])
	assert.InDelta(t, 0.1, report.Confidence, 1e-9)
	assert.Zero(t, report.PatternsFound)
}

func TestHealthInsights_HalfSuccessGroup(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	saveDoc(t, e, "ok", "ops", boolPtr(true), now.AddDate(0, 0, -1))
	saveDoc(t, e, "bad", "ops", boolPtr(false), now.AddDate(0, 0, -2))

	report := e.insights.HealthInsights(context.Background())

	require.Len(t, report.Groups, 1)
	g := report.Groups[0]
	assert.Equal(t, "ops", g.Type)
	assert.Equal(t, 2, g.Frequency)
	assert.InDelta(t, 0.5, g.SuccessRate, 1e-9)
	assert.Equal(t, 2, g.RecentActivity)
	assert.Equal(t, 1, report.PatternsFound)
}

func TestHealthInsights_SingletonGroupsExcluded(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	saveDoc(t, e, "only", "one-off", boolPtr(true), now.AddDate(0, 0, -1))
	saveDoc(t, e, "a", "ops", boolPtr(true), now.AddDate(0, 0, -1))
	saveDoc(t, e, "b", "ops", boolPtr(true), now.AddDate(0, 0, -2))

	report := e.insights.HealthInsights(context.Background())

	require.Len(t, report.Groups, 1)
	assert.Equal(t, "ops", report.Groups[0].Type)
}

func TestHealthInsights_FrequentAndLowSuccessStatements(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	// Five failing deploy documents: frequent, low success rate, and an
	// overall warning.
	for i := 0; i < 5; i++ {
		saveDoc(t, e, fmt.Sprintf("deploy-%d", i), "deploy", boolPtr(false), now.AddDate(0, 0, -i-1))
	}

	report := e.insights.HealthInsights(context.Background())

	joined := strings.Join(report.Insights, "\n")
	assert.Contains(t, joined, "Frequent deploy operations: 5")
	assert.Contains(t, joined, "Low success rate for deploy operations: 0%")
	assert.Contains(t, joined, "Overall success rate is low (0%)")
}

func TestHealthInsights_HighSuccessStatements(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		saveDoc(t, e, fmt.Sprintf("backup-%d", i), "backup", boolPtr(true), now.AddDate(0, 0, -i-1))
	}

	report := e.insights.HealthInsights(context.Background())

	joined := strings.Join(report.Insights, "\n")
	assert.Contains(t, joined, "High success rate for backup operations: 100%")
	assert.Contains(t, joined, "System running smoothly: 100%")
}

func TestHealthInsights_OldDocumentsOutsideWindow(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	saveDoc(t, e, "ancient-1", "ops", boolPtr(true), now.AddDate(0, 0, -40))
	saveDoc(t, e, "ancient-2", "ops", boolPtr(true), now.AddDate(0, 0, -45))

	report := e.insights.HealthInsights(context.Background())

	assert.Zero(t, report.PatternsFound)
	assert.InDelta(t, 0.1, report.Confidence, 1e-9)
}

func TestHealthInsights_ConfidenceGrowsWithGroupsAndCaps(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	// One analyzable group: 0.3 + 0.1.
	saveDoc(t, e, "x1", "ops", boolPtr(true), now.AddDate(0, 0, -1))
	saveDoc(t, e, "x2", "ops", boolPtr(true), now.AddDate(0, 0, -1))
	report := e.insights.HealthInsights(context.Background())
	assert.InDelta(t, 0.4, report.Confidence, 1e-9)

	// Seven groups would exceed the cap; confidence stops at 0.9.
	for i := 0; i < 7; i++ {
		docType := fmt.Sprintf("type-%d", i)
		saveDoc(t, e, docType+"-a", docType, boolPtr(true), now.AddDate(0, 0, -1))
		saveDoc(t, e, docType+"-b", docType, boolPtr(true), now.AddDate(0, 0, -1))
	}
	report = e.insights.HealthInsights(context.Background())
	assert.Equal(t, 8, report.PatternsFound)
	assert.InDelta(t, 0.9, report.Confidence, 1e-9)
}

func TestHealthInsights_RecentActivityWindow(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now().UTC()

	saveDoc(t, e, "recent", "ops", boolPtr(true), now.AddDate(0, 0, -2))
	saveDoc(t, e, "older", "ops", boolPtr(true), now.AddDate(0, 0, -20))

	report := e.insights.HealthInsights(context.Background())

	require.Len(t, report.Groups, 1)
	assert.Equal(t, 2, report.Groups[0].Frequency)
	assert.Equal(t, 1, report.Groups[0].RecentActivity)
}
