package domain

// TypeInsight aggregates recent documents sharing a metadata type.
type TypeInsight struct {
	// Type is the metadata type label the group shares.
	Type string

	// Frequency is the number of sampled documents in the group.
	Frequency int

	// SuccessRate is successes divided by frequency.
	SuccessRate float64

	// RecentActivity counts group members created in the last 7 days.
	RecentActivity int
}

// InsightReport is the output of one health-insight aggregation pass.
type InsightReport struct {
	// Insights are templated, human-readable health statements.
	Insights []string

	// Groups are the per-type aggregates the statements were derived from.
	Groups []TypeInsight

	// Confidence is in [0, 1]; 0.1 means no recent data.
	Confidence float64

	// PatternsFound is the number of type groups large enough to analyze.
	PatternsFound int
}
