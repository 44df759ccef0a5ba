package model

import "time"

// PairResult is one ranked product pair with its association metrics.
type PairResult struct {
	KeyA           string  `json:"key_a"`
	KeyB           string  `json:"key_b"`
	ItemA          string  `json:"item_a"`
	ItemB          string  `json:"item_b"`
	Support        int     `json:"support"`
	SupportPct     float64 `json:"support_pct"`
	CountA         int     `json:"count_a"`
	CountB         int     `json:"count_b"`
	ConfidenceAToB float64 `json:"confidence_a_to_b"`
	ConfidenceBToA float64 `json:"confidence_b_to_a"`
	Lift           float64 `json:"lift"`
}

// VariantCount is one facet-combination sub-tally within a bundle.
type VariantCount struct {
	Combo string `json:"combo"`
	Count int    `json:"count"`
}

// OrderRef points back at a contributing order; a debugging aid, not a
// statistical sample.
type OrderRef struct {
	ID   int64  `json:"id"`
	Date string `json:"date,omitempty"`
}

// BundleResult is one ranked multi-item bundle.
type BundleResult struct {
	Key          string         `json:"key"`
	Label        string         `json:"label"`
	Size         int            `json:"size"`
	Count        int            `json:"count"`
	SupportPct   float64        `json:"support_pct"`
	Variants     []VariantCount `json:"variants,omitempty"`
	SampleOrders []OrderRef     `json:"sample_orders,omitempty"`
}

// AnalysisResult is the full output of one engine computation.
type AnalysisResult struct {
	Mode            string         `json:"mode"`
	TotalOrders     int            `json:"total_orders"`
	EligibleOrders  int            `json:"eligible_orders"`
	SkippedOutliers int            `json:"skipped_outliers"`
	Pairs           []PairResult   `json:"pairs,omitempty"`
	Bundles         []BundleResult `json:"bundles,omitempty"`
	ComputedAt      time.Time      `json:"computed_at"`
	DurationMS      int64          `json:"duration_ms"`
}

// ExportResult records the outcome of one export operation.
type ExportResult struct {
	Type        string    `json:"type"` // "file", "database"
	Path        string    `json:"path"` // file path or table name
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}
