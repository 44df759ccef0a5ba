package model

// ExportSpec defines where analysis results get written after a job run.
type ExportSpec struct {
	File   string `json:"file,omitempty"`   // output file path; empty = auto-named under the output dir
	Format string `json:"format,omitempty"` // csv | json, default csv
	DB     bool   `json:"db,omitempty"`     // also persist rows to the results table
}

// AnalysisJobSpec is the payload for POST /api/v1/analyses: which snapshot
// to analyze, with which parameters, and where to export the result.
type AnalysisJobSpec struct {
	Snapshot string          `json:"snapshot,omitempty"` // dataset snapshot path; empty = configured default
	Analysis AnalysisRequest `json:"analysis"`
	Export   *ExportSpec     `json:"export,omitempty"`
	Timeout  string          `json:"timeout,omitempty"` // e.g. "5m"
}

// SnapshotInfo describes one persisted dataset snapshot.
type SnapshotInfo struct {
	Path       string `json:"path"`
	OrderCount int    `json:"order_count"`
	FetchedAt  string `json:"fetched_at"`
}
