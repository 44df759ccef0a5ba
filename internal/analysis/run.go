// Package analysis orchestrates one analysis job: load the dataset
// snapshot, run the engine, persist the result and export files.
package analysis

import (
	"context"
	"fmt"
	"time"

	"go-basket-analytics/internal/engine"
	"go-basket-analytics/internal/export"
	"go-basket-analytics/internal/ingest"
	"go-basket-analytics/internal/model"
	"go-basket-analytics/internal/store"
	"go-basket-analytics/pkg/utils"
)

// Runner carries the server-level wiring shared by every job.
type Runner struct {
	Limits          model.Limits
	OutputDir       string
	DefaultStatuses []string // eligibility statuses applied when a request names none
}

// Run executes one analysis job end to end. The engine itself is a pure
// synchronous computation; the context deadline applies to the job as a
// whole (snapshot load and export included).
func (r *Runner) Run(ctx context.Context, analysisID string, spec model.AnalysisJobSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting analysis job: %s\n", analysisID)

	store.UpdateAnalysisStatus(analysisID, "running")
	defer func() {
		if err != nil {
			store.UpdateAnalysisStatus(analysisID, "failed")
			store.SaveAnalysisError(analysisID, err)
		}
	}()

	timeout := utils.ParseDuration(spec.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// requests that name no statuses get the server-configured default
	if len(spec.Analysis.Eligibility.Statuses) == 0 {
		spec.Analysis.Eligibility.Statuses = r.DefaultStatuses
	}

	// --- SNAPSHOT STAGE ---
	store.SaveAnalysisLog(analysisID, "snapshot", "info", "Loading dataset snapshot", map[string]interface{}{
		"path": spec.Snapshot,
	})
	orders, err := ingest.LoadSnapshot(spec.Snapshot)
	if err != nil {
		return fmt.Errorf("snapshot stage failed: %w", err)
	}
	fmt.Printf("📄 Snapshot loaded: %d orders from %s\n", len(orders), spec.Snapshot)
	store.SaveAnalysisLog(analysisID, "snapshot", "info", "Snapshot loaded", map[string]interface{}{
		"orders": len(orders),
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis cancelled: %w", err)
	}

	// --- COMPUTE STAGE ---
	fmt.Println("📊 Starting computation stage...")
	store.SaveAnalysisLog(analysisID, "compute", "info", "Starting computation", map[string]interface{}{
		"mode":        spec.Analysis.Mode,
		"bundle_size": spec.Analysis.BundleSize,
		"min_count":   spec.Analysis.MinCount,
	})

	result, err := engine.New(r.Limits).Analyze(orders, spec.Analysis)
	if err != nil {
		return fmt.Errorf("computation stage failed: %w", err)
	}
	fmt.Printf("📊 Computation complete: %d/%d eligible orders, %d pairs, %d bundles\n",
		result.EligibleOrders, result.TotalOrders, len(result.Pairs), len(result.Bundles))
	store.SaveAnalysisLog(analysisID, "compute", "info", "Computation complete", map[string]interface{}{
		"eligible_orders":  result.EligibleOrders,
		"skipped_outliers": result.SkippedOutliers,
		"duration_ms":      result.DurationMS,
	})

	if err := store.SaveAnalysisResult(analysisID, result); err != nil {
		return fmt.Errorf("failed to persist result: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis cancelled: %w", err)
	}

	// --- EXPORT STAGE ---
	if spec.Export != nil {
		fmt.Println("💾 Starting export stage...")
		manager := export.NewManager(analysisID, spec.Export, utils.NewOutputManager(r.OutputDir))
		for _, res := range manager.Run(result) {
			level := "info"
			if !res.Success {
				level = "error"
			}
			store.SaveAnalysisLog(analysisID, "export", level, "Export finished", map[string]interface{}{
				"type":         res.Type,
				"path":         res.Path,
				"record_count": res.RecordCount,
				"success":      res.Success,
				"error":        res.Error,
			})
		}
	}

	fmt.Printf("🏁 Analysis job %s completed in %v\n", analysisID, time.Since(start))
	store.UpdateAnalysisStatus(analysisID, "completed")
	return nil
}
