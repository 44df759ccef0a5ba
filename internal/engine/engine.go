// Package engine implements the bought-together analytics engine: order
// eligibility, item identity resolution, itemset enumeration, co-occurrence
// aggregation and metric derivation over an in-memory order snapshot.
//
// A computation is a pure, synchronous, run-to-completion batch pass: it
// never mutates the snapshot and holds no state across calls. Concurrent
// callers each get their own aggregation state.
package engine

import (
	"fmt"
	"time"

	"go-basket-analytics/internal/model"
)

// Engine runs bought-together computations under configured resource limits.
type Engine struct {
	limits model.Limits
}

// New builds an engine. Zero limits fall back to model.DefaultLimits; the
// bundle-size ceiling is additionally clamped to the tuple-key width.
func New(limits model.Limits) *Engine {
	if limits.MaxBundleSize <= 0 {
		limits.MaxBundleSize = model.DefaultLimits.MaxBundleSize
	}
	if limits.MaxBundleSize > maxTupleSize {
		limits.MaxBundleSize = maxTupleSize
	}
	if limits.MaxItemsPerOrder <= 0 {
		limits.MaxItemsPerOrder = model.DefaultLimits.MaxItemsPerOrder
	}
	return &Engine{limits: limits}
}

// Analyze recomputes bought-together statistics from scratch over the given
// order snapshot. Data-quality problems degrade gracefully to empty results;
// only a structurally invalid invocation (nil dataset handle, bundle size
// out of range) returns an error.
func (e *Engine) Analyze(orders []model.Order, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if orders == nil {
		return nil, fmt.Errorf("analyze: no dataset")
	}
	req = req.Normalized()
	if req.BundleSize < 1 {
		return nil, fmt.Errorf("analyze: bundle size must be at least 1, got %d", req.BundleSize)
	}
	if req.BundleSize > e.limits.MaxBundleSize {
		return nil, fmt.Errorf("analyze: bundle size %d exceeds the configured ceiling %d",
			req.BundleSize, e.limits.MaxBundleSize)
	}
	switch req.Mode {
	case model.ModePairs, model.ModeBundles:
	default:
		return nil, fmt.Errorf("analyze: unknown mode %q", req.Mode)
	}

	start := time.Now()
	agg := newAggregator(req.BundleSize, e.limits.MaxItemsPerOrder, req.Eligibility.DateFields)

	for i := range orders {
		o := &orders[i]
		if !IsEligible(o, req.Eligibility) {
			continue
		}
		agg.addOrder(o, ResolveItems(o, req.Consolidation))
	}

	result := &model.AnalysisResult{
		Mode:            req.Mode,
		TotalOrders:     len(orders),
		EligibleOrders:  agg.eligibleOrders,
		SkippedOutliers: agg.skippedOutliers,
		ComputedAt:      start.UTC(),
	}
	switch req.Mode {
	case model.ModeBundles:
		result.Bundles = agg.bundleResults(req)
	default:
		result.Pairs = agg.pairResults(req)
	}
	result.DurationMS = time.Since(start).Milliseconds()
	return result, nil
}
