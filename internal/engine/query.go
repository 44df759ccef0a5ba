package engine

import (
	"sort"
	"strings"

	"go-basket-analytics/internal/model"
)

// Ranking/query layer: project aggregation records into result rows, apply
// the minimum-count and label filters, sort descending by the requested
// metric, then truncate to the top N. Ties keep insertion order (stable
// sort); the tie-break beyond stability is deliberately unspecified.

func (a *aggregator) pairResults(req model.AnalysisRequest) []model.PairResult {
	filter := strings.ToLower(req.LabelFilter)
	results := make([]model.PairResult, 0)

	for _, key := range a.inserted {
		if key.Len() != 2 {
			continue
		}
		rec := a.records[key]
		if rec.Count < req.MinCount {
			continue
		}
		ids := key.IDs()
		labelA, labelB := a.interner.label(ids[0]), a.interner.label(ids[1])
		if filter != "" &&
			!strings.Contains(strings.ToLower(labelA), filter) &&
			!strings.Contains(strings.ToLower(labelB), filter) {
			continue
		}
		countA := a.singletonCount(ids[0])
		countB := a.singletonCount(ids[1])
		results = append(results, model.PairResult{
			KeyA:           a.interner.key(ids[0]),
			KeyB:           a.interner.key(ids[1]),
			ItemA:          labelA,
			ItemB:          labelB,
			Support:        rec.Count,
			SupportPct:     SupportPct(rec.Count, a.eligibleOrders),
			CountA:         countA,
			CountB:         countB,
			ConfidenceAToB: Confidence(rec.Count, countA),
			ConfidenceBToA: Confidence(rec.Count, countB),
			Lift:           Lift(rec.Count, countA, countB, a.eligibleOrders),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		switch req.SortKey {
		case model.SortByLift:
			return results[i].Lift > results[j].Lift
		case model.SortByConfidence:
			return results[i].ConfidenceAToB > results[j].ConfidenceAToB
		case model.SortBySupportPct:
			return results[i].SupportPct > results[j].SupportPct
		default:
			return results[i].Support > results[j].Support
		}
	})

	return truncate(results, req.Limit)
}

func (a *aggregator) bundleResults(req model.AnalysisRequest) []model.BundleResult {
	filter := strings.ToLower(req.LabelFilter)
	results := make([]model.BundleResult, 0)

	for _, key := range a.inserted {
		if key.Len() < 2 {
			continue
		}
		rec := a.records[key]
		if rec.Count < req.MinCount {
			continue
		}
		label := a.bundleLabel(key)
		if filter != "" && !strings.Contains(strings.ToLower(label), filter) {
			continue
		}
		results = append(results, model.BundleResult{
			Key:          a.bundleKey(key),
			Label:        label,
			Size:         key.Len(),
			Count:        rec.Count,
			SupportPct:   SupportPct(rec.Count, a.eligibleOrders),
			Variants:     sortedVariants(rec.Variants),
			SampleOrders: rec.Samples,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if req.SortKey == model.SortBySupportPct {
			return results[i].SupportPct > results[j].SupportPct
		}
		return results[i].Count > results[j].Count
	})

	return truncate(results, req.Limit)
}

func (a *aggregator) bundleLabel(key ItemsetKey) string {
	parts := make([]string, 0, key.Len())
	for _, id := range key.IDs() {
		parts = append(parts, a.interner.label(id))
	}
	return strings.Join(parts, " + ")
}

func (a *aggregator) bundleKey(key ItemsetKey) string {
	parts := make([]string, 0, key.Len())
	for _, id := range key.IDs() {
		parts = append(parts, a.interner.key(id))
	}
	return strings.Join(parts, "|")
}

// sortedVariants flattens the variant map, largest sub-tally first, combo
// string as the tie-break for determinism.
func sortedVariants(variants map[string]int) []model.VariantCount {
	if len(variants) == 0 {
		return nil
	}
	out := make([]model.VariantCount, 0, len(variants))
	for combo, count := range variants {
		out = append(out, model.VariantCount{Combo: combo, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Combo < out[j].Combo
	})
	return out
}

func truncate[T any](results []T, limit int) []T {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
