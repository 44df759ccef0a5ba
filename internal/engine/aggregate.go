package engine

import (
	"sort"
	"strings"

	"go-basket-analytics/internal/model"
)

// SampleCapacity bounds the per-itemset list of contributing order
// references. First-seen policy; a debugging aid, not a statistical sample.
const SampleCapacity = 6

// AggregateRecord accumulates co-occurrence state for one itemset.
type AggregateRecord struct {
	Key      ItemsetKey
	Count    int            // orders containing the itemset (presence-based)
	Variants map[string]int // facet-combination string -> sub-tally
	Samples  []model.OrderRef
}

// aggregator accumulates co-occurrence counts across eligible orders.
// State belongs to a single computation pass and is never shared between
// concurrent callers.
type aggregator struct {
	interner *interner
	records  map[ItemsetKey]*AggregateRecord
	inserted []ItemsetKey // insertion order, the documented sort tie-break

	bundleSize int
	maxItems   int
	dateFields []string

	eligibleOrders  int
	skippedOutliers int
}

func newAggregator(bundleSize, maxItems int, dateFields []string) *aggregator {
	return &aggregator{
		interner:   newInterner(),
		records:    make(map[ItemsetKey]*AggregateRecord),
		bundleSize: bundleSize,
		maxItems:   maxItems,
		dateFields: dateFields,
	}
}

// addOrder folds one eligible order into the aggregation: items get sorted
// by key for determinism, every itemset of size 1..K increments its record
// by exactly one, and a variant-combination string plus a bounded order
// sample are recorded per itemset.
//
// Orders resolving to more items than the configured cap are rejected as
// outliers before enumeration and do not join the universe.
func (a *aggregator) addOrder(o *model.Order, items []CanonicalItem) {
	if a.maxItems > 0 && len(items) > a.maxItems {
		a.skippedOutliers++
		return
	}
	a.eligibleOrders++
	if len(items) == 0 {
		return
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	ids := make([]int32, len(items))
	hasFacets := false
	for i := range items {
		ids[i] = a.interner.intern(items[i].Key, items[i].Label)
		if len(items[i].Facets) > 0 {
			hasFacets = true
		}
	}

	ref := orderRef(o, a.dateFields)

	combo := make([]int32, a.bundleSize)
	gen := NewCombinations(len(items), a.bundleSize)
	for idx, ok := gen.Next(); ok; idx, ok = gen.Next() {
		sub := combo[:len(idx)]
		for i, j := range idx {
			sub[i] = ids[j]
		}
		key := makeItemsetKey(sub)

		rec, exists := a.records[key]
		if !exists {
			rec = &AggregateRecord{Key: key}
			a.records[key] = rec
			a.inserted = append(a.inserted, key)
		}
		rec.Count++

		if hasFacets {
			if variant := variantCombo(items, idx); variant != "" {
				if rec.Variants == nil {
					rec.Variants = make(map[string]int)
				}
				rec.Variants[variant]++
			}
		}
		if len(rec.Samples) < SampleCapacity {
			rec.Samples = append(rec.Samples, ref)
		}
	}
}

// variantCombo builds the ordered, canonical concatenation of each member's
// facet-qualified representation. Itemsets where no member carries a facet
// produce no variant entry.
func variantCombo(items []CanonicalItem, idx []int) string {
	any := false
	for _, j := range idx {
		if len(items[j].Facets) > 0 {
			any = true
			break
		}
	}
	if !any {
		return ""
	}
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = items[j].Display()
	}
	return strings.Join(parts, " + ")
}

// singletonCount returns the support of the single-item itemset for id.
func (a *aggregator) singletonCount(id int32) int {
	if rec, ok := a.records[makeItemsetKey([]int32{id})]; ok {
		return rec.Count
	}
	return 0
}

func orderRef(o *model.Order, dateFields []string) model.OrderRef {
	ref := model.OrderRef{ID: o.ID}
	if t := o.ResolvedDate(dateFields); t != nil {
		ref.Date = t.Format("2006-01-02")
	}
	return ref
}
