package model

import "time"

// Consolidation group modes.
const (
	GroupModeConsolidated = "consolidated" // all matching lines collapse into one item per order
	GroupModeExploded     = "exploded"     // one item per detected facet value
)

// FacetUnspecified is recorded when a line matches a group but no facet
// value can be detected in its name or metadata.
const FacetUnspecified = "Unspecified"

// EligibilityPolicy decides which orders count toward the analysis universe.
// Every choice here is caller-supplied configuration; the engine hard-codes
// no status set and no date fallback.
type EligibilityPolicy struct {
	Statuses   []string   `json:"statuses"`              // accepted order statuses, matched case-insensitively
	DateFrom   *time.Time `json:"date_from,omitempty"`   // inclusive
	DateTo     *time.Time `json:"date_to,omitempty"`     // inclusive
	DateFields []string   `json:"date_fields,omitempty"` // preference order for range comparisons
}

// DefaultStatuses is the strict default: only completed orders count.
var DefaultStatuses = []string{"completed"}

// DefaultDateFields is the default date-field preference order.
var DefaultDateFields = []string{DateFieldPaid, DateFieldCompleted, DateFieldCreated}

// Normalized fills unset fields with the documented defaults.
func (p EligibilityPolicy) Normalized() EligibilityPolicy {
	if len(p.Statuses) == 0 {
		p.Statuses = DefaultStatuses
	}
	if len(p.DateFields) == 0 {
		p.DateFields = DefaultDateFields
	}
	return p
}

// GroupRule redirects matching line items into a named analytic group
// instead of their literal product identity.
type GroupRule struct {
	Key      string   `json:"key"`      // stable group key, e.g. "jerky"
	Label    string   `json:"label"`    // display label, e.g. "Beef Jerky"
	Mode     string   `json:"mode"`     // consolidated | exploded
	Keywords []string `json:"keywords"` // a line matches when any keyword occurs in its name or metadata
	Facets   []string `json:"facets"`   // facet vocabulary (e.g. flavors) detected in name/metadata
}

// ConsolidationPolicy is the full set of group rules applied by the
// item identity resolver.
type ConsolidationPolicy struct {
	Groups []GroupRule `json:"groups,omitempty"`
}

// Result sort keys accepted by the ranking layer.
const (
	SortBySupport    = "support"
	SortBySupportPct = "supportPct"
	SortByLift       = "lift"
	SortByConfidence = "confidence"
)

// Analysis modes.
const (
	ModePairs   = "pairs"
	ModeBundles = "bundles"
)

// AnalysisRequest carries every parameter of one engine computation.
// Zero values fall back to the documented defaults in Normalized.
type AnalysisRequest struct {
	Eligibility   EligibilityPolicy   `json:"eligibility"`
	Consolidation ConsolidationPolicy `json:"consolidation"`
	BundleSize    int                 `json:"bundle_size"`  // K: max itemset size, default 7
	MinCount      int                 `json:"min_count"`    // drop itemsets below this support, default 2
	SortKey       string              `json:"sort_key"`     // support | supportPct | lift | confidence
	LabelFilter   string              `json:"label_filter"` // case-insensitive substring over item labels
	Limit         int                 `json:"limit"`        // top-N truncation, 0 = unlimited
	Mode          string              `json:"mode"`         // pairs | bundles
}

// Request defaults.
const (
	DefaultBundleSize = 7
	DefaultMinCount   = 2
)

// Normalized fills unset request fields with defaults.
func (r AnalysisRequest) Normalized() AnalysisRequest {
	r.Eligibility = r.Eligibility.Normalized()
	if r.BundleSize == 0 {
		r.BundleSize = DefaultBundleSize
	}
	if r.MinCount == 0 {
		r.MinCount = DefaultMinCount
	}
	if r.SortKey == "" {
		r.SortKey = SortBySupport
	}
	if r.Mode == "" {
		r.Mode = ModePairs
	}
	return r
}

// Limits bound the combinatorial cost of one computation. They come from
// server configuration, not from the per-request policy.
type Limits struct {
	MaxBundleSize    int `json:"max_bundle_size"`     // hard ceiling on K
	MaxItemsPerOrder int `json:"max_items_per_order"` // orders resolving to more items are skipped as outliers
}

// DefaultLimits are used when configuration provides none.
var DefaultLimits = Limits{
	MaxBundleSize:    10,
	MaxItemsPerOrder: 20,
}
