package engine

import (
	"fmt"
	"sort"
	"strings"

	"go-basket-analytics/internal/model"
	"go-basket-analytics/pkg/utils"
)

// CanonicalItem is one deduplicated product identity within a single order.
type CanonicalItem struct {
	Key    string
	Label  string
	Facets map[string]struct{} // detected facet values (e.g. flavors); nil when none
}

// SortedFacets returns the facet set in deterministic order.
func (it *CanonicalItem) SortedFacets() []string {
	if len(it.Facets) == 0 {
		return nil
	}
	out := make([]string, 0, len(it.Facets))
	for f := range it.Facets {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Display renders the item's facet-qualified representation, used when
// building variant-combination strings.
func (it *CanonicalItem) Display() string {
	facets := it.SortedFacets()
	if len(facets) == 0 {
		return it.Label
	}
	return it.Label + " (" + strings.Join(facets, ", ") + ")"
}

// ResolveItems maps an order's raw line items to a deduplicated set of
// canonical items, applying the consolidation policy. The returned slice
// never contains two items with the same key; its order is unspecified
// (the enumerator sorts before forming composite keys).
func ResolveItems(o *model.Order, policy model.ConsolidationPolicy) []CanonicalItem {
	byKey := make(map[string]int)
	var items []CanonicalItem

	add := func(key, label string, facets []string) {
		idx, seen := byKey[key]
		if !seen {
			items = append(items, CanonicalItem{Key: key, Label: label})
			idx = len(items) - 1
			byKey[key] = idx
		}
		if len(facets) > 0 {
			it := &items[idx]
			if it.Facets == nil {
				it.Facets = make(map[string]struct{}, len(facets))
			}
			// facet sets merge across duplicate lines, never overwrite
			for _, f := range facets {
				it.Facets[f] = struct{}{}
			}
		}
	}

	for i := range o.LineItems {
		line := &o.LineItems[i]
		if line.Quantity.Float64() <= 0 {
			continue
		}
		if line.Total.Float64() <= 0 && line.Subtotal.Float64() <= 0 {
			// discounted-to-zero or fully refunded lines carry no signal
			continue
		}

		rule := matchGroup(line, policy.Groups)
		if rule == nil {
			add(defaultKey(line), defaultLabel(line), nil)
			continue
		}

		facets := detectFacets(line, rule.Facets)
		switch rule.Mode {
		case model.GroupModeExploded:
			if len(facets) == 0 {
				add(groupFacetKey(rule.Key, model.FacetUnspecified), rule.Label, []string{model.FacetUnspecified})
				continue
			}
			for _, facet := range facets {
				add(groupFacetKey(rule.Key, facet), rule.Label+" ("+facet+")", []string{facet})
			}
		default: // consolidated
			if len(facets) == 0 {
				facets = []string{model.FacetUnspecified}
			}
			add(rule.Key+"::consolidated", rule.Label, facets)
		}
	}

	return items
}

// matchGroup returns the first group rule whose keywords occur in the line's
// name or metadata values, or nil when the line keeps its literal identity.
func matchGroup(line *model.LineItem, groups []model.GroupRule) *model.GroupRule {
	if len(groups) == 0 {
		return nil
	}
	hay := lineSearchText(line)
	for i := range groups {
		for _, kw := range groups[i].Keywords {
			if kw != "" && strings.Contains(hay, strings.ToLower(kw)) {
				return &groups[i]
			}
		}
	}
	return nil
}

// detectFacets scans the facet vocabulary against the line's name and every
// metadata value, returning all distinct matches.
func detectFacets(line *model.LineItem, vocabulary []string) []string {
	if len(vocabulary) == 0 {
		return nil
	}
	hay := lineSearchText(line)
	var found []string
	for _, facet := range vocabulary {
		if facet == "" {
			continue
		}
		if strings.Contains(hay, strings.ToLower(facet)) {
			found = append(found, facet)
		}
	}
	return found
}

func lineSearchText(line *model.LineItem) string {
	var b strings.Builder
	b.WriteString(line.Name)
	for _, meta := range line.MetaData {
		if v := meta.ValueString(); v != "" {
			b.WriteByte(' ')
			b.WriteString(v)
		}
	}
	return strings.ToLower(b.String())
}

// defaultKey builds the literal product identity: product_id::variation_id,
// with variation 0 when absent.
func defaultKey(line *model.LineItem) string {
	return fmt.Sprintf("%d::%d", line.ProductID, line.VariationID)
}

// defaultLabel is the first two whitespace-delimited words of the item name,
// with a synthetic fallback for nameless lines.
func defaultLabel(line *model.LineItem) string {
	if label := utils.FirstWords(line.Name, 2); label != "" {
		return label
	}
	return fmt.Sprintf("product %d", line.ProductID)
}

func groupFacetKey(groupKey, facet string) string {
	return groupKey + "::" + strings.ToLower(facet)
}
