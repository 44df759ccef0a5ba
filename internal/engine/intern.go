package engine

import "sort"

// maxTupleSize is the hard upper bound on itemset size supported by the
// fixed-width tuple key. Engine validation keeps every configured ceiling
// at or below this.
const maxTupleSize = 10

// interner assigns small integer ids to canonical item keys so itemsets can
// be keyed by a comparable tuple of ids instead of concatenated strings
// (string keys are ambiguous when a product name itself contains the
// separator).
type interner struct {
	ids    map[string]int32
	keys   []string
	labels []string
}

func newInterner() *interner {
	return &interner{ids: make(map[string]int32)}
}

// intern returns the id for key, assigning the next id (and recording the
// first-seen label) on first use.
func (in *interner) intern(key, label string) int32 {
	if id, ok := in.ids[key]; ok {
		return id
	}
	id := int32(len(in.keys))
	in.ids[key] = id
	in.keys = append(in.keys, key)
	in.labels = append(in.labels, label)
	return id
}

func (in *interner) key(id int32) string   { return in.keys[id] }
func (in *interner) label(id int32) string { return in.labels[id] }

// ItemsetKey is the canonical aggregation key for an unordered itemset:
// the interned item ids, sorted ascending, in a fixed-width comparable
// tuple. The same item combination always produces the same key regardless
// of line-item order in the source order.
type ItemsetKey struct {
	n   uint8
	ids [maxTupleSize]int32
}

// makeItemsetKey builds the canonical key from 1..maxTupleSize interned ids.
func makeItemsetKey(ids []int32) ItemsetKey {
	var k ItemsetKey
	k.n = uint8(len(ids))
	copy(k.ids[:], ids)
	sort.Slice(k.ids[:k.n], func(i, j int) bool { return k.ids[i] < k.ids[j] })
	return k
}

// Len is the itemset size.
func (k ItemsetKey) Len() int { return int(k.n) }

// IDs returns the sorted interned ids of the itemset.
func (k ItemsetKey) IDs() []int32 { return k.ids[:k.n] }

// Contains reports whether every id of sub is present in k. Both keys hold
// sorted ids, so this is a linear merge.
func (k ItemsetKey) Contains(sub ItemsetKey) bool {
	if sub.n > k.n {
		return false
	}
	i := 0
	for j := 0; j < int(sub.n); j++ {
		for i < int(k.n) && k.ids[i] < sub.ids[j] {
			i++
		}
		if i >= int(k.n) || k.ids[i] != sub.ids[j] {
			return false
		}
		i++
	}
	return true
}
