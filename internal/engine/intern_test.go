package engine

import "testing"

func TestInterner_StableIDs(t *testing.T) {
	in := newInterner()
	a := in.intern("100::0", "Salmon")
	b := in.intern("200::0", "Bagel")
	if a == b {
		t.Fatal("distinct keys must get distinct ids")
	}
	if got := in.intern("100::0", "ignored on repeat"); got != a {
		t.Errorf("repeated intern returned %d, want %d", got, a)
	}
	if in.key(a) != "100::0" || in.label(a) != "Salmon" {
		t.Errorf("lookup mismatch: key=%q label=%q", in.key(a), in.label(a))
	}
}

func TestItemsetKey_OrderIndependent(t *testing.T) {
	k1 := makeItemsetKey([]int32{3, 1, 2})
	k2 := makeItemsetKey([]int32{2, 3, 1})
	if k1 != k2 {
		t.Error("the same id set must produce the same key regardless of input order")
	}
	ids := k1.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] < ids[i-1] {
			t.Fatalf("ids %v are not sorted", ids)
		}
	}
}

func TestItemsetKey_SeparatorAmbiguityImpossible(t *testing.T) {
	// "a::b" + "c" and "a" + "b::c" would collide under string concatenation;
	// interned ids keep them distinct.
	in := newInterner()
	k1 := makeItemsetKey([]int32{in.intern("a::b", ""), in.intern("c", "")})
	k2 := makeItemsetKey([]int32{in.intern("a", ""), in.intern("b::c", "")})
	if k1 == k2 {
		t.Error("distinct item combinations collided")
	}
}

func TestItemsetKey_Contains(t *testing.T) {
	super := makeItemsetKey([]int32{1, 4, 7, 9})
	tests := []struct {
		name string
		sub  []int32
		want bool
	}{
		{name: "subset", sub: []int32{4, 9}, want: true},
		{name: "identical", sub: []int32{1, 4, 7, 9}, want: true},
		{name: "single member", sub: []int32{7}, want: true},
		{name: "missing id", sub: []int32{4, 8}, want: false},
		{name: "larger than super", sub: []int32{1, 2, 4, 7, 9}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := super.Contains(makeItemsetKey(tt.sub)); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.sub, got, tt.want)
			}
		})
	}
}
