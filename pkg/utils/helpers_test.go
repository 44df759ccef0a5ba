package utils

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{name: "minutes", in: "5m", want: 5 * time.Minute},
		{name: "mixed units", in: "1h30m", want: 90 * time.Minute},
		{name: "seconds", in: "45s", want: 45 * time.Second},
		{name: "empty falls back", in: "", want: 5 * time.Minute},
		{name: "invalid falls back", in: "soon", want: 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.in); got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirstWords(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "truncates long names", s: "Smoked Salmon Fillet 200g", n: 2, want: "Smoked Salmon"},
		{name: "short name untouched", s: "Salmon", n: 2, want: "Salmon"},
		{name: "collapses whitespace", s: "  Beef   Jerky  Teriyaki ", n: 2, want: "Beef Jerky"},
		{name: "empty string", s: "", n: 2, want: ""},
		{name: "zero words", s: "Salmon", n: 0, want: ""},
		{name: "exact word count", s: "Cream Cheese", n: 2, want: "Cream Cheese"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstWords(tt.s, tt.n); got != tt.want {
				t.Errorf("FirstWords(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
		})
	}
}
