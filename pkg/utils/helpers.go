package utils

import (
	"strings"
	"time"
)

// ParseDuration safely parses duration strings like "5m", falling back to
// five minutes on empty or invalid input.
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}

// FirstWords returns the first n whitespace-delimited words of s, used to
// build short display labels from long product names.
func FirstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) == 0 || n <= 0 {
		return ""
	}
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
