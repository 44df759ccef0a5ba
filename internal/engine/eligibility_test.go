package engine

import (
	"testing"
	"time"

	"go-basket-analytics/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsEligible_Status(t *testing.T) {
	policy := model.EligibilityPolicy{Statuses: []string{"completed"}}.Normalized()

	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "completed accepted", status: "completed", want: true},
		{name: "case-insensitive match", status: "Completed", want: true},
		{name: "pending excluded under strict policy", status: "pending", want: false},
		{name: "processing excluded under strict policy", status: "processing", want: false},
		{name: "empty status excluded", status: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := model.Order{ID: 1, Status: tt.status, Total: 50}
			if got := IsEligible(&o, policy); got != tt.want {
				t.Errorf("IsEligible(status=%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestIsEligible_PermissiveStatusSet(t *testing.T) {
	policy := model.EligibilityPolicy{Statuses: []string{"completed", "processing", "paid"}}.Normalized()
	o := model.Order{ID: 1, Status: "processing", Total: 50}
	if !IsEligible(&o, policy) {
		t.Error("processing should be eligible when the policy accepts it")
	}
}

func TestIsEligible_Refunds(t *testing.T) {
	policy := model.EligibilityPolicy{}.Normalized()

	tests := []struct {
		name     string
		total    float64
		refunded float64
		want     bool
	}{
		{name: "no refund", total: 100, refunded: 0, want: true},
		{name: "partial refund", total: 100, refunded: 40, want: true},
		{name: "fully refunded excluded", total: 100, refunded: 100, want: false},
		{name: "over-refunded excluded", total: 100, refunded: 120, want: false},
		{name: "zero total excluded", total: 0, refunded: 0, want: false},
		{name: "negative refund amount treated as magnitude", total: 100, refunded: -100, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := model.Order{
				ID:            1,
				Status:        "completed",
				Total:         model.Amount(tt.total),
				TotalRefunded: model.Amount(tt.refunded),
			}
			if got := IsEligible(&o, policy); got != tt.want {
				t.Errorf("IsEligible(total=%v refunded=%v) = %v, want %v", tt.total, tt.refunded, got, tt.want)
			}
		})
	}
}

func TestIsEligible_DateRange(t *testing.T) {
	from := date("2026-01-01")
	to := date("2026-01-31")
	policy := model.EligibilityPolicy{
		Statuses: []string{"completed"},
		DateFrom: &from,
		DateTo:   &to,
	}.Normalized()

	tests := []struct {
		name string
		paid string
		want bool
	}{
		{name: "inside range", paid: "2026-01-15", want: true},
		{name: "on lower bound inclusive", paid: "2026-01-01", want: true},
		{name: "on upper bound inclusive", paid: "2026-01-31", want: true},
		{name: "before range", paid: "2025-12-31", want: false},
		{name: "after range", paid: "2026-02-01", want: false},
		{name: "no date stays eligible", paid: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := model.Order{ID: 1, Status: "completed", Total: 50}
			if tt.paid != "" {
				o.DatePaid = model.OrderDate{Time: date(tt.paid)}
			}
			if got := IsEligible(&o, policy); got != tt.want {
				t.Errorf("IsEligible(paid=%q) = %v, want %v", tt.paid, got, tt.want)
			}
		})
	}
}

func TestIsEligible_DateFieldPreference(t *testing.T) {
	from := date("2026-01-01")
	policy := model.EligibilityPolicy{
		Statuses:   []string{"completed"},
		DateFrom:   &from,
		DateFields: []string{model.DateFieldPaid, model.DateFieldCompleted, model.DateFieldCreated},
	}

	// paid date wins over created even when created would pass
	o := model.Order{
		ID:          1,
		Status:      "completed",
		Total:       50,
		DatePaid:    model.OrderDate{Time: date("2025-06-01")},
		DateCreated: model.OrderDate{Time: date("2026-01-10")},
	}
	if IsEligible(&o, policy) {
		t.Error("paid date before range should exclude the order even when created is in range")
	}

	// no paid date falls through to created
	o.DatePaid = model.OrderDate{}
	if !IsEligible(&o, policy) {
		t.Error("created date in range should keep the order eligible when paid is absent")
	}
}
