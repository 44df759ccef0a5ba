package engine

import (
	"math"
	"strings"

	"go-basket-analytics/internal/model"
)

// IsEligible decides whether one order counts toward the analysis universe.
// Pure predicate; rules short-circuit in order:
//  1. status must be in the policy's accepted set (case-insensitive)
//  2. total must be non-zero and the refunded amount strictly below it
//  3. if a date range is configured and the order has a resolvable date,
//     the date must fall within [from, to] inclusive; orders with no usable
//     date stay eligible
func IsEligible(o *model.Order, policy model.EligibilityPolicy) bool {
	if !statusAccepted(o.Status, policy.Statuses) {
		return false
	}

	total := math.Abs(o.Total.Float64())
	refunded := math.Abs(o.TotalRefunded.Float64())
	if total == 0 {
		return false
	}
	if refunded >= total {
		// fully refunded orders carry no purchase signal
		return false
	}

	if policy.DateFrom == nil && policy.DateTo == nil {
		return true
	}
	date := o.ResolvedDate(policy.DateFields)
	if date == nil {
		// unknown dates do not exclude an order
		return true
	}
	if policy.DateFrom != nil && date.Before(*policy.DateFrom) {
		return false
	}
	if policy.DateTo != nil && date.After(*policy.DateTo) {
		return false
	}
	return true
}

func statusAccepted(status string, accepted []string) bool {
	for _, s := range accepted {
		if strings.EqualFold(status, s) {
			return true
		}
	}
	return false
}
