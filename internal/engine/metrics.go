package engine

// Metric derivation from raw co-occurrence counts. Every division guards
// the zero-denominator case by returning 0 rather than NaN/Inf: absence of
// co-occurrence data is "no measurable association", never an error.

// SupportPct is the share of eligible orders containing an itemset,
// expressed as a percentage.
func SupportPct(count, totalOrders int) float64 {
	if totalOrders == 0 {
		return 0
	}
	return 100 * float64(count) / float64(totalOrders)
}

// Confidence is the conditional probability that an order containing the
// antecedent also contains the rest of the itemset:
// confidence(A→B) = count({A,B}) / count({A}).
func Confidence(jointCount, antecedentCount int) float64 {
	if antecedentCount == 0 {
		return 0
	}
	return float64(jointCount) / float64(antecedentCount)
}

// Lift is the ratio of observed joint co-occurrence to the co-occurrence
// expected under independence: N * count({A,B}) / (count({A}) * count({B})).
// Symmetric in A and B.
func Lift(jointCount, countA, countB, totalOrders int) float64 {
	if totalOrders == 0 || countA == 0 || countB == 0 {
		return 0
	}
	return float64(totalOrders) * float64(jointCount) / (float64(countA) * float64(countB))
}
