package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-basket-analytics/internal/model"
)

func completedOrder(id int64, day string, products ...int64) model.Order {
	o := model.Order{ID: id, Status: "completed", Total: 100}
	if day != "" {
		o.DatePaid = model.OrderDate{Time: date(day)}
	}
	for _, pid := range products {
		o.LineItems = append(o.LineItems, line(pid, 0, "", 1, 10))
	}
	return o
}

func TestAnalyze_PairsEndToEnd(t *testing.T) {
	orders := []model.Order{
		completedOrder(1, "2026-01-05", 1, 2),
		completedOrder(2, "2026-01-06", 1, 2),
		completedOrder(3, "2026-01-07", 1, 2),
		completedOrder(4, "2026-01-08", 1),
		completedOrder(5, "2026-01-09", 2),
		completedOrder(6, "2026-01-10", 2),
		completedOrder(7, "2026-01-11", 3),
		completedOrder(8, "2026-01-12", 3),
		completedOrder(9, "2026-01-13", 3),
		completedOrder(10, "2026-01-14", 3),
	}

	result, err := New(model.Limits{}).Analyze(orders, model.AnalysisRequest{MinCount: 1})
	require.NoError(t, err)
	require.Equal(t, model.ModePairs, result.Mode)
	assert.Equal(t, 10, result.TotalOrders)
	assert.Equal(t, 10, result.EligibleOrders)
	assert.Zero(t, result.SkippedOutliers)

	require.Len(t, result.Pairs, 1)
	p := result.Pairs[0]
	assert.Equal(t, "1::0", p.KeyA)
	assert.Equal(t, "2::0", p.KeyB)
	assert.Equal(t, 3, p.Support)
	assert.Equal(t, 4, p.CountA)
	assert.Equal(t, 5, p.CountB)
	assert.InDelta(t, 30.0, p.SupportPct, 1e-9)
	assert.InDelta(t, 0.75, p.ConfidenceAToB, 1e-9)
	assert.InDelta(t, 0.6, p.ConfidenceBToA, 1e-9)
	assert.InDelta(t, 1.5, p.Lift, 1e-9)
}

func TestAnalyze_IneligibleOrdersLeaveTheUniverse(t *testing.T) {
	orders := []model.Order{
		completedOrder(1, "", 1, 2),
		{ID: 2, Status: "pending", Total: 50, LineItems: []model.LineItem{line(1, 0, "", 1, 10), line(2, 0, "", 1, 10)}},
		{ID: 3, Status: "completed", Total: 0, LineItems: []model.LineItem{line(1, 0, "", 1, 10)}},
		{ID: 4, Status: "completed", Total: 80, TotalRefunded: 80, LineItems: []model.LineItem{line(2, 0, "", 1, 10)}},
	}

	result, err := New(model.Limits{}).Analyze(orders, model.AnalysisRequest{MinCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalOrders)
	assert.Equal(t, 1, result.EligibleOrders, "only the completed, paid, unrefunded order counts")
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, 1, result.Pairs[0].Support)
	assert.InDelta(t, 100.0, result.Pairs[0].SupportPct, 1e-9)
}

func TestAnalyze_OutlierOrderSkipped(t *testing.T) {
	big := completedOrder(1, "")
	for pid := int64(1); pid <= 5; pid++ {
		big.LineItems = append(big.LineItems, line(pid, 0, "", 1, 10))
	}
	orders := []model.Order{big, completedOrder(2, "", 1, 2)}

	e := New(model.Limits{MaxBundleSize: 3, MaxItemsPerOrder: 4})
	result, err := e.Analyze(orders, model.AnalysisRequest{MinCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SkippedOutliers)
	assert.Equal(t, 1, result.EligibleOrders)
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, 1, result.Pairs[0].Support)
}

func TestAnalyze_BundlesEndToEnd(t *testing.T) {
	orders := []model.Order{
		completedOrder(1, "2026-02-01", 1, 2, 3),
		completedOrder(2, "2026-02-02", 1, 2, 3),
		completedOrder(3, "2026-02-03", 1, 2),
	}

	result, err := New(model.Limits{}).Analyze(orders, model.AnalysisRequest{
		Mode:     model.ModeBundles,
		MinCount: 2,
	})
	require.NoError(t, err)
	require.Equal(t, model.ModeBundles, result.Mode)
	assert.Empty(t, result.Pairs)
	require.Len(t, result.Bundles, 4) // 3 pairs + 1 triple

	// descending count: the 1+2 pair (3 orders) leads
	assert.Equal(t, 3, result.Bundles[0].Count)
	assert.Equal(t, 2, result.Bundles[0].Size)

	var triple *model.BundleResult
	for i := range result.Bundles {
		if result.Bundles[i].Size == 3 {
			triple = &result.Bundles[i]
		}
	}
	require.NotNil(t, triple)
	assert.Equal(t, 2, triple.Count)
	assert.Equal(t, "1::0|2::0|3::0", triple.Key)
	assert.Len(t, triple.SampleOrders, 2)
	assert.Equal(t, "2026-02-01", triple.SampleOrders[0].Date)
}

func TestAnalyze_ConsolidationChangesResults(t *testing.T) {
	name := func(pid int64, n string) model.LineItem {
		return model.LineItem{ProductID: pid, Name: n, Quantity: 1, Total: 10}
	}
	orders := []model.Order{
		{ID: 1, Status: "completed", Total: 30, LineItems: []model.LineItem{
			name(10, "Beef Jerky Teriyaki"), name(99, "Smoked Salmon"),
		}},
		{ID: 2, Status: "completed", Total: 30, LineItems: []model.LineItem{
			name(11, "Beef Jerky Peppered"), name(99, "Smoked Salmon"),
		}},
	}

	// without consolidation: two distinct jerky products, no pair reaches 2
	result, err := New(model.Limits{}).Analyze(orders, model.AnalysisRequest{MinCount: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Pairs)

	// consolidated: both orders contain the jerky group + salmon
	result, err = New(model.Limits{}).Analyze(orders, model.AnalysisRequest{
		MinCount:      2,
		Consolidation: jerkyPolicy(model.GroupModeConsolidated),
	})
	require.NoError(t, err)
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, 2, result.Pairs[0].Support)
	assert.InDelta(t, 1.0, result.Pairs[0].Lift, 1e-9)
}

func TestAnalyze_InvalidInvocations(t *testing.T) {
	e := New(model.Limits{MaxBundleSize: 5})
	valid := []model.Order{completedOrder(1, "", 1)}

	_, err := e.Analyze(nil, model.AnalysisRequest{})
	assert.Error(t, err, "nil dataset handle is a caller bug")

	_, err = e.Analyze(valid, model.AnalysisRequest{BundleSize: -1})
	assert.Error(t, err)

	_, err = e.Analyze(valid, model.AnalysisRequest{BundleSize: 6})
	assert.Error(t, err, "bundle size above the configured ceiling")

	_, err = e.Analyze(valid, model.AnalysisRequest{Mode: "triads"})
	assert.Error(t, err)

	// empty-but-present dataset degrades to an empty result, not an error
	result, err := e.Analyze([]model.Order{}, model.AnalysisRequest{})
	require.NoError(t, err)
	assert.Zero(t, result.TotalOrders)
	assert.Empty(t, result.Pairs)
}

func TestNew_ClampsLimits(t *testing.T) {
	e := New(model.Limits{MaxBundleSize: 50, MaxItemsPerOrder: 100})
	assert.Equal(t, maxTupleSize, e.limits.MaxBundleSize)

	e = New(model.Limits{})
	assert.Equal(t, model.DefaultLimits, e.limits)
}

func TestAnalyze_DefaultMinCountHidesSingletonPairs(t *testing.T) {
	orders := []model.Order{
		completedOrder(1, "", 1, 2),
		completedOrder(2, "", 3, 4),
	}
	result, err := New(model.Limits{}).Analyze(orders, model.AnalysisRequest{})
	require.NoError(t, err)
	assert.Empty(t, result.Pairs, "default minCount=2 filters one-off pairs")
}
