package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens-io/stocklens/internal/domain"
)

func TestNewEngineRejectsInvalidWindows(t *testing.T) {
	cases := []struct {
		name     string
		lookback int
		target   int
	}{
		{"zero lookback", 0, 14},
		{"negative lookback", -5, 14},
		{"zero target", 30, 0},
		{"negative target", 30, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewEngine(c.lookback, c.target)
			assert.Error(t, err)
		})
	}
}

func TestComputeFastMovingProduct(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	products := []domain.Product{
		{ID: 1, SKU: "ELEC-002", Name: "USB-C Hub", Quantity: 8},
	}

	// 90 units over 30 days: velocity 3/day, 8 left lasts about 2.7 days.
	forecasts := engine.Compute(products, map[int64]int{1: 90})
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, 3.0, f.AvgDailySales)
	require.NotNil(t, f.DaysUntilStockout)
	assert.Equal(t, 2.7, *f.DaysUntilStockout)
	assert.Equal(t, domain.UrgencyCritical, f.Urgency)
	// 14 days of coverage needs 42 units; 8 on hand leaves 34 to order.
	assert.Equal(t, 34, f.SuggestedReorder)
}

func TestComputeNoSalesHistory(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	products := []domain.Product{
		{ID: 7, SKU: "FURN-001", Name: "Office Chair", Quantity: 25},
	}

	forecasts := engine.Compute(products, nil)
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, 0.0, f.AvgDailySales)
	assert.Nil(t, f.DaysUntilStockout)
	assert.Equal(t, domain.UrgencyOK, f.Urgency)
	assert.Equal(t, 0, f.SuggestedReorder)
}

func TestComputeReorderNeverNegative(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	// Plenty of stock relative to velocity: target coverage is already met.
	products := []domain.Product{
		{ID: 1, SKU: "OFF-001", Name: "A4 Paper Ream", Quantity: 200},
	}

	forecasts := engine.Compute(products, map[int64]int{1: 60})
	require.Len(t, forecasts, 1)
	assert.Equal(t, 0, forecasts[0].SuggestedReorder)
}

func TestComputeUrgencyBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		sold     int
		want     domain.Urgency
	}{
		{"exactly 3 days is critical", 9, 90, domain.UrgencyCritical},
		{"just above 3 days is warning", 10, 90, domain.UrgencyWarning},
		{"exactly 7 days is warning", 21, 90, domain.UrgencyWarning},
		{"just above 7 days is ok", 22, 90, domain.UrgencyOK},
	}

	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			products := []domain.Product{{ID: 1, SKU: "X", Name: "X", Quantity: c.quantity}}
			forecasts := engine.Compute(products, map[int64]int{1: c.sold})
			require.Len(t, forecasts, 1)
			assert.Equal(t, c.want, forecasts[0].Urgency)
		})
	}
}

func TestComputeClassifiesBeforeRounding(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	// 2370 units over 30 days is 79/day; 240 on hand lasts 3.0379... days.
	// That displays as 3.0 but must still classify as warning, not critical.
	products := []domain.Product{{ID: 1, SKU: "X", Name: "X", Quantity: 240}}
	forecasts := engine.Compute(products, map[int64]int{1: 2370})
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	require.NotNil(t, f.DaysUntilStockout)
	assert.Equal(t, 3.0, *f.DaysUntilStockout)
	assert.Equal(t, domain.UrgencyWarning, f.Urgency)
}

func TestComputeSortsByUrgencyThenHorizon(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	products := []domain.Product{
		{ID: 1, SKU: "SLOW", Name: "Slow mover", Quantity: 500}, // ok, long horizon
		{ID: 2, SKU: "DEAD", Name: "No sales", Quantity: 10},    // ok, no horizon
		{ID: 3, SKU: "HOT", Name: "Nearly out", Quantity: 5},    // critical
		{ID: 4, SKU: "WARM", Name: "Running low", Quantity: 15}, // warning
		{ID: 5, SKU: "HOT2", Name: "Almost gone", Quantity: 2},  // critical, shorter
	}
	unitsSold := map[int64]int{1: 60, 3: 90, 4: 90, 5: 90}

	forecasts := engine.Compute(products, unitsSold)
	require.Len(t, forecasts, 5)

	gotSKUs := make([]string, 0, len(forecasts))
	for _, f := range forecasts {
		gotSKUs = append(gotSKUs, f.SKU)
	}
	assert.Equal(t, []string{"HOT2", "HOT", "WARM", "SLOW", "DEAD"}, gotSKUs)

	// The ordering invariant itself: non-decreasing (rank, horizon-or-9999).
	for i := 1; i < len(forecasts); i++ {
		prev, cur := forecasts[i-1], forecasts[i]
		if prev.Urgency.Rank() == cur.Urgency.Rank() {
			assert.LessOrEqual(t,
				horizonOr(prev.DaysUntilStockout, noHorizonSortValue),
				horizonOr(cur.DaysUntilStockout, noHorizonSortValue))
		} else {
			assert.Less(t, prev.Urgency.Rank(), cur.Urgency.Rank())
		}
	}
}

func TestComputeVelocityRounding(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	products := []domain.Product{{ID: 1, SKU: "X", Name: "X", Quantity: 1000}}
	forecasts := engine.Compute(products, map[int64]int{1: 100})
	require.Len(t, forecasts, 1)

	assert.Equal(t, 3.33, forecasts[0].AvgDailySales)
}

func TestComputeFromEventsWindowFiltering(t *testing.T) {
	engine, err := NewEngine(30, 14)
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cutoff := engine.WindowStart(now)

	products := []domain.Product{{ID: 1, SKU: "X", Name: "X", Quantity: 30}}
	events := map[int64][]domain.SalesEvent{
		1: {
			{ProductID: 1, QuantitySold: 30, SoldAt: now.AddDate(0, 0, -1)},
			// The boundary event counts; anything older is ignored.
			{ProductID: 1, QuantitySold: 30, SoldAt: cutoff},
			{ProductID: 1, QuantitySold: 500, SoldAt: cutoff.Add(-time.Second)},
		},
	}

	forecasts := engine.ComputeFromEvents(now, products, events)
	require.Len(t, forecasts, 1)
	assert.Equal(t, 2.0, forecasts[0].AvgDailySales)
}

func TestSumWindow(t *testing.T) {
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.SalesEvent{
		{QuantitySold: 5, SoldAt: since.AddDate(0, 0, 3)},
		{QuantitySold: 7, SoldAt: since},
		{QuantitySold: 100, SoldAt: since.AddDate(0, 0, -3)},
	}

	assert.Equal(t, 12, SumWindow(events, since))
	assert.Equal(t, 0, SumWindow(nil, since))
}
