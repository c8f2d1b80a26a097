package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/stocklens-io/stocklens/internal/domain"
)

const (
	DefaultLookbackDays = 30
	DefaultTargetDays   = 14

	// Stand-in horizon for products with zero velocity, so infinite-horizon
	// rows sort after everything else inside their urgency tier.
	noHorizonSortValue = 9999
)

// Engine turns sales history into reorder signals. It carries only its two
// tuning windows and is safe for concurrent use.
type Engine struct {
	lookbackDays int
	targetDays   int
}

// NewEngine validates the tuning windows. A non-positive window is a
// configuration error surfaced to the caller, never silently repaired.
func NewEngine(lookbackDays, targetDays int) (*Engine, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("forecast: lookback window must be positive, got %d", lookbackDays)
	}
	if targetDays <= 0 {
		return nil, fmt.Errorf("forecast: target coverage window must be positive, got %d", targetDays)
	}

	return &Engine{lookbackDays: lookbackDays, targetDays: targetDays}, nil
}

func (e *Engine) LookbackDays() int { return e.lookbackDays }

func (e *Engine) TargetDays() int { return e.targetDays }

// WindowStart returns the cutoff instant of the lookback window ending at
// now. Sales at or after the cutoff count toward velocity.
func (e *Engine) WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -e.lookbackDays)
}

// Compute produces one forecast per product from the number of units each
// product sold inside the lookback window. Products missing from unitsSold
// get a zero-velocity forecast; missing history is a data gap, not an error.
// The result is sorted critical-first, shortest horizon first.
func (e *Engine) Compute(products []domain.Product, unitsSold map[int64]int) []domain.Forecast {
	forecasts := make([]domain.Forecast, 0, len(products))
	for _, p := range products {
		forecasts = append(forecasts, e.forecastProduct(p, unitsSold[p.ID]))
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		ri, rj := forecasts[i].Urgency.Rank(), forecasts[j].Urgency.Rank()
		if ri != rj {
			return ri < rj
		}

		return horizonOr(forecasts[i].DaysUntilStockout, noHorizonSortValue) <
			horizonOr(forecasts[j].DaysUntilStockout, noHorizonSortValue)
	})

	return forecasts
}

// ComputeFromEvents derives the per-product window totals from raw sales
// events before forecasting. now anchors the lookback window.
func (e *Engine) ComputeFromEvents(now time.Time, products []domain.Product, eventsByProduct map[int64][]domain.SalesEvent) []domain.Forecast {
	since := e.WindowStart(now)

	unitsSold := make(map[int64]int, len(eventsByProduct))
	for productID, events := range eventsByProduct {
		unitsSold[productID] = SumWindow(events, since)
	}

	return e.Compute(products, unitsSold)
}

func (e *Engine) forecastProduct(p domain.Product, totalSold int) domain.Forecast {
	velocity := 0.0
	if e.lookbackDays > 0 {
		velocity = float64(totalSold) / float64(e.lookbackDays)
	}

	var horizon *float64
	if velocity > 0 {
		h := float64(p.Quantity) / velocity
		horizon = &h
	}

	// Reorder enough to restore targetDays of coverage at the current
	// velocity, floored at zero.
	reorder := int(math.Round(float64(e.targetDays)*velocity - float64(p.Quantity)))
	if reorder < 0 {
		reorder = 0
	}

	// Classify before rounding: a horizon of 3.04 must stay "warning" even
	// though it displays as 3.0.
	urgency := classify(horizon)

	f := domain.Forecast{
		ProductID:        p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		CategoryName:     p.CategoryName,
		CurrentQuantity:  p.Quantity,
		AvgDailySales:    roundTo(velocity, 2),
		SuggestedReorder: reorder,
		Urgency:          urgency,
	}
	if horizon != nil {
		rounded := roundTo(*horizon, 1)
		f.DaysUntilStockout = &rounded
	}

	return f
}

// classify maps a stockout horizon onto an urgency tier. Boundaries are
// inclusive on the lower tier: exactly 3 days is still critical, exactly 7
// still warning. A nil horizon means no sales velocity and is never urgent.
func classify(horizon *float64) domain.Urgency {
	switch {
	case horizon == nil:
		return domain.UrgencyOK
	case *horizon <= 3:
		return domain.UrgencyCritical
	case *horizon <= 7:
		return domain.UrgencyWarning
	default:
		return domain.UrgencyOK
	}
}

func horizonOr(horizon *float64, fallback float64) float64 {
	if horizon != nil {
		return *horizon
	}

	return fallback
}

// SumWindow totals the units sold at or after since. Callers holding raw
// events use this to build the engine input.
func SumWindow(events []domain.SalesEvent, since time.Time) int {
	total := 0
	for _, ev := range events {
		if !ev.SoldAt.Before(since) {
			total += ev.QuantitySold
		}
	}

	return total
}
