package forecast

import "math"

// roundTo rounds v to the given number of decimal places. Used only at the
// presentation boundary; urgency classification works on the raw value.
func roundTo(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
