package timeseries

import "math"

// MinTrendPoints is the fewest observations worth a trend analysis.
const MinTrendPoints = 5

// TrendThreshold is the |r| below which a series has no trend.
const TrendThreshold = 0.3

// DefaultForecastPoints is how many future points are projected.
const DefaultForecastPoints = 5

// TrendDirection classifies a fitted trend.
type TrendDirection string

const (
	TrendNone     TrendDirection = "no trend"
	TrendPositive TrendDirection = "positive trend"
	TrendNegative TrendDirection = "negative trend"
)

// TrendResult is an ordinary least squares fit of values against their index.
type TrendResult struct {
	Slope     float64        `json:"slope"`
	Intercept float64        `json:"intercept"`
	R         float64        `json:"r"`
	Strength  float64        `json:"strength"`
	Direction TrendDirection `json:"direction"`
	Points    int            `json:"points"`
}

// Significant reports whether the trend is strong enough to extrapolate.
func (t TrendResult) Significant() bool {
	return t.Strength >= TrendThreshold
}

// Trend fits values[i] = slope*i + intercept. Points are assumed evenly
// spaced; calendar gaps are ignored. A constant series has r = 0.
func Trend(values []float64) TrendResult {
	n := len(values)
	res := TrendResult{Points: n, Direction: TrendNone}
	if n == 0 {
		return res
	}
	if n == 1 {
		res.Intercept = values[0]
		return res
	}

	meanX := float64(n-1) / 2
	var meanY float64
	for _, v := range values {
		meanY += v
	}
	meanY /= float64(n)

	var sxx, sxy, syy float64
	for i, v := range values {
		dx := float64(i) - meanX
		dy := v - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	res.Slope = sxy / sxx
	res.Intercept = meanY - res.Slope*meanX
	if syy > 0 {
		res.R = sxy / math.Sqrt(sxx*syy)
		// guard against rounding pushing |r| past 1
		res.R = math.Max(-1, math.Min(1, res.R))
	}
	res.Strength = math.Abs(res.R)
	res.Direction = classify(res)
	return res
}

func classify(t TrendResult) TrendDirection {
	switch {
	case t.Strength < TrendThreshold:
		return TrendNone
	case t.Slope > 0:
		return TrendPositive
	default:
		return TrendNegative
	}
}

// Forecast extrapolates the next k points after n observations, floored at
// zero for display.
func Forecast(t TrendResult, n, k int) []float64 {
	if k <= 0 {
		return nil
	}
	out := make([]float64, k)
	for i := range out {
		x := float64(n + i)
		out[i] = math.Max(0, t.Slope*x+t.Intercept)
	}
	return out
}
