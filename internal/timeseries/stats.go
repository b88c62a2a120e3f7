package timeseries

import (
	"sort"

	"fitpro/tracker/internal/domain"
)

// ConsistencyScore compares the number of workouts against the number a
// weekly frequency would produce over the span of dates, capped at 100.
// Malformed dates are skipped.
func ConsistencyScore(workoutDates []string, targetWeeklyFrequency float64) float64 {
	var (
		first, last string
		count       int
	)
	for _, d := range workoutDates {
		if !domain.IsDate(d) {
			continue
		}
		if count == 0 || d < first {
			first = d
		}
		if count == 0 || d > last {
			last = d
		}
		count++
	}
	if count == 0 {
		return 0
	}

	f, _ := domain.ParseDate(first)
	l, _ := domain.ParseDate(last)
	spanDays := l.Sub(f).Hours()/24 + 1
	ideal := spanDays / 7 * targetWeeklyFrequency
	if ideal <= 0 {
		return 0
	}
	return min(100, float64(count)/ideal*100)
}

// ConsistencyLevel labels a consistency score.
type ConsistencyLevel string

const (
	ConsistencyLow       ConsistencyLevel = "low"
	ConsistencyModerate  ConsistencyLevel = "moderate"
	ConsistencyExcellent ConsistencyLevel = "excellent"
)

// ClassifyConsistency bands a score: below 30 low, below 70 moderate.
func ClassifyConsistency(score float64) ConsistencyLevel {
	switch {
	case score < 30:
		return ConsistencyLow
	case score < 70:
		return ConsistencyModerate
	}
	return ConsistencyExcellent
}

// Summary holds descriptive statistics of a series.
type Summary struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Stats summarizes values. An empty series yields the zero Summary.
func Stats(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	for _, v := range values {
		s.Total += v
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Average = s.Total / float64(s.Count)
	return s
}

// MovingAverage returns the means of every full window, so the result has
// len(values)-window+1 points. A window larger than the series yields nil.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 0 || window > len(values) {
		return nil
	}
	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// Workout metrics that can be trended.
const (
	MetricCaloriesBurned = "calories_burned"
	MetricDuration       = "duration"
	MetricHeartRate      = "heart_rate"
)

// WorkoutMetric extracts one metric from workouts in ascending date order.
// ok is false for an unknown metric.
func WorkoutMetric(workouts []domain.WorkoutEntry, metric string) (values []float64, ok bool) {
	var pick func(domain.WorkoutEntry) float64
	switch metric {
	case MetricCaloriesBurned:
		pick = func(w domain.WorkoutEntry) float64 { return w.CaloriesBurned }
	case MetricDuration:
		pick = func(w domain.WorkoutEntry) float64 { return float64(w.DurationMinutes) }
	case MetricHeartRate:
		pick = func(w domain.WorkoutEntry) float64 { return float64(w.HeartRate) }
	default:
		return nil, false
	}
	sorted := SortByDate(workouts)
	values = make([]float64, len(sorted))
	for i, w := range sorted {
		values[i] = pick(w)
	}
	return values, true
}

// TypeCount is the number of workouts of one type.
type TypeCount struct {
	Type  domain.WorkoutType `json:"type"`
	Count int                `json:"count"`
}

// CountByType counts workouts per type, most frequent first, ties by name.
func CountByType(workouts []domain.WorkoutEntry) []TypeCount {
	counts := make(map[domain.WorkoutType]int)
	for _, w := range workouts {
		counts[w.Type]++
	}
	out := make([]TypeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TypeCount{Type: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Weekdays in the order CountByWeekday reports them.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CountByWeekday counts workouts per day of week, Monday first. Malformed
// dates are skipped.
func CountByWeekday(workouts []domain.WorkoutEntry) [7]int {
	var counts [7]int
	for _, w := range workouts {
		d, err := domain.ParseDate(w.Date)
		if err != nil {
			continue
		}
		// time.Weekday starts at Sunday
		counts[(int(d.Weekday())+6)%7]++
	}
	return counts
}
