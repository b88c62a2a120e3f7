package timeseries

import (
	"testing"
	"time"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/formula"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workout(date string, cal float64, minutes int) domain.WorkoutEntry {
	return domain.WorkoutEntry{Date: date, Type: domain.WorkoutRunning, DurationMinutes: minutes, HeartRate: 120, CaloriesBurned: cal}
}

func meal(date string, cal, protein, carbs, fat float64) domain.NutritionEntry {
	return domain.NutritionEntry{Date: date, MealType: domain.MealLunch, FoodName: "food", Calories: cal, ProteinG: protein, CarbsG: carbs, FatG: fat, ServingSize: 1}
}

func TestFilterByWindow(t *testing.T) {
	today := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)
	entries := []domain.WorkoutEntry{
		workout("2026-10-01", 1, 1),
		workout("2026-10-11", 2, 1),
		workout("2026-10-18", 3, 1),
		workout("2026-10-10", 4, 1),
	}

	week := FilterByWindow(entries, 7, today)
	require.Len(t, week, 2)
	assert.Equal(t, "2026-10-11", week[0].Date, "cutoff is inclusive")
	assert.Equal(t, "2026-10-18", week[1].Date)

	assert.Len(t, FilterByWindow(entries, AllTime, today), 4)
	assert.Len(t, FilterByWindow(entries, 0, today), 1)
	assert.Empty(t, FilterByWindow([]domain.WorkoutEntry{}, 7, today))
}

func TestAggregateNutritionByDay(t *testing.T) {
	days := AggregateNutritionByDay([]domain.NutritionEntry{
		meal("2026-10-03", 500, 20, 60, 10),
		meal("2026-10-01", 300, 10, 40, 5),
		meal("2026-10-03", 250, 5, 30, 8),
	})
	require.Len(t, days, 2)
	assert.Equal(t, DailyNutrition{Date: "2026-10-01", Calories: 300, ProteinG: 10, CarbsG: 40, FatG: 5}, days[0])
	assert.Equal(t, DailyNutrition{Date: "2026-10-03", Calories: 750, ProteinG: 25, CarbsG: 90, FatG: 18}, days[1])

	assert.Empty(t, AggregateNutritionByDay(nil))
}

func TestMergeEnergyBalance(t *testing.T) {
	balance := MergeEnergyBalance(
		[]domain.WorkoutEntry{
			workout("2026-10-02", 300, 30),
			workout("2026-10-01", 200, 20),
			workout("2026-10-02", 100, 10),
		},
		[]domain.NutritionEntry{
			meal("2026-10-02", 2100, 0, 0, 0),
			meal("2026-10-03", 1800, 0, 0, 0),
		},
	)
	require.Len(t, balance, 3)

	assert.Equal(t, EnergyBalance{Date: "2026-10-01", Burned: 200, Consumed: 0, Net: -200}, balance[0])
	assert.Equal(t, EnergyBalance{Date: "2026-10-02", Burned: 400, Consumed: 2100, Net: 1700}, balance[1])
	assert.Equal(t, EnergyBalance{Date: "2026-10-03", Burned: 0, Consumed: 1800, Net: 1800}, balance[2])

	for _, b := range balance {
		assert.Equal(t, b.Consumed-b.Burned, b.Net)
	}
}

func TestSummarizeNet(t *testing.T) {
	s := SummarizeNet([]EnergyBalance{
		{Date: "2026-10-01", Net: -7700},
		{Date: "2026-10-02", Net: 3850},
	})
	assert.Equal(t, 2, s.Days)
	assert.Equal(t, -3850.0, s.TotalNet)
	assert.Equal(t, -1925.0, s.AverageNet)
	assert.Equal(t, 0.5, s.WeightChangeKg)
	assert.Equal(t, formula.DirectionLoss, s.Direction)

	assert.Equal(t, formula.DirectionNone, SummarizeNet(nil).Direction)
}

func TestTrend_PerfectLine(t *testing.T) {
	tr := Trend([]float64{10, 20, 30, 40, 50})
	assert.InDelta(t, 10, tr.Slope, 1e-9)
	assert.InDelta(t, 10, tr.Intercept, 1e-9)
	assert.InDelta(t, 1.0, tr.Strength, 1e-9)
	assert.Equal(t, TrendPositive, tr.Direction)
	assert.True(t, tr.Significant())

	assert.InDeltaSlice(t, []float64{60, 70, 80}, Forecast(tr, 5, 3), 1e-9)
}

func TestTrend_Decreasing(t *testing.T) {
	tr := Trend([]float64{50, 41, 30, 22, 9})
	assert.Less(t, tr.Slope, 0.0)
	assert.Less(t, tr.R, -0.9)
	assert.Equal(t, TrendNegative, tr.Direction)

	// projections never go below zero
	for _, v := range Forecast(tr, 5, DefaultForecastPoints) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestTrend_Degenerate(t *testing.T) {
	flat := Trend([]float64{5, 5, 5, 5, 5})
	assert.Equal(t, 0.0, flat.R)
	assert.Equal(t, 0.0, flat.Slope)
	assert.Equal(t, TrendNone, flat.Direction)

	noisy := Trend([]float64{10, 30, 10, 30, 10, 30, 10})
	assert.Less(t, noisy.Strength, TrendThreshold)
	assert.Equal(t, TrendNone, noisy.Direction)

	assert.Equal(t, TrendResult{Direction: TrendNone}, Trend(nil))
	assert.Equal(t, 7.0, Trend([]float64{7}).Intercept)
	assert.Nil(t, Forecast(flat, 5, 0))
}

func TestConsistencyScore(t *testing.T) {
	week := []string{"2026-10-01", "2026-10-04", "2026-10-07"}
	assert.InDelta(t, 100, ConsistencyScore(week, 3), 1e-9)
	assert.Equal(t, 0.0, ConsistencyScore(nil, 3))
	assert.Equal(t, 0.0, ConsistencyScore(week, 0))

	// 2 workouts over 14 days against 3/week: 2 / 6 * 100
	assert.InDelta(t, 33.333, ConsistencyScore([]string{"2026-10-14", "2026-10-01"}, 3), 1e-3)

	// capped at 100
	assert.Equal(t, 100.0, ConsistencyScore([]string{"2026-10-01", "2026-10-01", "2026-10-01"}, 1))
	assert.Equal(t, 0.0, ConsistencyScore([]string{"not-a-date"}, 3))
}

func TestClassifyConsistency(t *testing.T) {
	assert.Equal(t, ConsistencyLow, ClassifyConsistency(0))
	assert.Equal(t, ConsistencyLow, ClassifyConsistency(29.99))
	assert.Equal(t, ConsistencyModerate, ClassifyConsistency(30))
	assert.Equal(t, ConsistencyModerate, ClassifyConsistency(69.9))
	assert.Equal(t, ConsistencyExcellent, ClassifyConsistency(70))
	assert.Equal(t, ConsistencyExcellent, ClassifyConsistency(100))
}

func TestStats(t *testing.T) {
	s := Stats([]float64{4, 8, 6})
	assert.Equal(t, Summary{Count: 3, Total: 18, Average: 6, Min: 4, Max: 8}, s)
	assert.Equal(t, Summary{}, Stats(nil))
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 4}, MovingAverage([]float64{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
	assert.Nil(t, MovingAverage([]float64{1, 2}, 3))
	assert.Nil(t, MovingAverage([]float64{1, 2}, 0))
}

func TestWorkoutMetric(t *testing.T) {
	ws := []domain.WorkoutEntry{
		workout("2026-10-03", 300, 45),
		workout("2026-10-01", 100, 20),
	}
	cal, ok := WorkoutMetric(ws, MetricCaloriesBurned)
	require.True(t, ok)
	assert.Equal(t, []float64{100, 300}, cal)

	dur, ok := WorkoutMetric(ws, MetricDuration)
	require.True(t, ok)
	assert.Equal(t, []float64{20, 45}, dur)

	_, ok = WorkoutMetric(ws, "steps")
	assert.False(t, ok)
}

func TestCountByTypeAndWeekday(t *testing.T) {
	ws := []domain.WorkoutEntry{
		{Date: "2026-10-12", Type: domain.WorkoutYoga},    // Monday
		{Date: "2026-10-18", Type: domain.WorkoutRunning}, // Sunday
		{Date: "2026-10-19", Type: domain.WorkoutRunning}, // Monday
		{Date: "bad", Type: domain.WorkoutHIIT},
	}
	assert.Equal(t, []TypeCount{
		{Type: domain.WorkoutRunning, Count: 2},
		{Type: domain.WorkoutHIIT, Count: 1},
		{Type: domain.WorkoutYoga, Count: 1},
	}, CountByType(ws))
	assert.Equal(t, [7]int{2, 0, 0, 0, 0, 0, 1}, CountByWeekday(ws))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, []string{"2026-10-30", "2026-10-31", "2026-11-01"}, DateRange("2026-10-30", "2026-11-01"))
	assert.Nil(t, DateRange("2026-11-01", "2026-10-30"))
	assert.Nil(t, DateRange("x", "2026-10-30"))
}
