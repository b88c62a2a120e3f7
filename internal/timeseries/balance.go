package timeseries

import (
	"sort"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/formula"
)

// DailyNutrition is the sum of all meals logged on one date.
type DailyNutrition struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbs"`
	FatG     float64 `json:"fat"`
}

// AggregateNutritionByDay sums meals per date in ascending date order.
func AggregateNutritionByDay(entries []domain.NutritionEntry) []DailyNutrition {
	byDate := make(map[string]*DailyNutrition)
	for _, e := range entries {
		d, ok := byDate[e.Date]
		if !ok {
			d = &DailyNutrition{Date: e.Date}
			byDate[e.Date] = d
		}
		d.Calories += e.Calories
		d.ProteinG += e.ProteinG
		d.CarbsG += e.CarbsG
		d.FatG += e.FatG
	}
	out := make([]DailyNutrition, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// EnergyBalance is the calories burned and consumed on one date.
type EnergyBalance struct {
	Date     string  `json:"date"`
	Burned   float64 `json:"burned"`
	Consumed float64 `json:"consumed"`
	Net      float64 `json:"net"` // consumed - burned
}

// MergeEnergyBalance joins both streams on date. Every date present in
// either stream appears once; the missing side counts as zero.
func MergeEnergyBalance(workouts []domain.WorkoutEntry, meals []domain.NutritionEntry) []EnergyBalance {
	byDate := make(map[string]*EnergyBalance)
	get := func(date string) *EnergyBalance {
		b, ok := byDate[date]
		if !ok {
			b = &EnergyBalance{Date: date}
			byDate[date] = b
		}
		return b
	}
	for _, w := range workouts {
		get(w.Date).Burned += w.CaloriesBurned
	}
	for _, m := range meals {
		get(m.Date).Consumed += m.Calories
	}

	out := make([]EnergyBalance, 0, len(byDate))
	for _, b := range byDate {
		b.Net = b.Consumed - b.Burned
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// NetSummary condenses an energy balance series.
type NetSummary struct {
	Days           int               `json:"days"`
	AverageNet     float64           `json:"averageNet"`
	TotalNet       float64           `json:"totalNet"`
	WeightChangeKg float64           `json:"weightChangeKg"`
	Direction      formula.Direction `json:"direction"`
}

// SummarizeNet averages and totals the net calories and converts the total
// into an estimated weight change.
func SummarizeNet(balance []EnergyBalance) NetSummary {
	if len(balance) == 0 {
		return NetSummary{Direction: formula.DirectionNone}
	}
	var total float64
	for _, b := range balance {
		total += b.Net
	}
	return NetSummary{
		Days:           len(balance),
		AverageNet:     total / float64(len(balance)),
		TotalNet:       total,
		WeightChangeKg: formula.CaloriesToKg(total),
		Direction:      formula.WeightDirection(total),
	}
}
