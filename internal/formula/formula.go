// Package formula holds the pure body-composition and energy formulas.
// Every function is deterministic and never fails: invalid input yields a
// sentinel value (0 or Unknown) instead of an error.
package formula

import (
	"fmt"
	"math"
	"slices"

	"fitpro/tracker/internal/domain"
)

// KcalPerKg is the energy content of one kilogram of body weight.
const KcalPerKg = 7700.0

// BMI categories.
const (
	CategoryUnknown     = "Unknown"
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal weight"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"
)

// Healthy BMI bounds used for the ideal weight range.
const (
	HealthyBMIMin = 18.5
	HealthyBMIMax = 24.9
)

// DefaultActivityMultiplier applies to unknown activity levels.
const DefaultActivityMultiplier = 1.55

var activityMultipliers = map[string]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// BMI returns weight / height^2 rounded to one decimal, or 0 when either
// argument is not positive.
func BMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	m := heightCm / 100
	return round(weightKg/(m*m), 1)
}

// BMICategory classifies a BMI value. Boundaries are inclusive-lower.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return CategoryUnknown
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// BMR is the Mifflin-St Jeor basal metabolic rate. It is not clamped and
// can be negative for degenerate input.
func BMR(weightKg, heightCm float64, age int, gender domain.Gender) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == domain.GenderMale {
		return base + 5
	}
	return base - 161
}

// ActivityMultiplier maps an activity level to its TDEE multiplier.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return DefaultActivityMultiplier
}

// Needs is a daily energy and macronutrient recommendation.
type Needs struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbs"`
	FatG     float64 `json:"fat"`
}

// DailyCalorieNeeds splits BMR * activity multiplier 25/50/25 into protein,
// carbs and fat grams.
func DailyCalorieNeeds(p domain.UserProfile) Needs {
	calories := BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender) * ActivityMultiplier(p.ActivityLevel)
	return Needs{
		Calories: calories,
		ProteinG: calories * 0.25 / 4,
		CarbsG:   calories * 0.50 / 4,
		FatG:     calories * 0.25 / 9,
	}
}

// CaloriesToKg converts an energy amount into kilograms of body weight.
// The result is a magnitude; use WeightDirection for the sign.
func CaloriesToKg(calories float64) float64 {
	return math.Abs(calories) / KcalPerKg
}

// Direction of a weight change.
type Direction string

const (
	DirectionGain Direction = "gain"
	DirectionLoss Direction = "loss"
	DirectionNone Direction = "none"
)

// WeightDirection reports whether a net energy balance means gain or loss.
func WeightDirection(netCalories float64) Direction {
	switch {
	case netCalories > 0:
		return DirectionGain
	case netCalories < 0:
		return DirectionLoss
	}
	return DirectionNone
}

// WeightRange is an inclusive range of body weights in kg.
type WeightRange struct {
	MinKg float64 `json:"minKg"`
	MaxKg float64 `json:"maxKg"`
}

// IdealWeightRange returns the weights that give a healthy BMI at heightCm.
func IdealWeightRange(heightCm float64) WeightRange {
	if heightCm <= 0 {
		return WeightRange{}
	}
	m2 := (heightCm / 100) * (heightCm / 100)
	return WeightRange{MinKg: HealthyBMIMin * m2, MaxKg: HealthyBMIMax * m2}
}

// TargetCalories adjusts maintenance calories by 500 kcal towards the weight goal.
func TargetCalories(maintenance float64, weightGoal string) float64 {
	switch weightGoal {
	case domain.WeightGoalLose:
		return maintenance - 500
	case domain.WeightGoalGain:
		return maintenance + 500
	}
	return maintenance
}

// ProteinTarget returns the recommended daily protein in grams.
func ProteinTarget(weightKg float64, fitnessGoals []string) float64 {
	if slices.Contains(fitnessGoals, domain.FitnessGoalBuildMuscle) {
		return weightKg * 1.8
	}
	return weightKg * 1.2
}

// WaterTarget returns the recommended daily water intake in litres.
func WaterTarget(weightKg float64) float64 {
	return weightKg * 0.033
}

// FormatDuration renders minutes as "45 min" or "1h 5m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Round rounds x to the given number of decimals.
func Round(x float64, decimals int) float64 {
	return round(x, decimals)
}

func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
