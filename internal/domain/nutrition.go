package domain

import "time"

// MealType enumerates the meal slots a food can be logged under.
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// MinServingSize is the smallest accepted serving multiplier.
const MinServingSize = 0.1

// NutritionEntry is one logged food item. Calories and macros are already
// scaled by ServingSize.
type NutritionEntry struct {
	ID          string    `bson:"id" json:"id"`
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD
	MealType    MealType  `bson:"mealType" json:"mealType"`
	FoodName    string    `bson:"foodName" json:"foodName"`
	Calories    float64   `bson:"calories" json:"calories"`
	ProteinG    float64   `bson:"protein" json:"protein"`
	CarbsG      float64   `bson:"carbs" json:"carbs"`
	FatG        float64   `bson:"fat" json:"fat"`
	ServingSize float64   `bson:"servingSize" json:"servingSize"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	LoggedAt    time.Time `bson:"loggedAt" json:"loggedAt"`
}

// PerServing holds the nutrition facts of a single serving as entered by the user.
type PerServing struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// NewNutritionEntry builds an entry with calories and macros scaled by servings.
func NewNutritionEntry(date string, meal MealType, food string, facts PerServing, servings float64, notes string) NutritionEntry {
	return NutritionEntry{
		Date:        date,
		MealType:    meal,
		FoodName:    food,
		Calories:    facts.Calories * servings,
		ProteinG:    facts.ProteinG * servings,
		CarbsG:      facts.CarbsG * servings,
		FatG:        facts.FatG * servings,
		ServingSize: servings,
		Notes:       notes,
	}
}

// EventDate implements the dated-event contract used by time-series helpers.
func (n NutritionEntry) EventDate() string { return n.Date }

// Validate checks the user-supplied fields of a nutrition entry.
func (n NutritionEntry) Validate() error {
	var v validator
	v.check(IsDate(n.Date), "date", "must be a YYYY-MM-DD date")
	v.check(n.MealType.Valid(), "mealType", "unknown meal type")
	v.check(n.FoodName != "", "foodName", "is required")
	v.check(n.ServingSize >= MinServingSize, "servingSize", "must be at least 0.1")
	v.check(n.Calories >= 0, "calories", "must not be negative")
	v.check(n.ProteinG >= 0 && n.CarbsG >= 0 && n.FatG >= 0, "macros", "must not be negative")
	return v.err()
}
