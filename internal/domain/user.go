package domain

import "time"

// User is an account that owns a profile, event histories and goals.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`    // unique
	PasswordHash string    `bson:"passwordHash" json:"-"` // never exposed via JSON
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Gender as used by the metabolic formulas.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Activity levels accepted by the activity multiplier table.
const (
	ActivitySedentary  = "Sedentary"
	ActivityLight      = "Light"
	ActivityModerate   = "Moderate"
	ActivityActive     = "Active"
	ActivityVeryActive = "Very Active"
)

// Weight goals.
const (
	WeightGoalLose     = "Lose Weight"
	WeightGoalMaintain = "Maintain Weight"
	WeightGoalGain     = "Gain Weight"
)

// FitnessGoalBuildMuscle raises the protein recommendation.
const FitnessGoalBuildMuscle = "Build Muscle"

// UserProfile parameterizes the calorie estimator and the nutrition formulas.
// It is replaced as a whole on every save.
type UserProfile struct {
	Name              string        `bson:"name" json:"name"`
	Age               int           `bson:"age" json:"age"`
	Gender            Gender        `bson:"gender" json:"gender"`
	HeightCm          float64       `bson:"height" json:"height"`
	WeightKg          float64       `bson:"weight" json:"weight"`
	FitnessLevel      string        `bson:"fitnessLevel" json:"fitnessLevel"`
	ActivityLevel     string        `bson:"activityLevel" json:"activityLevel"`
	WeightGoal        string        `bson:"weightGoal" json:"weightGoal"`
	FitnessGoals      []string      `bson:"fitnessGoals" json:"fitnessGoals"`
	PreferredWorkouts []WorkoutType `bson:"preferredWorkouts" json:"preferredWorkouts"`
	WorkoutFrequency  int           `bson:"workoutFrequency" json:"workoutFrequency"` // sessions per week
	SleepHours        float64       `bson:"sleepHours" json:"sleepHours"`
}

// DefaultProfile is the profile used before the user saves one.
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:               30,
		Gender:            GenderMale,
		HeightCm:          170,
		WeightKg:          70,
		FitnessLevel:      "Beginner",
		ActivityLevel:     ActivityModerate,
		WeightGoal:        WeightGoalMaintain,
		FitnessGoals:      []string{"Improve Cardiovascular Health"},
		PreferredWorkouts: []WorkoutType{WorkoutRunning, WorkoutWeightTraining},
		WorkoutFrequency:  3,
		SleepHours:        7,
	}
}

// IsMale reports whether the male variants of the formulas apply.
func (p UserProfile) IsMale() bool { return p.Gender == GenderMale }

// Validate checks a profile before it replaces the stored one.
func (p UserProfile) Validate() error {
	var v validator
	v.check(p.Age >= 1 && p.Age <= 120, "age", "must be between 1 and 120")
	v.check(p.Gender == GenderMale || p.Gender == GenderFemale, "gender", "must be Male or Female")
	v.check(p.HeightCm > 0, "height", "must be positive")
	v.check(p.WeightKg > 0, "weight", "must be positive")
	v.check(p.WorkoutFrequency >= 0 && p.WorkoutFrequency <= 21, "workoutFrequency", "must be between 0 and 21")
	v.check(p.SleepHours >= 0 && p.SleepHours <= 24, "sleepHours", "must be between 0 and 24")
	for _, w := range p.PreferredWorkouts {
		v.check(w.Valid(), "preferredWorkouts", "unknown workout type "+string(w))
	}
	return v.err()
}
