package domain

import "time"

// WorkoutType enumerates the supported kinds of workout.
type WorkoutType string

const (
	WorkoutRunning        WorkoutType = "Running"
	WorkoutCycling        WorkoutType = "Cycling"
	WorkoutSwimming       WorkoutType = "Swimming"
	WorkoutWeightTraining WorkoutType = "Weight Training"
	WorkoutYoga           WorkoutType = "Yoga"
	WorkoutHIIT           WorkoutType = "HIIT"
	WorkoutWalking        WorkoutType = "Walking"
	WorkoutOther          WorkoutType = "Other"
)

// WorkoutTypes lists every workout type in display order.
var WorkoutTypes = []WorkoutType{
	WorkoutRunning, WorkoutCycling, WorkoutSwimming, WorkoutWeightTraining,
	WorkoutYoga, WorkoutHIIT, WorkoutWalking, WorkoutOther,
}

// Valid reports whether t is one of the known workout types.
func (t WorkoutType) Valid() bool {
	for _, known := range WorkoutTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Accepted input ranges for a logged workout.
const (
	MinHeartRate = 40
	MaxHeartRate = 220
	MinBodyTemp  = 36.0
	MaxBodyTemp  = 42.0
)

// WorkoutEntry is a single logged workout. Entries are immutable once
// logged; the only mutation is deletion.
type WorkoutEntry struct {
	ID              string      `bson:"id" json:"id"`
	Date            string      `bson:"date" json:"date"` // YYYY-MM-DD
	Type            WorkoutType `bson:"workoutType" json:"workoutType"`
	DurationMinutes int         `bson:"duration" json:"duration"`
	Intensity       string      `bson:"intensity,omitempty" json:"intensity,omitempty"`
	HeartRate       int         `bson:"heartRate" json:"heartRate"`
	BodyTemp        float64     `bson:"bodyTemp" json:"bodyTemp"`
	CaloriesBurned  float64     `bson:"caloriesBurned" json:"caloriesBurned"` // derived by the estimator
	Notes           string      `bson:"notes,omitempty" json:"notes,omitempty"`
	LoggedAt        time.Time   `bson:"loggedAt" json:"loggedAt"`
}

// EventDate implements the dated-event contract used by time-series helpers.
func (w WorkoutEntry) EventDate() string { return w.Date }

// Validate checks the user-supplied fields of a workout.
func (w WorkoutEntry) Validate() error {
	var v validator
	v.check(IsDate(w.Date), "date", "must be a YYYY-MM-DD date")
	v.check(w.Type.Valid(), "workoutType", "unknown workout type")
	v.check(w.DurationMinutes > 0, "duration", "must be a positive number of minutes")
	v.check(w.HeartRate >= MinHeartRate && w.HeartRate <= MaxHeartRate, "heartRate", "must be between 40 and 220 bpm")
	v.check(w.BodyTemp >= MinBodyTemp && w.BodyTemp <= MaxBodyTemp, "bodyTemp", "must be between 36.0 and 42.0 C")
	v.check(w.CaloriesBurned >= 0, "caloriesBurned", "must not be negative")
	return v.err()
}
