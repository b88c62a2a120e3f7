package domain

// GoalType selects which event stream feeds a goal's progress.
type GoalType string

const (
	GoalWorkoutCount    GoalType = "workout_count"
	GoalWeight          GoalType = "weight"
	GoalWorkoutDuration GoalType = "workout_duration"
	GoalCaloriesBurned  GoalType = "calories_burned"
	GoalCustom          GoalType = "custom"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalWorkoutCount, GoalWeight, GoalWorkoutDuration, GoalCaloriesBurned, GoalCustom:
		return true
	}
	return false
}

// DefaultUnit returns the unit shown for a goal type when none was given.
func (t GoalType) DefaultUnit() string {
	switch t {
	case GoalWorkoutCount:
		return "workouts"
	case GoalWeight:
		return "kg"
	case GoalWorkoutDuration:
		return "minutes"
	case GoalCaloriesBurned:
		return "calories"
	}
	return ""
}

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// Goal tracks progress towards a target. Status moves active -> completed
// exactly once; completed goals are terminal.
type Goal struct {
	ID             string     `bson:"id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Type           GoalType   `bson:"type" json:"type"`
	Target         float64    `bson:"target" json:"target"`
	Current        float64    `bson:"current" json:"current"`
	Unit           string     `bson:"unit" json:"unit"`
	StartDate      string     `bson:"startDate" json:"startDate"`
	TargetDate     string     `bson:"targetDate" json:"targetDate"`
	Status         GoalStatus `bson:"status" json:"status"`
	CompletionDate string     `bson:"completionDate,omitempty" json:"completionDate,omitempty"`
}

// IsActive reports whether the goal still accepts progress.
func (g Goal) IsActive() bool { return g.Status == GoalActive }

// ProgressPercent returns current/target as a percentage.
func (g Goal) ProgressPercent() float64 {
	if g.Target <= 0 {
		return 0
	}
	return g.Current / g.Target * 100
}

// Validate checks the user-supplied fields of a new goal.
func (g Goal) Validate() error {
	var v validator
	v.check(g.Name != "", "name", "is required")
	v.check(g.Type.Valid(), "type", "unknown goal type")
	v.check(g.Target > 0, "target", "must be greater than zero")
	v.check(g.Current >= 0, "current", "must not be negative")
	v.check(IsDate(g.StartDate), "startDate", "must be a YYYY-MM-DD date")
	v.check(IsDate(g.TargetDate), "targetDate", "must be a YYYY-MM-DD date")
	return v.err()
}
