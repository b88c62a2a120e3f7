package goals

import (
	"testing"

	"fitpro/tracker/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoal(name string, goalType domain.GoalType, target, current float64) domain.Goal {
	return domain.Goal{
		Name:       name,
		Type:       goalType,
		Target:     target,
		Current:    current,
		StartDate:  "2026-10-01",
		TargetDate: "2026-12-31",
	}
}

func TestLedger_Create(t *testing.T) {
	l := NewLedger(nil)

	g, err := l.Create(newGoal("Run more", domain.GoalWorkoutCount, 10, 2))
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, domain.GoalActive, g.Status)
	assert.Equal(t, 2.0, g.Current)
	assert.Equal(t, "workouts", g.Unit)
	assert.Equal(t, 1, l.Len())

	_, err = l.Create(newGoal("Run more", domain.GoalCaloriesBurned, 500, 0))
	assert.ErrorIs(t, err, ErrDuplicateGoal)

	_, err = l.Create(newGoal("", domain.GoalWorkoutCount, 0, 0))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_CreateAlreadyReached(t *testing.T) {
	l := NewLedger(nil)

	g, err := l.Create(newGoal("Already there", domain.GoalCustom, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, g.Status)
	assert.Equal(t, "2026-10-01", g.CompletionDate)
	assert.Empty(t, l.Active())
	require.Len(t, l.Completed(), 1)

	_, err = l.Increment(ByID(g.ID), 1, "2026-10-02")
	assert.ErrorIs(t, err, ErrGoalCompleted)

	below, err := l.Create(newGoal("Not yet", domain.GoalCustom, 5, 4.9))
	require.NoError(t, err)
	assert.Equal(t, domain.GoalActive, below.Status)
	assert.Empty(t, below.CompletionDate)
}

func TestLedger_ApplyProgress_AddsExactDelta(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 100; i++ {
		l := NewLedger(nil)
		g, err := l.Create(newGoal("burn", domain.GoalCaloriesBurned, 1e9, 0))
		require.NoError(t, err)

		d := faker.Float64Range(0, 1000)
		assert.True(t, l.ApplyProgress(domain.GoalCaloriesBurned, d, "2026-10-10"))

		got, ok := l.Find(ByID(g.ID))
		require.True(t, ok)
		assert.Equal(t, d, got.Current)
		assert.Equal(t, domain.GoalActive, got.Status)
	}
}

func TestLedger_ApplyProgress_CompletesOnce(t *testing.T) {
	l := NewLedger(nil)
	g, err := l.Create(newGoal("ten workouts", domain.GoalWorkoutCount, 3, 1))
	require.NoError(t, err)

	assert.True(t, l.ApplyProgress(domain.GoalWorkoutCount, 1, "2026-10-02"))
	got, _ := l.Find(ByID(g.ID))
	assert.Equal(t, domain.GoalActive, got.Status)
	assert.Empty(t, got.CompletionDate)

	assert.True(t, l.ApplyProgress(domain.GoalWorkoutCount, 1, "2026-10-03"))
	got, _ = l.Find(ByID(g.ID))
	assert.Equal(t, domain.GoalCompleted, got.Status)
	assert.Equal(t, "2026-10-03", got.CompletionDate)
	assert.Equal(t, 3.0, got.Current)

	// completed goals are terminal
	assert.False(t, l.ApplyProgress(domain.GoalWorkoutCount, 5, "2026-10-04"))
	again, _ := l.Find(ByID(g.ID))
	assert.Equal(t, got, again)
}

func TestLedger_ApplyProgress_Broadcast(t *testing.T) {
	l := NewLedger(nil)
	a, _ := l.Create(newGoal("a", domain.GoalWorkoutDuration, 100, 0))
	b, _ := l.Create(newGoal("b", domain.GoalWorkoutDuration, 40, 10))
	c, _ := l.Create(newGoal("c", domain.GoalWorkoutCount, 5, 0))

	assert.True(t, l.ApplyProgress(domain.GoalWorkoutDuration, 30, "2026-10-05"))

	ga, _ := l.Find(ByID(a.ID))
	gb, _ := l.Find(ByID(b.ID))
	gc, _ := l.Find(ByID(c.ID))
	assert.Equal(t, 30.0, ga.Current)
	assert.Equal(t, domain.GoalActive, ga.Status)
	assert.Equal(t, 40.0, gb.Current)
	assert.Equal(t, domain.GoalCompleted, gb.Status)
	assert.Equal(t, 0.0, gc.Current)

	assert.False(t, l.ApplyProgress(domain.GoalWeight, 1, "2026-10-05"))
	assert.False(t, l.ApplyProgress(domain.GoalWorkoutDuration, -5, "2026-10-05"))
}

func TestLedger_ApplyWorkout(t *testing.T) {
	l := NewLedger(nil)
	count, _ := l.Create(newGoal("count", domain.GoalWorkoutCount, 1, 0))
	dur, _ := l.Create(newGoal("duration", domain.GoalWorkoutDuration, 300, 0))
	cal, _ := l.Create(newGoal("calories", domain.GoalCaloriesBurned, 1000, 0))

	out := l.ApplyWorkout(domain.WorkoutEntry{Date: "2026-10-07", DurationMinutes: 45, CaloriesBurned: 37.8})
	assert.True(t, out.Modified)
	require.Len(t, out.Completed, 1)
	assert.Equal(t, count.ID, out.Completed[0].ID)
	assert.Equal(t, "2026-10-07", out.Completed[0].CompletionDate)

	gd, _ := l.Find(ByID(dur.ID))
	gc, _ := l.Find(ByID(cal.ID))
	assert.Equal(t, 45.0, gd.Current)
	assert.Equal(t, 37.8, gc.Current)

	empty := NewLedger(nil)
	assert.False(t, empty.ApplyWorkout(domain.WorkoutEntry{Date: "2026-10-07", DurationMinutes: 10}).Modified)
}

func TestWorkoutTriggers(t *testing.T) {
	triggers := WorkoutTriggers(domain.WorkoutEntry{DurationMinutes: 30, CaloriesBurned: 120.5})
	assert.Equal(t, []Trigger{
		{Type: domain.GoalWorkoutCount, Delta: 1},
		{Type: domain.GoalWorkoutDuration, Delta: 30},
		{Type: domain.GoalCaloriesBurned, Delta: 120.5},
	}, triggers)
}

func TestLedger_SetValue(t *testing.T) {
	l := NewLedger(nil)
	g, _ := l.Create(newGoal("weight", domain.GoalWeight, 80, 40))

	updated, err := l.SetValue(ByNameAndDate("weight", "2026-12-31"), 30, "2026-10-10")
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Current)
	assert.Equal(t, domain.GoalActive, updated.Status)

	updated, err = l.SetValue(ByID(g.ID), 95, "2026-10-11")
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.Current)
	assert.Equal(t, domain.GoalCompleted, updated.Status)
	assert.Equal(t, "2026-10-11", updated.CompletionDate)

	_, err = l.SetValue(ByID(g.ID), 10, "2026-10-12")
	assert.ErrorIs(t, err, ErrGoalCompleted)

	_, err = l.SetValue(ByID("missing"), 10, "2026-10-12")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	_, err = l.SetValue(ByID(g.ID), -1, "2026-10-12")
	assert.ErrorIs(t, err, ErrNegativeValue)
}

func TestLedger_Increment(t *testing.T) {
	l := NewLedger(nil)
	g, _ := l.Create(newGoal("custom", domain.GoalCustom, 10, 4))

	updated, err := l.Increment(ByID(g.ID), 3, "2026-10-10")
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.Current)

	updated, err = l.Increment(ByID(g.ID), 50, "2026-10-11")
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.Current)
	assert.Equal(t, domain.GoalCompleted, updated.Status)

	_, err = l.Increment(ByID(g.ID), 1, "2026-10-12")
	assert.ErrorIs(t, err, ErrGoalCompleted)
}

func TestLedger_Complete(t *testing.T) {
	l := NewLedger(nil)
	g, _ := l.Create(newGoal("manual", domain.GoalCustom, 10, 1))

	done, err := l.Complete(ByID(g.ID), "2026-10-09")
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, done.Status)
	assert.Equal(t, 1.0, done.Current)
	assert.Len(t, l.Completed(), 1)
	assert.Empty(t, l.Active())
}

func TestLedger_Delete(t *testing.T) {
	l := NewLedger(nil)
	_, _ = l.Create(newGoal("keep", domain.GoalCustom, 10, 0))
	g, _ := l.Create(newGoal("drop", domain.GoalCustom, 10, 0))

	assert.False(t, l.Delete(ByNameAndDate("nope", "2026-12-31")))
	assert.False(t, l.Delete(ByNameAndDate("drop", "2027-01-01")))
	assert.Equal(t, 2, l.Len())

	assert.True(t, l.Delete(ByID(g.ID)))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "keep", l.Goals()[0].Name)
}

func TestLedger_LegacyGoals(t *testing.T) {
	legacy := []domain.Goal{
		{Name: "dup", Type: domain.GoalCustom, Target: 10, Current: 1, TargetDate: "2026-12-31", Status: domain.GoalActive},
		{Name: "dup", Type: domain.GoalCustom, Target: 10, Current: 2, TargetDate: "2026-12-31", Status: domain.GoalActive},
	}
	l := NewLedger(legacy)
	assert.True(t, l.Migrated())
	for _, g := range l.Goals() {
		assert.NotEmpty(t, g.ID)
	}
	assert.Empty(t, legacy[0].ID, "input slice must not be mutated")

	// the pair lookup resolves to the first match
	updated, err := l.Increment(ByNameAndDate("dup", "2026-12-31"), 1, "2026-10-10")
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Current)
	assert.Equal(t, 2.0, l.Goals()[1].Current)

	assert.False(t, NewLedger(l.Goals()).Migrated())
}
