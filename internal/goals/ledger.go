// Package goals implements the goal ledger: the in-memory state machine that
// applies progress to a user's goal collection. It performs no I/O; callers
// load the collection, mutate it through a Ledger and save Goals() back.
package goals

import (
	"errors"

	"fitpro/tracker/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrGoalCompleted = errors.New("goal is already completed")
	ErrDuplicateGoal = errors.New("a goal with this name and target date already exists")
	ErrNegativeValue = errors.New("value must not be negative")
)

// Ref identifies a goal. A non-empty ID wins; otherwise the first goal
// whose (Name, TargetDate) pair matches is used.
type Ref struct {
	ID         string
	Name       string
	TargetDate string
}

// ByID references a goal by its surrogate id.
func ByID(id string) Ref { return Ref{ID: id} }

// ByNameAndDate references a goal by its (name, target date) pair.
func ByNameAndDate(name, targetDate string) Ref {
	return Ref{Name: name, TargetDate: targetDate}
}

func (r Ref) matches(g domain.Goal) bool {
	if r.ID != "" {
		return g.ID == r.ID
	}
	return g.Name == r.Name && g.TargetDate == r.TargetDate
}

// Ledger owns one goal collection.
type Ledger struct {
	goals    []domain.Goal
	newID    func() string
	migrated bool
}

// NewLedger wraps a copy of goals. Goals persisted without an id get one.
func NewLedger(goals []domain.Goal) *Ledger {
	l := &Ledger{
		goals: make([]domain.Goal, len(goals)),
		newID: uuid.NewString,
	}
	copy(l.goals, goals)
	for i := range l.goals {
		if l.goals[i].ID == "" {
			l.goals[i].ID = l.newID()
			l.migrated = true
		}
	}
	return l
}

// Migrated reports whether NewLedger had to assign ids, meaning the
// collection should be saved even if nothing else changed.
func (l *Ledger) Migrated() bool { return l.migrated }

// Goals returns a copy of the collection in insertion order.
func (l *Ledger) Goals() []domain.Goal {
	out := make([]domain.Goal, len(l.goals))
	copy(out, l.goals)
	return out
}

// Len returns the number of goals.
func (l *Ledger) Len() int { return len(l.goals) }

// Create appends g as an active goal. Current is kept as given.
func (l *Ledger) Create(g domain.Goal) (domain.Goal, error) {
	if err := g.Validate(); err != nil {
		return domain.Goal{}, err
	}
	if _, ok := l.Find(ByNameAndDate(g.Name, g.TargetDate)); ok {
		return domain.Goal{}, ErrDuplicateGoal
	}
	g.ID = l.newID()
	g.Status = domain.GoalActive
	g.CompletionDate = ""
	if g.Unit == "" {
		g.Unit = g.Type.DefaultUnit()
	}
	// a goal whose starting value already meets the target is born completed
	l.completeIfReached(&g, g.StartDate)
	l.goals = append(l.goals, g)
	return g, nil
}

// ApplyProgress adds delta to every active goal of goalType and completes
// those that reach their target, stamping eventDate. It returns whether any
// goal was modified. Negative deltas are ignored.
func (l *Ledger) ApplyProgress(goalType domain.GoalType, delta float64, eventDate string) bool {
	modified, _ := l.applyProgress(goalType, delta, eventDate)
	return modified
}

func (l *Ledger) applyProgress(goalType domain.GoalType, delta float64, eventDate string) (bool, []domain.Goal) {
	if delta < 0 {
		return false, nil
	}
	var (
		modified  bool
		completed []domain.Goal
	)
	for i := range l.goals {
		g := &l.goals[i]
		if !g.IsActive() || g.Type != goalType {
			continue
		}
		g.Current += delta
		modified = true
		if l.completeIfReached(g, eventDate) {
			completed = append(completed, *g)
		}
	}
	return modified, completed
}

// Trigger is one progress broadcast produced by an event.
type Trigger struct {
	Type  domain.GoalType
	Delta float64
}

// WorkoutTriggers returns the broadcasts fired by one logged workout. All
// three fire regardless of which goal types exist.
func WorkoutTriggers(w domain.WorkoutEntry) []Trigger {
	return []Trigger{
		{Type: domain.GoalWorkoutCount, Delta: 1},
		{Type: domain.GoalWorkoutDuration, Delta: float64(w.DurationMinutes)},
		{Type: domain.GoalCaloriesBurned, Delta: w.CaloriesBurned},
	}
}

// Outcome summarizes the effect of applying an event to the ledger.
type Outcome struct {
	Modified  bool
	Completed []domain.Goal
}

// ApplyWorkout fires WorkoutTriggers for w, stamping completions with w.Date.
func (l *Ledger) ApplyWorkout(w domain.WorkoutEntry) Outcome {
	var out Outcome
	for _, trig := range WorkoutTriggers(w) {
		modified, completed := l.applyProgress(trig.Type, trig.Delta, w.Date)
		out.Modified = out.Modified || modified
		out.Completed = append(out.Completed, completed...)
	}
	return out
}

// SetValue overrides the progress of an active goal. The value may move in
// either direction but is capped at the target.
func (l *Ledger) SetValue(ref Ref, value float64, date string) (domain.Goal, error) {
	if value < 0 {
		return domain.Goal{}, ErrNegativeValue
	}
	g, err := l.activeGoal(ref)
	if err != nil {
		return domain.Goal{}, err
	}
	g.Current = min(value, g.Target)
	l.completeIfReached(g, date)
	return *g, nil
}

// Increment adds delta to an active goal, never moving it past the target.
func (l *Ledger) Increment(ref Ref, delta float64, date string) (domain.Goal, error) {
	if delta < 0 {
		return domain.Goal{}, ErrNegativeValue
	}
	g, err := l.activeGoal(ref)
	if err != nil {
		return domain.Goal{}, err
	}
	g.Current = min(g.Current+delta, g.Target)
	l.completeIfReached(g, date)
	return *g, nil
}

// Complete marks an active goal as completed regardless of its progress.
func (l *Ledger) Complete(ref Ref, date string) (domain.Goal, error) {
	g, err := l.activeGoal(ref)
	if err != nil {
		return domain.Goal{}, err
	}
	g.Status = domain.GoalCompleted
	g.CompletionDate = date
	return *g, nil
}

// Delete removes the first goal matching ref and reports whether one was found.
func (l *Ledger) Delete(ref Ref) bool {
	i := l.index(ref)
	if i < 0 {
		return false
	}
	l.goals = append(l.goals[:i], l.goals[i+1:]...)
	return true
}

// Find returns the first goal matching ref.
func (l *Ledger) Find(ref Ref) (domain.Goal, bool) {
	i := l.index(ref)
	if i < 0 {
		return domain.Goal{}, false
	}
	return l.goals[i], true
}

// Active returns the goals still in progress.
func (l *Ledger) Active() []domain.Goal {
	return l.filter(domain.GoalActive)
}

// Completed returns the finished goals.
func (l *Ledger) Completed() []domain.Goal {
	return l.filter(domain.GoalCompleted)
}

func (l *Ledger) filter(status domain.GoalStatus) []domain.Goal {
	var out []domain.Goal
	for _, g := range l.goals {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out
}

func (l *Ledger) index(ref Ref) int {
	for i := range l.goals {
		if ref.matches(l.goals[i]) {
			return i
		}
	}
	return -1
}

func (l *Ledger) activeGoal(ref Ref) (*domain.Goal, error) {
	i := l.index(ref)
	if i < 0 {
		return nil, ErrGoalNotFound
	}
	g := &l.goals[i]
	if !g.IsActive() {
		return nil, ErrGoalCompleted
	}
	return g, nil
}

// completeIfReached performs the one-shot active -> completed transition.
func (l *Ledger) completeIfReached(g *domain.Goal, date string) bool {
	if !g.IsActive() || g.Current < g.Target {
		return false
	}
	g.Status = domain.GoalCompleted
	g.CompletionDate = date
	return true
}
