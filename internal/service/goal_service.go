package service

import (
	"context"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/goals"
	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/repository"

	log "github.com/sirupsen/logrus"
)

// GoalInput describes a new goal.
type GoalInput struct {
	Name       string          `json:"name"`
	Type       domain.GoalType `json:"type"`
	Target     float64         `json:"target"`
	Current    float64         `json:"current"`
	Unit       string          `json:"unit"`
	StartDate  string          `json:"startDate"`
	TargetDate string          `json:"targetDate"`
}

type GoalService interface {
	Create(ctx context.Context, userID string, in GoalInput) (domain.Goal, error)
	// List returns goals with the given status, or all goals for "".
	List(ctx context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error)
	SetValue(ctx context.Context, userID string, ref goals.Ref, value float64) (domain.Goal, error)
	Increment(ctx context.Context, userID string, ref goals.Ref, delta float64) (domain.Goal, error)
	Complete(ctx context.Context, userID string, ref goals.Ref) (domain.Goal, error)
	Delete(ctx context.Context, userID string, ref goals.Ref) error
}

type goalService struct {
	goals   *repository.GoalRepository
	metrics *metrics.Manager
	locks   *UserLocks
	now     Clock
}

func NewGoalService(goalRepo *repository.GoalRepository, m *metrics.Manager, locks *UserLocks, now Clock) GoalService {
	return &goalService{goals: goalRepo, metrics: m, locks: locks, now: now}
}

// mutate runs fn on the user's ledger under the user lock and saves the
// collection when fn reports a change or legacy ids were assigned.
func (s *goalService) mutate(ctx context.Context, userID string, fn func(l *goals.Ledger) (changed bool, err error)) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	stored, err := s.goals.List(ctx, userID)
	if err != nil {
		return err
	}
	ledger := goals.NewLedger(stored)
	changed, err := fn(ledger)
	if err != nil {
		return err
	}
	if changed || ledger.Migrated() {
		return s.goals.Replace(ctx, userID, ledger.Goals())
	}
	return nil
}

func (s *goalService) Create(ctx context.Context, userID string, in GoalInput) (domain.Goal, error) {
	if in.StartDate == "" {
		in.StartDate = domain.FormatDate(s.now())
	}
	var created domain.Goal
	err := s.mutate(ctx, userID, func(l *goals.Ledger) (bool, error) {
		g, err := l.Create(domain.Goal{
			Name:       in.Name,
			Type:       in.Type,
			Target:     in.Target,
			Current:    in.Current,
			Unit:       in.Unit,
			StartDate:  in.StartDate,
			TargetDate: in.TargetDate,
		})
		created = g
		return err == nil, err
	})
	return created, err
}

func (s *goalService) List(ctx context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error) {
	var out []domain.Goal
	err := s.mutate(ctx, userID, func(l *goals.Ledger) (bool, error) {
		switch status {
		case domain.GoalActive:
			out = l.Active()
		case domain.GoalCompleted:
			out = l.Completed()
		default:
			out = l.Goals()
		}
		return false, nil
	})
	if out == nil {
		out = []domain.Goal{}
	}
	return out, err
}

func (s *goalService) update(ctx context.Context, userID string, fn func(l *goals.Ledger, today string) (domain.Goal, error)) (domain.Goal, error) {
	var updated domain.Goal
	err := s.mutate(ctx, userID, func(l *goals.Ledger) (bool, error) {
		g, err := fn(l, domain.FormatDate(s.now()))
		updated = g
		return err == nil, err
	})
	if err == nil && updated.Status == domain.GoalCompleted {
		log.Infof("user %s completed goal %q on %s", userID, updated.Name, updated.CompletionDate)
		if s.metrics != nil {
			s.metrics.CounterGoalsCompleted.Inc()
		}
	}
	return updated, err
}

func (s *goalService) SetValue(ctx context.Context, userID string, ref goals.Ref, value float64) (domain.Goal, error) {
	return s.update(ctx, userID, func(l *goals.Ledger, today string) (domain.Goal, error) {
		return l.SetValue(ref, value, today)
	})
}

func (s *goalService) Increment(ctx context.Context, userID string, ref goals.Ref, delta float64) (domain.Goal, error) {
	return s.update(ctx, userID, func(l *goals.Ledger, today string) (domain.Goal, error) {
		return l.Increment(ref, delta, today)
	})
}

func (s *goalService) Complete(ctx context.Context, userID string, ref goals.Ref) (domain.Goal, error) {
	return s.update(ctx, userID, func(l *goals.Ledger, today string) (domain.Goal, error) {
		return l.Complete(ref, today)
	})
}

func (s *goalService) Delete(ctx context.Context, userID string, ref goals.Ref) error {
	return s.mutate(ctx, userID, func(l *goals.Ledger) (bool, error) {
		if !l.Delete(ref) {
			return false, goals.ErrGoalNotFound
		}
		return true, nil
	})
}
