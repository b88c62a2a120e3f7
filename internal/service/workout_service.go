package service

import (
	"context"
	"errors"
	"fmt"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/estimator"
	"fitpro/tracker/internal/formula"
	"fitpro/tracker/internal/goals"
	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/timeseries"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutInput is a workout as entered by the user; calories are estimated.
type WorkoutInput struct {
	Date            string             `json:"date"`
	Type            domain.WorkoutType `json:"workoutType"`
	DurationMinutes int                `json:"duration"`
	Intensity       string             `json:"intensity,omitempty"`
	HeartRate       int                `json:"heartRate"`
	BodyTemp        float64            `json:"bodyTemp"`
	Notes           string             `json:"notes,omitempty"`
}

// LoggedWorkout is the result of LogWorkout.
type LoggedWorkout struct {
	Entry          domain.WorkoutEntry `json:"workout"`
	Source         string              `json:"caloriesSource"`
	CompletedGoals []domain.Goal       `json:"completedGoals"`
}

// EstimateInput asks for a one-off calorie estimate using the user's profile.
type EstimateInput struct {
	DurationMinutes int     `json:"duration"`
	HeartRate       int     `json:"heartRate"`
	BodyTemp        float64 `json:"bodyTemp"`
}

type WorkoutService interface {
	// LogWorkout estimates calories, appends the workout and advances goals.
	LogWorkout(ctx context.Context, userID string, in WorkoutInput) (*LoggedWorkout, error)
	// History returns workouts of the last days days (timeseries.AllTime for all), oldest first.
	History(ctx context.Context, userID string, days int) ([]domain.WorkoutEntry, error)
	Delete(ctx context.Context, userID, workoutID string) error
	Estimate(ctx context.Context, userID string, in EstimateInput) (estimator.Estimate, error)
}

type workoutService struct {
	workouts  *repository.WorkoutRepository
	goals     *repository.GoalRepository
	profiles  ProfileService
	estimator *estimator.Estimator
	metrics   *metrics.Manager
	locks     *UserLocks
	now       Clock
}

func NewWorkoutService(
	workouts *repository.WorkoutRepository,
	goalRepo *repository.GoalRepository,
	profiles ProfileService,
	est *estimator.Estimator,
	m *metrics.Manager,
	locks *UserLocks,
	now Clock,
) WorkoutService {
	return &workoutService{
		workouts:  workouts,
		goals:     goalRepo,
		profiles:  profiles,
		estimator: est,
		metrics:   m,
		locks:     locks,
		now:       now,
	}
}

func features(p domain.UserProfile, durationMin, heartRate int, bodyTemp float64) estimator.Features {
	return estimator.Features{
		Age:         float64(p.Age),
		BMI:         formula.BMI(p.HeightCm, p.WeightKg),
		DurationMin: float64(durationMin),
		HeartRate:   float64(heartRate),
		BodyTemp:    bodyTemp,
		IsMale:      p.IsMale(),
	}
}

func (s *workoutService) LogWorkout(ctx context.Context, userID string, in WorkoutInput) (*LoggedWorkout, error) {
	entry := domain.WorkoutEntry{
		ID:              uuid.NewString(),
		Date:            in.Date,
		Type:            in.Type,
		DurationMinutes: in.DurationMinutes,
		Intensity:       in.Intensity,
		HeartRate:       in.HeartRate,
		BodyTemp:        in.BodyTemp,
		Notes:           in.Notes,
		LoggedAt:        s.now().UTC(),
	}
	if entry.Date == "" {
		entry.Date = domain.FormatDate(s.now())
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	est := s.estimator.Estimate(features(profile, entry.DurationMinutes, entry.HeartRate, entry.BodyTemp))
	entry.CaloriesBurned = formula.Round(est.Calories, 2)

	unlock := s.locks.Lock(userID)
	defer unlock()

	history, err := s.workouts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	stored, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ledger := goals.NewLedger(stored)
	outcome := ledger.ApplyWorkout(entry)
	goalsChanged := outcome.Modified || ledger.Migrated()

	// goals first; a failed history save restores them
	if goalsChanged {
		if err := s.goals.Replace(ctx, userID, ledger.Goals()); err != nil {
			return nil, fmt.Errorf("update goals: %w", err)
		}
	}
	if err := s.workouts.Replace(ctx, userID, append(history, entry)); err != nil {
		if goalsChanged {
			if rerr := s.goals.Replace(ctx, userID, stored); rerr != nil {
				log.Errorf("user %s: restore goals after failed workout save: %s", userID, rerr)
			}
		}
		return nil, fmt.Errorf("save workout: %w", err)
	}
	if s.metrics != nil {
		s.metrics.CounterWorkoutsLogged.Inc()
	}

	for _, g := range outcome.Completed {
		log.Infof("user %s completed goal %q on %s", userID, g.Name, g.CompletionDate)
		if s.metrics != nil {
			s.metrics.CounterGoalsCompleted.Inc()
		}
	}

	completed := outcome.Completed
	if completed == nil {
		completed = []domain.Goal{}
	}
	return &LoggedWorkout{Entry: entry, Source: est.Source, CompletedGoals: completed}, nil
}

func (s *workoutService) History(ctx context.Context, userID string, days int) ([]domain.WorkoutEntry, error) {
	history, err := s.workouts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return timeseries.SortByDate(timeseries.FilterByWindow(history, days, s.now())), nil
}

// Delete removes a workout. Goal progress it contributed is kept.
func (s *workoutService) Delete(ctx context.Context, userID, workoutID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	history, err := s.workouts.List(ctx, userID)
	if err != nil {
		return err
	}
	for i, w := range history {
		if w.ID == workoutID {
			return s.workouts.Replace(ctx, userID, append(history[:i], history[i+1:]...))
		}
	}
	return ErrWorkoutNotFound
}

func (s *workoutService) Estimate(ctx context.Context, userID string, in EstimateInput) (estimator.Estimate, error) {
	var v domain.ValidationError
	if in.DurationMinutes <= 0 {
		v.Errors = append(v.Errors, domain.FieldError{Field: "duration", Message: "must be a positive number of minutes"})
	}
	if in.HeartRate < domain.MinHeartRate || in.HeartRate > domain.MaxHeartRate {
		v.Errors = append(v.Errors, domain.FieldError{Field: "heartRate", Message: "must be between 40 and 220 bpm"})
	}
	if in.BodyTemp < domain.MinBodyTemp || in.BodyTemp > domain.MaxBodyTemp {
		v.Errors = append(v.Errors, domain.FieldError{Field: "bodyTemp", Message: "must be between 36.0 and 42.0 C"})
	}
	if len(v.Errors) > 0 {
		return estimator.Estimate{}, &v
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return estimator.Estimate{}, err
	}
	est := s.estimator.Estimate(features(profile, in.DurationMinutes, in.HeartRate, in.BodyTemp))
	est.Calories = formula.Round(est.Calories, 2)
	return est, nil
}
