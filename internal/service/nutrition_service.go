package service

import (
	"context"
	"errors"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/timeseries"

	"github.com/google/uuid"
)

var ErrMealNotFound = errors.New("meal not found")

// MealInput is one food item with per-serving nutrition facts.
type MealInput struct {
	Date        string          `json:"date"`
	MealType    domain.MealType `json:"mealType"`
	FoodName    string          `json:"foodName"`
	Calories    float64         `json:"calories"`
	ProteinG    float64         `json:"protein"`
	CarbsG      float64         `json:"carbs"`
	FatG        float64         `json:"fat"`
	ServingSize float64         `json:"servingSize"`
	Notes       string          `json:"notes,omitempty"`
}

type NutritionService interface {
	// LogMeal scales the facts by the serving size and appends the entry.
	LogMeal(ctx context.Context, userID string, in MealInput) (domain.NutritionEntry, error)
	History(ctx context.Context, userID string, days int) ([]domain.NutritionEntry, error)
	// Daily aggregates History per date.
	Daily(ctx context.Context, userID string, days int) ([]timeseries.DailyNutrition, error)
	Delete(ctx context.Context, userID, mealID string) error
}

type nutritionService struct {
	meals   *repository.NutritionRepository
	metrics *metrics.Manager
	locks   *UserLocks
	now     Clock
}

func NewNutritionService(meals *repository.NutritionRepository, m *metrics.Manager, locks *UserLocks, now Clock) NutritionService {
	return &nutritionService{meals: meals, metrics: m, locks: locks, now: now}
}

func (s *nutritionService) LogMeal(ctx context.Context, userID string, in MealInput) (domain.NutritionEntry, error) {
	if in.Date == "" {
		in.Date = domain.FormatDate(s.now())
	}
	if in.ServingSize == 0 {
		in.ServingSize = 1
	}
	entry := domain.NewNutritionEntry(in.Date, in.MealType, in.FoodName, domain.PerServing{
		Calories: in.Calories,
		ProteinG: in.ProteinG,
		CarbsG:   in.CarbsG,
		FatG:     in.FatG,
	}, in.ServingSize, in.Notes)
	entry.ID = uuid.NewString()
	entry.LoggedAt = s.now().UTC()

	if err := entry.Validate(); err != nil {
		return domain.NutritionEntry{}, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	log, err := s.meals.List(ctx, userID)
	if err != nil {
		return domain.NutritionEntry{}, err
	}
	if err := s.meals.Replace(ctx, userID, append(log, entry)); err != nil {
		return domain.NutritionEntry{}, err
	}
	if s.metrics != nil {
		s.metrics.CounterMealsLogged.Inc()
	}
	return entry, nil
}

func (s *nutritionService) History(ctx context.Context, userID string, days int) ([]domain.NutritionEntry, error) {
	meals, err := s.meals.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return timeseries.SortByDate(timeseries.FilterByWindow(meals, days, s.now())), nil
}

func (s *nutritionService) Daily(ctx context.Context, userID string, days int) ([]timeseries.DailyNutrition, error) {
	meals, err := s.History(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return timeseries.AggregateNutritionByDay(meals), nil
}

func (s *nutritionService) Delete(ctx context.Context, userID, mealID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	meals, err := s.meals.List(ctx, userID)
	if err != nil {
		return err
	}
	for i, m := range meals {
		if m.ID == mealID {
			return s.meals.Replace(ctx, userID, append(meals[:i], meals[i+1:]...))
		}
	}
	return ErrMealNotFound
}
