package service

import (
	"context"
	"errors"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/formula"
	"fitpro/tracker/internal/repository"
)

// ProfileOverview holds everything derived from a profile by the formula
// library.
type ProfileOverview struct {
	Profile        domain.UserProfile  `json:"profile"`
	BMI            float64             `json:"bmi"`
	BMICategory    string              `json:"bmiCategory"`
	IdealWeight    formula.WeightRange `json:"idealWeight"`
	BMR            float64             `json:"bmr"`
	DailyNeeds     formula.Needs       `json:"dailyNeeds"`
	TargetCalories float64             `json:"targetCalories"`
	ProteinTargetG float64             `json:"proteinTargetG"`
	WaterTargetL   float64             `json:"waterTargetL"`
}

type ProfileService interface {
	// Get returns the stored profile or the default one.
	Get(ctx context.Context, userID string) (domain.UserProfile, error)
	// Save validates p and replaces the stored profile with it.
	Save(ctx context.Context, userID string, p domain.UserProfile) (domain.UserProfile, error)
	Overview(ctx context.Context, userID string) (*ProfileOverview, error)
}

type profileService struct {
	profiles *repository.ProfileRepository
	locks    *UserLocks
}

func NewProfileService(profiles *repository.ProfileRepository, locks *UserLocks) ProfileService {
	return &profileService{profiles: profiles, locks: locks}
}

func (s *profileService) Get(ctx context.Context, userID string) (domain.UserProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultProfile(), nil
	}
	return p, err
}

func (s *profileService) Save(ctx context.Context, userID string, p domain.UserProfile) (domain.UserProfile, error) {
	if err := p.Validate(); err != nil {
		return domain.UserProfile{}, err
	}
	if p.FitnessGoals == nil {
		p.FitnessGoals = []string{}
	}
	if p.PreferredWorkouts == nil {
		p.PreferredWorkouts = []domain.WorkoutType{}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.profiles.Save(ctx, userID, p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

func (s *profileService) Overview(ctx context.Context, userID string) (*ProfileOverview, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	bmi := formula.BMI(p.HeightCm, p.WeightKg)
	needs := formula.DailyCalorieNeeds(p)
	return &ProfileOverview{
		Profile:        p,
		BMI:            bmi,
		BMICategory:    formula.BMICategory(bmi),
		IdealWeight:    formula.IdealWeightRange(p.HeightCm),
		BMR:            formula.Round(formula.BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender), 1),
		DailyNeeds:     needs,
		TargetCalories: formula.TargetCalories(needs.Calories, p.WeightGoal),
		ProteinTargetG: formula.ProteinTarget(p.WeightKg, p.FitnessGoals),
		WaterTargetL:   formula.WaterTarget(p.WeightKg),
	}, nil
}
