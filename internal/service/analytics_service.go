package service

import (
	"context"
	"errors"
	"fmt"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/timeseries"
)

var (
	ErrInsufficientData = fmt.Errorf("at least %d workouts are needed for trend analysis", timeseries.MinTrendPoints)
	ErrUnknownMetric    = errors.New("unknown workout metric")
)

// DefaultBalanceDays is the window of the calories in/out report.
const DefaultBalanceDays = 14

// MovingAverageWindow smooths trend values.
const MovingAverageWindow = 3

type EnergyReport struct {
	Days    []timeseries.EnergyBalance `json:"days"`
	Summary timeseries.NetSummary      `json:"summary"`
}

type TrendReport struct {
	Metric        string                 `json:"metric"`
	Dates         []string               `json:"dates"`
	Values        []float64              `json:"values"`
	MovingAverage []float64              `json:"movingAverage"`
	Trend         timeseries.TrendResult `json:"trend"`
	Forecast      []float64              `json:"forecast"`
	Stats         timeseries.Summary     `json:"stats"`
}

type ConsistencyReport struct {
	Score                 float64                     `json:"score"`
	Level                 timeseries.ConsistencyLevel `json:"level"`
	Workouts              int                         `json:"workouts"`
	TargetWeeklyFrequency int                         `json:"targetWeeklyFrequency"`
}

type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type PatternReport struct {
	ByType    []timeseries.TypeCount `json:"byType"`
	ByWeekday []WeekdayCount         `json:"byWeekday"`
	Duration  timeseries.Summary     `json:"duration"`
	Calories  timeseries.Summary     `json:"calories"`
	HeartRate timeseries.Summary     `json:"heartRate"`
}

type AnalyticsService interface {
	EnergyBalance(ctx context.Context, userID string, days int) (*EnergyReport, error)
	Trend(ctx context.Context, userID, metric string, days int) (*TrendReport, error)
	Consistency(ctx context.Context, userID string, days int) (*ConsistencyReport, error)
	Patterns(ctx context.Context, userID string, days int) (*PatternReport, error)
}

type analyticsService struct {
	workouts *repository.WorkoutRepository
	meals    *repository.NutritionRepository
	profiles ProfileService
	now      Clock
}

func NewAnalyticsService(workouts *repository.WorkoutRepository, meals *repository.NutritionRepository, profiles ProfileService, now Clock) AnalyticsService {
	return &analyticsService{workouts: workouts, meals: meals, profiles: profiles, now: now}
}

func (s *analyticsService) recentWorkouts(ctx context.Context, userID string, days int) ([]domain.WorkoutEntry, error) {
	all, err := s.workouts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return timeseries.SortByDate(timeseries.FilterByWindow(all, days, s.now())), nil
}

func (s *analyticsService) EnergyBalance(ctx context.Context, userID string, days int) (*EnergyReport, error) {
	workouts, err := s.recentWorkouts(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	meals, err := s.meals.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := timeseries.MergeEnergyBalance(workouts, timeseries.FilterByWindow(meals, days, s.now()))
	if balance == nil {
		balance = []timeseries.EnergyBalance{}
	}
	return &EnergyReport{Days: balance, Summary: timeseries.SummarizeNet(balance)}, nil
}

func (s *analyticsService) Trend(ctx context.Context, userID, metric string, days int) (*TrendReport, error) {
	workouts, err := s.recentWorkouts(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	values, ok := timeseries.WorkoutMetric(workouts, metric)
	if !ok {
		return nil, ErrUnknownMetric
	}
	if len(values) < timeseries.MinTrendPoints {
		return nil, ErrInsufficientData
	}

	dates := make([]string, len(workouts))
	for i, w := range workouts {
		dates[i] = w.Date
	}
	trend := timeseries.Trend(values)
	return &TrendReport{
		Metric:        metric,
		Dates:         dates,
		Values:        values,
		MovingAverage: timeseries.MovingAverage(values, MovingAverageWindow),
		Trend:         trend,
		Forecast:      timeseries.Forecast(trend, len(values), timeseries.DefaultForecastPoints),
		Stats:         timeseries.Stats(values),
	}, nil
}

func (s *analyticsService) Consistency(ctx context.Context, userID string, days int) (*ConsistencyReport, error) {
	workouts, err := s.recentWorkouts(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	// a stored 0 is kept and scores 0
	freq := profile.WorkoutFrequency

	dates := make([]string, len(workouts))
	for i, w := range workouts {
		dates[i] = w.Date
	}
	score := timeseries.ConsistencyScore(dates, float64(freq))
	return &ConsistencyReport{
		Score:                 score,
		Level:                 timeseries.ClassifyConsistency(score),
		Workouts:              len(workouts),
		TargetWeeklyFrequency: freq,
	}, nil
}

func (s *analyticsService) Patterns(ctx context.Context, userID string, days int) (*PatternReport, error) {
	workouts, err := s.recentWorkouts(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	counts := timeseries.CountByWeekday(workouts)
	byWeekday := make([]WeekdayCount, len(counts))
	for i, c := range counts {
		byWeekday[i] = WeekdayCount{Day: timeseries.Weekdays[i], Count: c}
	}

	report := &PatternReport{
		ByType:    timeseries.CountByType(workouts),
		ByWeekday: byWeekday,
	}
	if v, ok := timeseries.WorkoutMetric(workouts, timeseries.MetricDuration); ok {
		report.Duration = timeseries.Stats(v)
	}
	if v, ok := timeseries.WorkoutMetric(workouts, timeseries.MetricCaloriesBurned); ok {
		report.Calories = timeseries.Stats(v)
	}
	if v, ok := timeseries.WorkoutMetric(workouts, timeseries.MetricHeartRate); ok {
		report.HeartRate = timeseries.Stats(v)
	}
	return report, nil
}
