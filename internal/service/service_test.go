package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/estimator"
	"fitpro/tracker/internal/goals"
	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/repository/memory"
	"fitpro/tracker/internal/timeseries"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store     repository.Store
	metrics   *metrics.Manager
	locks     *UserLocks
	auth      AuthService
	profiles  ProfileService
	workouts  WorkoutService
	nutrition NutritionService
	goals     GoalService
	analytics AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, store repository.Store) *fixture {
	t.Helper()
	m := metrics.NewTestManager()
	locks := NewUserLocks()
	clock := func() time.Time { return today }

	profiles := NewProfileService(repository.NewProfileRepository(store), locks)
	workoutRepo := repository.NewWorkoutRepository(store)
	mealRepo := repository.NewNutritionRepository(store)
	goalRepo := repository.NewGoalRepository(store)
	est := estimator.New(nil, estimator.Config{}, estimator.WithMetrics(m))

	return &fixture{
		store:     store,
		metrics:   m,
		locks:     locks,
		auth:      NewAuthService(repository.NewUserRepository(store), locks, "test-secret", time.Hour, clock),
		profiles:  profiles,
		workouts:  NewWorkoutService(workoutRepo, goalRepo, profiles, est, m, locks, clock),
		nutrition: NewNutritionService(mealRepo, m, locks, clock),
		goals:     NewGoalService(goalRepo, m, locks, clock),
		analytics: NewAnalyticsService(workoutRepo, mealRepo, profiles, clock),
	}
}

// failingStore fails every Save to failKey.
type failingStore struct {
	repository.Store
	failKey string
}

func (s *failingStore) Save(ctx context.Context, key string, value interface{}) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, key, value)
}

func run(date string, minutes, hr int) WorkoutInput {
	return WorkoutInput{Date: date, Type: domain.WorkoutRunning, DurationMinutes: minutes, HeartRate: hr, BodyTemp: 39.5}
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.auth.Register(ctx, "Ann", "ann@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, today, user.CreatedAt)

	_, err = f.auth.Register(ctx, "Ann 2", "ANN@example.com", "another password")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, logged, err := f.auth.Login(ctx, "ann@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(f.auth.GetJWTSecret()), nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = f.auth.Login(ctx, "ann@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = f.auth.Login(ctx, "bob@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuth_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), "", "not-an-email", "short")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProfile_DefaultSaveOverview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfile(), p)

	ov, err := f.profiles.Overview(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 24.2, ov.BMI)
	assert.Equal(t, "Normal weight", ov.BMICategory)
	assert.InDelta(t, 84.0, ov.ProteinTargetG, 1e-9)
	assert.Equal(t, ov.DailyNeeds.Calories, ov.TargetCalories, "maintain weight keeps maintenance calories")

	bad := domain.DefaultProfile()
	bad.HeightCm = 0
	_, err = f.profiles.Save(ctx, "u1", bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	p.WeightKg = 80
	p.WeightGoal = domain.WeightGoalLose
	_, err = f.profiles.Save(ctx, "u1", p)
	require.NoError(t, err)

	ov, err = f.profiles.Overview(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, ov.Profile.WeightKg)
	assert.InDelta(t, ov.DailyNeeds.Calories-500, ov.TargetCalories, 1e-9)
}

func TestWorkout_LogUsesFallbackAndAdvancesGoals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	countGoal, err := f.goals.Create(ctx, "u1", GoalInput{Name: "Two runs", Type: domain.GoalWorkoutCount, Target: 2, TargetDate: "2026-12-31"})
	require.NoError(t, err)
	_, err = f.goals.Create(ctx, "u1", GoalInput{Name: "Burn", Type: domain.GoalCaloriesBurned, Target: 1000, TargetDate: "2026-12-31"})
	require.NoError(t, err)

	first, err := f.workouts.LogWorkout(ctx, "u1", run("2026-10-10", 30, 120))
	require.NoError(t, err)
	// default profile: 30 years, male -> 30 * 60 * 0.0175 * 1.2 * 0.95
	assert.Equal(t, 35.91, first.Entry.CaloriesBurned)
	assert.Equal(t, estimator.SourceFallback, first.Source)
	assert.Empty(t, first.CompletedGoals)

	second, err := f.workouts.LogWorkout(ctx, "u1", run("2026-10-12", 45, 130))
	require.NoError(t, err)
	require.Len(t, second.CompletedGoals, 1)
	assert.Equal(t, countGoal.ID, second.CompletedGoals[0].ID)
	assert.Equal(t, "2026-10-12", second.CompletedGoals[0].CompletionDate)

	all, err := f.goals.List(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.GoalCompleted, all[0].Status)
	assert.Equal(t, 2.0, all[0].Current)
	assert.InDelta(t, first.Entry.CaloriesBurned+second.Entry.CaloriesBurned, all[1].Current, 1e-9)
	assert.Equal(t, domain.GoalActive, all[1].Status)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CounterWorkoutsLogged))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterGoalsCompleted))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CounterEstimates.WithLabelValues(estimator.SourceFallback)))
}

func TestWorkout_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.workouts.LogWorkout(context.Background(), "u1", run("2026-10-10", 30, 250))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "heartRate", verr.Errors[0].Field)

	history, err := f.workouts.History(context.Background(), "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWorkout_DefaultDateHistoryDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.workouts.LogWorkout(ctx, "u1", run("2026-10-15", 20, 110))
	require.NoError(t, err)
	_, err = f.workouts.LogWorkout(ctx, "u1", run("2026-09-01", 20, 110))
	require.NoError(t, err)
	logged, err := f.workouts.LogWorkout(ctx, "u1", run("", 20, 110))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", logged.Entry.Date)

	week, err := f.workouts.History(ctx, "u1", 7)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, "2026-10-15", week[0].Date)

	all, err := f.workouts.History(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-09-01", all[0].Date)

	require.NoError(t, f.workouts.Delete(ctx, "u1", logged.Entry.ID))
	assert.ErrorIs(t, f.workouts.Delete(ctx, "u1", logged.Entry.ID), ErrWorkoutNotFound)

	all, err = f.workouts.History(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWorkout_ConcurrentLogsKeepEveryIncrement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.goals.Create(ctx, "u1", GoalInput{Name: "Many", Type: domain.GoalWorkoutCount, Target: 1000, TargetDate: "2027-01-01"})
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.workouts.LogWorkout(ctx, "u1", run("2026-10-17", 10, 100))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := f.workouts.History(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Len(t, history, n)

	active, err := f.goals.List(ctx, "u1", domain.GoalActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, float64(n), active[0].Current)
	assert.Equal(t, 0, f.locks.size())
}

func TestWorkout_Estimate(t *testing.T) {
	f := newFixture(t)
	est, err := f.workouts.Estimate(context.Background(), "u1", EstimateInput{DurationMinutes: 30, HeartRate: 120, BodyTemp: 39})
	require.NoError(t, err)
	assert.Equal(t, estimator.Estimate{Calories: 35.91, Source: estimator.SourceFallback}, est)

	_, err = f.workouts.Estimate(context.Background(), "u1", EstimateInput{DurationMinutes: 0, HeartRate: 10, BodyTemp: 50})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)
}

func TestNutrition_LogHistoryDaily(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	entry, err := f.nutrition.LogMeal(ctx, "u1", MealInput{
		Date: "2026-10-17", MealType: domain.MealBreakfast, FoodName: "Oats",
		Calories: 150, ProteinG: 5, CarbsG: 27, FatG: 3, ServingSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, entry.Calories)
	assert.Equal(t, 54.0, entry.CarbsG)
	assert.NotEmpty(t, entry.ID)

	_, err = f.nutrition.LogMeal(ctx, "u1", MealInput{MealType: domain.MealDinner, FoodName: "Soup", Calories: 400})
	require.NoError(t, err)
	_, err = f.nutrition.LogMeal(ctx, "u1", MealInput{Date: "2026-10-17", MealType: domain.MealSnack, FoodName: "Apple", Calories: 95, CarbsG: 25})
	require.NoError(t, err)

	_, err = f.nutrition.LogMeal(ctx, "u1", MealInput{MealType: "Brunch", FoodName: "?", Calories: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	daily, err := f.nutrition.Daily(ctx, "u1", 7)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, timeseries.DailyNutrition{Date: "2026-10-17", Calories: 395, ProteinG: 10, CarbsG: 79, FatG: 6}, daily[0])
	assert.Equal(t, "2026-10-18", daily[1].Date)

	require.NoError(t, f.nutrition.Delete(ctx, "u1", entry.ID))
	assert.ErrorIs(t, f.nutrition.Delete(ctx, "u1", entry.ID), ErrMealNotFound)
	history, err := f.nutrition.History(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.CounterMealsLogged))
}

func TestGoals_ManualUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	g, err := f.goals.Create(ctx, "u1", GoalInput{Name: "Lose", Type: domain.GoalWeight, Target: 5, TargetDate: "2027-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", g.StartDate)
	assert.Equal(t, "kg", g.Unit)

	_, err = f.goals.Create(ctx, "u1", GoalInput{Name: "Lose", Type: domain.GoalWeight, Target: 9, TargetDate: "2027-03-01"})
	assert.ErrorIs(t, err, goals.ErrDuplicateGoal)

	g, err = f.goals.Increment(ctx, "u1", goals.ByID(g.ID), 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, g.Current)

	g, err = f.goals.SetValue(ctx, "u1", goals.ByNameAndDate("Lose", "2027-03-01"), 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, g.Current)

	g, err = f.goals.Increment(ctx, "u1", goals.ByID(g.ID), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, g.Status)
	assert.Equal(t, "2026-10-18", g.CompletionDate)

	_, err = f.goals.Increment(ctx, "u1", goals.ByID(g.ID), 1)
	assert.ErrorIs(t, err, goals.ErrGoalCompleted)

	_, err = f.goals.Complete(ctx, "u1", goals.ByID("missing"))
	assert.ErrorIs(t, err, goals.ErrGoalNotFound)

	completed, err := f.goals.List(ctx, "u1", domain.GoalCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
	active, err := f.goals.List(ctx, "u1", domain.GoalActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, f.goals.Delete(ctx, "u1", goals.ByNameAndDate("Nope", "2027-03-01")), goals.ErrGoalNotFound)
	all, err := f.goals.List(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed delete leaves the collection unchanged")

	require.NoError(t, f.goals.Delete(ctx, "u1", goals.ByID(g.ID)))
	all, err = f.goals.List(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGoals_LegacyGoalsGetStableIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	legacy := []domain.Goal{
		{Name: "Old", Type: domain.GoalCustom, Target: 3, StartDate: "2026-01-01", TargetDate: "2026-12-01", Status: domain.GoalActive},
	}
	require.NoError(t, repository.NewGoalRepository(f.store).Replace(ctx, "u1", legacy))

	first, err := f.goals.List(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.NotEmpty(t, first[0].ID)

	second, err := f.goals.List(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)

	_, err = f.goals.Increment(ctx, "u1", goals.ByID(first[0].ID), 1)
	assert.NoError(t, err)
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.analytics.Trend(ctx, "u1", timeseries.MetricDuration, timeseries.AllTime)
	assert.ErrorIs(t, err, ErrInsufficientData)

	for i, d := range []string{"2026-10-06", "2026-10-08", "2026-10-10", "2026-10-13", "2026-10-15"} {
		_, err := f.workouts.LogWorkout(ctx, "u1", run(d, 20+10*i, 120))
		require.NoError(t, err)
	}
	_, err = f.nutrition.LogMeal(ctx, "u1", MealInput{Date: "2026-10-15", MealType: domain.MealLunch, FoodName: "Rice", Calories: 2000})
	require.NoError(t, err)

	_, err = f.analytics.Trend(ctx, "u1", "steps", timeseries.AllTime)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	tr, err := f.analytics.Trend(ctx, "u1", timeseries.MetricDuration, timeseries.AllTime)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 30, 40, 50, 60}, tr.Values)
	assert.Equal(t, "2026-10-06", tr.Dates[0])
	assert.Equal(t, timeseries.TrendPositive, tr.Trend.Direction)
	assert.InDeltaSlice(t, []float64{70, 80, 90, 100, 110}, tr.Forecast, 1e-9)
	assert.Equal(t, []float64{30, 40, 50}, tr.MovingAverage)

	energy, err := f.analytics.EnergyBalance(ctx, "u1", DefaultBalanceDays)
	require.NoError(t, err)
	require.Len(t, energy.Days, 5)
	last := energy.Days[4]
	assert.Equal(t, "2026-10-15", last.Date)
	assert.InDelta(t, 2000-last.Burned, last.Net, 1e-9)
	assert.Equal(t, 5, energy.Summary.Days)

	cons, err := f.analytics.Consistency(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	// 5 workouts over 10 days beat 3 per week, so the score is capped
	assert.Equal(t, 100.0, cons.Score)
	assert.Equal(t, timeseries.ConsistencyExcellent, cons.Level)
	assert.Equal(t, 5, cons.Workouts)
	assert.Equal(t, 3, cons.TargetWeeklyFrequency)

	patterns, err := f.analytics.Patterns(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Equal(t, []timeseries.TypeCount{{Type: domain.WorkoutRunning, Count: 5}}, patterns.ByType)
	require.Len(t, patterns.ByWeekday, 7)
	assert.Equal(t, WeekdayCount{Day: "Tuesday", Count: 2}, patterns.ByWeekday[1])
	assert.Equal(t, 40.0, patterns.Duration.Average)
}

func TestUserLocks(t *testing.T) {
	locks := NewUserLocks()
	unlock := locks.Lock("a")
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		u := locks.Lock("a")
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(20 * time.Millisecond):
	}

	// other keys are independent
	locks.Lock("b")()

	unlock()
	<-acquired
	assert.Equal(t, 0, locks.size())
}

func TestAnalytics_ConsistencyZeroFrequency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := domain.DefaultProfile()
	p.WorkoutFrequency = 0
	_, err := f.profiles.Save(ctx, "u1", p)
	require.NoError(t, err)
	for _, d := range []string{"2026-10-10", "2026-10-12", "2026-10-14"} {
		_, err := f.workouts.LogWorkout(ctx, "u1", run(d, 30, 120))
		require.NoError(t, err)
	}

	cons, err := f.analytics.Consistency(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cons.Score)
	assert.Equal(t, timeseries.ConsistencyLow, cons.Level)
	assert.Equal(t, 0, cons.TargetWeeklyFrequency)
	assert.Equal(t, 3, cons.Workouts)
}

func TestLogWorkout_GoalsSaveFails(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.NewStore()}
	f := newFixtureWithStore(t, store)

	_, err := f.goals.Create(ctx, "u1", GoalInput{Name: "Five runs", Type: domain.GoalWorkoutCount, Target: 5, TargetDate: "2026-12-31"})
	require.NoError(t, err)

	store.failKey = repository.GoalsKey("u1")
	_, err = f.workouts.LogWorkout(ctx, "u1", run("2026-10-17", 30, 120))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	history, err := f.workouts.History(ctx, "u1", timeseries.AllTime)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.CounterWorkoutsLogged))
}

func TestLogWorkout_HistorySaveFailsRestoresGoals(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.NewStore()}
	f := newFixtureWithStore(t, store)

	_, err := f.goals.Create(ctx, "u1", GoalInput{Name: "One run", Type: domain.GoalWorkoutCount, Target: 1, TargetDate: "2026-12-31"})
	require.NoError(t, err)

	store.failKey = repository.WorkoutHistoryKey("u1")
	_, err = f.workouts.LogWorkout(ctx, "u1", run("2026-10-17", 30, 120))
	require.Error(t, err)

	stored, err := f.goals.List(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 0.0, stored[0].Current)
	assert.Equal(t, domain.GoalActive, stored[0].Status)
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.CounterWorkoutsLogged))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.CounterGoalsCompleted))
}
