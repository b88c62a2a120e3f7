package repository_test

import (
	"context"
	"testing"
	"time"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "users/u1/workout_history", repository.WorkoutHistoryKey("u1"))
	assert.Equal(t, "users/u1/nutrition_logs", repository.NutritionLogsKey("u1"))
	assert.Equal(t, "users/u1/goals", repository.GoalsKey("u1"))
	assert.Equal(t, "users/u1/profile", repository.ProfileKey("u1"))
	assert.Equal(t, "accounts/ann@example.com", repository.AccountKey(" Ann@Example.com "))
}

func TestWorkoutRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewWorkoutRepository(memory.NewStore())

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	entries := []domain.WorkoutEntry{
		{ID: "w1", Date: "2026-10-01", Type: domain.WorkoutRunning, DurationMinutes: 30, HeartRate: 140, BodyTemp: 39, CaloriesBurned: 250.5},
		{ID: "w2", Date: "2026-10-02", Type: domain.WorkoutYoga, DurationMinutes: 60, HeartRate: 90, BodyTemp: 37, CaloriesBurned: 80},
	}
	require.NoError(t, repo.Replace(ctx, "u1", entries))

	got, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	other, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGoalRepository_CorruptCollectionIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, repository.GoalsKey("u1"), "not a list"))

	goals, err := repository.NewGoalRepository(store).List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestNutritionRepository_ReplaceNil(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewNutritionRepository(memory.NewStore())
	require.NoError(t, repo.Replace(ctx, "u1", nil))

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.NutritionEntry{}, got)
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := repository.NewProfileRepository(store)

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	p := domain.DefaultProfile()
	p.Name = "Ann"
	p.WeightKg = 61.5
	require.NoError(t, repo.Save(ctx, "u1", p))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, store.Save(ctx, repository.ProfileKey("u2"), []int{1}))
	_, err = repo.Get(ctx, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(memory.NewStore())

	_, err := repo.GetByEmail(ctx, "ann@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	user := &domain.User{
		ID:           "u1",
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, user, got, "password hash survives persistence")

	dup := *user
	dup.ID = "u2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrConflict)

	assert.Error(t, repo.Create(ctx, &domain.User{Email: "x@example.com"}))
}
