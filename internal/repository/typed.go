package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitpro/tracker/internal/domain"

	log "github.com/sirupsen/logrus"
)

// loadList reads a collection. A missing key is an empty collection; a
// corrupt one is logged and treated as empty so the user can keep working.
func loadList[T any](ctx context.Context, store Store, key string) ([]T, error) {
	var items []T
	found, err := store.Load(ctx, key, &items)
	if errors.Is(err, ErrCorrupt) {
		log.Warnf("discarding corrupt collection %s: %s", key, err)
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found || items == nil {
		return []T{}, nil
	}
	return items, nil
}

func saveList[T any](ctx context.Context, store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := store.Save(ctx, key, items); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// WorkoutRepository persists a user's workout history.
type WorkoutRepository struct {
	store Store
}

func NewWorkoutRepository(store Store) *WorkoutRepository {
	return &WorkoutRepository{store: store}
}

func (r *WorkoutRepository) List(ctx context.Context, userID string) ([]domain.WorkoutEntry, error) {
	return loadList[domain.WorkoutEntry](ctx, r.store, WorkoutHistoryKey(userID))
}

func (r *WorkoutRepository) Replace(ctx context.Context, userID string, entries []domain.WorkoutEntry) error {
	return saveList(ctx, r.store, WorkoutHistoryKey(userID), entries)
}

// NutritionRepository persists a user's meal log.
type NutritionRepository struct {
	store Store
}

func NewNutritionRepository(store Store) *NutritionRepository {
	return &NutritionRepository{store: store}
}

func (r *NutritionRepository) List(ctx context.Context, userID string) ([]domain.NutritionEntry, error) {
	return loadList[domain.NutritionEntry](ctx, r.store, NutritionLogsKey(userID))
}

func (r *NutritionRepository) Replace(ctx context.Context, userID string, entries []domain.NutritionEntry) error {
	return saveList(ctx, r.store, NutritionLogsKey(userID), entries)
}

// GoalRepository persists a user's goal collection.
type GoalRepository struct {
	store Store
}

func NewGoalRepository(store Store) *GoalRepository {
	return &GoalRepository{store: store}
}

func (r *GoalRepository) List(ctx context.Context, userID string) ([]domain.Goal, error) {
	return loadList[domain.Goal](ctx, r.store, GoalsKey(userID))
}

func (r *GoalRepository) Replace(ctx context.Context, userID string, goals []domain.Goal) error {
	return saveList(ctx, r.store, GoalsKey(userID), goals)
}

// ProfileRepository persists the single profile of a user.
type ProfileRepository struct {
	store Store
}

func NewProfileRepository(store Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Get returns ErrNotFound when the user never saved a profile or the stored
// one cannot be decoded.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.UserProfile, error) {
	var p domain.UserProfile
	key := ProfileKey(userID)
	found, err := r.store.Load(ctx, key, &p)
	if errors.Is(err, ErrCorrupt) {
		log.Warnf("discarding corrupt profile %s: %s", key, err)
		return domain.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return domain.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, userID string, p domain.UserProfile) error {
	key := ProfileKey(userID)
	if err := r.store.Save(ctx, key, p); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// account is the stored form of a user. domain.User hides the password
// hash from JSON, so it cannot be persisted as is.
type account struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// UserRepository persists accounts keyed by email.
type UserRepository struct {
	store Store
}

func NewUserRepository(store Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create stores a new account or returns ErrConflict when the email is taken.
// Callers serialize concurrent registrations of the same email.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Email == "" || user.PasswordHash == "" || user.ID == "" {
		return errors.New("user id, email and password hash are required")
	}
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.store.Save(ctx, AccountKey(user.Email), account{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var a account
	found, err := r.store.Load(ctx, AccountKey(email), &a)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &domain.User{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}, nil
}
