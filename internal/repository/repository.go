package repository

import (
	"context"
	"strings"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("already exists")
	// ErrCorrupt wraps decode failures of a stored value.
	ErrCorrupt = RepositoryError("stored value is corrupt")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Store is a keyed document store. Each key holds one JSON/BSON-encodable
// value that is replaced as a whole on every save.
type Store interface {
	// Load decodes the value stored under key into dst. found is false when
	// the key does not exist. Decode failures wrap ErrCorrupt.
	Load(ctx context.Context, key string, dst interface{}) (found bool, err error)
	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value interface{}) error
	Close() error
}

// Store keys.
func WorkoutHistoryKey(userID string) string { return "users/" + userID + "/workout_history" }
func NutritionLogsKey(userID string) string  { return "users/" + userID + "/nutrition_logs" }
func GoalsKey(userID string) string          { return "users/" + userID + "/goals" }
func ProfileKey(userID string) string        { return "users/" + userID + "/profile" }

// AccountKey is case-insensitive on the email.
func AccountKey(email string) string {
	return "accounts/" + strings.ToLower(strings.TrimSpace(email))
}
