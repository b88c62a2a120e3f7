// Package app builds the backends selected by the configuration. It is shared
// by the server and the fitctl command.
package app

import (
	"context"
	"fmt"
	"time"

	"fitpro/tracker/internal/config"
	"fitpro/tracker/internal/estimator"
	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/repository/memory"
	"fitpro/tracker/internal/repository/mongo"
	"fitpro/tracker/internal/repository/sqlite"
	"fitpro/tracker/internal/storage"

	log "github.com/sirupsen/logrus"
)

// OpenStore connects the keyed document store named by cfg.Driver. For
// MongoDB the collection indexes are created in the background.
func OpenStore(cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureDocumentIndexes(ctx, client.Database(cfg.Name).Collection(mongo.DocumentCollectionName))
		}()
		return mongo.NewStore(client, cfg.Name), nil
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return st, nil
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// OpenFileStorage returns the object storage for model artifacts and datasets.
func OpenFileStorage(ctx context.Context, cfg config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		return storage.NewS3Storage(ctx, cfg.S3)
	case config.StorageLocal:
		return storage.NewLocalStorage(cfg.Storage.LocalDir)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// NewEstimator wires the calorie estimator and its dataset trainer to files.
func NewEstimator(cfg config.EstimatorConfig, files storage.FileStorage, m *metrics.Manager) *estimator.Estimator {
	return estimator.New(files, estimator.Config{
		ModelKey:       cfg.ModelKey,
		TrainIfMissing: cfg.TrainIfMissing,
	},
		estimator.WithTrainer(estimator.NewTrainer(files, cfg.ExerciseKey, cfg.CaloriesKey)),
		estimator.WithMetrics(m),
	)
}
