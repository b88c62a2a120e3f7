package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage and database drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	StorageS3    = "s3"
	StorageLocal = "local"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Estimator EstimatorConfig `mapstructure:"estimator"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the keyed document store backend.
type DatabaseConfig struct {
	Driver     string        `mapstructure:"driver"`
	URI        string        `mapstructure:"uri"`
	Name       string        `mapstructure:"name"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects where model artifacts and training datasets live.
type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	LocalDir string `mapstructure:"local_dir"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration.
// Expiration is parsed from a duration string ("60m", "1h").
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LogConfig configures logrus. An empty File logs to stdout only.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type EstimatorConfig struct {
	ModelKey       string        `mapstructure:"model_key"`
	ExerciseKey    string        `mapstructure:"exercise_key"`
	CaloriesKey    string        `mapstructure:"calories_key"`
	TrainIfMissing bool          `mapstructure:"train_if_missing"`
	InitTimeout    time.Duration `mapstructure:"init_timeout"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LoadConfig reads configuration from path/config.yaml and environment
// variables. Nested keys map to env vars with '.' replaced by '_'
// (jwt.expiration -> JWT_EXPIRATION).
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	// a missing file is fine, env vars and defaults may be enough
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitness_tracker")
	v.SetDefault("database.sqlite_path", "tracker.db")
	v.SetDefault("database.timeout", "10s")

	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.local_dir", "data")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("jwt.expiration", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("estimator.model_key", "models/calorie_model.json")
	v.SetDefault("estimator.exercise_key", "datasets/exercise.csv")
	v.SetDefault("estimator.calories_key", "datasets/calories.csv")
	v.SetDefault("estimator.train_if_missing", true)
	v.SetDefault("estimator.init_timeout", "2m")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "fitness_tracker")
}

// Validate reports unknown drivers and missing required values.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case StorageS3:
		if c.S3.BucketName == "" {
			return errors.New("s3.bucket_name is required for the s3 storage driver")
		}
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			return errors.New("storage.local_dir is required for the local storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Estimator.ModelKey == "" {
		return errors.New("estimator.model_key is required")
	}
	return nil
}
