// Package estimator predicts calories burned for a workout. A trained
// regression model is used when one is loaded; otherwise a deterministic
// heart-rate formula answers.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/storage"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Canonical feature names, in model column order.
const (
	FeatureAge        = "Age"
	FeatureBMI        = "BMI"
	FeatureDuration   = "Duration"
	FeatureHeartRate  = "Heart_Rate"
	FeatureBodyTemp   = "Body_Temp"
	FeatureGenderMale = "Gender_male"
)

// FeatureOrder is the column order the trainer produces.
var FeatureOrder = []string{
	FeatureAge, FeatureBMI, FeatureDuration, FeatureHeartRate, FeatureBodyTemp, FeatureGenderMale,
}

// Sources reported with each estimate.
const (
	SourceModel    = metrics.SourceModel
	SourceFallback = metrics.SourceFallback
)

var (
	// ErrUnavailable means the model path cannot answer: no model is loaded,
	// or the loaded model failed or produced a non-finite value.
	ErrUnavailable = errors.New("calorie model unavailable")
)

// Features are the inputs of one estimate.
type Features struct {
	Age         float64
	BMI         float64
	DurationMin float64
	HeartRate   float64
	BodyTemp    float64
	IsMale      bool
}

// Values maps the features onto canonical names.
func (f Features) Values() map[string]float64 {
	male := 0.0
	if f.IsMale {
		male = 1
	}
	return map[string]float64{
		FeatureAge:        f.Age,
		FeatureBMI:        f.BMI,
		FeatureDuration:   f.DurationMin,
		FeatureHeartRate:  f.HeartRate,
		FeatureBodyTemp:   f.BodyTemp,
		FeatureGenderMale: male,
	}
}

// BuildRow orders values by names. Names the estimator does not know get 0.
func BuildRow(names []string, values map[string]float64) []float64 {
	row := make([]float64, len(names))
	for i, n := range names {
		row[i] = values[n]
	}
	return row
}

// Fallback is the formula used whenever no model can answer:
//
//	max(0, duration * (hr - 60) * 0.0175 * genderFactor * ageFactor)
//
// genderFactor is 1.2 for male and 1.0 otherwise; ageFactor decays by
// 0.5% per year above 20.
func Fallback(f Features) float64 {
	genderFactor := 1.0
	if f.IsMale {
		genderFactor = 1.2
	}
	ageFactor := 1.0
	if f.Age > 20 {
		ageFactor = 1 - (f.Age-20)*0.005
	}
	cal := f.DurationMin * (f.HeartRate - 60) * 0.0175 * genderFactor * ageFactor
	if cal < 0 || math.IsNaN(cal) {
		return 0
	}
	return cal
}

// Regressor is a trained model that predicts calories from a feature row.
type Regressor interface {
	// FeatureNames lists the expected columns in row order.
	FeatureNames() []string
	Predict(row []float64) (float64, error)
}

// ModelTrainer produces a new model, e.g. by fitting the training datasets.
type ModelTrainer interface {
	Train(ctx context.Context) (*LinearModel, error)
}

// Estimate is the result of Estimator.Estimate.
type Estimate struct {
	Calories float64 `json:"calories"`
	Source   string  `json:"source"`
}

// Config controls where the model artifact lives and whether a missing
// artifact triggers training.
type Config struct {
	ModelKey       string
	TrainIfMissing bool
}

type Option func(*Estimator)

// WithTrainer sets the trainer used by Init when the artifact is missing.
func WithTrainer(t ModelTrainer) Option {
	return func(e *Estimator) { e.trainer = t }
}

// WithMetrics records estimates and model availability.
func WithMetrics(m *metrics.Manager) Option {
	return func(e *Estimator) { e.metrics = m }
}

// WithRegressor preloads a model, e.g. one served by another process.
func WithRegressor(r Regressor) Option {
	return func(e *Estimator) { e.setModel(r) }
}

// Estimator is safe for concurrent use.
type Estimator struct {
	store   storage.FileStorage
	cfg     Config
	trainer ModelTrainer
	metrics *metrics.Manager

	group     singleflight.Group
	mu        sync.RWMutex
	model     Regressor
	available atomic.Bool
}

// New creates an estimator. Until Init succeeds (or a regressor is given)
// every estimate comes from Fallback.
func New(store storage.FileStorage, cfg Config, opts ...Option) *Estimator {
	e := &Estimator{store: store, cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether a model is loaded.
func (e *Estimator) Available() bool {
	return e.available.Load()
}

// Init loads the persisted model. When no artifact exists and training is
// enabled it trains once and persists the result. Concurrent calls share a
// single attempt; after a failure a later call tries again.
func (e *Estimator) Init(ctx context.Context) error {
	if e.Available() {
		return nil
	}
	_, err, _ := e.group.Do("init", func() (interface{}, error) {
		if e.Available() {
			return nil, nil
		}
		model, err := e.loadOrTrain(ctx)
		if err != nil {
			return nil, err
		}
		e.setModel(model)
		return nil, nil
	})
	return err
}

func (e *Estimator) loadOrTrain(ctx context.Context) (*LinearModel, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: no model storage configured", ErrUnavailable)
	}
	model, err := LoadModel(ctx, e.store, e.cfg.ModelKey)
	if err == nil {
		log.Infof("calorie model loaded from %s (%d samples, trained %s)",
			e.cfg.ModelKey, model.Samples, model.TrainedAt.Format(time.RFC3339))
		return model, nil
	}
	if !errors.Is(err, ErrModelNotFound) || !e.cfg.TrainIfMissing || e.trainer == nil {
		return nil, err
	}

	log.Infof("no calorie model at %s, training a new one", e.cfg.ModelKey)
	start := time.Now()
	model, err = e.trainer.Train(ctx)
	if err != nil {
		return nil, fmt.Errorf("train calorie model: %w", err)
	}
	if e.metrics != nil {
		e.metrics.HistTrainingDuration.Observe(time.Since(start).Seconds())
	}
	if err := SaveModel(ctx, e.store, e.cfg.ModelKey, model); err != nil {
		// the fitted model is still usable for this process
		log.Errorf("persist calorie model: %s", err)
	}
	return model, nil
}

// Reset unloads the current model and deletes its artifact so the next
// Init retrains.
func (e *Estimator) Reset(ctx context.Context) error {
	e.setModel(nil)
	if e.store == nil {
		return nil
	}
	return e.store.DeleteObject(ctx, e.cfg.ModelKey)
}

func (e *Estimator) setModel(r Regressor) {
	e.mu.Lock()
	e.model = r
	e.mu.Unlock()
	e.available.Store(r != nil)
	e.metrics.SetModelAvailable(r != nil)
}

func (e *Estimator) current() Regressor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Predict runs the model path only. The result is clamped at 0.
func (e *Estimator) Predict(f Features) (float64, error) {
	model := e.current()
	if model == nil {
		return 0, ErrUnavailable
	}
	row := BuildRow(model.FeatureNames(), f.Values())
	y, err := model.Predict(row)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: non-finite prediction", ErrUnavailable)
	}
	return math.Max(0, y), nil
}

// Estimate never fails: when the model cannot answer the fallback formula does.
func (e *Estimator) Estimate(f Features) Estimate {
	y, err := e.Predict(f)
	if err == nil {
		e.metrics.ObserveEstimate(SourceModel)
		return Estimate{Calories: y, Source: SourceModel}
	}
	if e.Available() {
		log.Warnf("calorie model failed, using fallback formula: %s", err)
	}
	e.metrics.ObserveEstimate(SourceFallback)
	return Estimate{Calories: Fallback(f), Source: SourceFallback}
}
