package estimator

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"fitpro/tracker/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Dataset columns.
const (
	colUserID    = "User_ID"
	colGender    = "Gender"
	colAge       = "Age"
	colHeight    = "Height"
	colWeight    = "Weight"
	colDuration  = "Duration"
	colHeartRate = "Heart_Rate"
	colBodyTemp  = "Body_Temp"
	colCalories  = "Calories"
)

// ErrTrainingUnavailable means a training dataset is missing from storage.
var ErrTrainingUnavailable = errors.New("training datasets unavailable")

// Trainer fits a LinearModel from an exercise dataset joined with a
// calories dataset on User_ID.
type Trainer struct {
	store       storage.FileStorage
	exerciseKey string
	caloriesKey string
	now         func() time.Time
}

func NewTrainer(store storage.FileStorage, exerciseKey, caloriesKey string) *Trainer {
	return &Trainer{
		store:       store,
		exerciseKey: exerciseKey,
		caloriesKey: caloriesKey,
		now:         time.Now,
	}
}

func (t *Trainer) Train(ctx context.Context) (*LinearModel, error) {
	exercise, err := t.fetch(ctx, t.exerciseKey)
	if err != nil {
		return nil, err
	}
	calories, err := t.fetch(ctx, t.caloriesKey)
	if err != nil {
		return nil, err
	}

	x, y, err := joinDatasets(bytes.NewReader(exercise), bytes.NewReader(calories))
	if err != nil {
		return nil, err
	}

	model, err := FitLinear(FeatureOrder, x, y)
	if err != nil {
		return nil, err
	}
	model.TrainedAt = t.now().UTC()

	log.Infof("calorie model trained on %d samples, intercept %.3f", model.Samples, model.Intercept)
	return model, nil
}

func (t *Trainer) fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := t.store.GetObject(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTrainingUnavailable, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", key, err)
	}
	return data, nil
}

type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader, required ...string) (*table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty dataset")
	}
	t := &table{cols: make(map[string]int), rows: records[1:]}
	for i, name := range records[0] {
		t.cols[strings.TrimSpace(name)] = i
	}
	for _, c := range required {
		if _, ok := t.cols[c]; !ok {
			return nil, fmt.Errorf("missing column %s", c)
		}
	}
	return t, nil
}

func (t *table) float(row []string, col string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[t.cols[col]]), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

// joinDatasets inner-joins the exercise and calories tables on User_ID and
// builds feature rows in FeatureOrder. Rows that fail to parse are skipped.
func joinDatasets(exercise, calories io.Reader) ([][]float64, []float64, error) {
	ex, err := readTable(exercise, colUserID, colGender, colAge, colHeight, colWeight, colDuration, colHeartRate, colBodyTemp)
	if err != nil {
		return nil, nil, fmt.Errorf("exercise dataset: %w", err)
	}
	cal, err := readTable(calories, colUserID, colCalories)
	if err != nil {
		return nil, nil, fmt.Errorf("calories dataset: %w", err)
	}

	targets := make(map[string][]float64, len(cal.rows))
	for _, row := range cal.rows {
		v, err := cal.float(row, colCalories)
		if err != nil {
			continue
		}
		id := strings.TrimSpace(row[cal.cols[colUserID]])
		targets[id] = append(targets[id], v)
	}

	var (
		x       [][]float64
		y       []float64
		skipped int
	)
	for _, row := range ex.rows {
		id := strings.TrimSpace(row[ex.cols[colUserID]])
		ys, ok := targets[id]
		if !ok {
			continue
		}
		features, err := exerciseFeatures(ex, row)
		if err != nil {
			skipped++
			continue
		}
		for _, v := range ys {
			x = append(x, features)
			y = append(y, v)
		}
	}
	if skipped > 0 {
		log.Warnf("skipped %d malformed exercise rows", skipped)
	}
	return x, y, nil
}

func exerciseFeatures(t *table, row []string) ([]float64, error) {
	values := make(map[string]float64, len(FeatureOrder))
	for col, name := range map[string]string{
		colAge:       FeatureAge,
		colDuration:  FeatureDuration,
		colHeartRate: FeatureHeartRate,
		colBodyTemp:  FeatureBodyTemp,
	} {
		v, err := t.float(row, col)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}

	height, err := t.float(row, colHeight)
	if err != nil {
		return nil, err
	}
	weight, err := t.float(row, colWeight)
	if err != nil {
		return nil, err
	}
	if height <= 0 {
		return nil, errors.New("non-positive height")
	}
	h := height / 100
	values[FeatureBMI] = math.Round(weight/(h*h)*100) / 100

	if strings.EqualFold(strings.TrimSpace(row[t.cols[colGender]]), "male") {
		values[FeatureGenderMale] = 1
	}
	return BuildRow(FeatureOrder, values), nil
}
