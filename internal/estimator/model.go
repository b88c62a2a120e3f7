package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"fitpro/tracker/internal/storage"
)

// ModelVersion is the artifact format version written by SaveModel.
const ModelVersion = 1

var (
	ErrModelNotFound   = errors.New("calorie model artifact not found")
	ErrCorruptModel    = errors.New("calorie model artifact is corrupt")
	ErrFeatureMismatch = errors.New("feature row does not match model")
	ErrSingular        = errors.New("training data is degenerate")
)

// LinearModel is a persisted linear regression over named features.
type LinearModel struct {
	Version      int       `json:"version"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	TrainedAt    time.Time `json:"trained_at"`
	Samples      int       `json:"samples"`
}

func (m *LinearModel) FeatureNames() []string {
	return m.Features
}

func (m *LinearModel) Predict(row []float64) (float64, error) {
	if len(row) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrFeatureMismatch, len(row), len(m.Coefficients))
	}
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * row[i]
	}
	return y, nil
}

func (m *LinearModel) validate() error {
	if m.Version != ModelVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptModel, m.Version)
	}
	if len(m.Features) == 0 || len(m.Features) != len(m.Coefficients) {
		return fmt.Errorf("%w: %d features, %d coefficients", ErrCorruptModel, len(m.Features), len(m.Coefficients))
	}
	for _, c := range append([]float64{m.Intercept}, m.Coefficients...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: non-finite coefficient", ErrCorruptModel)
		}
	}
	return nil
}

// DecodeModel parses and validates an artifact.
func DecodeModel(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadModel reads the artifact at key. A missing object is ErrModelNotFound.
func LoadModel(ctx context.Context, store storage.FileStorage, key string) (*LinearModel, error) {
	data, err := store.GetObject(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", key, err)
	}
	return DecodeModel(data)
}

// SaveModel writes the artifact at key.
func SaveModel(ctx context.Context, store storage.FileStorage, key string, m *LinearModel) error {
	if err := m.validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return store.PutObject(ctx, key, data, storage.ContentTypeJSON)
}

// FitLinear fits ordinary least squares with an intercept by solving the
// normal equations. x holds one row per sample in the order of features.
func FitLinear(features []string, x [][]float64, y []float64) (*LinearModel, error) {
	p := len(features) + 1
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrFeatureMismatch, len(x), len(y))
	}
	if len(x) < p {
		return nil, fmt.Errorf("%w: %d samples for %d parameters", ErrSingular, len(x), p)
	}

	// a = XᵀX, b = Xᵀy with a leading column of ones
	a := make([][]float64, p)
	for i := range a {
		a[i] = make([]float64, p)
	}
	b := make([]float64, p)
	xi := make([]float64, p)
	for n, row := range x {
		if len(row) != len(features) {
			return nil, fmt.Errorf("%w: row %d has %d values", ErrFeatureMismatch, n, len(row))
		}
		xi[0] = 1
		copy(xi[1:], row)
		for i := 0; i < p; i++ {
			b[i] += xi[i] * y[n]
			for j := 0; j < p; j++ {
				a[i][j] += xi[i] * xi[j]
			}
		}
	}

	beta, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	return &LinearModel{
		Version:      ModelVersion,
		Features:     append([]string(nil), features...),
		Coefficients: beta[1:],
		Intercept:    beta[0],
		Samples:      len(x),
	}, nil
}

// solve runs Gaussian elimination with partial pivoting. a and b are modified.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	scale := 0.0
	for _, row := range a {
		for _, v := range row {
			scale = math.Max(scale, math.Abs(v))
		}
	}
	tol := 1e-12 * math.Max(1, scale)

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < tol {
			return nil, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	out := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		s := b[r]
		for c := r + 1; c < n; c++ {
			s -= a[r][c] * out[c]
		}
		out[r] = s / a[r][r]
	}
	return out, nil
}
