package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"farm-assist/internal/models"
)

// ErrModelUnavailable signals that the scoring artifact is missing or
// corrupt. Fatal at startup; never surfaced per request.
var ErrModelUnavailable = errors.New("price model unavailable")

// Scorer is the opaque scoring function over a feature vector.
type Scorer interface {
	Score(fv models.FeatureVector) float64
}

// Regressor scores feature vectors with a linear model exported from the
// offline training pipeline: a bias, one weight per numeric feature and an
// additive effect per region and crop category. Categories the model never
// saw contribute zero effect; prediction quality is then undefined.
type Regressor struct {
	bias          float64
	weights       map[string]float64
	regionEffects map[string]float64
	cropEffects   map[string]float64
}

type modelArtifact struct {
	Bias          float64            `json:"bias"`
	Weights       map[string]float64 `json:"weights"`
	RegionEffects map[string]float64 `json:"region_effects"`
	CropEffects   map[string]float64 `json:"crop_effects"`
}

// LoadRegressor reads the persisted scoring artifact. Any failure wraps
// ErrModelUnavailable so callers can treat it as fatal.
func LoadRegressor(path string) (*Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading artifact %s: %v", ErrModelUnavailable, path, err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: parsing artifact %s: %v", ErrModelUnavailable, path, err)
	}
	if len(artifact.Weights) == 0 {
		return nil, fmt.Errorf("%w: artifact %s has no feature weights", ErrModelUnavailable, path)
	}

	return &Regressor{
		bias:          artifact.Bias,
		weights:       artifact.Weights,
		regionEffects: artifact.RegionEffects,
		cropEffects:   artifact.CropEffects,
	}, nil
}

// Score computes the base price for a feature vector.
func (r *Regressor) Score(fv models.FeatureVector) float64 {
	score := r.bias
	for name, weight := range r.weights {
		score += weight * fv.Numeric[name]
	}
	score += r.regionEffects[fv.Region]
	score += r.cropEffects[fv.Crop]
	return score
}
