package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"farm-assist/internal/models"
)

// ErrWeatherUnavailable signals that the upstream weather fetch failed.
// Non-fatal: callers surface a clearly labeled "no adjustment possible"
// outcome. Retries, if any, belong to the weather collaborator.
var ErrWeatherUnavailable = errors.New("weather forecast unavailable")

// ForecastProvider is the external weather collaborator. Coordinates and
// horizon are its configuration, not part of this contract.
type ForecastProvider interface {
	GetForecast(ctx context.Context) (*models.WeatherSnapshot, error)
}

// Predictor produces weather-adjusted price predictions. With a Scorer it
// runs the trained model per query; without one it falls back to the fixed
// mock price table.
type Predictor struct {
	weather ForecastProvider
	scorer  Scorer
	costs   CostProvider
}

func NewPredictor(weather ForecastProvider, scorer Scorer, costs CostProvider) *Predictor {
	if costs == nil {
		costs = StaticCosts{}
	}
	return &Predictor{
		weather: weather,
		scorer:  scorer,
		costs:   costs,
	}
}

// HasModel reports whether a trained scorer is loaded. When false,
// PredictBatch over the mock price table is the only available mode.
func (p *Predictor) HasModel() bool {
	return p.scorer != nil
}

// PredictSingle fetches a fresh forecast and predicts the price for one
// query. The weather fetch happens first: on failure no features are built
// and the model is never invoked.
func (p *Predictor) PredictSingle(ctx context.Context, query models.PriceQuery) (*models.PricePrediction, error) {
	snap, err := p.weather.GetForecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	return p.PredictWithSnapshot(query, snap)
}

// PredictWithSnapshot predicts against an already fetched snapshot, letting
// callers reuse one forecast across several crops.
func (p *Predictor) PredictWithSnapshot(query models.PriceQuery, snap *models.WeatherSnapshot) (*models.PricePrediction, error) {
	if !snap.Usable() {
		return nil, fmt.Errorf("%w: %s", ErrWeatherUnavailable, snap.Message)
	}
	if p.scorer == nil {
		return nil, ErrModelUnavailable
	}

	features := BuildFeatures(query, snap, p.costs)
	basePrice := p.scorer.Score(features)
	impact := ClassifyImpact(snap)

	return &models.PricePrediction{
		Crop:          query.Crop,
		Region:        query.Region,
		Date:          query.Date,
		BasePrice:     round2(basePrice),
		AdjustedPrice: round2(basePrice * impact.Multiplier()),
	}, nil
}

// Mock price table used when no trained model is present. Fixed base prices
// over a one-week window, cycling through the known market stalls.
var (
	mockBasePrices = []float64{40, 41, 42, 43, 44, 45, 42}
	mockMarkets    = []string{"Co-Op", "Distributor", "Local Market"}
)

// PredictBatch applies the weather multiplier to the mock price table. It
// tolerates a failed weather fetch: the impact degrades to unavailable and
// prices pass through unadjusted.
func (p *Predictor) PredictBatch(ctx context.Context) ([]models.PricePrediction, Impact) {
	snap, err := p.weather.GetForecast(ctx)
	if err != nil {
		snap = &models.WeatherSnapshot{Status: models.WeatherStatusError, Message: err.Error()}
	}
	return p.PredictBatchWithSnapshot(snap), ClassifyImpact(snap)
}

// PredictBatchWithSnapshot is the snapshot-reusing variant of PredictBatch.
func (p *Predictor) PredictBatchWithSnapshot(snap *models.WeatherSnapshot) []models.PricePrediction {
	impact := ClassifyImpact(snap)
	multiplier := impact.Multiplier()

	start := time.Now().Truncate(24 * time.Hour)
	predictions := make([]models.PricePrediction, 0, len(mockBasePrices))
	for i, basePrice := range mockBasePrices {
		predictions = append(predictions, models.PricePrediction{
			Market:        mockMarkets[i%len(mockMarkets)],
			Date:          start.AddDate(0, 0, i),
			BasePrice:     round2(basePrice),
			AdjustedPrice: round2(basePrice * multiplier),
		})
	}
	return predictions
}

// round2 rounds to two decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
