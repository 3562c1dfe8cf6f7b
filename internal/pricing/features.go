package pricing

import "farm-assist/internal/models"

// CostProvider supplies the cost-side model inputs. The static
// implementation below stands in for fertilizer, fuel and demand feeds that
// are not available in real time; swapping in a live feed only requires a
// new implementation of this interface.
type CostProvider interface {
	FertilizerCost() float64
	FuelPrice() float64
	MarketDemand() float64
}

// StaticCosts returns the fixed placeholder values the model was trained
// against. A known limitation, not a bug: these are stand-ins for real-time
// cost feeds.
type StaticCosts struct{}

func (StaticCosts) FertilizerCost() float64 { return 30 }
func (StaticCosts) FuelPrice() float64      { return 60 }
func (StaticCosts) MarketDemand() float64   { return 100 }

// Current precipitation above this many mm sets the pest outbreak flag.
// A heuristic proxy for missing pest observations, not a real measurement.
const pestOutbreakPrecipitationMm = 5.0

// BuildFeatures derives the feature vector for one query from the query
// date, the current weather conditions and the cost inputs. It requires a
// usable snapshot; callers must short-circuit on error snapshots before
// getting here. Crop and region pass through without validation against the
// trained category domain (garbage in, garbage out). Pure function.
func BuildFeatures(query models.PriceQuery, snap *models.WeatherSnapshot, costs CostProvider) models.FeatureVector {
	month := int(query.Date.Month())

	pestOutbreak := 0.0
	if snap.Current.Precipitation > pestOutbreakPrecipitationMm {
		pestOutbreak = 1.0
	}

	rainfall := snap.Current.Precipitation
	temperature := snap.Current.Temperature
	fertilizerCost := costs.FertilizerCost()
	fuelPrice := costs.FuelPrice()

	return models.FeatureVector{
		Region: query.Region,
		Crop:   query.Crop,
		Numeric: map[string]float64{
			models.FeatureRainfallMM:          rainfall,
			models.FeatureTemperatureC:        temperature,
			models.FeatureFertilizerCost:      fertilizerCost,
			models.FeatureFuelPrice:           fuelPrice,
			models.FeaturePestOutbreak:        pestOutbreak,
			models.FeatureMarketDemand:        costs.MarketDemand(),
			models.FeatureMonth:               float64(month),
			models.FeatureYear:                float64(query.Date.Year()),
			models.FeatureQuarter:             float64((month-1)/3 + 1),
			models.FeatureDayOfYear:           float64(query.Date.YearDay()),
			models.FeatureRainfallTemperature: rainfall * temperature,
			models.FeatureFertilizerFuelRatio: fertilizerCost / fuelPrice,
		},
	}
}
