package models

import "time"

// Feature names the regression model was trained on. The categorical
// features (region, crop) travel separately on the FeatureVector; everything
// listed here is numeric.
const (
	FeatureRainfallMM          = "rainfall_mm"
	FeatureTemperatureC        = "temperature_c"
	FeatureFertilizerCost      = "fertilizer_cost"
	FeatureFuelPrice           = "fuel_price"
	FeaturePestOutbreak        = "pest_outbreak_flag"
	FeatureMarketDemand        = "market_demand"
	FeatureMonth               = "month"
	FeatureYear                = "year"
	FeatureQuarter             = "quarter"
	FeatureDayOfYear           = "day_of_year"
	FeatureRainfallTemperature = "rainfall_temperature_product"
	FeatureFertilizerFuelRatio = "fertilizer_fuel_ratio"
)

// PriceQuery identifies one prediction request. Crop and Region are
// case-sensitive and must match the value domain the model was trained on;
// no validation is performed here (caller responsibility).
type PriceQuery struct {
	Date   time.Time `json:"date"`
	Crop   string    `json:"crop"`
	Region string    `json:"region"`
}

// FeatureVector is the fixed-shape input consumed by the price model.
// Region and Crop pass through untouched as categorical features.
type FeatureVector struct {
	Region  string
	Crop    string
	Numeric map[string]float64
}

// PricePrediction is the model output for one query, computed fresh per
// request and never cached. Market is only set by the mock batch fallback,
// which predicts per market stall instead of per crop.
type PricePrediction struct {
	Crop          string    `json:"crop,omitempty"`
	Region        string    `json:"region,omitempty"`
	Market        string    `json:"market,omitempty"`
	Date          time.Time `json:"date"`
	BasePrice     float64   `json:"base_price"`
	AdjustedPrice float64   `json:"adjusted_price"`
}
