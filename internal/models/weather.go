package models

// WeatherStatus tells consumers whether a snapshot carries usable data.
type WeatherStatus string

const (
	WeatherStatusSuccess WeatherStatus = "success"
	WeatherStatusError   WeatherStatus = "error"
)

// WeatherSnapshot holds the current, hourly and daily facts returned by the
// forecast provider. When Status is WeatherStatusError only Message is
// meaningful and consumers must short-circuit instead of reading the series.
type WeatherSnapshot struct {
	Status  WeatherStatus     `json:"status"`
	Message string            `json:"message,omitempty"`
	Current CurrentConditions `json:"current"`
	Hourly  HourlyForecast    `json:"hourly"`
	Daily   DailyForecast     `json:"daily"`
}

// CurrentConditions is the observation at fetch time.
type CurrentConditions struct {
	Temperature   float64 `json:"temperature"`   // °C
	Precipitation float64 `json:"precipitation"` // mm
	WindSpeed     float64 `json:"wind_speed"`    // km/h
}

// HourlyForecast covers the next 24 hours, one value per hour.
type HourlyForecast struct {
	Temperature   []float64 `json:"temperature"`
	Precipitation []float64 `json:"precipitation"`
	WindSpeed     []float64 `json:"wind_speed"`
}

// DailyForecast covers the 7-day horizon.
type DailyForecast struct {
	PrecipitationSum         []float64 `json:"precipitation_sum"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
}

// Usable reports whether downstream consumers may read the forecast series.
func (s *WeatherSnapshot) Usable() bool {
	return s != nil && s.Status == WeatherStatusSuccess
}
