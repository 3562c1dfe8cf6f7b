package pricing

import "farm-assist/internal/models"

// Impact is the coarse weather-driven market risk category derived from
// forecast statistics.
type Impact string

const (
	ImpactSevere      Impact = "severe"
	ImpactModerate    Impact = "moderate"
	ImpactNormal      Impact = "normal"
	ImpactUnavailable Impact = "unavailable"
)

// Classification thresholds over the next-24-hour forecast. Comparisons are
// strict: an average of exactly 5 mm is still normal.
const (
	severeAvgPrecipitationMm   = 10.0
	moderateAvgPrecipitationMm = 5.0
	severeMaxWindSpeedKmh      = 30.0
)

// ClassifyImpact maps a weather snapshot to an impact category. Severe wins
// over moderate; snapshots with an error status (or without hourly series)
// classify as unavailable and must be treated as "no adjustment possible".
// Deterministic and side-effect free.
func ClassifyImpact(snap *models.WeatherSnapshot) Impact {
	if !snap.Usable() {
		return ImpactUnavailable
	}
	precipitation := snap.Hourly.Precipitation
	windSpeed := snap.Hourly.WindSpeed
	if len(precipitation) == 0 || len(windSpeed) == 0 {
		return ImpactUnavailable
	}

	var total float64
	for _, p := range precipitation {
		total += p
	}
	avgPrecipitation := total / float64(len(precipitation))

	maxWindSpeed := windSpeed[0]
	for _, w := range windSpeed[1:] {
		if w > maxWindSpeed {
			maxWindSpeed = w
		}
	}

	switch {
	case avgPrecipitation > severeAvgPrecipitationMm || maxWindSpeed > severeMaxWindSpeedKmh:
		return ImpactSevere
	case avgPrecipitation > moderateAvgPrecipitationMm:
		return ImpactModerate
	default:
		return ImpactNormal
	}
}

// Multiplier returns the price adjustment factor for the category.
func (i Impact) Multiplier() float64 {
	switch i {
	case ImpactSevere:
		return 1.15
	case ImpactModerate:
		return 1.05
	default:
		return 1.0
	}
}

// Summary returns the human-readable analysis line for the category.
func (i Impact) Summary() string {
	switch i {
	case ImpactSevere:
		return "Severe weather conditions detected - possible typhoon threat"
	case ImpactModerate:
		return "Moderate rain expected - minor market impact"
	case ImpactNormal:
		return "Normal weather conditions"
	default:
		return "Unable to analyze weather impact due to weather data error"
	}
}
