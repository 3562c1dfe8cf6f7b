package pricing

import (
	"testing"

	"farm-assist/internal/models"
)

// hourlySeries returns a 24-value series filled with v.
func hourlySeries(v float64) []float64 {
	series := make([]float64, 24)
	for i := range series {
		series[i] = v
	}
	return series
}

func snapshotWith(avgPrecipitation, windSpeed float64) *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		Status: models.WeatherStatusSuccess,
		Hourly: models.HourlyForecast{
			Temperature:   hourlySeries(28),
			Precipitation: hourlySeries(avgPrecipitation),
			WindSpeed:     hourlySeries(windSpeed),
		},
	}
}

func TestClassifyImpact(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *models.WeatherSnapshot
		expected Impact
	}{
		{
			name:     "Calm conditions",
			snapshot: snapshotWith(0, 10),
			expected: ImpactNormal,
		},
		{
			name:     "Average precipitation exactly at moderate threshold",
			snapshot: snapshotWith(5, 10),
			expected: ImpactNormal, // strict comparison, 5 is not > 5
		},
		{
			name:     "Average precipitation just over moderate threshold",
			snapshot: snapshotWith(5.1, 10),
			expected: ImpactModerate,
		},
		{
			name:     "Average precipitation exactly at severe threshold",
			snapshot: snapshotWith(10, 10),
			expected: ImpactModerate,
		},
		{
			name:     "Average precipitation over severe threshold",
			snapshot: snapshotWith(10.1, 10),
			expected: ImpactSevere,
		},
		{
			name:     "Wind exactly at severe threshold",
			snapshot: snapshotWith(0, 30),
			expected: ImpactNormal,
		},
		{
			name:     "Wind over severe threshold",
			snapshot: snapshotWith(0, 30.1),
			expected: ImpactSevere,
		},
		{
			name:     "Severe wind wins over moderate rain",
			snapshot: snapshotWith(6, 45),
			expected: ImpactSevere,
		},
		{
			name:     "Error snapshot",
			snapshot: &models.WeatherSnapshot{Status: models.WeatherStatusError, Message: "timeout"},
			expected: ImpactUnavailable,
		},
		{
			name:     "Success status but empty series",
			snapshot: &models.WeatherSnapshot{Status: models.WeatherStatusSuccess},
			expected: ImpactUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyImpact(tt.snapshot)
			if result != tt.expected {
				t.Errorf("Expected impact %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestClassifyImpactIsDeterministic(t *testing.T) {
	snap := snapshotWith(7.3, 22.8)

	first := ClassifyImpact(snap)
	second := ClassifyImpact(snap)

	if first != second {
		t.Errorf("Expected identical results, got %q then %q", first, second)
	}
}

func TestImpactMultiplier(t *testing.T) {
	tests := []struct {
		impact   Impact
		expected float64
	}{
		{ImpactSevere, 1.15},
		{ImpactModerate, 1.05},
		{ImpactNormal, 1.0},
		{ImpactUnavailable, 1.0},
	}

	for _, tt := range tests {
		if got := tt.impact.Multiplier(); got != tt.expected {
			t.Errorf("Multiplier for %q: expected %v, got %v", tt.impact, tt.expected, got)
		}
	}
}

func TestImpactSummary(t *testing.T) {
	if s := ImpactSevere.Summary(); s != "Severe weather conditions detected - possible typhoon threat" {
		t.Errorf("Unexpected severe summary: %q", s)
	}
	if s := ImpactUnavailable.Summary(); s != "Unable to analyze weather impact due to weather data error" {
		t.Errorf("Unexpected unavailable summary: %q", s)
	}
}
