package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"farm-assist/internal/models"
	"farm-assist/shared/config"

	"github.com/sony/gobreaker"
)

// Only the next 24 hours of the hourly series feed the impact analysis.
const hourlyWindow = 24

// Client fetches forecasts from the Open-Meteo API for the configured
// coordinates. A circuit breaker shields the rest of the pipeline when the
// API misbehaves; per-request retries stay out of the prediction layer.
type Client struct {
	config  *config.WeatherConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

type openMeteoResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Temperature   []float64 `json:"temperature_2m"`
		Precipitation []float64 `json:"precipitation"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
	Daily struct {
		PrecipitationSum            []float64 `json:"precipitation_sum"`
		PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

func NewClient(cfg *config.WeatherConfig) *Client {
	settings := gobreaker.Settings{
		Name:    "open-meteo",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Weather circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Client{
		config:  cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// GetForecast fetches the current conditions plus the hourly and daily
// series for the configured location and horizon.
func (c *Client) GetForecast(ctx context.Context) (*models.WeatherSnapshot, error) {
	requestURL := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,precipitation,wind_speed_10m&hourly=temperature_2m,precipitation,wind_speed_10m&daily=precipitation_sum,precipitation_probability_max&timezone=%s&forecast_days=%d",
		c.config.URL, c.config.Latitude, c.config.Longitude,
		url.QueryEscape(c.config.Timezone), c.config.ForecastDays)

	body, err := c.fetch(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var apiResp openMeteoResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return &models.WeatherSnapshot{
		Status: models.WeatherStatusSuccess,
		Current: models.CurrentConditions{
			Temperature:   apiResp.Current.Temperature,
			Precipitation: apiResp.Current.Precipitation,
			WindSpeed:     apiResp.Current.WindSpeed,
		},
		Hourly: models.HourlyForecast{
			Temperature:   truncateSeries(apiResp.Hourly.Temperature),
			Precipitation: truncateSeries(apiResp.Hourly.Precipitation),
			WindSpeed:     truncateSeries(apiResp.Hourly.WindSpeed),
		},
		Daily: models.DailyForecast{
			PrecipitationSum:         apiResp.Daily.PrecipitationSum,
			PrecipitationProbability: apiResp.Daily.PrecipitationProbabilityMax,
		},
	}, nil
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create weather request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch weather data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// ErrorSnapshot wraps a failed fetch as an error-status snapshot for
// consumers that want a snapshot regardless of outcome.
func ErrorSnapshot(err error) *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		Status:  models.WeatherStatusError,
		Message: err.Error(),
	}
}

func truncateSeries(values []float64) []float64 {
	if len(values) > hourlyWindow {
		return values[:hourlyWindow]
	}
	return values
}
