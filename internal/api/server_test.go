package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"farm-assist/internal/models"
	"farm-assist/internal/pricing"
	"farm-assist/shared/config"
	"farm-assist/shared/storage"
)

type stubForecast struct {
	snap *models.WeatherSnapshot
	err  error
}

func (s stubForecast) GetForecast(ctx context.Context) (*models.WeatherSnapshot, error) {
	return s.snap, s.err
}

type stubScorer struct {
	value float64
}

func (s stubScorer) Score(fv models.FeatureVector) float64 {
	return s.value
}

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.response, s.err
}

func normalSnapshot() *models.WeatherSnapshot {
	series := func(value float64) []float64 {
		out := make([]float64, 24)
		for i := range out {
			out[i] = value
		}
		return out
	}
	return &models.WeatherSnapshot{
		Status: models.WeatherStatusSuccess,
		Current: models.CurrentConditions{
			Temperature:   30,
			Precipitation: 1,
			WindSpeed:     10,
		},
		Hourly: models.HourlyForecast{
			Temperature:   series(30),
			Precipitation: series(1),
			WindSpeed:     series(10),
		},
	}
}

func testServerConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	buyersFile := filepath.Join(dir, "buyers.csv")
	pricesFile := filepath.Join(dir, "prices.csv")
	if err := os.WriteFile(buyersFile, []byte("Buyer Name,Crop Interest,Region\nJuan Dela Cruz,Rice,Region IV-A\n"), 0644); err != nil {
		t.Fatalf("Failed to write buyers file: %v", err)
	}
	if err := os.WriteFile(pricesFile, []byte("Crop,Region,Price per kg\nRice,Region IV-A,32.50\n"), 0644); err != nil {
		t.Fatalf("Failed to write prices file: %v", err)
	}

	return &config.Config{
		Farm: config.FarmConfig{Region: "Region IV-A", Crops: []string{"Rice"}},
		Data: config.DataConfig{BuyersFile: buyersFile, PricesFile: pricesFile},
	}
}

func doRequest(t *testing.T, server *Server, method, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	recorder := httptest.NewRecorder()
	server.Engine().ServeHTTP(recorder, req)

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return recorder.Code, body
}

func TestHandleHealth(t *testing.T) {
	server := New(testServerConfig(t), stubForecast{snap: normalSnapshot()}, pricing.NewPredictor(nil, nil, nil), &stubGenerator{}, storage.NewInitiativeLog())

	code, body := doRequest(t, server, http.MethodGet, "/health")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
}

func TestPredictPricesModelModeWithoutWeather(t *testing.T) {
	forecast := stubForecast{err: fmt.Errorf("connection refused")}
	predictor := pricing.NewPredictor(forecast, stubScorer{value: 40}, nil)
	server := New(testServerConfig(t), forecast, predictor, &stubGenerator{}, storage.NewInitiativeLog())

	code, body := doRequest(t, server, http.MethodPost, "/predict-prices")
	if code != http.StatusBadGateway {
		t.Fatalf("Expected 502 when the model cannot run without weather, got %d", code)
	}
	if body["status"] != "weather_unavailable" {
		t.Errorf("Expected weather_unavailable status, got %v", body["status"])
	}
}

func TestPredictPricesModelMode(t *testing.T) {
	forecast := stubForecast{snap: normalSnapshot()}
	predictor := pricing.NewPredictor(forecast, stubScorer{value: 40}, nil)
	initiatives := storage.NewInitiativeLog()
	server := New(testServerConfig(t), forecast, predictor, &stubGenerator{response: "Maganda ang presyo ngayon, magbenta ka na."}, initiatives)

	code, body := doRequest(t, server, http.MethodPost, "/predict-prices")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["recommendation"] != "Maganda ang presyo ngayon, magbenta ka na." {
		t.Errorf("Unexpected recommendation %v", body["recommendation"])
	}
	if body["weather_impact"] != "Normal weather conditions" {
		t.Errorf("Unexpected weather impact %v", body["weather_impact"])
	}

	predictions, ok := body["predictions"].([]any)
	if !ok || len(predictions) != 1 {
		t.Fatalf("Expected 1 prediction for the configured crop, got %v", body["predictions"])
	}
	if _, ok := body["best_buyer"]; !ok {
		t.Error("Expected a best buyer from the fixture datasets")
	}
	if initiatives.Len() != 1 {
		t.Errorf("Expected the run to be recorded as an initiative, got %d", initiatives.Len())
	}
}

func TestPredictPricesMockModeToleratesWeatherFailure(t *testing.T) {
	forecast := stubForecast{err: fmt.Errorf("dns failure")}
	predictor := pricing.NewPredictor(forecast, nil, nil)
	server := New(testServerConfig(t), forecast, predictor, &stubGenerator{err: fmt.Errorf("quota exceeded")}, storage.NewInitiativeLog())

	code, body := doRequest(t, server, http.MethodPost, "/predict-prices")
	if code != http.StatusOK {
		t.Fatalf("Expected mock mode to tolerate a weather failure, got %d", code)
	}

	predictions, ok := body["predictions"].([]any)
	if !ok || len(predictions) != 7 {
		t.Fatalf("Expected the 7-row mock table, got %v", body["predictions"])
	}

	// Generation failed too; the endpoint must still answer with a usable
	// fallback text.
	recommendation, _ := body["recommendation"].(string)
	if !strings.Contains(recommendation, "Sagot lang ng") {
		t.Errorf("Expected the fallback recommendation, got %q", recommendation)
	}
}

func TestWeatherAlert(t *testing.T) {
	forecast := stubForecast{snap: normalSnapshot()}
	server := New(testServerConfig(t), forecast, pricing.NewPredictor(forecast, nil, nil), &stubGenerator{response: "Maaraw ngayon, magandang mag-ani."}, storage.NewInitiativeLog())

	code, body := doRequest(t, server, http.MethodGet, "/weather-alert")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["explanation"] != "Maaraw ngayon, magandang mag-ani." {
		t.Errorf("Unexpected explanation %v", body["explanation"])
	}
}

func TestGenerateTasks(t *testing.T) {
	forecast := stubForecast{snap: normalSnapshot()}
	gen := &stubGenerator{response: `{"tasks": [{"description": "Mag-ani ng palay", "priority": "High", "schedule": "Umaga"}]}`}
	server := New(testServerConfig(t), forecast, pricing.NewPredictor(forecast, nil, nil), gen, storage.NewInitiativeLog())

	code, body := doRequest(t, server, http.MethodPost, "/generate-tasks")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["count"] != float64(1) {
		t.Errorf("Expected 1 task, got %v", body["count"])
	}
	tasks, ok := body["tasks"].([]any)
	if !ok || len(tasks) != 1 {
		t.Fatalf("Expected 1 task entry, got %v", body["tasks"])
	}
	task := tasks[0].(map[string]any)
	if task["priority_level"] != float64(5) {
		t.Errorf("Expected priority level 5, got %v", task["priority_level"])
	}
}

func TestInitiativesGrowAcrossRuns(t *testing.T) {
	forecast := stubForecast{snap: normalSnapshot()}
	server := New(testServerConfig(t), forecast, pricing.NewPredictor(forecast, nil, nil), &stubGenerator{response: "Magbenta ka na."}, storage.NewInitiativeLog())

	if code, body := doRequest(t, server, http.MethodGet, "/initiatives"); code != http.StatusOK || body["count"] != float64(0) {
		t.Fatalf("Expected an empty log, got code %d body %v", code, body)
	}

	doRequest(t, server, http.MethodPost, "/predict-prices")
	doRequest(t, server, http.MethodPost, "/predict-prices")

	_, body := doRequest(t, server, http.MethodGet, "/initiatives")
	if body["count"] != float64(2) {
		t.Errorf("Expected 2 recorded initiatives, got %v", body["count"])
	}
}
