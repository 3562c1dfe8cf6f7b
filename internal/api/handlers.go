package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"farm-assist/internal/advisory"
	"farm-assist/internal/market"
	"farm-assist/internal/models"
	"farm-assist/internal/pricing"
	"farm-assist/shared/weather"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Farm Assistant API"})
}

// handlePredictPrices runs the full pipeline: forecast, prediction, buyer
// matching and recommendation text.
// POST /predict-prices
func (s *Server) handlePredictPrices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	snap, err := s.weather.GetForecast(ctx)
	if err != nil {
		snap = weather.ErrorSnapshot(err)
	}
	impact := pricing.ClassifyImpact(snap)

	var predictions []models.PricePrediction
	if s.predictor.HasModel() {
		// The trained model cannot adjust without weather data; surface
		// the labeled outcome instead of guessing.
		if !snap.Usable() {
			c.JSON(http.StatusBadGateway, gin.H{
				"status": "weather_unavailable",
				"error":  "weather forecast unavailable, no prediction possible",
				"detail": snap.Message,
			})
			return
		}
		today := time.Now()
		for _, crop := range s.cfg.Farm.Crops {
			query := models.PriceQuery{Date: today, Crop: crop, Region: s.cfg.Farm.Region}
			prediction, err := s.predictor.PredictWithSnapshot(query, snap)
			if err != nil {
				log.Printf("Prediction failed for %s: %v", crop, err)
				continue
			}
			predictions = append(predictions, *prediction)
		}
	} else {
		// Mock mode tolerates missing weather: prices pass through
		// without adjustment.
		predictions = s.predictor.PredictBatchWithSnapshot(snap)
	}

	match := s.matchBuyer()

	recommendation := advisory.SellingAdvice(ctx, s.generator, advisory.SellingContext{
		Weather:     snap,
		Impact:      impact,
		Predictions: predictions,
		Match:       match,
	})

	initiative := models.SellingInitiative{
		Recommendation: recommendation,
		CreatedAt:      time.Now(),
	}
	if match != nil {
		initiative.Crop = match.Buyer.CropInterest()
		initiative.Buyer = match.Buyer
		initiative.AveragePrice = match.AveragePrice
	}
	s.initiatives.Append(initiative)

	response := gin.H{
		"recommendation": recommendation,
		"weather_impact": impact.Summary(),
		"predictions":    predictions,
	}
	if match != nil {
		response["best_buyer"] = match
	}
	c.JSON(http.StatusOK, response)
}

// handleWeatherAlert returns a short farmer-facing alert.
// GET /weather-alert
func (s *Server) handleWeatherAlert(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	snap, err := s.weather.GetForecast(ctx)
	if err != nil {
		snap = weather.ErrorSnapshot(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"explanation": advisory.WeatherAlert(ctx, s.generator, snap),
	})
}

// handleGenerateTasks returns AI-recommended farm tasks for the current
// conditions.
// POST /generate-tasks
func (s *Server) handleGenerateTasks(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	snap, err := s.weather.GetForecast(ctx)
	if err != nil {
		snap = weather.ErrorSnapshot(err)
	}

	var predictions []models.PricePrediction
	if s.predictor.HasModel() && snap.Usable() {
		today := time.Now()
		for _, crop := range s.cfg.Farm.Crops {
			query := models.PriceQuery{Date: today, Crop: crop, Region: s.cfg.Farm.Region}
			if prediction, err := s.predictor.PredictWithSnapshot(query, snap); err == nil {
				predictions = append(predictions, *prediction)
			}
		}
	} else if !s.predictor.HasModel() {
		predictions = s.predictor.PredictBatchWithSnapshot(snap)
	}

	tasks := s.planner.GenerateTasks(ctx, snap, predictions)

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleInitiatives lists the process-lifetime selling initiative log.
// GET /initiatives
func (s *Server) handleInitiatives(c *gin.Context) {
	initiatives := s.initiatives.All()
	c.JSON(http.StatusOK, gin.H{
		"initiatives": initiatives,
		"count":       len(initiatives),
	})
}

func (s *Server) matchBuyer() *market.Match {
	buyers, err := market.LoadBuyers(s.cfg.Data.BuyersFile)
	if err != nil {
		log.Printf("Failed to load buyer directory: %v", err)
		return nil
	}
	prices, err := market.LoadPrices(s.cfg.Data.PricesFile)
	if err != nil {
		log.Printf("Failed to load price history: %v", err)
		return nil
	}
	return market.SelectBestBuyer(s.cfg.Farm.Crops, buyers, prices)
}
