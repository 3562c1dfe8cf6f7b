package marketadvisor

import (
	"context"
	"fmt"
	"log"
	"time"

	"farm-assist/internal/advisory"
	"farm-assist/internal/market"
	"farm-assist/internal/models"
	"farm-assist/internal/pricing"
	"farm-assist/shared/ai"
	"farm-assist/shared/config"
	"farm-assist/shared/email"
	"farm-assist/shared/scheduler"
	"farm-assist/shared/storage"
	"farm-assist/shared/weather"
)

// AdvisorMetrics represents the metrics collected during one advisory run.
type AdvisorMetrics struct {
	WeatherFetched bool `json:"weather_fetched"`
	Predictions    int  `json:"predictions"`
	BuyerMatched   bool `json:"buyer_matched"`
	EmailSent      bool `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m AdvisorMetrics) GetSummary() string {
	if m.BuyerMatched && m.EmailSent {
		return fmt.Sprintf("%d prices predicted, buyer matched, advisory emailed", m.Predictions)
	} else if m.BuyerMatched {
		return fmt.Sprintf("%d prices predicted, buyer matched", m.Predictions)
	}
	return fmt.Sprintf("%d prices predicted, no buyer matched", m.Predictions)
}

// MarketAdvisorAgent implements the scheduler.Agent interface. Each run it
// predicts weather-adjusted crop prices, matches the best buyer and records
// a generated selling initiative.
type MarketAdvisorAgent struct {
	config      *config.Config
	weather     *weather.Client
	predictor   *pricing.Predictor
	generator   advisory.Generator
	initiatives *storage.InitiativeLog
	sender      *email.Sender
}

func NewMarketAdvisorAgent(cfg *config.Config) *MarketAdvisorAgent {
	return &MarketAdvisorAgent{
		config:      cfg,
		initiatives: storage.NewInitiativeLog(),
	}
}

func (a *MarketAdvisorAgent) Name() string {
	return "Market Advisor Agent"
}

// Initiatives exposes the process-lifetime initiative log.
func (a *MarketAdvisorAgent) Initiatives() *storage.InitiativeLog {
	return a.initiatives
}

func (a *MarketAdvisorAgent) Initialize(ctx context.Context) error {
	log.Printf("Initializing %s...", a.Name())

	if err := a.config.ValidateFarm(); err != nil {
		return err
	}

	if a.weather == nil {
		a.weather = weather.NewClient(&a.config.Weather)
		log.Println("Weather client initialized")
	}

	if a.predictor == nil {
		var scorer pricing.Scorer
		if a.config.Model.Path != "" {
			regressor, err := pricing.LoadRegressor(a.config.Model.Path)
			if err != nil {
				// Model load failure is fatal, not a per-run condition.
				return err
			}
			scorer = regressor
			log.Printf("Price model loaded from %s", a.config.Model.Path)
		} else {
			log.Println("No price model configured, using mock price table")
		}
		a.predictor = pricing.NewPredictor(a.weather, scorer, nil)
	}

	if a.generator == nil {
		generator, err := ai.NewClient(ctx, &a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to initialize text generation client: %w", err)
		}
		a.generator = generator
		log.Println("Text generation client initialized")
	}

	if a.sender == nil && a.config.EmailConfigured() {
		a.sender = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	log.Printf("Configured for %s with crops %v", a.config.Farm.Region, a.config.Farm.Crops)

	return nil
}

func (a *MarketAdvisorAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := AdvisorMetrics{}

	log.Println("Fetching weather forecast...")
	snap, err := a.weather.GetForecast(ctx)
	if err != nil {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(fmt.Errorf("failed to fetch weather forecast: %w", err), time.Since(startTime))
		}
		return fmt.Errorf("failed to fetch weather forecast: %w", err)
	}
	metrics.WeatherFetched = true

	impact := pricing.ClassifyImpact(snap)
	log.Printf("Weather impact: %s", impact.Summary())

	predictions := a.predict(snap)
	metrics.Predictions = len(predictions)

	match := a.matchBuyer(events, startTime)
	metrics.BuyerMatched = match != nil
	if match != nil {
		log.Printf("Best buyer: %s (%s) at ₱%.2f/kg", match.Buyer.Name(), match.Buyer.Region(), match.AveragePrice)
	} else {
		log.Println("No buyer matched today")
	}

	recommendation := advisory.SellingAdvice(ctx, a.generator, advisory.SellingContext{
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
	a.initiatives.Append(initiative)

	if a.sender != nil {
		if err := a.sender.SendAdvisory(initiative); err != nil {
			// Advisory still stands without the email.
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("failed to send advisory email: %w", err), time.Since(startTime))
			}
			log.Printf("Warning: failed to send advisory email: %v", err)
		} else {
			metrics.EmailSent = true
		}
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}

	log.Printf("Advisory run complete: %s", metrics.GetSummary())

	return nil
}

// predict runs the model per configured crop, or the mock table when no
// model is loaded.
func (a *MarketAdvisorAgent) predict(snap *models.WeatherSnapshot) []models.PricePrediction {
	if !a.predictor.HasModel() {
		return a.predictor.PredictBatchWithSnapshot(snap)
	}

	today := time.Now()
	var predictions []models.PricePrediction
	for _, crop := range a.config.Farm.Crops {
		query := models.PriceQuery{Date: today, Crop: crop, Region: a.config.Farm.Region}
		prediction, err := a.predictor.PredictWithSnapshot(query, snap)
		if err != nil {
			log.Printf("Warning: prediction failed for %s: %v", crop, err)
			continue
		}
		predictions = append(predictions, *prediction)
	}
	return predictions
}

// matchBuyer loads the datasets and selects the best buyer. Dataset read
// errors degrade the run instead of failing it.
func (a *MarketAdvisorAgent) matchBuyer(events *scheduler.AgentEvents, startTime time.Time) *market.Match {
	buyers, err := market.LoadBuyers(a.config.Data.BuyersFile)
	if err != nil {
		a.reportPartial(events, fmt.Errorf("failed to load buyer directory: %w", err), startTime)
		return nil
	}
	prices, err := market.LoadPrices(a.config.Data.PricesFile)
	if err != nil {
		a.reportPartial(events, fmt.Errorf("failed to load price history: %w", err), startTime)
		return nil
	}
	return market.SelectBestBuyer(a.config.Farm.Crops, buyers, prices)
}

func (a *MarketAdvisorAgent) reportPartial(events *scheduler.AgentEvents, err error, startTime time.Time) {
	if events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(err, time.Since(startTime))
	}
	log.Printf("Warning: %v", err)
}
