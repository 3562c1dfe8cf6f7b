package advisory

import (
	"context"
	"fmt"
	"log"
	"strings"

	"farm-assist/internal/market"
	"farm-assist/internal/models"
	"farm-assist/internal/pricing"
)

// Generator is the external text-generation collaborator. Implemented by
// shared/ai.Client; tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Deterministic fallbacks shown whenever generation fails or returns
// unusable content. The user-facing contract never surfaces raw upstream
// errors.
const (
	fallbackRecommendation = "Base sa lagay ng panahon at presyo ngayon, magandang magbenta ng iyong ani sa umaga. " +
		"Subukang i-check ang pinakamalapit na palengke. Gusto mo bang mabenta ang iyong produkto ngayon? " +
		"Sagot lang ng 'OO' para kumpirmahin."
	fallbackWeatherAlert = "Walang available na weather alert"
)

// Dataset fields are free-form strings; clamp them before they enter a
// prompt that is serialized verbatim to an external service.
const maxPromptFieldLen = 120

const sellingSystemPrompt = `Using the data provided, give a short 3-5 sentence selling recommendation in Filipino/Taglish.

Rules:
- Explain the weather impact except the wind speed on crops, and why you should sell or not
- Use the weather data and price data to give a recommendation
- Be conversational and clear
- Don't use "average price", just say "high" or "low price"
- Focus on harvest and selling tips
- Use a friendly SMS-style tone
- Do NOT repeat the raw data
- Include a closing Yes-or-No question in this format:
'Gusto mo bang mabenta ang 'product name' ngayon? Sagot lang ng "OO" para kumpirmahin.'`

const alertSystemPrompt = `Magbigay ng weather alert para sa mga magsasaka base sa weather data na ibibigay.

IMPORTANT RULES:
- USE TAGALOG ONLY
- DON'T USE ENGLISH
- DON'T REPORT THE DATA OF THE WEATHER. JUST GIVE A SUMMARY.
- Maximum 1-2 sentences only
- Focus on practical farming impact
- Be direct and clear
- Don't mention specific numbers`

// SellingContext carries every numeric/matching fact the recommendation is
// composed from.
type SellingContext struct {
	Weather     *models.WeatherSnapshot
	Impact      pricing.Impact
	Predictions []models.PricePrediction
	Match       *market.Match
}

// ComposeSellingPrompt assembles the text-generation request for a selling
// recommendation. Purely formatting; all numbers were computed upstream.
func ComposeSellingPrompt(sc SellingContext) (systemPrompt, userPrompt string) {
	avgPrice, maxPrice, markets := summarizePredictions(sc.Predictions)

	var b strings.Builder
	b.WriteString("WEATHER CONDITIONS:\n")
	if sc.Weather.Usable() {
		fmt.Fprintf(&b, "Temperature: %.1f°C\n", sc.Weather.Current.Temperature)
		fmt.Fprintf(&b, "Precipitation: %.1fmm\n", sc.Weather.Current.Precipitation)
		fmt.Fprintf(&b, "Wind Speed: %.1fkm/h\n", sc.Weather.Current.WindSpeed)
	} else {
		b.WriteString("Not available\n")
	}

	b.WriteString("\nCROPS PRICE DATA:\n")
	fmt.Fprintf(&b, "Highest Price: ₱%s/kg\n", maxPrice)
	fmt.Fprintf(&b, "Average Price: ₱%s/kg\n", avgPrice)
	fmt.Fprintf(&b, "Markets: %s\n", markets)

	b.WriteString("\nWEATHER IMPACT:\n")
	b.WriteString(sc.Impact.Summary())
	b.WriteString("\n")

	if sc.Match != nil {
		b.WriteString("\nBEST BUYER:\n")
		fmt.Fprintf(&b, "Name: %s\n", clampField(sc.Match.Buyer.Name()))
		fmt.Fprintf(&b, "Crop: %s\n", clampField(sc.Match.Buyer.CropInterest()))
		fmt.Fprintf(&b, "Region: %s\n", clampField(sc.Match.Buyer.Region()))
		fmt.Fprintf(&b, "Average Price: ₱%.2f/kg\n", sc.Match.AveragePrice)
	}

	return sellingSystemPrompt, strings.TrimSpace(b.String())
}

// SellingAdvice generates the recommendation text, masking any generation
// failure behind the deterministic fallback. Callers always get a usable
// string.
func SellingAdvice(ctx context.Context, gen Generator, sc SellingContext) string {
	systemPrompt, userPrompt := ComposeSellingPrompt(sc)

	text, err := gen.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("Selling advice generation failed, using fallback: %v", err)
		return fallbackRecommendation
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("Selling advice generation returned empty content, using fallback")
		return fallbackRecommendation
	}
	return strings.TrimSpace(text)
}

// WeatherAlert generates the short Tagalog weather alert for farmers, with
// the same fallback policy as SellingAdvice.
func WeatherAlert(ctx context.Context, gen Generator, snap *models.WeatherSnapshot) string {
	var b strings.Builder
	if snap.Usable() {
		fmt.Fprintf(&b, "Current: %.1f°C, %.1fmm precipitation, %.1fkm/h wind\n",
			snap.Current.Temperature, snap.Current.Precipitation, snap.Current.WindSpeed)
		if n := len(snap.Daily.PrecipitationSum); n > 0 {
			fmt.Fprintf(&b, "Daily precipitation sums (next %d days): %s\n", n, joinFloats(snap.Daily.PrecipitationSum))
		}
		if n := len(snap.Daily.PrecipitationProbability); n > 0 {
			fmt.Fprintf(&b, "Daily precipitation probability: %s\n", joinFloats(snap.Daily.PrecipitationProbability))
		}
		fmt.Fprintf(&b, "Analysis: %s\n", pricing.ClassifyImpact(snap).Summary())
	} else {
		fmt.Fprintf(&b, "Weather data unavailable: %s\n", clampField(snap.Message))
	}

	text, err := gen.Generate(ctx, alertSystemPrompt, strings.TrimSpace(b.String()))
	if err != nil {
		log.Printf("Weather alert generation failed, using fallback: %v", err)
		return fallbackWeatherAlert
	}
	if strings.TrimSpace(text) == "" {
		return fallbackWeatherAlert
	}
	return strings.TrimSpace(text)
}

// summarizePredictions aggregates the price table the way the advisory
// context reports it. "N/A" stands in when there are no predictions.
func summarizePredictions(predictions []models.PricePrediction) (avg, max, markets string) {
	if len(predictions) == 0 {
		return "N/A", "N/A", "N/A"
	}

	var sum float64
	maxPrice := predictions[0].AdjustedPrice
	seen := make(map[string]bool)
	var names []string
	for _, p := range predictions {
		sum += p.AdjustedPrice
		if p.AdjustedPrice > maxPrice {
			maxPrice = p.AdjustedPrice
		}
		name := p.Market
		if name == "" {
			name = p.Region
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	avg = fmt.Sprintf("%.2f", sum/float64(len(predictions)))
	max = fmt.Sprintf("%.2f", maxPrice)
	markets = strings.Join(names, ", ")
	if markets == "" {
		markets = "N/A"
	}
	return avg, max, markets
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, ", ")
}

func clampField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxPromptFieldLen {
		return s
	}
	return s[:maxPromptFieldLen] + "..."
}
