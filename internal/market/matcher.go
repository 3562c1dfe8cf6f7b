package market

import (
	"strconv"
	"strings"

	"farm-assist/internal/models"
)

// Match pairs a buyer with the average price that ranked them. The price
// travels here instead of being written back onto the shared buyer row, so
// the input datasets stay untouched across requests.
type Match struct {
	Buyer        models.BuyerRecord `json:"buyer"`
	AveragePrice float64            `json:"average_price"`
}

// SelectBestBuyer picks the buyer with the highest average price among those
// interested in one of the user's crops. Crop and region comparisons are
// case-insensitive. A buyer's price is averaged over their own region first,
// falling back to all regions for the crop; buyers with no price signal at
// all are dropped. Ties keep the first-encountered buyer. Returns nil when
// nothing survives — a normal "no recommendation today" outcome.
func SelectBestBuyer(userCrops []string, buyers []models.BuyerRecord, prices []models.PriceRecord) *Match {
	wanted := make(map[string]bool, len(userCrops))
	for _, crop := range userCrops {
		wanted[strings.ToLower(strings.TrimSpace(crop))] = true
	}

	var best *Match
	for _, buyer := range buyers {
		crop := buyer.CropInterest()
		if !wanted[strings.ToLower(strings.TrimSpace(crop))] {
			continue
		}

		avg, ok := averagePrice(prices, crop, buyer.Region())
		if !ok {
			avg, ok = averagePrice(prices, crop, "")
		}
		if !ok {
			continue
		}

		if best == nil || avg > best.AveragePrice {
			best = &Match{Buyer: buyer, AveragePrice: avg}
		}
	}
	return best
}

// averagePrice computes the mean "Price per kg" over rows matching the crop
// and, when region is non-empty, the region. Rows with non-numeric prices
// are skipped rather than counted as zero. The second return is false when
// no row matched.
func averagePrice(prices []models.PriceRecord, crop, region string) (float64, bool) {
	var sum float64
	var count int
	for _, row := range prices {
		if !strings.EqualFold(strings.TrimSpace(row[models.PriceCropColumn]), strings.TrimSpace(crop)) {
			continue
		}
		if region != "" && !strings.EqualFold(strings.TrimSpace(row[models.PriceRegionColumn]), strings.TrimSpace(region)) {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[models.PricePerKgColumn]), 64)
		if err != nil {
			continue
		}
		sum += value
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
