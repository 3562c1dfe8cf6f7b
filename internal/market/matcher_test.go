package market

import (
	"reflect"
	"testing"

	"farm-assist/internal/models"
)

func buyer(crop, region string) models.BuyerRecord {
	return models.BuyerRecord{
		models.BuyerCropInterestColumn: crop,
		models.BuyerRegionColumn:       region,
	}
}

func priceRow(crop, region, price string) models.PriceRecord {
	return models.PriceRecord{
		models.PriceCropColumn:   crop,
		models.PriceRegionColumn: region,
		models.PricePerKgColumn:  price,
	}
}

func TestSelectBestBuyerPicksHighestAveragePrice(t *testing.T) {
	buyers := []models.BuyerRecord{
		buyer("Rice", "A"),
		buyer("Rice", "B"),
	}
	prices := []models.PriceRecord{
		priceRow("Rice", "A", "20"),
		priceRow("Rice", "B", "30"),
	}

	match := SelectBestBuyer([]string{"Rice"}, buyers, prices)
	if match == nil {
		t.Fatal("Expected a match")
	}
	if match.Buyer.Region() != "B" {
		t.Errorf("Expected region B buyer (higher price), got %q", match.Buyer.Region())
	}
	if match.AveragePrice != 30 {
		t.Errorf("Expected average price 30, got %v", match.AveragePrice)
	}
}

func TestSelectBestBuyerCropFilterIsCaseInsensitive(t *testing.T) {
	buyers := []models.BuyerRecord{buyer("RICE", "A")}
	prices := []models.PriceRecord{priceRow("rice", "a", "25")}

	match := SelectBestBuyer([]string{"Rice"}, buyers, prices)
	if match == nil {
		t.Fatal("Expected a case-insensitive match")
	}
	if match.AveragePrice != 25 {
		t.Errorf("Expected average price 25, got %v", match.AveragePrice)
	}
}

func TestSelectBestBuyerRegionFallback(t *testing.T) {
	// No price rows for region C; the crop-wide average must be used.
	buyers := []models.BuyerRecord{buyer("Corn", "C")}
	prices := []models.PriceRecord{
		priceRow("Corn", "A", "10"),
		priceRow("Corn", "B", "20"),
	}

	match := SelectBestBuyer([]string{"Corn"}, buyers, prices)
	if match == nil {
		t.Fatal("Expected a fallback match")
	}
	if match.AveragePrice != 15 {
		t.Errorf("Expected crop-wide average 15, got %v", match.AveragePrice)
	}
}

func TestSelectBestBuyerSkipsNonNumericPrices(t *testing.T) {
	buyers := []models.BuyerRecord{buyer("Rice", "A")}
	prices := []models.PriceRecord{
		priceRow("Rice", "A", "n/a"),
		priceRow("Rice", "A", "20"),
		priceRow("Rice", "A", "40"),
	}

	match := SelectBestBuyer([]string{"Rice"}, buyers, prices)
	if match == nil {
		t.Fatal("Expected a match")
	}
	// Non-numeric rows are skipped, not counted as zero.
	if match.AveragePrice != 30 {
		t.Errorf("Expected average 30 over the numeric rows, got %v", match.AveragePrice)
	}
}

func TestSelectBestBuyerNoPriceSignal(t *testing.T) {
	buyers := []models.BuyerRecord{
		buyer("Rice", "A"),
		buyer("Rice", "B"),
	}
	prices := []models.PriceRecord{
		priceRow("Corn", "A", "50"),
	}

	if match := SelectBestBuyer([]string{"Rice"}, buyers, prices); match != nil {
		t.Errorf("Expected no match without a price signal, got %v", match)
	}
}

func TestSelectBestBuyerNoInterestedBuyers(t *testing.T) {
	buyers := []models.BuyerRecord{buyer("Banana", "A")}
	prices := []models.PriceRecord{priceRow("Banana", "A", "15")}

	if match := SelectBestBuyer([]string{"Rice"}, buyers, prices); match != nil {
		t.Errorf("Expected no match when no buyer wants the user's crops, got %v", match)
	}
}

func TestSelectBestBuyerTieKeepsFirstEncountered(t *testing.T) {
	buyers := []models.BuyerRecord{
		buyer("Rice", "A"),
		buyer("Rice", "B"),
	}
	prices := []models.PriceRecord{
		priceRow("Rice", "A", "30"),
		priceRow("Rice", "B", "30"),
	}

	match := SelectBestBuyer([]string{"Rice"}, buyers, prices)
	if match == nil {
		t.Fatal("Expected a match")
	}
	if match.Buyer.Region() != "A" {
		t.Errorf("Expected first-encountered buyer to win the tie, got region %q", match.Buyer.Region())
	}
}

func TestSelectBestBuyerDoesNotMutateInputs(t *testing.T) {
	buyers := []models.BuyerRecord{
		buyer("Rice", "A"),
		buyer("Rice", "B"),
	}
	prices := []models.PriceRecord{
		priceRow("Rice", "A", "20"),
		priceRow("Rice", "B", "30"),
	}

	buyersBefore := make([]models.BuyerRecord, len(buyers))
	for i, b := range buyers {
		buyersBefore[i] = b.Clone()
	}

	SelectBestBuyer([]string{"Rice"}, buyers, prices)

	for i := range buyers {
		if !reflect.DeepEqual(buyers[i], buyersBefore[i]) {
			t.Errorf("Buyer %d was mutated: %v", i, buyers[i])
		}
	}
}
