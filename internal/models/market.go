package models

import "time"

// Column names expected in the buyer directory and price history datasets.
// Rows are arbitrary key-value mappings; only these columns are interpreted.
const (
	BuyerCropInterestColumn = "Crop Interest"
	BuyerRegionColumn       = "Region"
	BuyerNameColumn         = "Buyer Name"

	PriceCropColumn   = "Crop"
	PriceRegionColumn = "Region"
	PricePerKgColumn  = "Price per kg"
)

// BuyerRecord is one row of the buyer directory.
type BuyerRecord map[string]string

// CropInterest returns the crop this buyer purchases.
func (b BuyerRecord) CropInterest() string { return b[BuyerCropInterestColumn] }

// Region returns the buyer's region.
func (b BuyerRecord) Region() string { return b[BuyerRegionColumn] }

// Name returns the buyer's display name, falling back to the region when
// the dataset has no name column.
func (b BuyerRecord) Name() string {
	if name := b[BuyerNameColumn]; name != "" {
		return name
	}
	return b[BuyerRegionColumn]
}

// Clone returns an independent copy of the record.
func (b BuyerRecord) Clone() BuyerRecord {
	out := make(BuyerRecord, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// PriceRecord is one row of the regional price history.
type PriceRecord map[string]string

// SellingInitiative pairs a generated recommendation with the buyer it was
// generated for. Initiatives accumulate in a process-lifetime ordered list.
type SellingInitiative struct {
	Crop           string      `json:"crop"`
	Buyer          BuyerRecord `json:"buyer,omitempty"`
	AveragePrice   float64     `json:"average_price,omitempty"`
	Recommendation string      `json:"recommendation"`
	CreatedAt      time.Time   `json:"created_at"`
}
