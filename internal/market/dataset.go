package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"farm-assist/internal/models"
)

// LoadBuyers reads the buyer directory. A missing file yields an empty
// dataset, not an error: matching then degrades to "no buyer found".
func LoadBuyers(path string) ([]models.BuyerRecord, error) {
	rows, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	buyers := make([]models.BuyerRecord, len(rows))
	for i, row := range rows {
		buyers[i] = models.BuyerRecord(row)
	}
	return buyers, nil
}

// LoadPrices reads the regional price history with the same missing-file
// behavior as LoadBuyers.
func LoadPrices(path string) ([]models.PriceRecord, error) {
	rows, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	prices := make([]models.PriceRecord, len(rows))
	for i, row := range rows {
		prices[i] = models.PriceRecord(row)
	}
	return prices, nil
}

// loadTable reads a row-oriented CSV into column-name-to-value maps using
// the header row. Short rows keep whatever columns they have.
func loadTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Dataset %s not found, using empty dataset", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row of %s: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
