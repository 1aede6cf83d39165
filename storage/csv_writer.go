package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"card-arbitrage/models"
)

// CSVWriter appends scored results to a CSV file for spreadsheet review.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"search_term", "title", "price_yen", "price_usd", "condition",
		"image_url", "listing_url", "yahoo_url",
		"card_name", "set_code", "card_number", "edition", "rarity", "region",
		"screening_score", "screening_reasons",
		"ungraded_samples", "graded_samples",
		"target_reference_price", "estimated_profit", "profit_margin_pct",
		"score", "recommendation",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per result.
func (c *CSVWriter) Write(term string, results []*models.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		row := []string{
			term,
			r.Title,
			strconv.Itoa(r.PriceYen),
			fmt.Sprintf("%.2f", r.PriceUSD),
			r.ConditionText,
			r.ImageURL,
			r.ListingURL,
			r.YahooURL,
			r.Card.CardName,
			r.Card.SetCode,
			r.Card.CardNumber,
			string(r.Card.Edition),
			r.Card.Rarity,
			string(r.Card.Region),
			strconv.Itoa(r.Screening.Score),
			strings.Join(r.Screening.Reasons, "; "),
			strconv.Itoa(len(r.Reference.Ungraded)),
			strconv.Itoa(len(r.Reference.Graded)),
			formatNullable(r.Assessment.TargetPrice),
			formatNullable(r.Assessment.EstimatedProfit),
			formatNullable(r.Assessment.ProfitMarginPct),
			strconv.Itoa(r.Assessment.Score),
			r.Assessment.Recommendation.String(),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
