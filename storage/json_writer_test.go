package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"card-arbitrage/models"
)

func sampleResults() []*models.Result {
	profit := 87.8
	margin := 175.6
	target := 168.0
	return []*models.Result{
		{
			Listing: models.Listing{
				Title:      "青眼の白龍 シークレット",
				PriceYen:   7500,
				PriceUSD:   50.25,
				ListingURL: "https://buyee.jp/item/x123",
				Source:     "buyee",
			},
			Card: models.CardInfo{
				CardName: "Blue-Eyes White Dragon",
				SetCode:  "LOB",
				Edition:  models.EditionFirst,
				Region:   models.RegionJapanese,
			},
			Screening: models.ScreeningResult{Score: 45, Reasons: []string{"Good price range ($10-$200)"}},
			Assessment: models.Assessment{
				TargetPrice:     &target,
				EstimatedProfit: &profit,
				ProfitMarginPct: &margin,
				Score:           80,
				Recommendation:  models.StrongBuy,
			},
			SearchTerm: "青眼の白龍",
		},
	}
}

func TestJSONWriterWriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJSONWriter(dir)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}

	if err := w.Write("青眼の白龍 レリーフ", sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("output dir has %d entries; want exactly 1 (no temp leftovers)", len(entries))
	}

	name := entries[0].Name()
	if !strings.HasPrefix(name, "arbitrage_") || !strings.HasSuffix(name, w.RunID()+".json") {
		t.Errorf("file name %q does not follow arbitrage_<term>_<run>.json", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var decoded []models.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d results; want 1", len(decoded))
	}
	got := decoded[0]
	if got.Title != "青眼の白龍 シークレット" || got.Card.SetCode != "LOB" || got.Assessment.Score != 80 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestJSONWriterRecommendationAsString(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJSONWriter(dir)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}
	if err := w.Write("term", sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"recommendation": "STRONG_BUY"`) {
		t.Error("recommendation should serialize as its string form")
	}
}

func TestJSONWriterEmptyResults(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJSONWriter(dir)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}
	if err := w.Write("term", nil); err != nil {
		t.Fatalf("Write(nil): %v", err)
	}
}

func TestSanitizeTerm(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"青眼の白龍 レリーフ", "青眼の白龍_レリーフ"},
		{"yu-gi-oh! 1st", "yu_gi_oh_1st"},
		{"  ", "search"},
		{"***", "search"},
	}

	for _, tt := range tests {
		if got := sanitizeTerm(tt.term); got != tt.want {
			t.Errorf("sanitizeTerm(%q) = %q; want %q", tt.term, got, tt.want)
		}
	}
}
