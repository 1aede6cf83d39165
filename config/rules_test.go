package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()

	if r.Screening.AcceptThreshold != 15 {
		t.Errorf("AcceptThreshold = %d; want 15", r.Screening.AcceptThreshold)
	}
	if r.Scoring.MarketplaceFeeRate != 0.15 {
		t.Errorf("MarketplaceFeeRate = %v; want 0.15", r.Scoring.MarketplaceFeeRate)
	}
	if r.Scoring.ShippingEstimateUSD != 5.0 {
		t.Errorf("ShippingEstimateUSD = %v; want 5.0", r.Scoring.ShippingEstimateUSD)
	}
	if len(r.SearchTerms) == 0 {
		t.Error("default search terms must not be empty")
	}
	if len(r.Screening.ValuableKeywords) == 0 || len(r.Screening.ValuableSets) == 0 {
		t.Error("default keyword and set lists must not be empty")
	}
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	r, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules(\"\"): %v", err)
	}
	if r.Screening.AcceptThreshold != 15 {
		t.Errorf("AcceptThreshold = %d; want 15", r.Screening.AcceptThreshold)
	}
}

func TestLoadRulesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `
search_terms:
  - "青眼の白龍"
screening:
  accept_threshold: 25
  too_cheap_usd: 8
scoring:
  marketplace_fee_rate: 0.12
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if r.Screening.AcceptThreshold != 25 {
		t.Errorf("AcceptThreshold = %d; want 25", r.Screening.AcceptThreshold)
	}
	if r.Screening.TooCheapUSD != 8 {
		t.Errorf("TooCheapUSD = %v; want 8", r.Screening.TooCheapUSD)
	}
	if r.Scoring.MarketplaceFeeRate != 0.12 {
		t.Errorf("MarketplaceFeeRate = %v; want 0.12", r.Scoring.MarketplaceFeeRate)
	}
	if len(r.SearchTerms) != 1 || r.SearchTerms[0] != "青眼の白龍" {
		t.Errorf("SearchTerms = %v", r.SearchTerms)
	}
}

func TestLoadRulesMissingFileIsFatal(t *testing.T) {
	if _, err := LoadRules("/does/not/exist.yaml"); err == nil {
		t.Error("missing rules file must be an error, not a silent fallback")
	}
}

func TestLoadRulesMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("search_terms: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("malformed YAML must be an error")
	}
}
