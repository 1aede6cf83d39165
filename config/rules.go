package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules carries the tunable matching and scoring constants of the pipeline.
// Defaults reproduce the canonical thresholds; a YAML file given via
// RULES_PATH overrides individual fields.
type Rules struct {
	SearchTerms []string       `yaml:"search_terms"`
	Screening   ScreeningRules `yaml:"screening"`
	Scoring     ScoringRules   `yaml:"scoring"`
}

// ScreeningRules configures the pre-screen filter.
type ScreeningRules struct {
	// AcceptThreshold is the minimum screening score for a listing to be
	// analyzed further. Listings below it are logged and dropped.
	AcceptThreshold int `yaml:"accept_threshold"`

	TooCheapUSD     float64 `yaml:"too_cheap_usd"`
	TooExpensiveUSD float64 `yaml:"too_expensive_usd"`
	SweetSpotLowUSD float64 `yaml:"sweet_spot_low_usd"`
	SweetSpotHighUSD float64 `yaml:"sweet_spot_high_usd"`

	// ValuableKeywords are matched case-insensitively against titles.
	// Both Latin and Japanese forms belong here.
	ValuableKeywords []string `yaml:"valuable_keywords"`

	// ValuableSets is the allow-list of set codes that earn the full
	// set-code bonus.
	ValuableSets []string `yaml:"valuable_sets"`
}

// ScoringRules configures the arbitrage cost model and query building.
type ScoringRules struct {
	MarketplaceFeeRate  float64 `yaml:"marketplace_fee_rate"`
	ShippingEstimateUSD float64 `yaml:"shipping_estimate_usd"`

	// QueryQualifier is appended to reference-price searches to keep
	// results inside the game's market (e.g. "Yu-Gi-Oh!").
	QueryQualifier string `yaml:"query_qualifier"`
}

// DefaultRules returns the canonical rule set.
func DefaultRules() *Rules {
	return &Rules{
		SearchTerms: []string{
			"遊戯王 初期 美品",
			"遊戯王 レリーフ",
			"遊戯王 シークレット 1st",
			"遊戯王 ウルトラ 1st",
			"青眼の白龍 レリーフ",
			"ブラック・マジシャン シークレット",
		},
		Screening: ScreeningRules{
			AcceptThreshold:  15,
			TooCheapUSD:      5,
			TooExpensiveUSD:  1000,
			SweetSpotLowUSD:  10,
			SweetSpotHighUSD: 200,
			ValuableKeywords: []string{
				"blue-eyes", "blue eyes", "青眼",
				"dark magician", "ブラック・マジシャン",
				"red-eyes", "red eyes", "レッドアイズ",
				"lob", "mfc", "psv",
				"1st", "first", "初版",
				"ultra", "secret", "シークレット",
				"mint", "new", "新品", "unused", "未使用",
			},
			ValuableSets: []string{"LOB", "MFC", "PSV", "MRD", "SRL", "LON"},
		},
		Scoring: ScoringRules{
			MarketplaceFeeRate:  0.15,
			ShippingEstimateUSD: 5.0,
			QueryQualifier:      "Yu-Gi-Oh!",
		},
	}
}

// LoadRules returns the default rules, overlaid with the YAML file at path
// when one is given. A missing or unreadable file is a fatal configuration
// error: silently falling back to defaults would hide typos in RULES_PATH.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("rules: parse %q: %w", path, err)
	}
	if rules.Screening.AcceptThreshold == 0 {
		rules.Screening.AcceptThreshold = 15
	}
	return rules, nil
}
