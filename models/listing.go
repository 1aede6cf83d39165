package models

import "time"

// Listing is a candidate item offered for sale on a Japanese marketplace,
// as produced by a scraper.Source. Later pipeline stages never mutate it;
// derived data is attached to the Result record instead.
type Listing struct {
	Title         string    `json:"title"`
	PriceYen      int       `json:"price_yen"`
	PriceUSD      float64   `json:"price_usd"`
	ConditionText string    `json:"condition"`
	ImageURL      string    `json:"image_url,omitempty"`
	ListingURL    string    `json:"listing_url,omitempty"`
	YahooURL      string    `json:"yahoo_url,omitempty"`
	Source        string    `json:"source"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// Edition of a card print run.
type Edition string

const (
	EditionFirst     Edition = "first-edition"
	EditionUnlimited Edition = "unlimited"
	EditionUnknown   Edition = "unknown"
)

// Region is the language/region variant of a card.
type Region string

const (
	RegionJapanese Region = "Japanese"
	RegionEnglish  Region = "English"
	RegionAsian    Region = "Asian"
	RegionKorean   Region = "Korean"
	RegionUnknown  Region = "unknown"
)

// CardInfo holds the semantic fields extracted from a free-text title.
// Extraction is best-effort: any string field may be empty and no later
// stage requires one to be set.
type CardInfo struct {
	CardName   string  `json:"card_name,omitempty"`
	SetCode    string  `json:"set_code,omitempty"`
	CardNumber string  `json:"card_number,omitempty"`
	Edition    Edition `json:"edition"`
	Rarity     string  `json:"rarity,omitempty"`
	Region     Region  `json:"region"`
}

// ScreeningResult is the outcome of the cheap rule-based pre-screen.
// Reasons preserve rule evaluation order, one entry per rule that
// contributed a bonus or penalty.
type ScreeningResult struct {
	Score   int      `json:"screening_score"`
	Reasons []string `json:"screening_reasons"`
}

// ReferencePriceSet holds categorized sold-price samples gathered from the
// external reference sources. Both slices may be empty; that is a normal
// terminal state meaning no comparable data was found, not an error.
type ReferencePriceSet struct {
	Ungraded []float64 `json:"ungraded_prices"`
	Graded   []float64 `json:"graded_prices"`

	// GradedTiers buckets graded prices by numeric grade (e.g. 10, 9) when
	// the source distinguishes tiers. Tiered prices also appear in Graded.
	GradedTiers map[int][]float64 `json:"graded_tiers,omitempty"`

	// Sources names every upstream source that contributed at least one
	// price sample. Used for the data-reliability score component.
	Sources []string `json:"price_sources,omitempty"`
}

// Empty reports whether no reference prices were found at all.
func (r ReferencePriceSet) Empty() bool {
	return len(r.Ungraded) == 0 && len(r.Graded) == 0
}
