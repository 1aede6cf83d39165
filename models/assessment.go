package models

// Recommendation is the discrete action derived from an arbitrage score.
// The ordering PASS < CONSIDER < BUY < STRONG_BUY is meaningful: a higher
// tier is always a stronger signal.
type Recommendation int

const (
	Pass Recommendation = iota
	Consider
	Buy
	StrongBuy
)

func (r Recommendation) String() string {
	switch r {
	case StrongBuy:
		return "STRONG_BUY"
	case Buy:
		return "BUY"
	case Consider:
		return "CONSIDER"
	default:
		return "PASS"
	}
}

// MarshalJSON renders the recommendation as its string form.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// Assessment is the final arbitrage verdict for a listing. Profit and
// margin are nil when no reference price data was available, or (margin
// only) when the listing price is zero.
type Assessment struct {
	TargetPrice     *float64       `json:"target_reference_price,omitempty"`
	EstimatedProfit *float64       `json:"estimated_profit"`
	ProfitMarginPct *float64       `json:"profit_margin_pct"`
	Score           int            `json:"score"`
	Recommendation  Recommendation `json:"recommendation"`
}

// Result is the enriched record persisted for every listing that passed
// pre-screening. This is the durable output contract consumed by any
// presentation layer.
type Result struct {
	Listing
	Card       CardInfo          `json:"card"`
	Screening  ScreeningResult   `json:"screening"`
	Reference  ReferencePriceSet `json:"reference_prices"`
	Assessment Assessment        `json:"assessment"`
	SearchTerm string            `json:"search_term"`
}

// RunSummary aggregates one pipeline run for reporting.
type RunSummary struct {
	TotalScraped     int
	TotalAnalyzed    int
	Profitable       int
	StrongBuys       int
	Buys             int
	Considers        int
	AverageScore     float64
	AverageMargin    float64
	MaxProfit        float64
	TopOpportunities []*Result
}
