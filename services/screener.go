package services

import (
	"fmt"
	"strings"

	"card-arbitrage/config"
	"card-arbitrage/models"
	"card-arbitrage/utils"
)

var (
	goodConditionWords    = []string{"new", "mint", "新品", "未使用"}
	usedConditionWords    = []string{"used", "中古", "使用済み"}
	damagedConditionWords = []string{"damaged", "damage", "傷", "破損"}
)

// Screener is the cheap rule-based filter applied before any external
// price lookup. Screen is a pure function: same listing and card info
// always produce the same score and reasons.
type Screener struct {
	rules  config.ScreeningRules
	logger *utils.Logger
}

// NewScreener creates a Screener with the given rule set.
func NewScreener(rules config.ScreeningRules, logger *utils.Logger) *Screener {
	return &Screener{rules: rules, logger: logger}
}

// Threshold returns the minimum score required to pass screening.
func (s *Screener) Threshold() int {
	return s.rules.AcceptThreshold
}

// Screen evaluates all five rules in fixed order, summing their
// contributions without short-circuiting. One reason is recorded per
// rule that contributed, bonus or penalty alike.
func (s *Screener) Screen(listing *models.Listing, info models.CardInfo) models.ScreeningResult {
	score := 0
	var reasons []string

	// 1. Price band
	switch {
	case listing.PriceUSD < s.rules.TooCheapUSD:
		score -= 20
		reasons = append(reasons, fmt.Sprintf("Too cheap (<$%.0f)", s.rules.TooCheapUSD))
	case listing.PriceUSD > s.rules.TooExpensiveUSD:
		score -= 15
		reasons = append(reasons, fmt.Sprintf("Too expensive (>$%.0f)", s.rules.TooExpensiveUSD))
	case listing.PriceUSD >= s.rules.SweetSpotLowUSD && listing.PriceUSD <= s.rules.SweetSpotHighUSD:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Good price range ($%.0f-$%.0f)",
			s.rules.SweetSpotLowUSD, s.rules.SweetSpotHighUSD))
	}

	// 2. Valuable keywords in title (and in the extracted name, which may
	// carry the English canonical form of a Japanese title).
	haystack := strings.ToLower(listing.Title + " " + info.CardName)
	matches := 0
	for _, kw := range s.rules.ValuableKeywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			matches++
		}
	}
	switch {
	case matches >= 2:
		score += 15
		reasons = append(reasons, fmt.Sprintf("Valuable keywords found (%d)", matches))
	case matches == 1:
		score += 8
		reasons = append(reasons, "Some valuable keywords")
	default:
		score -= 10
		reasons = append(reasons, "No valuable keywords")
	}

	// 3. Condition
	condition := strings.ToLower(listing.ConditionText)
	switch {
	case containsAny(condition, goodConditionWords):
		score += 10
		reasons = append(reasons, "Good condition")
	case containsAny(condition, usedConditionWords):
		score += 5
		reasons = append(reasons, "Used but acceptable")
	case containsAny(condition, damagedConditionWords):
		score -= 15
		reasons = append(reasons, "Damaged condition")
	}

	// 4. Set code
	switch {
	case info.SetCode == "":
		score -= 5
		reasons = append(reasons, "No set code")
	case s.isValuableSet(info.SetCode):
		score += 10
		reasons = append(reasons, "Valuable set code")
	default:
		score += 2
		reasons = append(reasons, "Has set code")
	}

	// 5. Image presence
	if listing.ImageURL != "" && !strings.Contains(strings.ToLower(listing.ImageURL), "placeholder") {
		score += 5
		reasons = append(reasons, "Has real image")
	} else {
		score -= 5
		reasons = append(reasons, "No real image")
	}

	return models.ScreeningResult{Score: score, Reasons: reasons}
}

func (s *Screener) isValuableSet(setCode string) bool {
	upper := strings.ToUpper(setCode)
	for _, code := range s.rules.ValuableSets {
		if upper == strings.ToUpper(code) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
