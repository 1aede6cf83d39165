package services

import (
	"strings"

	"card-arbitrage/config"
	"card-arbitrage/models"
	"card-arbitrage/utils"
)

var playedConditionWords = []string{"used", "played", "中古", "使用済み", "プレイ"}

// Scorer turns a listing, its reference prices and its condition into a
// profit estimate, a 0-100 score and a discrete recommendation. Score is
// a pure function with no randomness: missing data degrades to PASS with
// zero score, never to a simulated value.
type Scorer struct {
	rules  config.ScoringRules
	logger *utils.Logger
}

// NewScorer creates a Scorer with the given cost-model rules.
func NewScorer(rules config.ScoringRules, logger *utils.Logger) *Scorer {
	return &Scorer{rules: rules, logger: logger}
}

// Score assesses one pre-screened listing. The screening result is part
// of the operation's contract so callers can carry it into the final
// record; it does not influence the arbitrage arithmetic.
func (s *Scorer) Score(listing *models.Listing, info models.CardInfo,
	screening models.ScreeningResult, ref models.ReferencePriceSet) models.Assessment {

	target, ok := targetReferencePrice(ref)
	if !ok {
		// No comparable data anywhere: terminal PASS, profit and margin
		// stay undefined.
		return models.Assessment{Score: 0, Recommendation: models.Pass}
	}

	target *= s.conditionMultiplier(listing.ConditionText)

	fees := target * s.rules.MarketplaceFeeRate
	totalCost := fees + s.rules.ShippingEstimateUSD
	profit := target - listing.PriceUSD - totalCost

	margin := 0.0
	marginDefined := listing.PriceUSD > 0
	if marginDefined {
		margin = profit / listing.PriceUSD * 100
	}

	score := marginComponent(margin) +
		profitComponent(profit) +
		reliabilityComponent(len(ref.Sources)) +
		riskComponent(margin)

	assessment := models.Assessment{
		TargetPrice:     &target,
		EstimatedProfit: &profit,
		Score:           score,
		Recommendation:  recommend(score, margin, profit),
	}
	if marginDefined {
		assessment.ProfitMarginPct = &margin
	}
	return assessment
}

// targetReferencePrice picks the single price representing fair market
// value, in fixed priority order: mean of the highest graded tier, mean
// of all graded prices, mean of ungraded prices.
func targetReferencePrice(ref models.ReferencePriceSet) (float64, bool) {
	bestTier := 0
	for tier, prices := range ref.GradedTiers {
		if len(prices) > 0 && tier > bestTier {
			bestTier = tier
		}
	}
	if bestTier > 0 {
		return mean(ref.GradedTiers[bestTier]), true
	}
	if len(ref.Graded) > 0 {
		return mean(ref.Graded), true
	}
	if len(ref.Ungraded) > 0 {
		return mean(ref.Ungraded), true
	}
	return 0, false
}

// conditionMultiplier discounts the target price for worn cards.
// Unrecognized condition text maps to 1.0, same as the new/mint family.
func (s *Scorer) conditionMultiplier(condition string) float64 {
	lower := strings.ToLower(condition)
	switch {
	case containsAny(lower, goodConditionWords):
		return 1.0
	case containsAny(lower, playedConditionWords):
		return 0.8
	case containsAny(lower, damagedConditionWords):
		return 0.6
	default:
		return 1.0
	}
}

func marginComponent(margin float64) int {
	switch {
	case margin >= 50:
		return 40
	case margin >= 30:
		return 30
	case margin >= 20:
		return 20
	case margin >= 10:
		return 10
	default:
		return 0
	}
}

func profitComponent(profit float64) int {
	switch {
	case profit >= 100:
		return 30
	case profit >= 50:
		return 20
	case profit >= 25:
		return 10
	default:
		return 0
	}
}

func reliabilityComponent(sources int) int {
	switch {
	case sources >= 2:
		return 20
	case sources == 1:
		return 10
	default:
		return 0
	}
}

func riskComponent(margin float64) int {
	switch {
	case margin < 0:
		return 0
	case margin < 10:
		return 5
	default:
		return 10
	}
}

// recommend applies the threshold table top-down; the first row whose
// score, margin and profit conditions all hold wins.
func recommend(score int, margin, profit float64) models.Recommendation {
	switch {
	case score >= 70 && margin >= 30 && profit >= 50:
		return models.StrongBuy
	case score >= 50 && margin >= 20 && profit >= 25:
		return models.Buy
	case score >= 30 && margin >= 10 && profit >= 10:
		return models.Consider
	default:
		return models.Pass
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
