package services

import (
	"fmt"
	"sort"
	"strings"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

// ReportService aggregates a run's results into a summary and renders it
// to the console.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService with the given logger.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate computes the run summary over all scored results.
func (s *ReportService) Generate(totalScraped int, results []*models.Result) *models.RunSummary {
	summary := &models.RunSummary{
		TotalScraped:  totalScraped,
		TotalAnalyzed: len(results),
	}

	if len(results) == 0 {
		return summary
	}

	var scoreTotal, marginTotal float64
	marginCount := 0

	for _, r := range results {
		scoreTotal += float64(r.Assessment.Score)

		if r.Assessment.ProfitMarginPct != nil {
			marginTotal += *r.Assessment.ProfitMarginPct
			marginCount++
			if *r.Assessment.ProfitMarginPct > 0 {
				summary.Profitable++
			}
		}
		if r.Assessment.EstimatedProfit != nil && *r.Assessment.EstimatedProfit > summary.MaxProfit {
			summary.MaxProfit = *r.Assessment.EstimatedProfit
		}

		switch r.Assessment.Recommendation {
		case models.StrongBuy:
			summary.StrongBuys++
		case models.Buy:
			summary.Buys++
		case models.Consider:
			summary.Considers++
		}
	}

	summary.AverageScore = round1(scoreTotal / float64(len(results)))
	if marginCount > 0 {
		summary.AverageMargin = round1(marginTotal / float64(marginCount))
	}

	// Top 5 actionable opportunities, best score first.
	var actionable []*models.Result
	for _, r := range results {
		if r.Assessment.Recommendation >= models.Buy {
			actionable = append(actionable, r)
		}
	}
	sort.SliceStable(actionable, func(i, j int) bool {
		return actionable[i].Assessment.Score > actionable[j].Assessment.Score
	})
	if len(actionable) > 5 {
		actionable = actionable[:5]
	}
	summary.TopOpportunities = actionable

	return summary
}

// Print renders the summary in the console report format.
func (s *ReportService) Print(r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ARBITRAGE ANALYSIS SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings scraped       : \033[1m%d\033[0m\n", r.TotalScraped)
	fmt.Printf("  Listings analyzed      : \033[1m%d\033[0m\n", r.TotalAnalyzed)
	fmt.Printf("  Profitable candidates  : \033[1m%d\033[0m\n", r.Profitable)
	fmt.Println()

	fmt.Printf("\033[1;33m  Recommendations\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  STRONG BUY : \033[1;32m%d\033[0m\n", r.StrongBuys)
	fmt.Printf("  BUY        : \033[1;32m%d\033[0m\n", r.Buys)
	fmt.Printf("  CONSIDER   : \033[1;33m%d\033[0m\n", r.Considers)
	fmt.Println()

	if r.TotalAnalyzed > 0 {
		fmt.Printf("\033[1;33m  Scores\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Average arbitrage score : \033[1m%.1f\033[0m/100\n", r.AverageScore)
		fmt.Printf("  Average profit margin   : \033[1m%.1f%%\033[0m\n", r.AverageMargin)
		fmt.Printf("  Maximum profit          : \033[1;32m$%.2f\033[0m\n", r.MaxProfit)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top Opportunities\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopOpportunities) == 0 {
		fmt.Printf("  No BUY or STRONG BUY opportunities this run\n")
	} else {
		for i, res := range r.TopOpportunities {
			profit := 0.0
			margin := 0.0
			if res.Assessment.EstimatedProfit != nil {
				profit = *res.Assessment.EstimatedProfit
			}
			if res.Assessment.ProfitMarginPct != nil {
				margin = *res.Assessment.ProfitMarginPct
			}
			fmt.Printf("  \033[1m%d.\033[0m %s\n", i+1, truncate(res.Title, 48))
			fmt.Printf("     Price: ¥%d ($%.2f)\n", res.PriceYen, res.PriceUSD)
			fmt.Printf("     Profit: \033[1;32m$%.2f\033[0m (%.1f%%) — score %d/100 — %s\n",
				profit, margin, res.Assessment.Score, res.Assessment.Recommendation)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
