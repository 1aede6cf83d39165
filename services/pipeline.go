package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

// PriceFetcher is the pipeline's view of the external price aggregator.
type PriceFetcher interface {
	FetchReferencePrices(ctx context.Context, cardName, setCode string) models.ReferencePriceSet
}

// Pipeline stages listings through extraction, screening, reference-price
// lookup and scoring. Only listings at or above the screening threshold
// ever reach the price fetcher; everything else is logged and dropped.
type Pipeline struct {
	extractor *Extractor
	screener  *Screener
	scorer    *Scorer
	fetcher   PriceFetcher
	logger    *utils.Logger

	maxConcurrency int
	rateLimitMs    int
}

// NewPipeline wires the pipeline stages together. maxConcurrency and
// rateLimitMs bound the price-lookup fan-out; lookups are independent
// pure-after-fetch computations, so parallelizing them is safe.
func NewPipeline(extractor *Extractor, screener *Screener, scorer *Scorer,
	fetcher PriceFetcher, maxConcurrency, rateLimitMs int, logger *utils.Logger) *Pipeline {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Pipeline{
		extractor:      extractor,
		screener:       screener,
		scorer:         scorer,
		fetcher:        fetcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
	}
}

type screenedListing struct {
	listing   *models.Listing
	info      models.CardInfo
	screening models.ScreeningResult
}

// Process runs one search term's listings through the full pipeline and
// returns the enriched results sorted by arbitrage score, best first.
func (p *Pipeline) Process(ctx context.Context, term string, listings []*models.Listing) []*models.Result {
	promising := p.screenAll(term, listings)
	if len(promising) == 0 {
		return nil
	}

	results := make([]*models.Result, 0, len(promising))
	var mu sync.Mutex

	pool := utils.NewWorkerPool(p.maxConcurrency, p.rateLimitMs)
	for _, cand := range promising {
		cand := cand
		pool.Submit(func() {
			result := p.analyze(ctx, term, cand)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	pool.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Assessment.Score != results[j].Assessment.Score {
			return results[i].Assessment.Score > results[j].Assessment.Score
		}
		return results[i].Title < results[j].Title
	})
	return results
}

// screenAll extracts and screens every listing sequentially. Rejected
// listings keep their screening result in the logs only.
func (p *Pipeline) screenAll(term string, listings []*models.Listing) []screenedListing {
	threshold := p.screener.Threshold()
	promising := make([]screenedListing, 0, len(listings))

	for _, listing := range listings {
		info := p.extractor.Extract(listing.Title)
		screening := p.screener.Screen(listing, info)

		if screening.Score < threshold {
			p.logger.Debug("[pipeline] SKIPPED (score %d): %s — %s",
				screening.Score, listing.Title, strings.Join(screening.Reasons, ", "))
			continue
		}

		p.logger.Info("[pipeline] PROMISING (score %d): %s — %s",
			screening.Score, listing.Title, strings.Join(screening.Reasons, ", "))
		promising = append(promising, screenedListing{listing: listing, info: info, screening: screening})
	}

	p.logger.Info("[pipeline] Pre-screening for %q: %d/%d listings selected",
		term, len(promising), len(listings))
	return promising
}

// analyze performs the price lookup and scoring for one screened listing.
// A listing with no extracted identity skips the lookup; the scorer then
// degrades it to a zero-score PASS.
func (p *Pipeline) analyze(ctx context.Context, term string, cand screenedListing) *models.Result {
	var ref models.ReferencePriceSet
	if cand.info.CardName != "" || cand.info.SetCode != "" {
		ref = p.fetcher.FetchReferencePrices(ctx, cand.info.CardName, cand.info.SetCode)
	} else {
		p.logger.Debug("[pipeline] No card identity extracted, skipping price lookup: %s", cand.listing.Title)
	}

	assessment := p.scorer.Score(cand.listing, cand.info, cand.screening, ref)

	return &models.Result{
		Listing:    *cand.listing,
		Card:       cand.info,
		Screening:  cand.screening,
		Reference:  ref,
		Assessment: assessment,
		SearchTerm: term,
	}
}
