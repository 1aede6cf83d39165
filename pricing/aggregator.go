package pricing

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

// Sale is one sold-listing sample returned by a reference source.
type Sale struct {
	ItemID    string
	Title     string
	Condition string
	Price     float64

	// GradeTier is the numeric professional grade (e.g. 9, 10) when the
	// source states one, 0 otherwise.
	GradeTier int
}

// Source is a reference-price backend: a marketplace sold-listing search
// or a sales-comps site.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]Sale, error)
}

// gradingTokens identify professionally graded items in titles or
// condition text.
var gradingTokens = []string{"psa", "bgs", "cgc", "sgc", "ars", "graded", "鑑定"}

var gradeTierRegexp = regexp.MustCompile(`(?i)(?:psa|bgs|cgc)[\s-]?(10|9)\b`)

// Aggregator queries the configured reference sources for sold prices and
// merges them into a categorized ReferencePriceSet. Lookups never fail:
// any transport or parse error is logged and degrades to an empty set,
// which downstream scoring treats as "no comparable data found".
type Aggregator struct {
	sources   []Source
	limiters  map[string]*rate.Limiter
	qualifier string
	logger    *utils.Logger
}

// NewAggregator wires the sources in priority order (primary first). The
// interval is the politeness delay enforced between successive queries to
// the same source.
func NewAggregator(sources []Source, queryQualifier string, interval time.Duration, logger *utils.Logger) *Aggregator {
	limiters := make(map[string]*rate.Limiter, len(sources))
	for _, src := range sources {
		limiters[src.Name()] = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Aggregator{
		sources:   sources,
		limiters:  limiters,
		qualifier: queryQualifier,
		logger:    logger,
	}
}

// FetchReferencePrices looks up sold prices for a card across all
// configured sources. The secondary source doubles as a fallback: when
// the primary yields nothing, its results are all that remain.
func (a *Aggregator) FetchReferencePrices(ctx context.Context, cardName, setCode string) models.ReferencePriceSet {
	ref := models.ReferencePriceSet{GradedTiers: make(map[int][]float64)}

	queries := a.buildQueries(cardName, setCode)
	if len(queries) == 0 {
		return ref
	}

	seen := utils.NewDedupeSet()

	for _, src := range a.sources {
		contributed := 0
		for _, query := range queries {
			if err := a.limiters[src.Name()].Wait(ctx); err != nil {
				a.logger.Warn("[pricing] %s: rate limiter interrupted: %v", src.Name(), err)
				return ref
			}

			sales, err := src.Search(ctx, query)
			if err != nil {
				a.logger.Warn("[pricing] %s lookup failed for %q: %v", src.Name(), query, err)
				continue
			}

			for _, sale := range sales {
				if sale.Price <= 0 {
					continue
				}
				if !seen.Add(dedupeKey(src.Name(), sale)) {
					continue
				}
				a.classify(&ref, sale)
				contributed++
			}
		}

		if contributed > 0 {
			ref.Sources = append(ref.Sources, src.Name())
		}
		a.logger.Debug("[pricing] %s contributed %d samples for %q", src.Name(), contributed, cardName)
	}

	a.logger.Info("[pricing] %q: %d ungraded, %d graded samples from %d source(s)",
		cardName, len(ref.Ungraded), len(ref.Graded), len(ref.Sources))
	return ref
}

// buildQueries combines the card name, optional set code and the game
// qualifier. The set-code variant runs first; the broader name-only
// variant catches listings that omit the code.
func (a *Aggregator) buildQueries(cardName, setCode string) []string {
	base := strings.TrimSpace(cardName)
	if base == "" {
		base = strings.TrimSpace(setCode)
		setCode = ""
	}
	if base == "" {
		return nil
	}

	var queries []string
	if setCode != "" {
		queries = append(queries, join(base, setCode, a.qualifier))
	}
	queries = append(queries, join(base, a.qualifier))
	return queries
}

// classify routes a sale into the graded or ungraded bucket, capturing
// the numeric tier when stated.
func (a *Aggregator) classify(ref *models.ReferencePriceSet, sale Sale) {
	text := strings.ToLower(sale.Title + " " + sale.Condition)

	tier := sale.GradeTier
	if tier == 0 {
		if m := gradeTierRegexp.FindStringSubmatch(text); m != nil {
			tier = int(m[1][0]-'0') // "9" → 9
			if m[1] == "10" {
				tier = 10
			}
		}
	}

	graded := tier > 0
	if !graded {
		for _, token := range gradingTokens {
			if strings.Contains(text, token) {
				graded = true
				break
			}
		}
	}

	if !graded {
		ref.Ungraded = append(ref.Ungraded, sale.Price)
		return
	}
	ref.Graded = append(ref.Graded, sale.Price)
	if tier > 0 {
		ref.GradedTiers[tier] = append(ref.GradedTiers[tier], sale.Price)
	}
}

func dedupeKey(source string, sale Sale) string {
	if sale.ItemID != "" {
		return source + "|" + sale.ItemID
	}
	return fmt.Sprintf("%s|%s|%.2f", source, sale.Title, sale.Price)
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
