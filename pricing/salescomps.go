package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"card-arbitrage/utils"
)

var priceCleanRegexp = regexp.MustCompile(`[^\d.]`)

// CompsSource scrapes a sales-comps site (130point-style) for recent sold
// prices. Unlike the eBay API it returns tier-annotated graded sales
// (PSA 9 vs PSA 10), which the scorer prefers when picking a target price.
type CompsSource struct {
	client  *http.Client
	baseURL string
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// NewCompsSource creates the secondary reference source.
func NewCompsSource(baseURL string, timeout time.Duration, retries int, logger *utils.Logger) *CompsSource {
	return &CompsSource{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		retry: &utils.RetryConfig{
			MaxAttempts: retries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

func (s *CompsSource) Name() string { return "salescomps" }

// Search posts the sales-search form and parses the HTML table of sold
// items. The endpoint answers cross-origin form posts from the public
// site, so the matching Origin and Referer headers are required.
func (s *CompsSource) Search(ctx context.Context, query string) ([]Sale, error) {
	form := url.Values{
		"query":  {query},
		"type":   {"2"},
		"subcat": {"-1"},
	}

	var doc *goquery.Document
	err := s.retry.Do("comps-search", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.baseURL+"/sales/", strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Origin", "https://130point.com")
		req.Header.Set("Referer", "https://130point.com/")
		req.Header.Set("User-Agent",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("salescomps: search %q: %w", query, err)
	}

	return parseCompsDocument(doc), nil
}

// parseCompsDocument extracts sold items from the results markup. Rows
// that fail to parse are skipped; the page layout is not under our
// control and partial data is still useful.
func parseCompsDocument(doc *goquery.Document) []Sale {
	var sales []Sale

	doc.Find("tr#rowsold_dataTable, .sale-item, .item").Each(func(_ int, row *goquery.Selection) {
		priceText := row.Find(".bidLink").First().Text()
		if priceText == "" {
			priceText, _ = row.Find("[data-price]").First().Attr("data-price")
		}
		price, err := strconv.ParseFloat(priceCleanRegexp.ReplaceAllString(priceText, ""), 64)
		if err != nil || price <= 0 {
			return
		}

		condition := strings.TrimSpace(row.Find(".condition, .grade").First().Text())
		title := strings.TrimSpace(row.Find(".itemTitle, .title").First().Text())
		itemID, _ := row.Attr("data-itemid")

		sales = append(sales, Sale{
			ItemID:    itemID,
			Title:     title,
			Condition: condition,
			Price:     price,
			GradeTier: parseGradeTier(condition),
		})
	})

	return sales
}

// parseGradeTier reads a stated professional grade like "PSA 10" from
// condition text. Only tiers 9 and 10 are distinguished; anything else is
// treated as generic graded or ungraded by the aggregator.
func parseGradeTier(condition string) int {
	lower := strings.ToLower(condition)
	switch {
	case strings.Contains(lower, "psa 10"), strings.Contains(lower, "psa10"):
		return 10
	case strings.Contains(lower, "psa 9"), strings.Contains(lower, "psa9"):
		return 9
	default:
		return 0
	}
}
