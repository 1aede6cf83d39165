package buyee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"card-arbitrage/config"
	"card-arbitrage/models"
	"card-arbitrage/utils"
)

const (
	searchURLFormat = "https://buyee.jp/item/search/query/%s"
	sourceName      = "buyee"
)

var (
	yenRegexp = regexp.MustCompile(`[\d,]+`)
	// auctionIDRegexp pulls the Yahoo Auction id out of a Buyee item URL.
	auctionIDRegexp = regexp.MustCompile(`/([a-z]\d+)(?:\?|$)`)
)

// Scraper collects card listings from Buyee search result pages with a
// headless browser. Buyee renders item cards client-side, so plain HTTP
// fetches return an empty shell.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	seen   *utils.DedupeSet
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Buyee scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		seen:   utils.NewDedupeSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

func (s *Scraper) Name() string { return sourceName }

// rawItem mirrors the fields collected in the browser.
type rawItem struct {
	Title     string `json:"title"`
	PriceText string `json:"price"`
	Condition string `json:"condition"`
	ImageURL  string `json:"image"`
	URL       string `json:"url"`
}

// Search scrapes one results page for the query and converts the item
// cards into listings. Duplicate listing URLs across searches in the
// same run are dropped.
func (s *Scraper) Search(ctx context.Context, query string, maxResults int) ([]*models.Listing, error) {
	s.logger.Info("[buyee] Searching for %q (max %d results)", query, maxResults)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(s.cfg.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var items []rawItem
	err := s.retry.Do("buyee-search", func() error {
		tabCtx, cancel := chromedp.NewContext(allocCtx,
			chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		searchURL := fmt.Sprintf(searchURLFormat, url.PathEscape(query))

		var raw string
		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(searchURL),
			chromedp.WaitVisible("li.itemCard", chromedp.ByQuery),
			chromedp.Evaluate(collectItemsJS, &raw),
		); err != nil {
			return err
		}

		items = nil
		return json.Unmarshal([]byte(raw), &items)
	})
	if err != nil {
		return nil, fmt.Errorf("buyee: search %q: %w", query, err)
	}

	listings := make([]*models.Listing, 0, len(items))
	for _, item := range items {
		if len(listings) >= maxResults {
			break
		}

		listing, ok := s.toListing(item)
		if !ok {
			continue
		}
		listings = append(listings, listing)
	}

	s.logger.Info("[buyee] %q: %d listings collected", query, len(listings))
	return listings, nil
}

// toListing validates and converts one scraped card. Items without a URL
// or a parseable price are dropped here, before they reach the pipeline.
func (s *Scraper) toListing(item rawItem) (*models.Listing, bool) {
	itemURL := strings.TrimSpace(item.URL)
	if itemURL == "" {
		s.logger.Warn("[buyee] Dropping item with empty URL: %s", item.Title)
		return nil, false
	}
	if !s.seen.Add(itemURL) {
		s.logger.Debug("[buyee] Duplicate URL skipped: %s", itemURL)
		return nil, false
	}

	yen, ok := parseYen(item.PriceText)
	if !ok {
		s.logger.Warn("[buyee] Dropping item with unparseable price %q: %s", item.PriceText, item.Title)
		return nil, false
	}

	condition := strings.TrimSpace(item.Condition)
	if condition == "" {
		condition = "Unknown"
	}

	image := item.ImageURL
	if strings.Contains(strings.ToLower(image), "noimage") {
		image = ""
	}

	return &models.Listing{
		Title:         normalizeText(item.Title),
		PriceYen:      yen,
		PriceUSD:      float64(yen) * s.cfg.JPYUSDRate,
		ConditionText: condition,
		ImageURL:      image,
		ListingURL:    itemURL,
		YahooURL:      deriveYahooURL(itemURL),
		Source:        sourceName,
		ScrapedAt:     time.Now(),
	}, true
}

// parseYen extracts an integer yen amount from a price string like
// "1,200 円".
func parseYen(raw string) (int, bool) {
	match := yenRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// deriveYahooURL maps a Buyee item URL back to the underlying Yahoo
// Auction page when the auction id is recognizable.
func deriveYahooURL(listingURL string) string {
	m := auctionIDRegexp.FindStringSubmatch(listingURL)
	if m == nil {
		return ""
	}
	return "https://page.auctions.yahoo.co.jp/jp/auction/" + m[1]
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// findChromeBinary returns the configured browser binary, else the first
// one found on PATH.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// collectItemsJS gathers the visible item cards into a JSON array.
const collectItemsJS = `
(function() {
	var cards = document.querySelectorAll('li.itemCard');
	var items = [];
	for (var i = 0; i < cards.length; i++) {
		var card = cards[i];
		var titleEl = card.querySelector('div.itemCard__itemName');
		var priceEl = card.querySelector('.itemCard__itemInfo .g-price');
		var condEl = card.querySelector('div.itemCard__condition');
		var linkEl = card.querySelector('a');
		var imgEl = card.querySelector('img.g-thumbnail__image') || card.querySelector('img');

		if (!titleEl || !priceEl || !linkEl) continue;

		items.push({
			title: titleEl.textContent.trim(),
			price: priceEl.textContent.trim(),
			condition: condEl ? condEl.textContent.trim() : '',
			image: imgEl ? (imgEl.src || imgEl.getAttribute('data-src') || '') : '',
			url: linkEl.href
		});
	}
	return JSON.stringify(items);
})()
`
