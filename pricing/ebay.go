package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"card-arbitrage/utils"
)

const ebaySearchPath = "/buy/browse/v1/item_summary/search"

// EbaySource fetches sold-listing prices through the eBay Browse API.
type EbaySource struct {
	client  *http.Client
	baseURL string
	token   string
	limit   int
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// NewEbaySource creates the primary reference source. The token must be a
// valid OAuth application token; startup validation guarantees it is set
// whenever this source is enabled.
func NewEbaySource(baseURL, token string, timeout time.Duration, retries int, logger *utils.Logger) *EbaySource {
	return &EbaySource{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
		limit:   50,
		retry: &utils.RetryConfig{
			MaxAttempts: retries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

func (s *EbaySource) Name() string { return "ebay" }

// Search queries sold items matching the query and maps them to Sales.
func (s *EbaySource) Search(ctx context.Context, query string) ([]Sale, error) {
	endpoint := s.baseURL + ebaySearchPath + "?" + url.Values{
		"q":      {query},
		"filter": {"soldItems:true"},
		"limit":  {strconv.Itoa(s.limit)},
	}.Encode()

	var body []byte
	err := s.retry.Do("ebay-search", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ebay: search %q: %w", query, err)
	}

	return parseEbayResponse(body)
}

type ebaySearchResponse struct {
	ItemSummaries []struct {
		ItemID    string `json:"itemId"`
		Title     string `json:"title"`
		Condition string `json:"condition"`
		Price     struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"itemSummaries"`
}

// parseEbayResponse maps a Browse API payload to Sales. Items with
// unparseable or non-USD prices are skipped, not errors.
func parseEbayResponse(body []byte) ([]Sale, error) {
	var payload ebaySearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("ebay: decode response: %w", err)
	}

	sales := make([]Sale, 0, len(payload.ItemSummaries))
	for _, item := range payload.ItemSummaries {
		if item.Price.Currency != "" && item.Price.Currency != "USD" {
			continue
		}
		price, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil || price <= 0 {
			continue
		}
		sales = append(sales, Sale{
			ItemID:    item.ItemID,
			Title:     item.Title,
			Condition: item.Condition,
			Price:     price,
		})
	}
	return sales, nil
}
