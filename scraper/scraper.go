package scraper

import (
	"context"

	"card-arbitrage/models"
)

// Source produces candidate listings for a search query. All
// site-specific scraping stays behind this interface so adapters are
// independently swappable for an API-backed or test implementation.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]*models.Listing, error)
}
