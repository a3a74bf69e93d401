package scraper

import (
	"context"

	"OutletScraper/internal/models"
)

// Scraper defines the basic behavior for all outlet scrapers.
// Any new vendor page we add will follow the same structure.
type Scraper interface {
	// ScrapeSections fetches the listing page and returns the raw cell text
	// of every data row found in the given category sections.
	ScrapeSections(ctx context.Context, sections []models.Section) ([]models.RawRow, error)
}
