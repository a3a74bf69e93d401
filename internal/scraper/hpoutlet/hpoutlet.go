package hpoutlet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"OutletScraper/internal/models"
	"OutletScraper/pkg/config"
)

// OutletScraper reads the category tables of the HP outlet offers page.
type OutletScraper struct {
	ScraperConf config.ScraperConfig
	OutletConf  config.OutletConfig
	client      *http.Client
}

// New accepts the specific config structs it needs.
func New(scraperConf config.ScraperConfig, outletConf config.OutletConfig) *OutletScraper {
	return &OutletScraper{
		ScraperConf: scraperConf,
		OutletConf:  outletConf,
		client:      &http.Client{Timeout: timeout(scraperConf)},
	}
}

func timeout(conf config.ScraperConfig) time.Duration {
	if conf.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(conf.TimeoutSeconds) * time.Second
}

// ScrapeSections loads the outlet page once and extracts the rows of every section.
// A section that is missing from the page is logged and skipped; it is an
// error only when no section could be read at all.
func (s *OutletScraper) ScrapeSections(ctx context.Context, sections []models.Section) ([]models.RawRow, error) {
	log.Printf("Fetching outlet page %s", s.OutletConf.URL)
	htmlContent, err := s.Fetch(ctx, s.OutletConf.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outlet page: %w", err)
	}

	doc, err := NewDocument(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse outlet page: %w", err)
	}

	var rows []models.RawRow
	var errs []error
	for _, section := range sections {
		sectionRows, err := ExtractSection(doc, section)
		if err != nil {
			log.Printf("WARN: Skipping section %s: %v", section.Name, err)
			errs = append(errs, err)
			continue
		}
		log.Printf("Section %s: found %d rows", section.Name, len(sectionRows))
		rows = append(rows, sectionRows...)
	}

	if len(sections) > 0 && len(errs) == len(sections) {
		return nil, fmt.Errorf("no section could be read: %w", errors.Join(errs...))
	}
	return rows, nil
}
