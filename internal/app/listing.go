package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"OutletScraper/internal/description"
	"OutletScraper/internal/models"
	"OutletScraper/internal/observability"
	"OutletScraper/utils"
)

// RowError ties a parse failure to the raw row that caused it.
type RowError struct {
	Index int
	Row   models.RawRow
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s, part %q): %v", e.Index, e.Row.Category, e.Row.PartNum, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// BuildListing resolves the price and parses the description of one row.
func BuildListing(row models.RawRow) (models.Listing, error) {
	price, err := utils.ResolvePrice(row.StdPrice, row.SalePrice)
	if err != nil {
		observability.ListingsRejected.WithLabelValues(rejectReason(err)).Inc()
		return models.Listing{}, fmt.Errorf("price of %q: %w", row.Description, err)
	}

	fields, err := description.Parse(row.Description)
	if err != nil {
		observability.ListingsRejected.WithLabelValues(rejectReason(err)).Inc()
		return models.Listing{}, err
	}

	observability.ListingsParsed.Inc()
	return models.Listing{
		Category:    row.Category,
		Description: row.Description,
		Model:       fields.Model,
		OS:          fields.OS,
		CPUName:     fields.CPUName,
		CPUSpeed:    fields.CPUSpeed,
		Storage:     models.JSONStringSlice(fields.Storage),
		Memory:      fields.Memory,
		Screen:      fields.Screen,
		Misc:        fields.Misc,
		PartNum:     row.PartNum,
		PromoBonus:  row.PromoBonus,
		Price:       price,
		ScrapedAt:   time.Now(),
	}, nil
}

func rejectReason(err error) string {
	var fieldErr *description.MissingFieldError
	switch {
	case errors.As(err, &fieldErr):
		return "missing_" + string(fieldErr.Field)
	case errors.Is(err, utils.ErrMalformedAmount):
		return "malformed_amount"
	default:
		return "other"
	}
}

type parseResult struct {
	index   int
	listing models.Listing
	err     error
}

// ParseRows builds listings for all rows using a pool of workers.
// Successful listings and errors are both returned in row order.
func ParseRows(rows []models.RawRow, numWorkers int) ([]models.Listing, []*RowError) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	jobs := make(chan int, len(rows))
	results := make(chan parseResult, len(rows))

	var wg sync.WaitGroup
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				listing, err := BuildListing(rows[i])
				results <- parseResult{index: i, listing: listing, err: err}
			}
		}()
	}

	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	ordered := make([]parseResult, len(rows))
	for r := range results {
		ordered[r.index] = r
	}

	var listings []models.Listing
	var rowErrs []*RowError
	for _, r := range ordered {
		if r.err != nil {
			rowErrs = append(rowErrs, &RowError{Index: r.index, Row: rows[r.index], Err: r.err})
			continue
		}
		listings = append(listings, r.listing)
	}
	return listings, rowErrs
}

func logRowErrors(rowErrs []*RowError) {
	for _, e := range rowErrs {
		log.Printf("WARN: Skipping %v", e)
	}
}
