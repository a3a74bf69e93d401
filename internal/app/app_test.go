package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"OutletScraper/internal/database"
	"OutletScraper/internal/description"
	"OutletScraper/internal/models"
	"OutletScraper/pkg/config"
	"OutletScraper/utils"

	"github.com/shopspring/decimal"
)

var probook = models.RawRow{
	Category:    "Notebooks",
	Description: "HP ProBook 640 G4 W10P-64 i3 8130U 2.2GHz 500GB SATA 8GB(1x8GB) 14.0HD No-Wireless No-NFC No-FPR No-",
	PartNum:     "3VK12UT",
	StdPrice:    "$899.00",
	SalePrice:   "$749.00",
	PromoBonus:  "Free dock",
}

func TestBuildListing(t *testing.T) {
	l, err := BuildListing(probook)
	if err != nil {
		t.Fatalf("BuildListing returned error: %v", err)
	}

	if l.Model != "HP ProBook 640 G4" || l.OS != "W10P-64" || l.CPUName != "i3 8130U" || l.CPUSpeed != "2.2GHz" {
		t.Errorf("unexpected model/os/cpu: %+v", l)
	}
	if !reflect.DeepEqual(l.Storage, models.JSONStringSlice{"500GB SATA"}) {
		t.Errorf("storage = %v", l.Storage)
	}
	if l.Memory != "8GB (1x8GB)" || l.Screen != "14.0HD" || l.Misc != "No-Wireless No-NFC No-FPR No-" {
		t.Errorf("unexpected memory/screen/misc: %+v", l)
	}
	if !l.Price.Equal(decimal.RequireFromString("749.00")) {
		t.Errorf("price = %s; want 749.00", l.Price)
	}
	if l.PartNum != "3VK12UT" || l.PromoBonus != "Free dock" || l.Category != "Notebooks" || l.Description != probook.Description {
		t.Errorf("pass-through fields not copied: %+v", l)
	}
}

func TestBuildListingErrors(t *testing.T) {
	badPrice := probook
	badPrice.StdPrice = "$call"
	_, err := BuildListing(badPrice)
	if !errors.Is(err, utils.ErrMalformedAmount) {
		t.Errorf("bad price error = %v; want ErrMalformedAmount", err)
	}
	if err != nil && !strings.Contains(err.Error(), "$call") {
		t.Errorf("error %q does not report the offending amount", err)
	}

	noOS := probook
	noOS.Description = "HP ProBook 640 G4 i3 8130U 2.2GHz 500GB SATA 8GB"
	_, err = BuildListing(noOS)
	var fieldErr *description.MissingFieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != description.FieldOS {
		t.Errorf("missing OS error = %v", err)
	}
}

func TestRejectReason(t *testing.T) {
	testCases := []struct {
		err      error
		expected string
	}{
		{&description.MissingFieldError{Field: description.FieldStorage}, "missing_Storage"},
		{fmt.Errorf("wrapped: %w", &utils.MalformedAmountError{Amount: "x"}), "malformed_amount"},
		{errors.New("boom"), "other"},
	}
	for _, tc := range testCases {
		if got := rejectReason(tc.err); got != tc.expected {
			t.Errorf("rejectReason(%v) = %q; want %q", tc.err, got, tc.expected)
		}
	}
}

func numberedRows(n int) []models.RawRow {
	rows := make([]models.RawRow, n)
	for i := range rows {
		rows[i] = probook
		rows[i].PartNum = fmt.Sprintf("P%03d", i)
		if i%5 == 0 {
			rows[i].Description = "not a laptop"
		}
	}
	return rows
}

func TestParseRowsKeepsOrder(t *testing.T) {
	rows := numberedRows(50)

	for _, workers := range []int{0, 1, 4, 16} {
		listings, rowErrs := ParseRows(rows, workers)
		if len(listings) != 40 || len(rowErrs) != 10 {
			t.Fatalf("workers=%d: got %d listings and %d errors; want 40 and 10", workers, len(listings), len(rowErrs))
		}
		for i := 1; i < len(listings); i++ {
			if listings[i-1].PartNum >= listings[i].PartNum {
				t.Fatalf("workers=%d: listings out of order at %d: %s then %s", workers, i, listings[i-1].PartNum, listings[i].PartNum)
			}
		}
		for i, e := range rowErrs {
			if e.Index != i*5 || e.Row.PartNum != rows[i*5].PartNum {
				t.Errorf("workers=%d: error %d points at row %d", workers, i, e.Index)
			}
			if !errors.Is(e, description.ErrMissingField) {
				t.Errorf("workers=%d: row error %v does not unwrap to ErrMissingField", workers, e)
			}
		}
	}
}

type fakeScraper struct {
	rows []models.RawRow
	err  error
}

func (f *fakeScraper) ScrapeSections(_ context.Context, _ []models.Section) ([]models.RawRow, error) {
	return f.rows, f.err
}

func newTestApp(t *testing.T, rows []models.RawRow) (*App, *bytes.Buffer) {
	t.Helper()
	repo, err := database.Open(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)

	cfg := config.Default()
	cfg.Scraper.Workers = "2"
	var out bytes.Buffer
	return &App{Config: cfg, Repo: repo, Scraper: &fakeScraper{rows: rows}, Out: &out}, &out
}

func TestRunScraperSkipsBadRows(t *testing.T) {
	a, out := newTestApp(t, numberedRows(10))

	if err := a.RunScraper(context.Background()); err != nil {
		t.Fatalf("RunScraper returned error: %v", err)
	}

	count, err := a.Repo.CountListings(models.ListingFilters{})
	if err != nil || count != 8 {
		t.Errorf("stored %d listings (%v); want 8", count, err)
	}
	if !strings.HasPrefix(out.String(), "Notebooks\nModel,CPU Name,") {
		t.Errorf("CSV output starts with %q", out.String())
	}
}

func TestRunScraperHaltPolicy(t *testing.T) {
	a, _ := newTestApp(t, numberedRows(10))
	a.Config.Scraper.OnError = config.OnErrorHalt

	err := a.RunScraper(context.Background())
	if !errors.Is(err, description.ErrMissingField) {
		t.Fatalf("RunScraper error = %v; want a missing field error", err)
	}
	count, _ := a.Repo.CountListings(models.ListingFilters{})
	if count != 0 {
		t.Errorf("stored %d listings after halting; want 0", count)
	}
}

func TestRunScraperFetchFailure(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.Scraper = &fakeScraper{err: errors.New("connection refused")}
	if err := a.RunScraper(context.Background()); err == nil {
		t.Fatal("RunScraper succeeded; want error")
	}
}

func TestRunExportToFile(t *testing.T) {
	a, out := newTestApp(t, numberedRows(3))
	if err := a.RunScraper(context.Background()); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	a.Config.Export.Path = filepath.Join(t.TempDir(), "listings.csv")
	if err := a.RunExport("Notebooks"); err != nil {
		t.Fatalf("RunExport returned error: %v", err)
	}
	data, err := os.ReadFile(a.Config.Export.Path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), `"$749.00"`); got != 2 {
		t.Errorf("export has %d listing rows; want 2\n%s", got, data)
	}
	if out.Len() != 0 {
		t.Errorf("export wrote to stdout as well: %q", out.String())
	}
}

func TestRunParse(t *testing.T) {
	a, out := newTestApp(t, nil)
	if err := a.RunParse(probook); err != nil {
		t.Fatalf("RunParse returned error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "HP ProBook 640 G4 : 3VK12UT : $749.00 : Free dock\n") {
		t.Errorf("RunParse output = %q", out.String())
	}
}
