package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"OutletScraper/internal/database"
	"OutletScraper/internal/export"
	"OutletScraper/internal/models"
	"OutletScraper/internal/scraper"
	"OutletScraper/internal/scraper/hpoutlet"
	"OutletScraper/pkg/config"
	"OutletScraper/utils"
)

// App is the main application structure holding all dependencies.
type App struct {
	Config  *config.Config
	Repo    *database.DBRepository
	Scraper scraper.Scraper
	Out     io.Writer
}

// New creates a new application instance with all initial settings.
func New(cfg *config.Config) *App {
	return &App{
		Config:  cfg,
		Repo:    database.InitDB(cfg.Database.Path),
		Scraper: hpoutlet.New(cfg.Scraper, cfg.Outlet),
		Out:     os.Stdout,
	}
}

// Close releases the database connection.
func (a *App) Close() {
	if a.Repo != nil {
		a.Repo.Close()
	}
}

// RunScraper fetches the outlet page, parses every row of the configured
// sections, stores the listings and prints them as CSV.
func (a *App) RunScraper(ctx context.Context) error {
	log.Println("--- Starting Outlet Scraping Task ---")

	sections := utils.UniqueSections(a.Config.Outlet.Sections)
	if len(sections) == 0 {
		return fmt.Errorf("no outlet sections configured")
	}

	rows, err := a.Scraper.ScrapeSections(ctx, sections)
	if err != nil {
		return fmt.Errorf("failed to scrape outlet sections: %w", err)
	}
	if len(rows) == 0 {
		log.Println("No listing rows found. Task finished.")
		return nil
	}
	log.Printf("Collected %d listing rows. Parsing...", len(rows))

	listings, rowErrs := ParseRows(rows, utils.GetOptimalWorkerCount(a.Config.Scraper.Workers))
	if len(rowErrs) > 0 {
		if a.Config.Scraper.OnError == config.OnErrorHalt {
			return fmt.Errorf("halting on first bad row: %w", rowErrs[0])
		}
		logRowErrors(rowErrs)
	}
	log.Printf("Parsed %d listings, skipped %d rows.", len(listings), len(rowErrs))

	saved := a.Repo.SaveListings(listings)
	log.Printf("Saved %d listings to the database.", saved)

	if err := export.WriteCSV(a.Out, listings); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	log.Println("--- Outlet Scraping Task Finished ---")
	return nil
}

// RunExport writes the stored listings as CSV to the configured export
// path, or to the app output when no path is set.
func (a *App) RunExport(category string) error {
	log.Println("--- Starting Export Task ---")

	listings, err := a.Repo.GetListings(models.ListingFilters{Category: category})
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	if len(listings) == 0 {
		log.Println("No listings to export.")
		return nil
	}

	w := a.Out
	if path := a.Config.Export.Path; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.WriteCSV(w, listings); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	log.Printf("--- Export Task Finished. Exported %d listings. ---", len(listings))
	return nil
}

// RunParse parses a single description and prints the resulting listing.
func (a *App) RunParse(row models.RawRow) error {
	listing, err := BuildListing(row)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, listing)
	if err := export.WriteCSV(a.Out, []models.Listing{listing}); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// RunAutomaticWorkflow scrapes the outlet page and then exports everything
// stored to the configured export file. Without an export path the CSV of
// the current run printed by RunScraper is the only output.
func (a *App) RunAutomaticWorkflow(ctx context.Context) error {
	log.Println("====== STARTING AUTOMATIC WORKFLOW ======")

	log.Println("--- STEP 1 of 2: Scraping Outlet Listings ---")
	if err := a.RunScraper(ctx); err != nil {
		return err
	}
	log.Println("--- STEP 1 of 2: COMPLETED ---")

	log.Println("--- STEP 2 of 2: Exporting Stored Listings ---")
	if a.Config.Export.Path == "" {
		log.Println("WARN: No export path configured, skipping export.")
	} else if err := a.RunExport(""); err != nil {
		return err
	}
	log.Println("--- STEP 2 of 2: COMPLETED ---")

	log.Println("====== AUTOMATIC WORKFLOW FINISHED SUCCESSFULLY ======")
	return nil
}
