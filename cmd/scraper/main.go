package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"OutletScraper/internal/app"
	"OutletScraper/internal/models"
	"OutletScraper/pkg/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	task := flag.String("task", "scrape", "Task to run: scrape, export, parse or automatic")
	category := flag.String("category", "", "Export only this category")
	desc := flag.String("description", "", "Description to parse (task parse)")
	stdPrice := flag.String("std-price", "$0.00", "Standard price (task parse)")
	salePrice := flag.String("sale-price", "", "Sale price (task parse)")
	flag.Parse()

	cfg := config.LoadConfig(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Running task: %s", *task)

	// parse needs no database.
	if *task == "parse" {
		a := &app.App{Config: cfg, Out: os.Stdout}
		if err := a.RunParse(models.RawRow{Description: *desc, StdPrice: *stdPrice, SalePrice: *salePrice}); err != nil {
			log.Fatalf("Failed to parse description: %v", err)
		}
		return
	}

	application := app.New(cfg)
	defer application.Close()

	var err error
	switch *task {
	case "scrape":
		err = application.RunScraper(ctx)

	case "export":
		err = application.RunExport(*category)

	case "automatic":
		err = application.RunAutomaticWorkflow(ctx)

	default:
		log.Fatalf("Unknown task: %s.", *task)
	}
	if err != nil {
		log.Fatalf("Task %s failed: %v", *task, err)
	}
}
