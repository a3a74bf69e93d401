package main

import (
	"flag"
	"log"

	"OutletScraper/internal/database"
	"OutletScraper/internal/server"
	"OutletScraper/pkg/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	flag.Parse()

	cfg := config.LoadConfig(*configPath)

	repo := database.InitDB(cfg.Database.Path)
	defer repo.Close()

	log.Println("Starting outlet listings API server...")
	server.Start(repo, cfg)
}
