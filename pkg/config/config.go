package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"OutletScraper/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Row error policies.
const (
	OnErrorSkip = "skip"
	OnErrorHalt = "halt"
)

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	Workers        string `yaml:"workers"`
	Headless       bool   `yaml:"headless"`
	Browser        bool   `yaml:"browser"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	OnError        string `yaml:"on_error"`
}

// OutletConfig holds settings specific to the outlet page.
type OutletConfig struct {
	URL      string           `yaml:"url"`
	Sections []models.Section `yaml:"sections"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper  ScraperConfig `yaml:"scraper"`
	Outlet   OutletConfig  `yaml:"outlet"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Export struct {
		Path string `yaml:"path"`
	} `yaml:"export"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// Default returns the settings used when config.yml leaves a value out.
func Default() *Config {
	cfg := &Config{
		Scraper: ScraperConfig{
			Workers:        "auto",
			Headless:       true,
			TimeoutSeconds: 30,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			OnError:        OnErrorSkip,
		},
		Outlet: OutletConfig{
			URL:      "https://h41369.www4.hp.com/pps-offers.php",
			Sections: []models.Section{{Name: "Notebooks", Selector: "#notebook_pcs"}},
		},
	}
	cfg.Database.Path = "listings.db"
	cfg.Server.Port = "8080"
	return cfg
}

// KnownSections lists every category table the outlet page publishes.
var KnownSections = []models.Section{
	{Name: "Clearance", Selector: "#clearance"},
	{Name: "Tablets", Selector: "#tablet_pcs"},
	{Name: "Notebooks", Selector: "#notebook_pcs"},
	{Name: "Notebook & Tablet Options", Selector: "#notebook_-_tablet_options"},
	{Name: "Desktops", Selector: "#desktop_pcs"},
	{Name: "Desktop Options", Selector: "#desktop_options"},
	{Name: "Workstations", Selector: "#workstations"},
	{Name: "Workstation Options", Selector: "#workstation_options"},
	{Name: "Thin Clients", Selector: "#thin_clients"},
	{Name: "Monitors", Selector: "#monitors"},
}

// LoadConfig reads config.yml on top of the defaults and then applies
// OUTLET_* overrides from the environment or a .env file.
// A missing config file is not an error.
func LoadConfig(filepath string) *Config {
	cfg, err := Load(filepath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

// Load is LoadConfig without the fatal exit.
func Load(filepath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error unmarshalling config YAML: %w", err)
		}
	case os.IsNotExist(err):
		log.Printf("WARN: Config file %s not found, using defaults.", filepath)
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	_ = godotenv.Load()
	cfg.Outlet.URL = getEnv("OUTLET_URL", cfg.Outlet.URL)
	cfg.Database.Path = getEnv("OUTLET_DB_PATH", cfg.Database.Path)
	cfg.Export.Path = getEnv("OUTLET_EXPORT_PATH", cfg.Export.Path)
	cfg.Server.Port = getEnv("OUTLET_SERVER_PORT", cfg.Server.Port)
	cfg.Scraper.Workers = getEnv("OUTLET_WORKERS", cfg.Scraper.Workers)
	cfg.Scraper.OnError = getEnv("OUTLET_ON_ERROR", cfg.Scraper.OnError)

	for i, section := range cfg.Outlet.Sections {
		if section.Selector == "" {
			cfg.Outlet.Sections[i].Selector = knownSelector(section.Name)
		}
	}

	if cfg.Scraper.OnError != OnErrorSkip && cfg.Scraper.OnError != OnErrorHalt {
		return nil, fmt.Errorf("invalid on_error value %q: want %q or %q", cfg.Scraper.OnError, OnErrorSkip, OnErrorHalt)
	}
	return cfg, nil
}

// knownSelector returns the selector of a known section name, or "" if the name is unknown.
func knownSelector(name string) string {
	for _, known := range KnownSections {
		if strings.EqualFold(known.Name, name) {
			return known.Selector
		}
	}
	return ""
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
