package hpoutlet

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Fetch returns the HTML of pageURL, rendered in a headless browser when
// the scraper is configured with browser: true.
func (s *OutletScraper) Fetch(ctx context.Context, pageURL string) (string, error) {
	if s.ScraperConf.Browser {
		return s.fetchWithBrowser(ctx, pageURL)
	}
	return s.fetchWithHTTP(ctx, pageURL)
}

func (s *OutletScraper) fetchWithHTTP(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	if s.ScraperConf.UserAgent != "" {
		req.Header.Set("User-Agent", s.ScraperConf.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code %d from %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}
	return string(body), nil
}

func (s *OutletScraper) fetchWithBrowser(ctx context.Context, pageURL string) (string, error) {
	u, err := launcher.New().Headless(s.ScraperConf.Headless).Launch()
	if err != nil {
		return "", fmt.Errorf("could not launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("could not connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("could not open page: %w", err)
	}
	defer page.Close()

	wait := timeout(s.ScraperConf)
	if err := page.Timeout(wait).Navigate(pageURL); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	if err := page.Timeout(wait).WaitLoad(); err != nil {
		return "", fmt.Errorf("failed to load page %s: %w", pageURL, err)
	}
	log.Println("Page loaded successfully")

	return page.HTML()
}
