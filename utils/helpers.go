package utils

import (
	"log"
	"strings"

	"OutletScraper/internal/models"
)

// UniqueSections drops sections whose selector was already listed, keeping
// the first occurrence. Sections without a selector are dropped too.
func UniqueSections(sections []models.Section) []models.Section {
	seen := make(map[string]bool)
	unique := []models.Section{}
	for _, s := range sections {
		selector := strings.TrimSpace(s.Selector)
		if selector == "" {
			log.Printf("WARN: Section %q has no selector, skipping.", s.Name)
			continue
		}
		if seen[selector] {
			continue
		}
		seen[selector] = true
		if s.Name == "" {
			s.Name = strings.TrimPrefix(selector, "#")
		}
		s.Selector = selector
		unique = append(unique, s)
	}
	return unique
}
