package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"OutletScraper/internal/models"
)

// WriteCSV writes one block per category, categories in name order:
// the category name, the header line, the sorted rows and a blank line.
// Every row value is quoted.
func WriteCSV(w io.Writer, listings []models.Listing) error {
	groups := make(map[string][]models.Listing)
	for _, l := range listings {
		groups[l.Category] = append(groups[l.Category], l)
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	bw := bufio.NewWriter(w)
	header := strings.Join(models.CSVHeader, ",")
	for _, category := range categories {
		group := groups[category]
		models.SortListings(group)

		fmt.Fprintln(bw, category)
		fmt.Fprintln(bw, header)
		for _, l := range group {
			fmt.Fprintln(bw, quoteRecord(l.CSVRecord()))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func quoteRecord(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
