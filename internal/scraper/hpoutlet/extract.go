package hpoutlet

import (
	"fmt"
	"log"
	"strings"

	"OutletScraper/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Positional columns of an outlet table row.
var columnHeaders = []string{"Model", "Part#", "Outlet std price", "Outlet sale price", "Promo bonus"}

// NewDocument parses an outlet page.
func NewDocument(htmlContent string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
}

// ExtractSection returns the data rows of the pps-table inside the first
// element matching section.Selector.
func ExtractSection(doc *goquery.Document, section models.Section) ([]models.RawRow, error) {
	container := doc.Find(section.Selector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("section %q not found", section.Selector)
	}
	table := container.Find("table.pps-table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no pps-table in section %q", section.Selector)
	}

	var rows []models.RawRow
	table.Find("tr.data").Each(func(_ int, tr *goquery.Selection) {
		row := models.RawRow{Category: section.Name}
		tr.Find("td").Each(func(x int, td *goquery.Selection) {
			if x >= len(columnHeaders) {
				log.Printf("ERROR: skipping unknown column %d in section %s: %q", x, section.Name, cellText(td))
				return
			}
			contents := cellText(td)
			switch columnHeaders[x] {
			case "Model":
				row.Description = contents
			case "Part#":
				row.PartNum = contents
			case "Outlet std price":
				row.StdPrice = contents
			case "Outlet sale price":
				row.SalePrice = contents
			case "Promo bonus":
				row.PromoBonus = contents
			}
		})
		rows = append(rows, row)
	})
	return rows, nil
}

// cellText returns the text of the cell's first child node, or "" for an
// empty cell. Anything after the first child (badges, footnotes) is ignored.
func cellText(td *goquery.Selection) string {
	node := td.Get(0)
	if node == nil || node.FirstChild == nil {
		return ""
	}
	first := node.FirstChild
	if first.Type == html.TextNode {
		return strings.TrimSpace(first.Data)
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(first).Text())
}
