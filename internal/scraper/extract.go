package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// anchor is one (label, href) pair pulled from a table cell.
type anchor struct {
	Label string
	Href  string
}

// row is the loosely-typed intermediate form of one listing entry:
// trimmed cell text plus the anchors found in each cell, in document
// order. No interpretation of cell contents happens here.
type row struct {
	Cells       []string
	CellAnchors [][]anchor
}

// extractRows walks the first table of a listing page and produces one
// row per table row. The header row is always skipped. Rows with fewer
// than minCols cells are silently dropped; the listing pages are
// third-party and carry no schema contract, so a malformed row degrades
// to nothing rather than failing the page.
func extractRows(html []byte, minCols int) ([]row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var rows []row
	doc.Find("table").First().Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header
		}

		cells := tr.Find("td")
		if cells.Length() < minCols {
			return
		}

		r := row{
			Cells:       make([]string, 0, cells.Length()),
			CellAnchors: make([][]anchor, 0, cells.Length()),
		}
		cells.Each(func(_ int, cell *goquery.Selection) {
			r.Cells = append(r.Cells, strings.TrimSpace(cell.Text()))

			var anchors []anchor
			cell.Find("a").Each(func(_ int, link *goquery.Selection) {
				href, _ := link.Attr("href")
				anchors = append(anchors, anchor{
					Label: strings.TrimSpace(link.Text()),
					Href:  strings.TrimSpace(href),
				})
			})
			r.CellAnchors = append(r.CellAnchors, anchors)
		})
		rows = append(rows, r)
	})

	return rows, nil
}
