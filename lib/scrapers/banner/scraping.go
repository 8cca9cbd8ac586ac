package banner

import (
	"bannerreg/lib/htmlutil"
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultRecordsSelector    = "body > div.pagebodydiv > form > table.datadisplaytable"
	DefaultRegisteredSelector = "body > div.pagebodydiv > form > table:nth-child(18)"
	DefaultErrorsSelector     = "body > div.pagebodydiv > form > table:nth-child(23)"
)

// Selectors locate the tables scraped from the registration pages. The
// result tables are found by position on the confirmation page, so they
// are configurable in case the portal's markup shifts.
type Selectors struct {
	Records    string `json:"records"`
	Registered string `json:"registered"`
	Errors     string `json:"errors"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Records:    DefaultRecordsSelector,
		Registered: DefaultRegisteredSelector,
		Errors:     DefaultErrorsSelector,
	}
}

func (s Selectors) withDefaults() Selectors {
	def := DefaultSelectors()
	if s.Records == "" {
		s.Records = def.Records
	}
	if s.Registered == "" {
		s.Registered = def.Registered
	}
	if s.Errors == "" {
		s.Errors = def.Errors
	}
	return s
}

// SessionCookie returns the raw value of the first Set-Cookie header.
func SessionCookie(header http.Header) (string, error) {
	values := header.Values("Set-Cookie")
	if len(values) == 0 {
		return "", ErrMissingSessionCookie
	}
	return values[0], nil
}

// ExistingRecords reads the courses the student is already registered
// for. A page without the records table means no current enrollment.
func ExistingRecords(ctx context.Context, doc *goquery.Document, selector string) []Record {
	_, span := tracer.Start(ctx, "scrape:ExistingRecords")
	defer span.End()

	records := []Record{}
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		span.AddEvent("no records table")
		return records
	}

	rows := table.Children().Not("caption, colgroup").First().Children()
	if rows.Length() < 2 {
		span.AddEvent("records table has no course rows")
		return records
	}
	// the first row holds the column headers
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		record := Record{}
		row.Find("input").Each(func(_ int, input *goquery.Selection) {
			name := strings.TrimSpace(input.AttrOr("name", ""))
			record[name] = strings.TrimSpace(input.AttrOr("value", ""))
		})
		records = append(records, record)
	})

	span.SetAttributes(attribute.Int("records", len(records)))
	return records
}

// ResultTable is the text content of a table on the confirmation page.
type ResultTable struct {
	Headers []string
	Rows    [][]string
}

// ResultTableAt reads the header and data cells of the table matched by
// selector, a missing table yields an empty ResultTable.
func ResultTableAt(doc *goquery.Document, selector string) ResultTable {
	table := doc.Find(selector).First()
	result := ResultTable{
		Headers: htmlutil.CellTexts(table.Find("th")),
	}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		result.Rows = append(result.Rows, htmlutil.CellTexts(cells))
	})
	return result
}
