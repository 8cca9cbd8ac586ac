package report

import (
	"bannerreg/lib/scrapers/banner"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(rt banner.ResultTable) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	if len(rt.Headers) > 0 {
		header := make(table.Row, len(rt.Headers))
		for i, h := range rt.Headers {
			header[i] = h
		}
		t.AppendHeader(header)
	}
	for _, cells := range rt.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		t.AppendRow(row)
	}
	return t
}

func renderTable(title string, rt banner.ResultTable) string {
	if len(rt.Headers) == 0 && len(rt.Rows) == 0 {
		return fmt.Sprintf("%s: none", title)
	}
	return fmt.Sprintf("%s:\n%s", title, newTable(rt).Render())
}

// Render formats a registration result as plain text tables.
func Render(result banner.Result) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Elapsed Time: %d ms\n", result.Elapsed.Milliseconds())
	fmt.Fprintf(&out, "Existing registrations: %d\n\n", result.ExistingRecords)
	out.WriteString(renderTable("Successfully Registered for", result.Registered))
	out.WriteString("\n\n")
	out.WriteString(renderTable("Error Messages for", result.Errors))
	out.WriteString("\n")
	return out.String()
}
