package console

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/threatwatch/internal/signature"
)

const (
	noThreatsMessage = "No threats detected so far."
	noLinesMessage   = "No logs available."
)

// RenderCounts formats match counts as a table sorted by category. An empty
// map renders the "no threats" notice instead.
func RenderCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return noThreatsMessage
	}

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([][]string, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, []string{titleCase(category), strconv.Itoa(counts[category])})
	}
	return renderTable([]string{"Category", "Occurrences"}, rows, []text.Align{text.AlignLeft, text.AlignRight})
}

// RenderRecent formats recent lines, oldest first, one per row.
func RenderRecent(lines []string) string {
	if len(lines) == 0 {
		return noLinesMessage
	}
	rows := make([][]string, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, []string{strconv.Itoa(i + 1), line})
	}
	return renderTable([]string{"#", "Line"}, rows, []text.Align{text.AlignRight, text.AlignLeft})
}

// RenderSignatures lists a signature set in priority order.
func RenderSignatures(set signature.Set) string {
	rows := make([][]string, 0, len(set))
	for i, sig := range set {
		rows = append(rows, []string{strconv.Itoa(i + 1), sig.Keyword, sig.Category})
	}
	return renderTable([]string{"Priority", "Keyword", "Category"}, rows, []text.Align{text.AlignRight, text.AlignLeft, text.AlignLeft})
}

func renderTable(headers []string, rows [][]string, aligns []text.Align) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func titleCase(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}
