package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"reelfetch/internal/acquire"
)

// renderTable renders a rounded-border table. Columns listed in rightAligned
// (zero-based) are right-aligned; everything else, headers included, stays
// left-aligned.
func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, 0, len(row))
		for _, cell := range row {
			r = append(r, cell)
		}
		tw.AppendRow(r)
	}

	var configs []table.ColumnConfig
	for _, column := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      column + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderSummary(summary *acquire.Summary) string {
	rows := [][]string{
		{"Account", summary.Account},
		{"Downloaded", strconv.Itoa(summary.Succeeded)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Already downloaded", strconv.Itoa(summary.AlreadyDownloaded)},
		{"Skipped by criteria", strconv.Itoa(summary.SkippedCriteria)},
		{"Items considered", strconv.Itoa(summary.TotalConsidered)},
	}
	return renderTable([]string{"Result", "Count"}, rows, 1)
}
