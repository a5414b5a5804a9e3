package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// summaryColumnWidth wraps long website descriptions inside the summary table.
const summaryColumnWidth = 60

type tableOption func(configs []table.ColumnConfig)

// withMaxWidth wraps the 1-based column at width characters.
func withMaxWidth(column, width int) tableOption {
	return func(configs []table.ColumnConfig) {
		if column >= 1 && column <= len(configs) && width > 0 {
			configs[column-1].WidthMax = width
		}
	}
}

// renderTable draws a rounded, left-aligned table. Short rows are padded with
// empty cells; extra cells are dropped.
func renderTable(headers []string, rows [][]string, opts ...tableOption) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	for _, opt := range opts {
		opt(configs)
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
