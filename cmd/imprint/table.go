package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// columnAlignment picks the cell alignment for one table column. Numeric
// columns read better right-aligned; everything else stays left.
type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	width := len(headers)
	if width == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	tw.AppendHeader(toRow(headers, width))
	for _, row := range rows {
		tw.AppendRow(toRow(row, width))
	}
	tw.SetColumnConfigs(rightAlignedColumns(aligns))

	return tw.Render()
}

// toRow pads or truncates a row to the header width so ragged input never
// shifts columns.
func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// rightAlignedColumns emits configs only for columns that deviate from the
// writer's left-aligned default.
func rightAlignedColumns(aligns []columnAlignment) []table.ColumnConfig {
	var configs []table.ColumnConfig
	for i, align := range aligns {
		if align != alignRight {
			continue
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	return configs
}
