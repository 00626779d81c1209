package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"lipsync/internal/deps"
	"lipsync/internal/export"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderShapeTable lists every mouth cue with its length.
func renderShapeTable(shapes export.Shapes) string {
	var rows [][]string
	for cue := range shapes.All() {
		rows = append(rows, []string{
			cue.Start().String(),
			cue.End().String(),
			cue.Duration().String(),
			cue.Value.String(),
		})
	}
	return renderTable(
		[]string{"Start", "End", "Length", "Shape"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderStatusTable(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		state := "ok"
		switch {
		case !status.Available && status.Optional:
			state = "optional"
		case !status.Available:
			state = "missing"
		}
		where := status.Path
		if !status.Available {
			where = status.Detail
		}
		rows = append(rows, []string{status.Name, state, where, status.Description})
	}
	return renderTable([]string{"Dependency", "Status", "Location", "Purpose"}, rows, nil)
}
