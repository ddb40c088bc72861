package main

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// renderTable writes rows under headers, every column left aligned. With no
// headers the rows are rendered as a bare key/value table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	cols := len(headers)
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	align := make([]tw.Align, cols)
	for i := range align {
		align[i] = tw.AlignLeft
	}
	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{PerColumn: align}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(headers) > 0 {
		h := make([]any, len(headers))
		for i, v := range headers {
			h[i] = v
		}
		table.Header(h...)
	}
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, v := range r {
			cells[i] = v
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
