package output

import (
	"encoding/csv"
	"io"

	"github.com/phyten/foldx/internal/engine"
)

// WriteCSV renders items as RFC 4180 compliant CSV (including CRLF endings).
func WriteCSV(w io.Writer, items []engine.Item, sel FieldSelection) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, RowValues(it, sel.Fields))
	}
	return WriteCSVRows(w, Headers(sel.Fields), rows)
}

// WriteCSVRows renders pre-built rows as CSV. The summary view shares this
// path with the item table.
func WriteCSVRows(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
