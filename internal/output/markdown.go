package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/phyten/foldx/internal/engine"
)

// WriteMarkdownTable renders items as a GitHub Flavored Markdown table.
func WriteMarkdownTable(w io.Writer, items []engine.Item, sel FieldSelection) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, RowValues(it, sel.Fields))
	}
	return WriteMarkdownRows(w, Headers(sel.Fields), rows)
}

// WriteMarkdownRows renders pre-built rows as a Markdown table.
func WriteMarkdownRows(w io.Writer, headers []string, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | ")); err != nil {
		return err
	}
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i := range row {
			escaped[i] = escapeMarkdownCell(row[i])
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | ")); err != nil {
			return err
		}
	}
	return nil
}

func escapeMarkdownCell(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "<br>")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}
