package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phyten/foldx/internal/engine"
)

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields      []Field
	ShowPreview bool
	NeedPreview bool
}

type fieldMeta struct {
	header    string
	isPreview bool
}

var fieldRegistry = map[string]fieldMeta{
	"kind":     {header: "KIND"},
	"lang":     {header: "LANG"},
	"location": {header: "LOCATION"},
	"file":     {header: "FILE"},
	"start":    {header: "START"},
	"end":      {header: "END"},
	"lines":    {header: "LINES"},
	"indent":   {header: "INDENT"},
	"depth":    {header: "DEPTH"},
	"preview":  {header: "PREVIEW", isPreview: true},
}

// ResolveFields turns a comma separated field list into the column selection.
// An empty list falls back to the default columns; the preview column is
// appended only when the scan captured previews.
func ResolveFields(raw string, withPreview bool) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	sel := FieldSelection{}
	if raw == "" {
		keys := []string{"kind", "lang", "location", "lines", "depth"}
		if withPreview {
			keys = append(keys, "preview")
		}
		sel.Fields = make([]Field, 0, len(keys))
		for _, key := range keys {
			meta := fieldRegistry[key]
			sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		}
		sel.ShowPreview = withPreview
		sel.NeedPreview = withPreview
		return sel, nil
	}

	parts := strings.Split(raw, ",")
	sel.Fields = make([]Field, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		key := strings.ToLower(name)
		meta, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", name)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		if meta.isPreview {
			sel.ShowPreview = true
		}
	}
	sel.NeedPreview = withPreview || sel.ShowPreview
	return sel, nil
}

// Headers returns the column headers for the selected fields.
func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

// RowValues renders one item into the selected columns.
func RowValues(it engine.Item, fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = formatFieldValue(it, f.Key)
	}
	return out
}

func formatFieldValue(it engine.Item, key string) string {
	switch key {
	case "kind":
		return it.Kind
	case "lang":
		return it.Lang
	case "location":
		return fmt.Sprintf("%s:%d-%d", it.File, it.Start, it.End)
	case "file":
		return it.File
	case "start":
		return strconv.Itoa(it.Start)
	case "end":
		return strconv.Itoa(it.End)
	case "lines":
		return strconv.Itoa(it.Lines)
	case "indent":
		return strconv.Itoa(it.Indent)
	case "depth":
		return strconv.Itoa(it.Depth)
	case "preview":
		return it.Preview
	default:
		return ""
	}
}
