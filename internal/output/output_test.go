package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phyten/foldx/internal/engine"
)

var sampleItems = []engine.Item{
	{
		File:    "internal/app/main.py",
		Lang:    "python",
		Kind:    "indent",
		Start:   10,
		End:     24,
		Lines:   14,
		Indent:  0,
		Depth:   0,
		Preview: "def parse(src, *, strict=False):",
	},
	{
		File:    "web/app.js",
		Lang:    "javascript",
		Kind:    "marker",
		Start:   3,
		End:     41,
		Lines:   38,
		Indent:  2,
		Depth:   1,
		Preview: "// #region render | escape <html>, \"quotes\"",
	},
}

func TestWriteCSV(t *testing.T) {
	sel, err := ResolveFields("kind,lang,location,lines,preview", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleItems, sel); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	assertGolden(t, "want-csv.csv", buf.String())
	if !strings.Contains(buf.String(), "\r\n") {
		t.Fatal("CSV output should use CRLF line endings")
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, sampleItems); err != nil {
		t.Fatalf("WriteNDJSON failed: %v", err)
	}
	output := buf.String()
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != len(sampleItems) {
		t.Fatalf("expected %d lines, got %d", len(sampleItems), len(lines))
	}
	for i, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Fatalf("line %d is not valid JSON: %s", i, line)
		}
		var item engine.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			t.Fatalf("failed to decode line %d: %v", i, err)
		}
	}
	if strings.Contains(output, "\\u003c") {
		t.Fatal("HTML characters should not be escaped in NDJSON output")
	}
	assertGolden(t, "want-ndjson.ndjson", output)
}

func TestWriteMarkdownTable(t *testing.T) {
	sel, err := ResolveFields("kind,location,preview", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteMarkdownTable(&buf, sampleItems, sel); err != nil {
		t.Fatalf("WriteMarkdownTable failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "render \\| escape") {
		t.Fatal("expected pipe characters to be escaped in markdown output")
	}
	assertGolden(t, "want-md.md", output)
}

func TestEscapeMarkdownCellNewlines(t *testing.T) {
	got := escapeMarkdownCell("a\r\nb|c")
	if got != "a<br>b\\|c" {
		t.Fatalf("unexpected escape result: %q", got)
	}
}

func TestWriteCSVRowsSummaryShape(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"FILE", "LANG", "RANGES", "MAX_DEPTH", "LINES"}
	rows := [][]string{{"a.py", "python", "4", "2", "37"}}
	if err := WriteCSVRows(&buf, headers, rows); err != nil {
		t.Fatalf("WriteCSVRows failed: %v", err)
	}
	want := "FILE,LANG,RANGES,MAX_DEPTH,LINES\r\na.py,python,4,2,37\r\n"
	if buf.String() != want {
		t.Fatalf("unexpected CSV: %q", buf.String())
	}
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", name, err)
	}
	if diff := diffStrings(string(want), got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func diffStrings(want, got string) string {
	if want == got {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("want:\n")
	buf.WriteString(want)
	if !strings.HasSuffix(want, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("got:\n")
	buf.WriteString(got)
	return buf.String()
}
