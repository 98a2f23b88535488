package output

import (
	"reflect"
	"testing"

	"github.com/phyten/foldx/internal/engine"
)

func TestResolveFieldsDefaultUsesFlags(t *testing.T) {
	sel, err := ResolveFields("", true)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	headers := []string{"KIND", "LANG", "LOCATION", "LINES", "DEPTH", "PREVIEW"}
	if len(sel.Fields) != len(headers) {
		t.Fatalf("field count mismatch: got=%d want=%d", len(sel.Fields), len(headers))
	}
	for i, f := range sel.Fields {
		if f.Header != headers[i] {
			t.Fatalf("header %d mismatch: got=%s want=%s", i, f.Header, headers[i])
		}
	}
	if !sel.ShowPreview || !sel.NeedPreview {
		t.Fatalf("preview flags mismatch: %+v", sel)
	}
}

func TestResolveFieldsDefaultWithoutPreview(t *testing.T) {
	sel, err := ResolveFields("", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	for _, f := range sel.Fields {
		if f.Key == "preview" {
			t.Fatal("preview column should not appear without --with-preview")
		}
	}
	if sel.ShowPreview || sel.NeedPreview {
		t.Fatalf("preview flags mismatch: %+v", sel)
	}
}

func TestResolveFieldsOverridesFlags(t *testing.T) {
	sel, err := ResolveFields("kind,file", true)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	if sel.ShowPreview {
		t.Fatal("preview column should be disabled when fields override")
	}
	if !sel.NeedPreview {
		t.Fatalf("need flags should respect original requests: %+v", sel)
	}
	if len(sel.Fields) != 2 || sel.Fields[0].Key != "kind" || sel.Fields[1].Key != "file" {
		t.Fatalf("fields mismatch: %+v", sel.Fields)
	}
}

func TestResolveFieldsEnablesPreviewViaFields(t *testing.T) {
	sel, err := ResolveFields("kind,preview", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	if !sel.ShowPreview || !sel.NeedPreview {
		t.Fatalf("preview flags not set: %+v", sel)
	}
}

func TestResolveFieldsUnknownField(t *testing.T) {
	if _, err := ResolveFields("unknown", false); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestRowValuesFormatsLocation(t *testing.T) {
	it := engine.Item{File: "a.go", Lang: "go", Kind: "indent", Start: 3, End: 8, Lines: 5, Indent: 1, Depth: 2}
	sel, err := ResolveFields("location,start,end,indent,depth", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	got := RowValues(it, sel.Fields)
	want := []string{"a.go:3-8", "3", "8", "1", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("row mismatch: got=%v want=%v", got, want)
	}
}
