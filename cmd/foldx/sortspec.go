package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phyten/foldx/internal/engine"
)

// SortKey は単一ソートキー。Desc が真なら降順。
type SortKey struct {
	Name string
	Desc bool
}

// SortSpec は --sort に渡された順でキーを保持する。
type SortSpec struct {
	Keys []SortKey
}

var sortKeyNames = map[string]bool{
	"kind":   true,
	"lang":   true,
	"file":   true,
	"start":  true,
	"end":    true,
	"lines":  true,
	"indent": true,
	"depth":  true,
}

// ParseSortSpec は "lines,-depth,file" 形式を解釈する。
// 接頭辞 "-" は降順、"+" は明示的な昇順。
// エイリアス: location → file,start / span → lines。
func ParseSortSpec(raw string) (SortSpec, error) {
	var spec SortSpec
	if strings.TrimSpace(raw) == "" {
		return spec, nil
	}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return SortSpec{}, fmt.Errorf("invalid --sort: empty key")
		}
		desc := false
		switch tok[0] {
		case '-':
			desc = true
			tok = tok[1:]
		case '+':
			tok = tok[1:]
		}
		tok = strings.ToLower(strings.TrimSpace(tok))
		switch tok {
		case "location":
			spec.Keys = append(spec.Keys, SortKey{Name: "file", Desc: desc}, SortKey{Name: "start", Desc: desc})
			continue
		case "span":
			tok = "lines"
		}
		if !sortKeyNames[tok] {
			return SortSpec{}, fmt.Errorf("invalid --sort: unknown key %q", tok)
		}
		spec.Keys = append(spec.Keys, SortKey{Name: tok, Desc: desc})
	}
	return spec, nil
}

func compareItems(a, b engine.Item, key string) int {
	switch key {
	case "kind":
		return strings.Compare(a.Kind, b.Kind)
	case "lang":
		return strings.Compare(a.Lang, b.Lang)
	case "file":
		return strings.Compare(a.File, b.File)
	case "start":
		return a.Start - b.Start
	case "end":
		return a.End - b.End
	case "lines":
		return a.Lines - b.Lines
	case "indent":
		return a.Indent - b.Indent
	case "depth":
		return a.Depth - b.Depth
	}
	return 0
}

// ApplySort は spec に従って安定ソートする。全キーで等しい場合は
// file, start の昇順で順序を確定させる。
func ApplySort(items []engine.Item, spec SortSpec) {
	if len(items) < 2 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		for _, k := range spec.Keys {
			c := compareItems(a, b, k.Name)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		if c := strings.Compare(a.File, b.File); c != 0 {
			return c < 0
		}
		return a.Start < b.Start
	})
}
