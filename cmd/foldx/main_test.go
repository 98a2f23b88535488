package main

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/phyten/foldx/internal/engine"
	"github.com/phyten/foldx/internal/output"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("パイプの作成に失敗しました: %v", err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	fn()
	_ = w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("出力の読み込みに失敗しました: %v", err)
	}
	return string(out)
}

func defaultSelection(t *testing.T, withPreview bool) output.FieldSelection {
	t.Helper()
	sel, err := output.ResolveFields("", withPreview)
	if err != nil {
		t.Fatalf("ResolveFieldsに失敗しました: %v", err)
	}
	return sel
}

func TestPrintTSVはヘッダーと行を出力する(t *testing.T) {
	res := &engine.Result{
		Items: []engine.Item{
			{File: "main.py", Lang: "python", Kind: "indent", Start: 1, End: 3, Lines: 2, Depth: 0},
		},
	}

	out := captureStdout(t, func() {
		printTSV(res, defaultSelection(t, false))
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("行数が想定外です: %q", out)
	}
	if lines[0] != "KIND\tLANG\tLOCATION\tLINES\tDEPTH" {
		t.Fatalf("TSVヘッダーが想定外です: %q", lines[0])
	}
	if lines[1] != "indent\tpython\tmain.py:1-3\t2\t0" {
		t.Fatalf("TSV行が想定外です: %q", lines[1])
	}
}

func TestPrintTSVはプレビュー中の改行を空白に変換する(t *testing.T) {
	res := &engine.Result{
		HasPreview: true,
		Items: []engine.Item{
			{File: "util.py", Lang: "python", Kind: "indent", Start: 10, End: 12, Lines: 2, Preview: "def helper():\r\n    pass"},
		},
	}

	out := captureStdout(t, func() {
		printTSV(res, defaultSelection(t, true))
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("改行が期待より多いです: %q", out)
	}
	if !strings.Contains(lines[1], "def helper():     pass") {
		t.Fatalf("改行が空白に置換されていません: %q", lines[1])
	}
}

func TestFlattenCellは改行のない文字列をそのまま返す(t *testing.T) {
	t.Parallel()

	in := "plain cell"
	if got := flattenCell(in); got != in {
		t.Fatalf("変換されるのは想定外です: %q", got)
	}
	if got := flattenCell("a\r\nb\rc\nd"); got != "a b c d" {
		t.Fatalf("改行の置換が想定外です: %q", got)
	}
}

func TestReportErrorsは標準エラーに概要を出力する(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("パイプの作成に失敗しました: %v", err)
	}
	oldStderr := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = oldStderr })

	res := &engine.Result{
		ErrorCount: 3,
		Errors: []engine.ItemError{
			{File: "a.py", Stage: "read", Message: "permission denied"},
			{File: "big.py", Stage: "size", Message: "file size 99 exceeds limit 16"},
			{File: "", Stage: "", Message: "mystery"},
		},
	}

	reportErrors(res)
	_ = w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("出力の読み込みに失敗しました: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "foldx: 3 error(s) while scanning") {
		t.Fatalf("エラー件数が出力されていません: %q", text)
	}
	if !strings.Contains(text, "  a.py [read] permission denied") {
		t.Fatalf("詳細行が出力されていません: %q", text)
	}
	if !strings.Contains(text, "  (unknown file) [scan] mystery") {
		t.Fatalf("不明ファイルの行が期待通りではありません: %q", text)
	}
}

func TestReportErrorsはエラーゼロのとき何も出力しない(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("パイプの作成に失敗しました: %v", err)
	}
	oldStderr := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = oldStderr })

	reportErrors(&engine.Result{})
	reportErrors(nil)
	_ = w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("出力の読み込みに失敗しました: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("出力は空のはずです: %q", string(out))
	}
}

func TestSummarizeはファイル単位で集計する(t *testing.T) {
	t.Parallel()

	items := []engine.Item{
		{File: "b.py", Lang: "python", Kind: "indent", Lines: 4, Depth: 0},
		{File: "a.go", Lang: "go", Kind: "marker", Lines: 6, Depth: 0},
		{File: "b.py", Lang: "python", Kind: "indent", Lines: 2, Depth: 2},
		{File: "a.go", Lang: "go", Kind: "indent", Lines: 1, Depth: 1},
	}

	got := summarize(items)
	want := []fileSummary{
		{File: "a.go", Lang: "go", Ranges: 2, Markers: 1, MaxDepth: 1, Lines: 7},
		{File: "b.py", Lang: "python", Ranges: 2, Markers: 0, MaxDepth: 2, Lines: 6},
	}
	if len(got) != len(want) {
		t.Fatalf("集計件数が一致しません: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("集計 %d が一致しません: got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestPrintSummaryはTSVで集計表を出力する(t *testing.T) {
	res := &engine.Result{
		Items: []engine.Item{
			{File: "main.py", Lang: "python", Kind: "indent", Lines: 2, Depth: 0},
		},
	}

	out := captureStdout(t, func() {
		if err := printSummary(res, "tsv"); err != nil {
			t.Errorf("printSummaryに失敗しました: %v", err)
		}
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("行数が想定外です: %q", out)
	}
	if lines[0] != "FILE\tLANG\tRANGES\tMARKERS\tMAXDEPTH\tLINES" {
		t.Fatalf("集計ヘッダーが想定外です: %q", lines[0])
	}
	if lines[1] != "main.py\tpython\t1\t0\t0\t2" {
		t.Fatalf("集計行が想定外です: %q", lines[1])
	}
}

func TestMaxItemDepthは最低でも1を返す(t *testing.T) {
	t.Parallel()

	if got := maxItemDepth(nil); got != 1 {
		t.Fatalf("空のときの深さが想定外です: %d", got)
	}
	items := []engine.Item{{Depth: 0}, {Depth: 3}, {Depth: 1}}
	if got := maxItemDepth(items); got != 3 {
		t.Fatalf("最大深さが想定外です: %d", got)
	}
}
