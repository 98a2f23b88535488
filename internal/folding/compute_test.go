package folding

import (
	"reflect"
	"testing"
)

// stubModel は行内容とインデントを直接指定できるテスト用モデルです。
type stubModel struct {
	lines   []string
	indents []int
}

func (m stubModel) LineCount() int { return len(m.indents) }

func (m stubModel) LineContent(line int) string {
	if m.lines == nil {
		return ""
	}
	return m.lines[line-1]
}

func (m stubModel) IndentLevel(line int) int { return m.indents[line-1] }

func assertWellFormed(t *testing.T, model TextModel, got []Range, minSize int) {
	t.Helper()
	for i, r := range got {
		if r.StartLine > r.EndLine {
			t.Fatalf("範囲 %d の境界が逆転しています: %+v", i, r)
		}
		if r.StartLine < 1 || r.EndLine > model.LineCount() {
			t.Fatalf("範囲 %d が行数の外に出ています: %+v (lineCount=%d)", i, r, model.LineCount())
		}
		if i > 0 && got[i-1].StartLine > r.StartLine {
			t.Fatalf("開始行が昇順ではありません: %d 番目 %+v の前が %+v", i, r, got[i-1])
		}
		if !r.Marker && r.EndLine-r.StartLine < minSize {
			t.Fatalf("最小スパン未満のインデント範囲が出力されました: %+v (min=%d)", i, minSize)
		}
	}
}

func TestComputeRangesはインデント段差から入れ子の範囲を作る(t *testing.T) {
	// function f() { / if (x) { / return 1; / } / }
	model := stubModel{indents: []int{0, 1, 2, 1, 0}}

	got := ComputeRanges(model, Options{})

	want := []Range{
		{StartLine: 1, EndLine: 4, Indent: 0},
		{StartLine: 2, EndLine: 3, Indent: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("結果が一致しません:\n got=%+v\nwant=%+v", got, want)
	}
	assertWellFormed(t, model, got, 1)
}

func TestComputeRangesは同じ入力に対して冪等(t *testing.T) {
	model := stubModel{indents: []int{0, 2, 4, 2, 0, 2, -1, 2, 0}}

	first := ComputeRanges(model, Options{OffSide: true})
	second := ComputeRanges(model, Options{OffSide: true})

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("2 回目の結果が変わりました:\n1 回目=%+v\n2 回目=%+v", first, second)
	}
}

func TestComputeRangesは空のモデルで空を返す(t *testing.T) {
	got := ComputeRanges(stubModel{}, Options{})
	if len(got) != 0 {
		t.Fatalf("空のモデルから範囲が出力されました: %+v", got)
	}
}

func TestComputeRangesは一様なインデントでは何も返さない(t *testing.T) {
	cases := map[string][]int{
		"すべて 0":    {0, 0, 0, 0},
		"すべて 4":    {4, 4, 4},
		"空白行を挟む":  {0, IndentBlank, 0, IndentBlank, 0},
		"空白行のみ":   {IndentBlank, IndentBlank},
	}
	for name, indents := range cases {
		indents := indents
		t.Run(name, func(t *testing.T) {
			got := ComputeRanges(stubModel{indents: indents}, Options{})
			if len(got) != 0 {
				t.Fatalf("範囲が出力されました: %+v", got)
			}
		})
	}
}

func TestMinSizeは小さなブロックを抑制する(t *testing.T) {
	t.Run("スパン1のブロックは落ちる", func(t *testing.T) {
		got := ComputeRanges(stubModel{indents: []int{0, 1}}, Options{MinSize: 2})
		if len(got) != 0 {
			t.Fatalf("抑制されるべき範囲が出力されました: %+v", got)
		}
	})
	t.Run("スパン2のブロックは残る", func(t *testing.T) {
		got := ComputeRanges(stubModel{indents: []int{0, 1, 1}}, Options{MinSize: 2})
		want := []Range{{StartLine: 1, EndLine: 3, Indent: 0}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
		}
	})
	t.Run("0 以下は 1 として扱う", func(t *testing.T) {
		a := ComputeRanges(stubModel{indents: []int{0, 1}}, Options{MinSize: 0})
		b := ComputeRanges(stubModel{indents: []int{0, 1}}, Options{MinSize: 1})
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("MinSize=0 と 1 の結果が一致しません: %+v vs %+v", a, b)
		}
	})
}

func TestOffSideは空行でブロックを分割しない(t *testing.T) {
	// 行 2-4 がインデント 1 のブロックで、行 3 が空行。
	model := stubModel{indents: []int{0, 1, IndentBlank, 1}}

	got := ComputeRanges(model, Options{OffSide: true})

	want := []Range{{StartLine: 1, EndLine: 4, Indent: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ブロックが分割されました: got=%+v want=%+v", got, want)
	}
}

func TestOffSideは末尾の空行を次のブロックに帰属させる(t *testing.T) {
	indents := []int{0, 1, IndentBlank, 0}

	t.Run("offSide=true は空行の手前で閉じる", func(t *testing.T) {
		got := ComputeRanges(stubModel{indents: indents}, Options{OffSide: true})
		want := []Range{{StartLine: 1, EndLine: 2, Indent: 0}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
		}
	})
	t.Run("offSide=false は空行を含めて閉じる", func(t *testing.T) {
		got := ComputeRanges(stubModel{indents: indents}, Options{})
		want := []Range{{StartLine: 1, EndLine: 3, Indent: 0}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
		}
	})
}

func regionMarkers(t *testing.T) *Markers {
	t.Helper()
	m, err := NewMarkers(`^\s*#region\b`, `^\s*#endregion\b`)
	if err != nil {
		t.Fatalf("マーカーのコンパイルに失敗しました: %v", err)
	}
	return m
}

func TestMarkersはペアで範囲を作る(t *testing.T) {
	doc := NewDocument([]byte("#region\ncode\n#endregion"), 0)

	got := ComputeRanges(doc, Options{Markers: regionMarkers(t)})

	want := []Range{{StartLine: 1, EndLine: 3, Indent: 0, Marker: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
	}
}

func TestMarkersは最小スパンのフィルタを通らない(t *testing.T) {
	doc := NewDocument([]byte("#region\n#endregion"), 0)

	got := ComputeRanges(doc, Options{Markers: regionMarkers(t), MinSize: 10})

	want := []Range{{StartLine: 1, EndLine: 2, Indent: 0, Marker: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("マーカー範囲が抑制されました: got=%+v want=%+v", got, want)
	}
}

func TestMarkersのインデント制約(t *testing.T) {
	zero := 0
	m := regionMarkers(t)
	m.Indent = &zero

	doc := NewDocument([]byte("  #region\n  code\n  #endregion"), 0)

	got := ComputeRanges(doc, Options{Markers: m})
	if len(got) != 0 {
		t.Fatalf("制約外のインデントでマーカーが認識されました: %+v", got)
	}
}

func TestMarkers範囲の内側でもインデント範囲は出力される(t *testing.T) {
	doc := NewDocument([]byte("#region\n  a\n    b\n#endregion"), 0)

	got := ComputeRanges(doc, Options{Markers: regionMarkers(t)})

	want := []Range{
		{StartLine: 1, EndLine: 4, Indent: 0, Marker: true},
		{StartLine: 2, EndLine: 3, Indent: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("結果が一致しません:\n got=%+v\nwant=%+v", got, want)
	}
	assertWellFormed(t, doc, got, 1)
}

func Test対応する終了マーカーがない開始マーカーは通常の行(t *testing.T) {
	doc := NewDocument([]byte("#region\n  a\n  b"), 0)

	got := ComputeRanges(doc, Options{Markers: regionMarkers(t)})

	want := []Range{{StartLine: 1, EndLine: 3, Indent: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
	}
}

func Test入れ子のマーカーは近いペアで閉じる(t *testing.T) {
	doc := NewDocument([]byte("#region outer\n#region inner\n#endregion\n#endregion"), 0)

	got := ComputeRanges(doc, Options{Markers: regionMarkers(t)})

	want := []Range{
		{StartLine: 1, EndLine: 4, Indent: 0, Marker: true},
		{StartLine: 2, EndLine: 3, Indent: 0, Marker: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("結果が一致しません:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestOffSideの空行はマーカー境界も引き上げる(t *testing.T) {
	data := []byte("#region\nx\n\n#endregion")

	t.Run("offSide=true", func(t *testing.T) {
		got := ComputeRanges(NewDocument(data, 0), Options{OffSide: true, Markers: regionMarkers(t)})
		want := []Range{{StartLine: 1, EndLine: 3, Indent: 0, Marker: true}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
		}
	})
	t.Run("offSide=false", func(t *testing.T) {
		got := ComputeRanges(NewDocument(data, 0), Options{Markers: regionMarkers(t)})
		want := []Range{{StartLine: 1, EndLine: 4, Indent: 0, Marker: true}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("結果が一致しません: got=%+v want=%+v", got, want)
		}
	})
}

func TestComputeRangesの性質を広い入力で確認する(t *testing.T) {
	cases := map[string]struct {
		indents []int
		opts    Options
	}{
		"深い入れ子":       {indents: []int{0, 1, 2, 3, 4, 3, 2, 1, 0}},
		"のこぎり型":       {indents: []int{0, 2, 0, 2, 0, 2}},
		"段差の飛び越え":     {indents: []int{0, 4, 2, 0}},
		"空白行混在+offSide": {indents: []int{0, IndentBlank, 2, 2, IndentBlank, 0, 3}, opts: Options{OffSide: true}},
		"最小スパン 3":      {indents: []int{0, 1, 1, 1, 1, 0}, opts: Options{MinSize: 3}},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			model := stubModel{indents: tc.indents}
			got := ComputeRanges(model, tc.opts)
			min := tc.opts.MinSize
			if min < 1 {
				min = 1
			}
			assertWellFormed(t, model, got, min)
		})
	}
}
