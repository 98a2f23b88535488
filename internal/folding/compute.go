package folding

// pendingRegion は計算中のスタックフレームです。line はそのインデント
// 水準でこれまでに見た最小の行番号（= 範囲終端の候補境界）を保持します。
type pendingRegion struct {
	indent int
	line   int
	marker bool
}

// ComputeRanges はモデル全体を末尾から先頭へ 1 パス走査し、折りたたみ
// 範囲を StartLine 昇順で返します。入力が同じなら結果も同じ（冪等）で、
// 独立したモデルに対する並行呼び出しは安全です。
func ComputeRanges(model TextModel, opts Options) []Range {
	minSize := opts.MinSize
	if minSize < 1 {
		minSize = 1
	}

	lineCount := model.LineCount()
	regions := make([]pendingRegion, 1, 16)
	regions[0] = pendingRegion{indent: IndentBlank, line: lineCount + 1}

	var out []Range
	for line := lineCount; line > 0; line-- {
		indent := model.IndentLevel(line)
		if indent == IndentBlank {
			// 空白のみの行は自分では範囲を開始も終了もしない。
			// off-side 言語でだけ境界を現在行まで引き上げる。
			if opts.OffSide {
				regions[len(regions)-1].line = line
			}
			continue
		}

		if m := opts.Markers; m != nil && m.allowsIndent(indent) {
			content := model.LineContent(line)
			start, end := m.find(content)
			switch {
			case start != nil && (end == nil || start[0] <= end[0]):
				// 開始マーカー: 直近の「開始待ち」フレームを探す。
				i := len(regions) - 1
				for i > 0 && !regions[i].marker {
					i--
				}
				if i > 0 {
					// マーカー領域の内側ではインデント水準のフレームは
					// 破棄され、マーカーのみが境界を決める。
					regions = regions[:i+1]
					top := &regions[i]
					out = append(out, Range{StartLine: line, EndLine: top.line, Indent: indent, Marker: true})
					top.marker = false
					top.indent = indent
					top.line = line
					continue
				}
				// 対応する終了マーカーがない場合は通常の行として扱う。
			case end != nil:
				regions = append(regions, pendingRegion{indent: indentAwaitingMarker, line: line, marker: true})
				continue
			}
		}

		top := &regions[len(regions)-1]
		if top.indent > indent {
			for top.indent > indent {
				regions = regions[:len(regions)-1]
				top = &regions[len(regions)-1]
			}
			if end := top.line - 1; end-line >= minSize {
				out = append(out, Range{StartLine: line, EndLine: end, Indent: indent})
			}
		}
		if top.indent == indent {
			top.line = line
		} else {
			regions = append(regions, pendingRegion{indent: indent, line: line})
		}
	}

	// 後ろから前へ収集しているので反転して昇順にする。
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
