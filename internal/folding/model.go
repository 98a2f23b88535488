package folding

import "strings"

// Document はファイル内容を行単位で保持する不変の TextModel 実装です。
// インデント列数は構築時にまとめて解決されるため、構築後は複数の
// ゴルーチンから同時に参照できます。
type Document struct {
	lines   []string
	indents []int
}

// NewDocument はバイト列を行に分割して Document を構築します。
// 行区切りは LF で、直前の CR は取り除きます（CRLF 入力対応）。
// 末尾が改行で終わる内容は、エディタのバッファと同様に最終行として
// 空行を 1 つ持ちます。tabSize が 0 以下なら DefaultTabSize を使います。
func NewDocument(data []byte, tabSize int) *Document {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	indents := make([]int, len(lines))
	for i, l := range lines {
		indents[i] = ComputeIndentLevel(l, tabSize)
	}
	return &Document{lines: lines, indents: indents}
}

// LineCount は行数を返します。
func (d *Document) LineCount() int { return len(d.lines) }

// LineContent は 1 始まりの行番号で行内容を返します。
// 範囲外の行番号はスライス境界違反として panic します。
func (d *Document) LineContent(line int) string { return d.lines[line-1] }

// IndentLevel は 1 始まりの行番号でインデント列数を返します。
func (d *Document) IndentLevel(line int) int { return d.indents[line-1] }

// ComputeIndentLevel は行頭の空白をインデント列数に換算します。
// 空白は 1 列、タブは次の tabSize の倍数位置までを占めます。
// 空行・空白のみの行には IndentBlank を返します。
func ComputeIndentLevel(content string, tabSize int) int {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	indent := 0
	for _, r := range content {
		switch r {
		case ' ':
			indent++
		case '\t':
			indent = indent - indent%tabSize + tabSize
		default:
			return indent
		}
	}
	return IndentBlank
}
