// Package folding はインデント量から折りたたみ可能な行範囲を計算します。
// 計算は言語の構文に依存せず、各行のインデント列数と（任意で）開始/終了
// マーカーの正規表現ペアのみを入力とします。
package folding

import (
	"fmt"
	"regexp"
)

// IndentBlank は空行・空白のみの行を示すインデント値です。
// TextModel の実装は該当する行に対してこの値を返します。
const IndentBlank = -1

// indentAwaitingMarker は「対応する開始マーカー待ち」の保留領域を示す
// 内部センチネルです。実在のインデント (>= 0) とも IndentBlank とも
// 衝突しません。
const indentAwaitingMarker = -2

// DefaultTabSize はタブ幅が指定されない場合に使う列数です。
const DefaultTabSize = 4

// Range は折りたたみ可能な 1 つの行ブロックを表します。
// 行番号は 1 始まりで、両端を含みます。
type Range struct {
	// StartLine はブロックの先頭行（折りたたみ時に残る行）です。
	StartLine int `json:"start_line"`
	// EndLine はブロックの最終行です。常に StartLine <= EndLine。
	EndLine int `json:"end_line"`
	// Indent は先頭行のインデント列数です。
	Indent int `json:"indent"`
	// Marker はマーカーペアに由来する範囲のとき true になります。
	Marker bool `json:"marker,omitempty"`
}

// TextModel は範囲計算の入力となる行のオラクルです。
// 行番号は 1 始まりで、1..LineCount() の範囲で呼び出されます。
type TextModel interface {
	LineCount() int
	LineContent(line int) string
	// IndentLevel は行のインデント列数を返します。空行・空白のみの
	// 行には IndentBlank を返します。
	IndentLevel(line int) int
}

// Markers は明示的な折りたたみマーカーのペアを表します
// （例: //#region と //#endregion）。
type Markers struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
	// Indent を設定すると、ちょうどそのインデント列数の行でのみ
	// マーカーを認識します。nil なら任意のインデントで認識します。
	Indent *int
}

// NewMarkers はマーカーペアをコンパイルします。不正なパターンは
// 計算前のこの時点でエラーになります。
func NewMarkers(start, end string) (*Markers, error) {
	s, err := regexp.Compile(start)
	if err != nil {
		return nil, fmt.Errorf("invalid start marker pattern: %w", err)
	}
	e, err := regexp.Compile(end)
	if err != nil {
		return nil, fmt.Errorf("invalid end marker pattern: %w", err)
	}
	return &Markers{Start: s, End: e}, nil
}

// MustMarkers は NewMarkers の panic 版です。初期化済みテーブルの
// 構築用で、regexp.MustCompile と同じ使い方をします。
func MustMarkers(start, end string) *Markers {
	m, err := NewMarkers(start, end)
	if err != nil {
		panic(err)
	}
	return m
}

// allowsIndent はインデント制約を満たすかを返します。
func (m *Markers) allowsIndent(indent int) bool {
	return m.Indent == nil || *m.Indent == indent
}

// find は開始・終了パターンそれぞれの最初のマッチ位置を返します。
// どちらも最左マッチ優先で、同位置なら開始パターンが勝ちます
// （呼び出し側で判定）。
func (m *Markers) find(content string) (start, end []int) {
	return m.Start.FindStringIndex(content), m.End.FindStringIndex(content)
}

// Options は 1 回の計算を制御します。
type Options struct {
	// OffSide が true の場合、空行は直後のブロックに属するものとして
	// 扱います（Python 系のインデント規則）。インデントの比較自体には
	// 影響しません。
	OffSide bool
	// Markers が非 nil の場合、マッチした行はインデントによる境界より
	// 優先してマーカー範囲を構成します。
	Markers *Markers
	// MinSize はインデント由来の範囲を出力するために必要な最小スパン
	// （EndLine - StartLine）です。1 未満は 1 として扱います。
	// マーカー由来の範囲はこのフィルタを通しません。
	MinSize int
}
