package engine

import (
	"regexp"

	"github.com/phyten/foldx/internal/execx"
	"github.com/phyten/foldx/internal/folding"
	"github.com/phyten/foldx/internal/progress"
)

// Item は 1 件の折りたたみ範囲を表す
type Item struct {
	File    string `json:"file"`
	Lang    string `json:"lang,omitempty"`
	Kind    string `json:"kind"` // indent|marker
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Lines   int    `json:"lines"` // 折りたたみで隠れる行数 (End - Start)
	Indent  int    `json:"indent"`
	Depth   int    `json:"depth"`
	Preview string `json:"preview,omitempty"`
}

// ItemError は 1 ファイルの走査に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	Type              string // indent|marker|both
	Langs             []string
	AllFiles          bool
	MinSpan           int
	TabSize           int
	MaxDepth          int
	OffSide           string // auto|on|off
	Markers           string // auto|off
	MarkerStart       string
	MarkerEnd         string
	MarkersCompiled   *folding.Markers
	WithPreview       bool
	TruncPreview      int
	Jobs              int
	RepoDir           string
	Paths             []string
	Excludes          []string
	PathRegex         []string
	PathRegexCompiled []*regexp.Regexp
	ExcludeTypical    bool
	NoGit             bool
	MaxFileBytes      int
	Progress          bool
	Runner            execx.Runner      `json:"-"`
	ProgressObserver  progress.Observer `json:"-"`
}

// Result は出力
type Result struct {
	Items      []Item      `json:"items"`
	HasPreview bool        `json:"has_preview"`
	Total      int         `json:"total"`
	Files      int         `json:"files"`
	ElapsedMS  int64       `json:"elapsed_ms"`
	Errors     []ItemError `json:"errors,omitempty"`
	ErrorCount int         `json:"error_count"`
}
