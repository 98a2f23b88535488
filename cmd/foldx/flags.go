package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phyten/foldx/internal/engine"
	engineopts "github.com/phyten/foldx/internal/engine/opts"
)

// cliConfig は scan サブコマンドのフラグの生値を保持します。
// set には明示指定されたフラグの正規名が入り、設定ファイル・環境変数
// との優先順位の判定に使います。
type cliConfig struct {
	opts          engine.Options
	output        string
	fields        string
	sortKey       string
	summary       bool
	color         string
	configPath    string
	noConfig      bool
	forceProgress bool
	noProgress    bool
	showHelp      bool
	helpLang      string
	set           map[string]bool
}

// multiFlag は繰り返し指定とカンマ区切りの両方を受けるフラグ値です。
type multiFlag struct {
	values []string
}

func (m *multiFlag) String() string { return strings.Join(m.values, ",") }

func (m *multiFlag) Set(value string) error {
	m.values = append(m.values, engineopts.SplitMulti([]string{value})...)
	return nil
}

// flagAliases は短縮形を正規名に解決します。set の記録用です。
var flagAliases = map[string]string{
	"t": "type",
	"l": "lang",
	"o": "output",
	"s": "sort",
	"j": "jobs",
	"p": "with-preview",
}

func canonicalFlagName(name string) string {
	if canon, ok := flagAliases[name]; ok {
		return canon
	}
	return name
}

func parseScanArgs(args []string, envLang string) (*cliConfig, error) {
	cfg := &cliConfig{
		opts:     engineopts.Defaults("."),
		helpLang: normalizeHelpLang(envLang),
		set:      map[string]bool{},
	}

	fs := flag.NewFlagSet("foldx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		langs     multiFlag
		paths     multiFlag
		excludes  multiFlag
		pathRegex multiFlag
		helpLang  string
		helpJa    bool
		helpEn    bool
		showHelp  bool
	)

	fs.StringVar(&cfg.opts.Type, "type", cfg.opts.Type, "indent|marker|both")
	fs.StringVar(&cfg.opts.Type, "t", cfg.opts.Type, "alias of --type")
	fs.Var(&langs, "lang", "limit scan to languages (repeatable, comma separated)")
	fs.Var(&langs, "l", "alias of --lang")
	fs.BoolVar(&cfg.opts.AllFiles, "all", cfg.opts.AllFiles, "include files with unknown language")
	fs.Var(&paths, "path", "limit scan to pathspecs (repeatable)")
	fs.Var(&excludes, "exclude", "exclude pathspecs (repeatable)")
	fs.Var(&pathRegex, "path-regex", "filter listed files by regexp (repeatable)")
	fs.BoolVar(&cfg.opts.ExcludeTypical, "exclude-typical", cfg.opts.ExcludeTypical, "exclude vendor/, node_modules/, dist/, build/, target/, *.min.*")
	fs.IntVar(&cfg.opts.MinSpan, "min-span", cfg.opts.MinSpan, "minimum hidden line count for indent ranges")
	fs.IntVar(&cfg.opts.TabSize, "tab-size", cfg.opts.TabSize, "columns per tab when measuring indentation")
	fs.IntVar(&cfg.opts.MaxDepth, "max-depth", cfg.opts.MaxDepth, "drop ranges at depth N or deeper (0=unlimited)")
	fs.StringVar(&cfg.opts.OffSide, "offside", cfg.opts.OffSide, "auto|on|off: blank lines belong to the following block")
	fs.StringVar(&cfg.opts.Markers, "markers", cfg.opts.Markers, "auto|off: honor region marker comments")
	fs.StringVar(&cfg.opts.MarkerStart, "marker-start", cfg.opts.MarkerStart, "override start marker pattern (regexp)")
	fs.StringVar(&cfg.opts.MarkerEnd, "marker-end", cfg.opts.MarkerEnd, "override end marker pattern (regexp)")
	fs.BoolVar(&cfg.opts.WithPreview, "with-preview", cfg.opts.WithPreview, "capture the first line of each range")
	fs.BoolVar(&cfg.opts.WithPreview, "p", cfg.opts.WithPreview, "alias of --with-preview")
	fs.IntVar(&cfg.opts.TruncPreview, "truncate", cfg.opts.TruncPreview, "truncate previews to N display columns (0=unlimited)")
	fs.IntVar(&cfg.opts.Jobs, "jobs", cfg.opts.Jobs, "max parallel workers")
	fs.IntVar(&cfg.opts.Jobs, "j", cfg.opts.Jobs, "alias of --jobs")
	fs.StringVar(&cfg.opts.RepoDir, "repo", cfg.opts.RepoDir, "repo root (default: current dir)")
	fs.BoolVar(&cfg.opts.NoGit, "no-git", cfg.opts.NoGit, "list files by walking instead of git ls-files")
	fs.IntVar(&cfg.opts.MaxFileBytes, "max-file-bytes", cfg.opts.MaxFileBytes, "skip files larger than N bytes (0=unlimited)")

	fs.StringVar(&cfg.output, "output", "table", "table|tsv|json|csv|md|ndjson")
	fs.StringVar(&cfg.output, "o", "table", "alias of --output")
	fs.StringVar(&cfg.fields, "fields", "", "comma separated output columns")
	fs.StringVar(&cfg.sortKey, "sort", "", "sort items, e.g. -lines,file")
	fs.StringVar(&cfg.sortKey, "s", "", "alias of --sort")
	fs.BoolVar(&cfg.summary, "summary", false, "aggregate per file instead of listing ranges")
	fs.StringVar(&cfg.color, "color", "auto", "auto|always|never")
	fs.StringVar(&cfg.configPath, "config", "", "explicit config file path")
	fs.BoolVar(&cfg.noConfig, "no-config", false, "ignore config files and FOLDX_* env vars")
	fs.BoolVar(&cfg.forceProgress, "progress", false, "force progress even when piped")
	fs.BoolVar(&cfg.noProgress, "no-progress", false, "disable progress/ETA")

	fs.BoolVar(&showHelp, "h", false, "show help")
	fs.BoolVar(&showHelp, "help", false, "show help")
	fs.StringVar(&helpLang, "help-lang", "", "help language: en|ja")
	fs.BoolVar(&helpJa, "help-ja", false, "show help in Japanese")
	fs.BoolVar(&helpEn, "help-en", false, "show help in English")

	noOffSide := fs.Bool("no-offside", false, "shortcut for --offside=off")
	noMarkers := fs.Bool("no-markers", false, "shortcut for --markers=off")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			cfg.showHelp = true
			return cfg, nil
		}
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		cfg.set[canonicalFlagName(f.Name)] = true
	})

	if *noOffSide {
		cfg.opts.OffSide = "off"
		cfg.set["offside"] = true
	}
	if *noMarkers {
		cfg.opts.Markers = "off"
		cfg.set["markers"] = true
	}
	if len(langs.values) > 0 {
		cfg.opts.Langs = langs.values
		cfg.set["lang"] = true
	}
	if len(paths.values) > 0 {
		cfg.opts.Paths = paths.values
		cfg.set["path"] = true
	}
	if len(excludes.values) > 0 {
		cfg.opts.Excludes = excludes.values
		cfg.set["exclude"] = true
	}
	if len(pathRegex.values) > 0 {
		cfg.opts.PathRegex = pathRegex.values
		cfg.set["path-regex"] = true
	}

	if lang := normalizeHelpLang(helpLang); helpLang != "" {
		cfg.helpLang = lang
		cfg.showHelp = true
	}
	if helpJa {
		cfg.helpLang = "ja"
		cfg.showHelp = true
	}
	if helpEn {
		cfg.helpLang = "en"
		cfg.showHelp = true
	}
	if showHelp {
		cfg.showHelp = true
	}
	if rest := fs.Args(); len(rest) > 0 && cfg.showHelp {
		// `-h ja` のような後置指定を受け付ける
		if lang := normalizeHelpLang(rest[0]); rest[0] != "" {
			cfg.helpLang = lang
		}
	}

	return cfg, nil
}

func normalizeHelpLang(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(v, "ja") {
		return "ja"
	}
	return "en"
}

func helpLangFromEnv() string {
	for _, key := range []string{"FOLDX_HELP_LANG", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if strings.HasPrefix(strings.ToLower(v), "ja") {
				return "ja"
			}
			if key == "FOLDX_HELP_LANG" {
				return "en"
			}
		}
	}
	return "en"
}

const helpEnText = `foldx — Compute code folding ranges from indentation

Usage:
  foldx [options]            scan the repository and print foldable ranges
  foldx serve [options]      start the web UI / JSON API

Scan options:
  -t, --type TYPE            indent|marker|both (default: both)
  -l, --lang LANGS           limit to languages, e.g. -l go,python (repeatable)
      --all                  include files whose language is unknown
      --path SPEC            limit to pathspecs (repeatable)
      --exclude SPEC         exclude pathspecs, e.g. 'vendor/**' (repeatable)
      --path-regex RE        filter listed files by regexp (repeatable)
      --exclude-typical      exclude vendor/, node_modules/, dist/, build/, target/, *.min.*
      --min-span N           minimum hidden lines for an indent range (default: 1)
      --tab-size N           columns per tab (default: 4)
      --max-depth N          drop ranges at depth N or deeper (0=unlimited)
      --offside MODE         auto|on|off (default: auto, per language)
      --no-offside           shortcut for --offside=off
      --markers MODE         auto|off (default: auto, per language)
      --no-markers           shortcut for --markers=off
      --marker-start RE      override the start marker pattern
      --marker-end RE        override the end marker pattern
  -p, --with-preview         capture the first line of each range
      --truncate N           truncate previews to N columns (0=unlimited)

Output options:
  -o, --output FMT           table|tsv|json|csv|md|ndjson (default: table)
      --fields LIST          columns: kind,lang,location,file,start,end,lines,indent,depth,preview
  -s, --sort KEYS            e.g. -s -lines,file (prefix - for descending)
      --summary              aggregate per file
      --color MODE           auto|always|never

Run options:
  -j, --jobs N               max parallel workers (default: CPU count, max 64)
      --repo DIR             repo root (default: current dir)
      --no-git               walk the tree instead of git ls-files
      --max-file-bytes N     skip files larger than N bytes
      --progress             force progress even when piped
      --no-progress          disable progress/ETA
      --config PATH          explicit config file
      --no-config            ignore config files and FOLDX_* env vars
  -h, --help [ja]            show this help (also --help-ja / --help-lang=ja)
`

const helpJaText = `foldx — リポジトリ内のインデントから折りたたみ範囲を計算します

使い方:
  foldx [options]            リポジトリを走査して折りたたみ範囲を表示
  foldx serve [options]      Web UI / JSON API を起動

走査オプション:
  -t, --type TYPE            indent|marker|both (既定: both)
  -l, --lang LANGS           言語で絞り込み 例: -l go,python (繰り返し可)
      --all                  言語を特定できないファイルも対象にする
      --path SPEC            パス指定で絞り込み (繰り返し可)
      --exclude SPEC         パス指定で除外 例: 'vendor/**' (繰り返し可)
      --path-regex RE        一覧を正規表現で絞り込み (繰り返し可)
      --exclude-typical      vendor/ node_modules/ dist/ build/ target/ *.min.* を除外
      --min-span N           インデント範囲が隠す最小行数 (既定: 1)
      --tab-size N           タブ幅 (既定: 4)
      --max-depth N          N 以上の入れ子を出力しない (0=無制限)
      --offside MODE         auto|on|off (既定: 言語ごとの auto)
      --no-offside           --offside=off の短縮形
      --markers MODE         auto|off (既定: 言語ごとの auto)
      --no-markers           --markers=off の短縮形
      --marker-start RE      開始マーカーのパターンを上書き
      --marker-end RE        終了マーカーのパターンを上書き
  -p, --with-preview         各範囲の先頭行を取得する
      --truncate N           プレビューを N 桁で切り詰める (0=無制限)

出力オプション:
  -o, --output FMT           table|tsv|json|csv|md|ndjson (既定: table)
      --fields LIST          列: kind,lang,location,file,start,end,lines,indent,depth,preview
  -s, --sort KEYS            例: -s -lines,file (- 接頭辞で降順)
      --summary              ファイル単位で集計する
      --color MODE           auto|always|never

実行オプション:
  -j, --jobs N               並列数 (既定: CPU 数、上限 64)
      --repo DIR             リポジトリルート (既定: カレントディレクトリ)
      --no-git               git ls-files を使わずディレクトリを走査
      --max-file-bytes N     N バイトを超えるファイルをスキップ
      --progress             パイプ時でも進捗を表示
      --no-progress          進捗/ETA を無効化
      --config PATH          設定ファイルを明示指定
      --no-config            設定ファイルと FOLDX_* 環境変数を無視
  -h, --help [ja]            このヘルプ (--help-ja / --help-lang=ja も可)
`

func printScanHelp(lang string) {
	if lang == "ja" {
		fmt.Print(helpJaText)
		return
	}
	fmt.Print(helpEnText)
}
