package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/phyten/foldx/internal/config"
	"github.com/phyten/foldx/internal/engine"
	engineopts "github.com/phyten/foldx/internal/engine/opts"
	"github.com/phyten/foldx/internal/output"
	"github.com/phyten/foldx/internal/termcolor"
	"github.com/phyten/foldx/internal/textutil"
	"github.com/phyten/foldx/internal/util"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			serveCmd(os.Args[2:])
			return
		case "help":
			printScanHelp(helpLangFromEnv())
			return
		}
	}
	scanCmd(os.Args[1:])
}

// uiSettings は出力側の設定で、フラグ・設定ファイル・環境変数を
// 重ねた結果を保持します。
type uiSettings struct {
	output  string
	fields  string
	sortKey string
	summary bool
	color   string
}

func scanCmd(args []string) {
	cfg, err := parseScanArgs(args, helpLangFromEnv())
	if err != nil {
		log.Fatal(err)
	}
	if cfg.showHelp {
		printScanHelp(cfg.helpLang)
		return
	}

	options, ui, err := layerSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	outputFormat, err := engineopts.NormalizeOutput(ui.output)
	if err != nil {
		log.Fatal(err)
	}
	mode, err := termcolor.ParseMode(ui.color)
	if err != nil {
		log.Fatal(err)
	}
	spec, err := ParseSortSpec(ui.sortKey)
	if err != nil {
		log.Fatal(err)
	}

	options.Progress = util.ShouldShowProgress(cfg.forceProgress, cfg.noProgress)
	if err := engineopts.NormalizeAndValidate(&options); err != nil {
		log.Fatal(err)
	}

	res, err := engine.Run(options)
	if err != nil {
		log.Fatal(err)
	}
	ApplySort(res.Items, spec)

	if ui.summary {
		if err := printSummary(res, outputFormat); err != nil {
			log.Fatal(err)
		}
		reportErrors(res)
		return
	}

	sel, err := output.ResolveFields(ui.fields, res.HasPreview)
	if err != nil {
		log.Fatal(err)
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal(err)
		}
	case "ndjson":
		if err := output.WriteNDJSON(os.Stdout, res.Items); err != nil {
			log.Fatal(err)
		}
	case "csv":
		if err := output.WriteCSV(os.Stdout, res.Items, sel); err != nil {
			log.Fatal(err)
		}
	case "md":
		if err := output.WriteMarkdownTable(os.Stdout, res.Items, sel); err != nil {
			log.Fatal(err)
		}
	case "tsv":
		printTSV(res, sel)
	default: // table
		printTable(res, sel, mode)
	}
	reportErrors(res)
}

// layerSettings は「既定値 → 設定ファイル → 環境変数 → フラグ」の順で
// エンジン設定と出力設定を重ねます。
func layerSettings(cfg *cliConfig) (engine.Options, uiSettings, error) {
	repoDir := "."
	if cfg.set["repo"] {
		repoDir = cfg.opts.RepoDir
	}

	eng := config.EngineSettingsFromOptions(engineopts.Defaults(repoDir))
	ui := config.DefaultUISettings()

	if !cfg.noConfig {
		var fileCfg config.Config
		path, _, err := config.Find(repoDir, cfg.configPath, os.Getenv("XDG_CONFIG_HOME"), os.Getenv("HOME"))
		if err != nil {
			return engine.Options{}, uiSettings{}, err
		}
		if path != "" {
			fileCfg, err = config.Load(path)
			if err != nil {
				return engine.Options{}, uiSettings{}, err
			}
		}
		envCfg, err := config.FromEnv(os.Getenv)
		if err != nil {
			return engine.Options{}, uiSettings{}, err
		}
		eng = config.MergeEngine(eng, fileCfg.Engine, envCfg.Engine)
		ui = config.NormalizeUI(config.MergeUI(ui, fileCfg.UI, envCfg.UI))
	}

	options := engineopts.Defaults(repoDir)
	eng.ApplyToOptions(&options)
	view := uiSettings{
		output:  eng.Output,
		fields:  ui.Fields,
		sortKey: ui.Sort,
		summary: ui.Summary,
		color:   eng.Color,
	}
	applyFlags(cfg, &options, &view)
	return options, view, nil
}

// applyFlags は明示指定されたフラグだけを層の最上位として上書きします。
func applyFlags(cfg *cliConfig, options *engine.Options, view *uiSettings) {
	if cfg.set["type"] {
		options.Type = cfg.opts.Type
	}
	if cfg.set["lang"] {
		options.Langs = cfg.opts.Langs
	}
	if cfg.set["all"] {
		options.AllFiles = cfg.opts.AllFiles
	}
	if cfg.set["path"] {
		options.Paths = cfg.opts.Paths
	}
	if cfg.set["exclude"] {
		options.Excludes = cfg.opts.Excludes
	}
	if cfg.set["path-regex"] {
		options.PathRegex = cfg.opts.PathRegex
	}
	if cfg.set["exclude-typical"] {
		options.ExcludeTypical = cfg.opts.ExcludeTypical
	}
	if cfg.set["min-span"] {
		options.MinSpan = cfg.opts.MinSpan
	}
	if cfg.set["tab-size"] {
		options.TabSize = cfg.opts.TabSize
	}
	if cfg.set["max-depth"] {
		options.MaxDepth = cfg.opts.MaxDepth
	}
	if cfg.set["offside"] {
		options.OffSide = cfg.opts.OffSide
	}
	if cfg.set["markers"] {
		options.Markers = cfg.opts.Markers
	}
	if cfg.set["marker-start"] {
		options.MarkerStart = cfg.opts.MarkerStart
	}
	if cfg.set["marker-end"] {
		options.MarkerEnd = cfg.opts.MarkerEnd
	}
	if cfg.set["with-preview"] {
		options.WithPreview = cfg.opts.WithPreview
	}
	if cfg.set["truncate"] {
		options.TruncPreview = cfg.opts.TruncPreview
	}
	if cfg.set["jobs"] {
		options.Jobs = cfg.opts.Jobs
	}
	if cfg.set["repo"] {
		options.RepoDir = cfg.opts.RepoDir
	}
	if cfg.set["no-git"] {
		options.NoGit = cfg.opts.NoGit
	}
	if cfg.set["max-file-bytes"] {
		options.MaxFileBytes = cfg.opts.MaxFileBytes
	}
	if cfg.set["output"] {
		view.output = cfg.output
	}
	if cfg.set["fields"] {
		view.fields = cfg.fields
	}
	if cfg.set["sort"] {
		view.sortKey = cfg.sortKey
	}
	if cfg.set["summary"] {
		view.summary = cfg.summary
	}
	if cfg.set["color"] {
		view.color = cfg.color
	}
}

func printTSV(res *engine.Result, sel output.FieldSelection) {
	var b strings.Builder
	b.WriteString(strings.Join(output.Headers(sel.Fields), "\t"))
	b.WriteByte('\n')
	for _, it := range res.Items {
		row := output.RowValues(it, sel.Fields)
		for i := range row {
			row[i] = flattenCell(row[i])
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}

// printTable は各列の表示幅を測って桁を揃えます。色を付けると
// エスケープシーケンスで tabwriter の幅計算が狂うため自前で揃えます。
func printTable(res *engine.Result, sel output.FieldSelection, mode termcolor.ColorMode) {
	env := termcolor.EnvMap(os.Environ())
	colored := termcolor.Enabled(mode, os.Stdout)
	profile := termcolor.DetectProfile(env)
	scheme := termcolor.DetectScheme(env)

	headers := output.Headers(sel.Fields)
	rows := make([][]string, 0, len(res.Items))
	for _, it := range res.Items {
		row := output.RowValues(it, sel.Fields)
		for i := range row {
			row[i] = flattenCell(row[i])
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = textutil.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := textutil.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		cell := textutil.PadRight(h, widths[i])
		b.WriteString(termcolor.Apply(termcolor.HeaderStyle(), cell, colored))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteByte('\n')

	maxDepth := float64(maxItemDepth(res.Items))
	for r, row := range rows {
		it := res.Items[r]
		for i, cell := range row {
			// 先に色を付け、余白は SGR の外に足す (PadRight は ANSI を無視して幅を測る)
			switch sel.Fields[i].Key {
			case "kind":
				cell = termcolor.Apply(termcolor.KindStyle(it.Kind, scheme, profile), cell, colored)
			case "depth":
				cell = termcolor.Apply(termcolor.DepthBadgeStyle(it.Depth, profile, maxDepth), cell, colored)
			}
			b.WriteString(textutil.PadRight(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}

func maxItemDepth(items []engine.Item) int {
	max := 0
	for _, it := range items {
		if it.Depth > max {
			max = it.Depth
		}
	}
	if max < 1 {
		max = 1
	}
	return max
}

// flattenCell は表の行を壊さないよう、セル中の改行を空白に落とします。
func flattenCell(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// fileSummary は --summary のファイル単位集計です。Lines は折りたたみで
// 隠せる行数の合計です。
type fileSummary struct {
	File     string `json:"file"`
	Lang     string `json:"lang,omitempty"`
	Ranges   int    `json:"ranges"`
	Markers  int    `json:"markers"`
	MaxDepth int    `json:"max_depth"`
	Lines    int    `json:"lines"`
}

func summarize(items []engine.Item) []fileSummary {
	byFile := map[string]*fileSummary{}
	for _, it := range items {
		s, ok := byFile[it.File]
		if !ok {
			s = &fileSummary{File: it.File, Lang: it.Lang}
			byFile[it.File] = s
		}
		s.Ranges++
		if it.Kind == "marker" {
			s.Markers++
		}
		if it.Depth > s.MaxDepth {
			s.MaxDepth = it.Depth
		}
		s.Lines += it.Lines
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	out := make([]fileSummary, 0, len(files))
	for _, f := range files {
		out = append(out, *byFile[f])
	}
	return out
}

func printSummary(res *engine.Result, format string) error {
	summaries := summarize(res.Items)
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	headers := []string{"FILE", "LANG", "RANGES", "MARKERS", "MAXDEPTH", "LINES"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.File, s.Lang,
			fmt.Sprintf("%d", s.Ranges),
			fmt.Sprintf("%d", s.Markers),
			fmt.Sprintf("%d", s.MaxDepth),
			fmt.Sprintf("%d", s.Lines),
		})
	}

	switch format {
	case "csv":
		return output.WriteCSVRows(os.Stdout, headers, rows)
	case "md":
		return output.WriteMarkdownRows(os.Stdout, headers, rows)
	case "ndjson":
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		for _, s := range summaries {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	case "tsv":
		var b strings.Builder
		b.WriteString(strings.Join(headers, "\t"))
		b.WriteByte('\n')
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		fmt.Print(b.String())
		return nil
	default: // table
		widths := make([]int, len(headers))
		for i, h := range headers {
			widths[i] = textutil.Width(h)
		}
		for _, row := range rows {
			for i, cell := range row {
				if w := textutil.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
		var b strings.Builder
		writeRow := func(row []string) {
			for i, cell := range row {
				b.WriteString(textutil.PadRight(cell, widths[i]))
				if i < len(row)-1 {
					b.WriteString("  ")
				}
			}
			b.WriteByte('\n')
		}
		writeRow(headers)
		for _, row := range rows {
			writeRow(row)
		}
		fmt.Print(b.String())
		return nil
	}
}

// reportErrors はファイル単位の失敗を標準エラーに要約します。
func reportErrors(res *engine.Result) {
	if res == nil || res.ErrorCount == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "foldx: %d error(s) while scanning\n", res.ErrorCount)
	for _, e := range res.Errors {
		file := e.File
		if file == "" {
			file = "(unknown file)"
		}
		stage := e.Stage
		if stage == "" {
			stage = "scan"
		}
		fmt.Fprintf(os.Stderr, "  %s [%s] %s\n", file, stage, e.Message)
	}
}
