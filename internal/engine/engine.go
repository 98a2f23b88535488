package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phyten/foldx/internal/detect"
	"github.com/phyten/foldx/internal/folding"
	"github.com/phyten/foldx/internal/progress"
	"github.com/phyten/foldx/internal/textutil"
	"github.com/phyten/foldx/internal/util"
)

// binarySniffLen はバイナリ判定のために先頭から調べるバイト数。
const binarySniffLen = 8192

// Run は指定されたオプションに従ってリポジトリを走査し、折りたたみ範囲の一覧とメタデータを返します。
//
// 成功時には発見した範囲と補助情報を保持した Result を返し、
// 1 ファイル単位の失敗は Result.Errors に集約されます。
func Run(opts Options) (*Result, error) {
	start := time.Now()
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	switch strings.ToLower(opts.Type) {
	case "", "both", "indent", "marker":
	default:
		return nil, fmt.Errorf("invalid --type: %s", opts.Type)
	}

	obs := opts.ProgressObserver
	if obs == nil {
		obs = progress.NoopObserver{}
	}
	est := progress.NewEstimator(-1, progress.DefaultConfig())
	obs.Publish(est.Snapshot())

	files, err := listFiles(opts)
	if err != nil {
		return nil, err
	}
	files = filterByPathRegex(files, opts.PathRegexCompiled)

	est.SetTotal(len(files))
	if snap, changed := est.Stage(progress.StageScan); changed {
		obs.Publish(snap)
	}
	if len(files) == 0 {
		obs.Done(est.Complete())
		return &Result{Items: nil, HasPreview: opts.WithPreview, ElapsedMS: msSince(start)}, nil
	}

	type fileResult struct {
		items   []Item
		errs    []ItemError
		scanned bool
	}
	results := make([]fileResult, len(files))
	prog := util.NewProgress(len(files), opts.Progress)

	jobs := make(chan int)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for idx := range jobs {
			items, errs, scanned := scanFile(opts, files[idx])
			results[idx] = fileResult{items: items, errs: errs, scanned: scanned}
			if snap, notify := est.Advance(1); notify {
				obs.Publish(snap)
			}
			prog.Advance()
		}
	}

	nw := opts.Jobs
	if nw < 1 {
		nw = 1
	}
	if nw > len(files) {
		nw = len(files)
	}
	wg.Add(nw)
	for i := 0; i < nw; i++ {
		go worker()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	prog.Done()
	obs.Done(est.Complete())

	var items []Item
	var errs []ItemError
	scanned := 0
	for _, fr := range results {
		items = append(items, fr.items...)
		errs = append(errs, fr.errs...)
		if fr.scanned {
			scanned++
		}
	}

	// stable order by file:start
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].File == items[j].File {
			return items[i].Start < items[j].Start
		}
		return items[i].File < items[j].File
	})

	sort.Slice(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			return errs[i].Stage < errs[j].Stage
		}
		return errs[i].File < errs[j].File
	})

	return &Result{
		Items:      items,
		HasPreview: opts.WithPreview,
		Total:      len(items),
		Files:      scanned,
		ElapsedMS:  msSince(start),
		Errors:     errs,
		ErrorCount: len(errs),
	}, nil
}

// scanFile は 1 ファイル分の折りたたみ範囲を計算します。
// scanned はフィルタを通過して実際に計算したかどうかを示します。
func scanFile(opts Options, file string) (items []Item, errs []ItemError, scanned bool) {
	path := filepath.Join(opts.RepoDir, filepath.FromSlash(file))
	fi, err := os.Stat(path)
	if err != nil {
		return nil, []ItemError{newItemError(file, "stat", err)}, false
	}
	if opts.MaxFileBytes > 0 && fi.Size() > int64(opts.MaxFileBytes) {
		msg := fmt.Sprintf("file size %d exceeds limit %d", fi.Size(), opts.MaxFileBytes)
		return nil, []ItemError{{File: file, Stage: "size", Message: msg}}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []ItemError{newItemError(file, "read", err)}, false
	}
	if looksBinary(data) {
		return nil, nil, false
	}

	info := detect.FromPathAndContent(file, data)
	if len(opts.Langs) > 0 {
		if !detect.MatchesLang(info, opts.Langs) {
			return nil, nil, false
		}
	} else if info.Name == "" && !opts.AllFiles {
		return nil, nil, false
	}

	prof, ok := detect.ProfileFor(info.Name)
	if !ok {
		prof = detect.Generic()
	}
	foldOpts := folding.Options{
		OffSide: prof.OffSide,
		Markers: prof.Markers,
		MinSize: opts.MinSpan,
	}
	switch opts.OffSide {
	case "on":
		foldOpts.OffSide = true
	case "off":
		foldOpts.OffSide = false
	}
	if opts.MarkersCompiled != nil {
		foldOpts.Markers = opts.MarkersCompiled
	}
	if opts.Markers == "off" {
		foldOpts.Markers = nil
	}

	model := folding.NewDocument(data, opts.TabSize)
	ranges := folding.ComputeRanges(model, foldOpts)
	if len(ranges) == 0 {
		return nil, nil, true
	}

	depths := rangeDepths(ranges)
	typ := strings.ToLower(opts.Type)
	for i, r := range ranges {
		kind := "indent"
		if r.Marker {
			kind = "marker"
		}
		if (typ == "indent" || typ == "marker") && kind != typ {
			continue
		}
		if opts.MaxDepth > 0 && depths[i] >= opts.MaxDepth {
			continue
		}
		it := Item{
			File:   file,
			Lang:   info.Name,
			Kind:   kind,
			Start:  r.StartLine,
			End:    r.EndLine,
			Lines:  r.EndLine - r.StartLine,
			Indent: r.Indent,
			Depth:  depths[i],
		}
		if opts.WithPreview {
			it.Preview = previewLine(model, r.StartLine, opts.TruncPreview)
		}
		items = append(items, it)
	}
	return items, nil, true
}

// rangeDepths はソート済みの範囲列に入れ子深さを割り当てます。
// 範囲同士は互いに素か入れ子のどちらかなので、包含中の終了行を
// スタックに積むだけで深さが求まります。
func rangeDepths(ranges []folding.Range) []int {
	depths := make([]int, len(ranges))
	var open []int
	for i, r := range ranges {
		for len(open) > 0 && open[len(open)-1] < r.StartLine {
			open = open[:len(open)-1]
		}
		depths[i] = len(open)
		open = append(open, r.EndLine)
	}
	return depths
}

func previewLine(model folding.TextModel, line, maxWidth int) string {
	content := strings.TrimSpace(model.LineContent(line))
	if maxWidth > 0 {
		content = textutil.Truncate(content, maxWidth, "…")
	}
	return content
}

func looksBinary(data []byte) bool {
	n := len(data)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(data[:n], 0x00) >= 0
}

func newItemError(file, stage string, err error) ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return ItemError{File: file, Stage: stage, Message: msg}
}

func msSince(t time.Time) int64 { return time.Since(t).Milliseconds() }
