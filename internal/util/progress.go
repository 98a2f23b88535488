package util

import (
	"fmt"
	"os"
	"sync"
	"time"
)

func isTTY(f *os.File) bool {
	fi, _ := f.Stat()
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// ShouldShowProgress は進捗表示を行うかどうかを決めます。
// --no-progress が最優先、次に --progress、どちらも無ければ
// stdout/stderr が両方 TTY のときだけ表示します。
func ShouldShowProgress(force, no bool) bool {
	if no {
		return false
	}
	if force {
		return true
	}
	return isTTY(os.Stdout) && isTTY(os.Stderr)
}

// Progress は標準エラーに 1 行で進捗と ETA を描画します。
// Advance はワーカーから並行に呼ばれます。
type Progress struct {
	mu      sync.Mutex
	total   int
	done    int
	start   time.Time
	enabled bool
}

func NewProgress(total int, enabled bool) *Progress {
	return &Progress{total: total, start: time.Now(), enabled: enabled}
}

// Advance は完了件数を 1 進めて行を描き直します。
func (p *Progress) Advance() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.render()
}

func (p *Progress) render() {
	elapsed := time.Since(p.start)
	eta := "-"
	if p.done > 0 && p.total > p.done {
		remain := time.Duration(float64(elapsed) * float64(p.total-p.done) / float64(p.done))
		eta = fmt.Sprintf("%02d:%02d:%02d", int(remain.Hours()), int(remain.Minutes())%60, int(remain.Seconds())%60)
	}
	// clear line and print
	fmt.Fprintf(os.Stderr, "\r\033[K[progress] %d/%d (%d%%) ETA %s",
		p.done, p.total, percent(p.done, p.total), eta)
}

func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(os.Stderr, "\r\033[K")
}

func percent(a, b int) int {
	if b == 0 {
		return 100
	}
	p := int(float64(a) * 100 / float64(b))
	if p > 100 {
		return 100
	}
	return p
}
