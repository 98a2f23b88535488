package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ANSI escape sequences (covers common CSI and OSC forms).
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

// Width returns terminal display width (wcwidth-based).
func Width(s string) int {
	if s == "" {
		return 0
	}
	t := StripANSI(s)
	g := uniseg.NewGraphemes(t)
	width := 0
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// Truncate shortens s to fit width w without breaking graphemes.
// If truncation happens and tail is not empty, append it when it fits.
func Truncate(s string, w int, tail string) string {
	if s == "" {
		return ""
	}
	if w <= 0 {
		return ""
	}
	if Width(s) <= w {
		return s
	}
	t := StripANSI(s)
	g := uniseg.NewGraphemes(t)
	segs := make([]string, 0, len(t))
	widths := make([]int, 0, len(t))
	used := 0
	tailW := runewidth.StringWidth(tail)
	for g.Next() {
		seg := g.Str()
		segW := runewidth.StringWidth(seg)
		if used+segW > w {
			if tail == "" {
				return join(segs)
			}
			if tailW > w {
				return join(segs)
			}
			for len(segs) > 0 && used+tailW > w {
				used -= widths[len(widths)-1]
				segs = segs[:len(segs)-1]
				widths = widths[:len(widths)-1]
			}
			if used+tailW > w {
				return join(segs)
			}
			return join(segs) + tail
		}
		segs = append(segs, seg)
		widths = append(widths, segW)
		used += segW
	}
	return join(segs)
}

func join(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg)
	}
	return b.String()
}

// PadRight pads s on the right with spaces so that the visible width equals w.
func PadRight(s string, w int) string {
	pad := w - Width(s)
	if pad <= 0 {
		return s
	}
	return s + spaces(pad)
}

// PadLeft pads s on the left with spaces so that the visible width equals w.
func PadLeft(s string, w int) string {
	pad := w - Width(s)
	if pad <= 0 {
		return s
	}
	return spaces(pad) + s
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
