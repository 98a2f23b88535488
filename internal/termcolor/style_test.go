package termcolor

import "testing"

func TestApply(t *testing.T) {
	boldRed := Style{Bold: true}
	color := 1
	boldRed.FGBasic = &color
	got := Apply(boldRed, "Hello", true)
	want := "\x1b[1;31mHello\x1b[0m"
	if got != want {
		t.Fatalf("Apply produced %q, want %q", got, want)
	}

	if got := Apply(Style{}, "Hello", true); got != "Hello" {
		t.Fatalf("empty style should return original text, got %q", got)
	}
	if got := Apply(boldRed, "Hello", false); got != "Hello" {
		t.Fatalf("disabled Apply should return original text, got %q", got)
	}
}

func TestApplyは背景色を前景色の後ろに置く(t *testing.T) {
	fg := [3]uint8{0, 0, 0}
	bg := [3]uint8{56, 189, 248}
	s := Style{FGTrue: &fg, BGTrue: &bg}
	got := Apply(s, "3", true)
	want := "\x1b[38;2;0;0;0;48;2;56;189;248m3\x1b[0m"
	if got != want {
		t.Fatalf("Apply produced %q, want %q", got, want)
	}

	bgIdx := 4
	s = Style{BGBasic: &bgIdx}
	if got := Apply(s, "x", true); got != "\x1b[44mx\x1b[0m" {
		t.Fatalf("basic background mismatch: %q", got)
	}
}
