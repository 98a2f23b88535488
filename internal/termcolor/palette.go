package termcolor

import (
	"math"
	"strings"

	"github.com/phyten/foldx/internal/colorutil"
)

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

type kindPalette struct {
	bold       bool
	darkBasic  int
	lightBasic int
	dark256    int
	light256   int
	darkTrue   [3]uint8
	lightTrue  [3]uint8
}

var (
	// indent ranges are the structural bulk, so they stay cool.
	indentPalette = kindPalette{
		darkBasic:  6,
		lightBasic: 4,
		dark256:    45,
		light256:   25,
		darkTrue:   [3]uint8{56, 189, 248},
		lightTrue:  [3]uint8{3, 105, 161},
	}
	// marker ranges are hand-placed, so they get the warm accent.
	markerPalette = kindPalette{
		bold:       true,
		darkBasic:  3,
		lightBasic: 3,
		dark256:    214,
		light256:   130,
		darkTrue:   [3]uint8{251, 191, 36},
		lightTrue:  [3]uint8{180, 83, 9},
	}
)

func KindStyle(kind string, scheme Scheme, profile Profile) Style {
	var pal kindPalette
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "indent":
		pal = indentPalette
	case "marker":
		pal = markerPalette
	default:
		return Style{}
	}
	light := scheme == SchemeLight
	switch profile {
	case ProfileTrueColor:
		rgb := pal.darkTrue
		if light {
			rgb = pal.lightTrue
		}
		return Style{Bold: pal.bold, FGTrue: &rgb}
	case ProfileANSI256:
		idx := pal.dark256
		if light {
			idx = pal.light256
		}
		return Style{Bold: pal.bold, FG256: &idx}
	default:
		color := pal.darkBasic
		if light {
			color = pal.lightBasic
		}
		return Style{Bold: pal.bold, FGBasic: &color}
	}
}

// DepthStyle shades a range by its nesting depth: shallow ranges green,
// deep ranges red. maxDepth controls where the gradient saturates.
func DepthStyle(depth int, profile Profile, maxDepth float64) Style {
	if depth < 0 {
		depth = 0
	}
	switch profile {
	case ProfileTrueColor:
		r, g, b := gradientRGB(depth, maxDepth)
		rgb := [3]uint8{r, g, b}
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		r, g, b := gradientRGB(depth, maxDepth)
		idx := rgbToANSI256(r, g, b)
		return Style{FG256: &idx}
	default:
		color := depthBucketColor(depth)
		return Style{FGBasic: &color}
	}
}

// DepthBadgeStyle renders the depth column as a filled badge: the gradient
// becomes the background and the foreground is picked for WCAG contrast.
// Only truecolor terminals get the badge; other profiles fall back to the
// plain foreground gradient.
func DepthBadgeStyle(depth int, profile Profile, maxDepth float64) Style {
	if profile != ProfileTrueColor {
		return DepthStyle(depth, profile, maxDepth)
	}
	if depth < 0 {
		depth = 0
	}
	r, g, b := gradientRGB(depth, maxDepth)
	bg := [3]uint8{r, g, b}
	text := colorutil.AutoTextColor(colorutil.RGB{R: r, G: g, B: b})
	fg := [3]uint8{text.R, text.G, text.B}
	return Style{FGTrue: &fg, BGTrue: &bg}
}

func gradientRGB(depth int, maxDepth float64) (uint8, uint8, uint8) {
	if maxDepth <= 0 {
		maxDepth = 8
	}
	t := float64(depth) / maxDepth
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if t <= 0 {
		return 0, 255, 0
	}
	if t >= 1 {
		return 255, 0, 0
	}
	if t < 0.5 {
		ratio := t / 0.5
		r := uint8(math.Round(255 * ratio))
		return r, 255, 0
	}
	ratio := (t - 0.5) / 0.5
	g := uint8(math.Round(255 * (1 - ratio)))
	return 255, g, 0
}

func depthBucketColor(depth int) int {
	switch {
	case depth == 0:
		return 2
	case depth <= 2:
		return 3
	case depth <= 4:
		return 5
	default:
		return 1
	}
}

func rgbToANSI256(r, g, b uint8) int {
	if r == g && g == b {
		if r < 8 {
			return 16
		}
		if r > 248 {
			return 231
		}
		return 232 + (int(r)-8)*24/247
	}
	rr := int(r) * 5 / 255
	gg := int(g) * 5 / 255
	bb := int(b) * 5 / 255
	return 16 + 36*rr + 6*gg + bb
}
