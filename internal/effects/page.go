package effects

import (
	"math"
	"strconv"
	"strings"
)

// Page effect parameters
const (
	NavbarThreshold    = 40.0
	RevealThreshold    = 0.08
	RevealBottomMargin = 40.0
)

// Rect is an element's box in viewport coordinates
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) right() float64  { return r.Left + r.Width }
func (r Rect) bottom() float64 { return r.Top + r.Height }

// NavbarScrolled reports whether the navbar shows its scrolled style
func NavbarScrolled(scrollY, threshold float64) bool {
	return scrollY > threshold
}

// IntersectionRatio is the visible share of target inside root.
// A zero-area target touching root counts as fully visible.
func IntersectionRatio(target, root Rect) float64 {
	left := math.Max(target.Left, root.Left)
	top := math.Max(target.Top, root.Top)
	right := math.Min(target.right(), root.right())
	bottom := math.Min(target.bottom(), root.bottom())

	if right < left || bottom < top {
		return 0
	}

	area := target.Width * target.Height
	if area <= 0 {
		return 1
	}
	return (right - left) * (bottom - top) / area
}

// Glow returns the pointer position inside rect as percentages.
// ok is false for an empty rect.
func Glow(x, y float64, rect Rect) (px, py float64, ok bool) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return 0, 0, false
	}
	px = (x - rect.Left) / rect.Width * 100
	py = (y - rect.Top) / rect.Height * 100
	return px, py, true
}

// GlowVars formats a glow position as CSS custom properties
func GlowVars(px, py float64) map[string]string {
	return map[string]string{
		"--mouse-x": strconv.FormatFloat(px, 'f', -1, 64) + "%",
		"--mouse-y": strconv.FormatFloat(py, 'f', -1, 64) + "%",
	}
}

// AnchorTarget returns the element id an in-page link scrolls to.
// ok is false when href is not a fragment or names no known element.
func AnchorTarget(href string, known map[string]bool) (string, bool) {
	if !strings.HasPrefix(href, "#") {
		return "", false
	}
	id := href[1:]
	if id == "" || !known[id] {
		return "", false
	}
	return id, true
}
