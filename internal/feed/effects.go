package feed

import (
	"fmt"
	"math"
)

// Box sizes in CSS pixels. Width and height are interpolated independently
// because the two aspect ratios differ.
const (
	InactiveWidth  = 224.0
	InactiveHeight = 185.0
	ActiveWidth    = 370.0
	ActiveHeight   = 305.0

	baselineScale = 0.933
)

// Effects is the visual state of a player for a given focus weight.
type Effects struct {
	Width     float64
	Height    float64
	Scale     float64
	Grayscale int // percent
}

// EffectsFor interpolates the box size, zoom scale and desaturation for w.
func EffectsFor(w float64) Effects {
	w = math.Max(0, math.Min(1, w))
	return Effects{
		Width:     lerp(InactiveWidth, ActiveWidth, w),
		Height:    lerp(InactiveHeight, ActiveHeight, w),
		Scale:     lerp(baselineScale, 1, w),
		Grayscale: 100 - int(math.Round(w*100)),
	}
}

// Transform renders the CSS transform value.
func (e Effects) Transform() string {
	return fmt.Sprintf("scale(%.4f)", e.Scale)
}

// Filter renders the CSS filter value.
func (e Effects) Filter() string {
	return fmt.Sprintf("grayscale(%d%%)", e.Grayscale)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
