package feed

import "math"

// TopScrollThreshold is the scroll offset below which the first record is
// forced into focus.
const TopScrollThreshold = 50.0

const (
	distanceExponent = 1.5
	easingExponent   = 0.8
)

// NoActive marks the absence of an active record.
const NoActive = -1

// Rect is the vertical extent of a mounted element in viewport coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// CenterY returns the vertical midpoint of r.
func (r Rect) CenterY() float64 {
	return r.Top + r.Height/2
}

// Layout is one measurement of the page as reported by the host. Elements is
// aligned with the feed's records; records past len(Elements) are unmounted.
type Layout struct {
	ScrollY        float64
	ViewportHeight float64
	Elements       []Rect
}

// Focus is the output of one focus pass.
type Focus struct {
	Weights []float64
	Active  int
}

// FocusWeight maps an element center to a weight in [0,1]: 1 at the viewport
// center, decaying to 0 at half a viewport height away.
func FocusWeight(elementCenterY, viewportCenterY, viewportHeight float64) float64 {
	if viewportHeight <= 0 {
		return 0
	}
	d := math.Abs(elementCenterY-viewportCenterY) / (viewportHeight / 2)
	raw := math.Max(0, 1-math.Pow(math.Min(d, 1), distanceExponent))
	w := math.Pow(raw, easingExponent)
	return math.Max(0, math.Min(1, w))
}

// ComputeFocus runs the focus model over layout for n records. prevActive is
// kept on ties. ok is false when nothing is mounted, in which case the caller
// must keep its previous state.
func ComputeFocus(layout Layout, n int, prevActive int) (f Focus, ok bool) {
	mounted := len(layout.Elements)
	if mounted > n {
		mounted = n
	}
	if mounted == 0 {
		return Focus{}, false
	}

	weights := make([]float64, n)

	if layout.ScrollY < TopScrollThreshold {
		weights[0] = 1
		return Focus{Weights: weights, Active: 0}, true
	}

	center := layout.ViewportHeight / 2
	for i := 0; i < mounted; i++ {
		weights[i] = FocusWeight(layout.Elements[i].CenterY(), center, layout.ViewportHeight)
	}

	return Focus{Weights: weights, Active: argmax(weights, prevActive)}, true
}

// argmax returns the index of the largest weight. The previous index wins ties
// and is kept when every weight is zero.
func argmax(weights []float64, prev int) int {
	best := prev
	bestWeight := 0.0
	if prev >= 0 && prev < len(weights) {
		bestWeight = weights[prev]
	} else {
		best = 0
		bestWeight = weights[0]
	}
	for i, w := range weights {
		if w > bestWeight {
			best, bestWeight = i, w
		}
	}
	return best
}

// suppressed returns an all-zero focus used while a dialog is open.
func suppressed(n int) Focus {
	return Focus{Weights: make([]float64, n), Active: NoActive}
}
