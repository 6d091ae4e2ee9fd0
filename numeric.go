package bsplines

import "math"

const (
	// MaxKnots bounds the number of knots a Spline may carry. The fuzzy
	// knot-equality epsilon below is chosen so that ε·MaxKnots ≈ 1, keeping
	// accumulated rounding error across the densest legal knot vector from
	// ever exceeding one knot-spacing unit.
	MaxKnots = 10000

	// KnotEpsilon is the absolute tolerance used to compare knot values
	// (multiplicity counts, knot validation, domain checks). Two knot values
	// closer together than this are considered equal. Span location
	// (findSpan) compares knot values exactly and does not use it.
	KnotEpsilon = 1.0 / MaxKnots

	// ControlPointEpsilon is a default absolute tolerance for comparing
	// control points. The operations that compare control points (IsClosed,
	// Derive) take their tolerance as an explicit argument instead.
	ControlPointEpsilon = 1e-6
)

func fequal(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func knotsEqual(a, b float64) bool {
	return fequal(a, b, KnotEpsilon)
}

func pointsEqual(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !fequal(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func addScaled(dst, a []float64, scale float64, b []float64) {
	for i := range dst {
		dst[i] = a[i] + scale*b[i]
	}
}

func lerp(dst, a, b []float64, alpha float64) {
	for i := range dst {
		dst[i] = (1-alpha)*a[i] + alpha*b[i]
	}
}
