// Package bsplines implements a B-spline / NURBS curve algebra kernel:
// evaluation, knot insertion, degree elevation, Bézier decomposition,
// tension, alignment/morphing, and the cubic-natural and Catmull-Rom
// interpolating constructors.
//
// A Spline is a value-carrying struct; there is no hidden reference-counted
// state. Clone makes an explicit deep copy, Take transfers ownership and
// empties the source, and the garbage collector reclaims everything else --
// there is no Free.
package bsplines

import (
	"slices"

	"github.com/gomlx/exceptions"
)

// KnotsType selects how New derives a default knot vector from a degree and
// control point count.
type KnotsType int

const (
	// Opened produces a uniform knot vector with no clamping: the curve
	// does not generally pass through its first or last control point.
	Opened KnotsType = iota
	// Clamped produces a uniform knot vector whose first and last knots
	// repeat order times, so the curve interpolates its first and last
	// control points.
	Clamped
	// Beziers produces a clamped knot vector whose interior breakpoints
	// each repeat degree times, so the curve is a sequence of Bézier
	// segments in which adjacent segments share their joining control
	// point. numControlPoints must be expressible as
	// degree*numSegments + 1.
	Beziers
)

// Spline is an immutable-by-convention NURBS/B-spline curve: a degree, a
// dimension (2 for planar curves, 3 for spatial ones, 4 for rational
// curves carrying the weight as an extra homogeneous coordinate, and so
// on), a flat control point array, and a non-decreasing knot vector.
//
// Control points are stored flattened in row-major order: point i occupies
// ctrlp[i*dim : i*dim+dim].
type Spline struct {
	degree int
	dim    int
	ctrlp  []float64
	knots  []float64
}

// Order returns degree+1.
func (s *Spline) Order() int { return s.degree + 1 }

// Degree returns the polynomial degree of the spline's basis functions.
func (s *Spline) Degree() int { return s.degree }

// Dimension returns the number of components per control point.
func (s *Spline) Dimension() int { return s.dim }

// NumControlPoints returns the number of control points.
func (s *Spline) NumControlPoints() int {
	if s.dim == 0 {
		return 0
	}
	return len(s.ctrlp) / s.dim
}

// NumKnots returns the length of the knot vector.
func (s *Spline) NumKnots() int { return len(s.knots) }

// ControlPoints returns the flattened control point array. The caller must
// not retain it across a mutating call; use Clone to get an independent
// copy.
func (s *Spline) ControlPoints() []float64 { return s.ctrlp }

// Knots returns the knot vector. Same aliasing caveat as ControlPoints.
func (s *Spline) Knots() []float64 { return s.knots }

// ControlPointAt returns a copy of the i-th control point.
func (s *Spline) ControlPointAt(i int) ([]float64, error) {
	n := s.NumControlPoints()
	if i < 0 || i >= n {
		return nil, newErr(CodeIndex, "control point index %d out of range [0, %d)", i, n)
	}
	p := make([]float64, s.dim)
	copy(p, s.ctrlp[i*s.dim:(i+1)*s.dim])
	return p, nil
}

// SetControlPointAt overwrites the i-th control point in place.
func (s *Spline) SetControlPointAt(i int, point []float64) error {
	n := s.NumControlPoints()
	if i < 0 || i >= n {
		return newErr(CodeIndex, "control point index %d out of range [0, %d)", i, n)
	}
	if len(point) != s.dim {
		return newErr(CodeDimensionMismatch, "expected %d components, got %d", s.dim, len(point))
	}
	copy(s.ctrlp[i*s.dim:(i+1)*s.dim], point)
	return nil
}

// SetControlPoints replaces the whole control point array. Its length must
// be a multiple of the spline's dimension and match the current count.
func (s *Spline) SetControlPoints(ctrlp []float64) error {
	if len(ctrlp) != len(s.ctrlp) {
		return newErr(CodeInput, "expected %d control point components, got %d", len(s.ctrlp), len(ctrlp))
	}
	copy(s.ctrlp, ctrlp)
	return nil
}

// KnotAt returns the i-th knot value.
func (s *Spline) KnotAt(i int) (float64, error) {
	if i < 0 || i >= len(s.knots) {
		return 0, newErr(CodeIndex, "knot index %d out of range [0, %d)", i, len(s.knots))
	}
	return s.knots[i], nil
}

// SetKnotAt overwrites the i-th knot, after checking the result would still
// be non-decreasing and would not repeat any knot value more than order
// times.
func (s *Spline) SetKnotAt(i int, value float64) error {
	if i < 0 || i >= len(s.knots) {
		return newErr(CodeIndex, "knot index %d out of range [0, %d)", i, len(s.knots))
	}
	if (i > 0 && value < s.knots[i-1]) || (i < len(s.knots)-1 && value > s.knots[i+1]) {
		return newErr(CodeKnotsDecreasing, "setting knot %d to %f would break monotonicity", i, value)
	}
	candidate := slices.Clone(s.knots)
	candidate[i] = value
	if err := validateKnots(candidate, s.Order(), s.NumControlPoints()); err != nil {
		return err
	}
	s.knots[i] = value
	return nil
}

// SetKnots replaces the whole knot vector after validating it.
func (s *Spline) SetKnots(knots []float64) error {
	if len(knots) != len(s.knots) {
		return newErr(CodeNumKnots, "expected %d knots, got %d", len(s.knots), len(knots))
	}
	if err := validateKnots(knots, s.Order(), s.NumControlPoints()); err != nil {
		return err
	}
	copy(s.knots, knots)
	return nil
}

// Clone returns a deep copy of s.
func (s *Spline) Clone() *Spline {
	return &Spline{
		degree: s.degree,
		dim:    s.dim,
		ctrlp:  slices.Clone(s.ctrlp),
		knots:  slices.Clone(s.knots),
	}
}

// Take transfers s's backing storage to the returned Spline and empties s,
// mirroring move semantics without an explicit lifetime system: after Take,
// s has zero control points and zero knots and is safe, but useless, to
// keep using.
func (s *Spline) Take() *Spline {
	moved := &Spline{degree: s.degree, dim: s.dim, ctrlp: s.ctrlp, knots: s.knots}
	s.ctrlp = nil
	s.knots = nil
	return moved
}

// New creates a spline of the given degree and dimension, with
// numControlPoints control points (initialized to zero) and a default knot
// vector of the requested kind.
func New(degree, dim, numControlPoints int, kind KnotsType) (*Spline, error) {
	if degree < 0 {
		return nil, newErr(CodeInput, "degree must be >= 0, got %d", degree)
	}
	if dim < 1 {
		return nil, newErr(CodeInput, "dimension must be >= 1, got %d", dim)
	}
	order := degree + 1
	if numControlPoints < order {
		return nil, newErr(CodeInput, "numControlPoints=%d must be >= order=%d", numControlPoints, order)
	}
	if kind == Beziers {
		if numControlPoints < 2 || (degree != 0 && (numControlPoints-1)%degree != 0) {
			return nil, newErr(CodeInput, "beziers knot vector requires numControlPoints = degree*segments + 1, got %d control points for degree %d", numControlPoints, degree)
		}
	}
	s := &Spline{
		degree: degree,
		dim:    dim,
		ctrlp:  make([]float64, numControlPoints*dim),
		knots:  generateKnots(degree, numControlPoints, kind),
	}
	return s, nil
}

// NewWithControlPoints is New followed by SetControlPoints, with the control
// point count taken as len(ctrlp)/dim; it fails if len(ctrlp) is not a
// multiple of dim.
func NewWithControlPoints(degree, dim int, ctrlp []float64, kind KnotsType) (*Spline, error) {
	if dim < 1 {
		return nil, newErr(CodeInput, "dimension must be >= 1, got %d", dim)
	}
	if len(ctrlp)%dim != 0 {
		return nil, newErr(CodeInput, "control point slice length %d is not a multiple of dimension %d", len(ctrlp), dim)
	}
	s, err := New(degree, dim, len(ctrlp)/dim, kind)
	if err != nil {
		return nil, err
	}
	copy(s.ctrlp, ctrlp)
	return s, nil
}

// NewFromKnots builds a spline directly from explicit control points and
// knots, validating the knot vector against the implied order and control
// point count. This is the constructor used by JSON deserialization and by
// every transformation that produces a new spline from computed arrays.
func NewFromKnots(degree, dim int, ctrlp, knots []float64) (*Spline, error) {
	if dim < 1 {
		return nil, newErr(CodeInput, "dimension must be >= 1, got %d", dim)
	}
	if degree < 0 {
		return nil, newErr(CodeInput, "degree must be >= 0, got %d", degree)
	}
	if len(ctrlp)%dim != 0 {
		return nil, newErr(CodeInput, "control point slice length %d is not a multiple of dimension %d", len(ctrlp), dim)
	}
	n := len(ctrlp) / dim
	if n <= degree {
		return nil, newErr(CodeDegTooHigh, "degree=%d must be < numControlPoints=%d", degree, n)
	}
	if err := validateKnots(knots, degree+1, n); err != nil {
		return nil, err
	}
	return &Spline{
		degree: degree,
		dim:    dim,
		ctrlp:  slices.Clone(ctrlp),
		knots:  slices.Clone(knots),
	}, nil
}

// mustNewFromKnots is the internal, panicking variant used by operations
// that construct a new spline from arrays they have just computed
// themselves: a validation failure here indicates a bug in this package,
// not bad caller input, so it is raised with exceptions.Panicf rather than
// threaded through as an error.
func mustNewFromKnots(degree, dim int, ctrlp, knots []float64) *Spline {
	s, err := NewFromKnots(degree, dim, ctrlp, knots)
	if err != nil {
		exceptions.Panicf("bsplines: internal invariant violated building result spline: %v", err)
	}
	return s
}
