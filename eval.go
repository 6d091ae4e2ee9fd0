package bsplines

import (
	"math"

	"github.com/gomlx/exceptions"
)

// DeBoorNet captures the intermediate state of one De Boor recursive
// evaluation: the knot span it was computed in, the multiplicity of the
// evaluation point within the knot vector, how many triangle levels were
// needed, and the resulting point (or, at a full-multiplicity interior
// knot, the two points flanking the discontinuity).
type DeBoorNet struct {
	knot          float64
	index         int
	multiplicity  int
	numInsertions int
	dim           int
	points        []float64 // flattened triangle scratch, only the levels actually computed
	result        []float64 // one point, or two for a discontinuity (len == dim or 2*dim)
}

// Knot returns the parameter value the net was evaluated at.
func (net *DeBoorNet) Knot() float64 { return net.knot }

// Index returns the knot span index containing Knot.
func (net *DeBoorNet) Index() int { return net.index }

// Multiplicity returns how many times Knot occurs in the spline's knot
// vector.
func (net *DeBoorNet) Multiplicity() int { return net.multiplicity }

// NumInsertions returns degree minus the multiplicity of Knot (zero at a
// full-multiplicity knot): the number of De Boor triangle levels needed to
// reach the result. In the regular case Eval computes all degree levels
// regardless; see the comment inside Eval.
func (net *DeBoorNet) NumInsertions() int { return net.numInsertions }

// Dimension returns the dimension of each resulting point.
func (net *DeBoorNet) Dimension() int { return net.dim }

// Points returns the flattened intermediate points computed on the way to
// the result, exposed for diagnostics and plotting.
func (net *DeBoorNet) Points() []float64 { return net.points }

// Result returns the net's result point(s): a single point in the common
// case, or two points, back to back, when Knot sits on a full-multiplicity
// interior knot and the curve is discontinuous there.
func (net *DeBoorNet) Result() []float64 { return net.result }

// IsDiscontinuity reports whether Result holds two points rather than one.
func (net *DeBoorNet) IsDiscontinuity() bool { return len(net.result) == 2*net.dim }

// Eval evaluates the spline at u via de Boor's algorithm, returning the net
// of intermediate computation. u must lie within the spline's Domain().
func (s *Spline) Eval(u float64) (*DeBoorNet, error) {
	min, max := s.Domain()
	if u < min-KnotEpsilon || u > max+KnotEpsilon {
		return nil, newErr(CodeInput, "u=%f outside domain [%f, %f]", u, min, max)
	}
	n := s.NumControlPoints()
	order := s.Order()
	k := findSpan(s.knots, s.degree, n, u)
	sMult := multiplicityAt(s.knots, u)
	if sMult > order {
		exceptions.Panicf("bsplines: knot multiplicity %d exceeds order %d; spline failed validation", sMult, order)
	}

	net := &DeBoorNet{knot: u, index: k, multiplicity: sMult, dim: s.dim}

	if sMult >= order {
		// u sits on a full-multiplicity knot: either a clamped domain
		// boundary (single control point) or an interior break.
		if k == s.degree {
			net.numInsertions = 0
			net.result = append([]float64(nil), s.ctrlp[0:s.dim]...)
			return net, nil
		}
		if k == n-1 && knotsEqual(u, max) {
			net.numInsertions = 0
			net.result = append([]float64(nil), s.ctrlp[(n-1)*s.dim:n*s.dim]...)
			return net, nil
		}
		left := k - order
		right := left + 1
		net.numInsertions = 0
		net.result = make([]float64, 2*s.dim)
		copy(net.result[0:s.dim], s.ctrlp[left*s.dim:(left+1)*s.dim])
		copy(net.result[s.dim:2*s.dim], s.ctrlp[right*s.dim:(right+1)*s.dim])
		return net, nil
	}

	// The full de Boor recursion (h levels, global control point indices
	// k-degree..k) is run regardless of sMult: wherever u's multiplicity
	// makes a knot interval collapse to zero length, the blend weight
	// guard below degenerates to a pass-through copy, which is exactly the
	// right answer at a repeated knot, so no separate multiplicity-aware
	// index arithmetic is needed.
	h := s.degree
	net.numInsertions = s.degree - sMult
	numPoints := h + 1
	points := make([]float64, numPoints*s.dim)
	for j := 0; j < numPoints; j++ {
		srcIdx := k - s.degree + j
		copy(points[j*s.dim:(j+1)*s.dim], s.ctrlp[srcIdx*s.dim:(srcIdx+1)*s.dim])
	}

	for r := 1; r <= h; r++ {
		for j := h; j >= r; j-- {
			i := k - s.degree + j // global control point index at this level
			knotLow := s.knots[i]
			knotHigh := s.knots[i+s.degree-r+1]
			var alpha float64
			if knotHigh != knotLow {
				alpha = (u - knotLow) / (knotHigh - knotLow)
			}
			dst := points[j*s.dim : (j+1)*s.dim]
			prev := points[(j-1)*s.dim : j*s.dim]
			lerp(dst, prev, dst, alpha)
		}
	}

	net.points = points
	net.result = append([]float64(nil), points[h*s.dim:(h+1)*s.dim]...)
	return net, nil
}

// EvalPoint is a convenience wrapper around Eval that returns the single
// evaluated point directly; it fails with CodeDegenerate if u lands on a
// discontinuity, where Eval's two-point result cannot be collapsed to one.
func (s *Spline) EvalPoint(u float64) ([]float64, error) {
	net, err := s.Eval(u)
	if err != nil {
		return nil, err
	}
	if net.IsDiscontinuity() {
		return nil, newErr(CodeDegenerate, "u=%f lands on a discontinuity; use Eval to get both sides", u)
	}
	return net.Result(), nil
}

// EvalAll evaluates the spline at every value in us, in order, and is a
// thin convenience loop over Eval for batch use from callers that do not
// need per-point nets.
func (s *Spline) EvalAll(us []float64) ([][]float64, error) {
	out := make([][]float64, len(us))
	for i, u := range us {
		p, err := s.EvalPoint(u)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Sample evaluates the spline at num evenly spaced parameter values across
// its domain, inclusive of both endpoints. num must be at least 2.
func (s *Spline) Sample(num int) ([][]float64, error) {
	if num < 2 {
		return nil, newErr(CodeInput, "num must be >= 2, got %d", num)
	}
	min, max := s.Domain()
	us := make([]float64, num)
	for i := range us {
		us[i] = min + (max-min)*float64(i)/float64(num-1)
	}
	return s.EvalAll(us)
}

// Bisect performs a binary search over the spline's domain for a parameter
// value u such that the `component`-th coordinate of Eval(u) is within
// epsilon (taken as its absolute value) of target, assuming that
// coordinate is monotone over the domain in the direction ascending
// indicates. It ties toward the leftmost (smallest) u satisfying the
// tolerance. maxIter bounds the number of bisection steps; if no midpoint
// converges within that bound, a persnickety caller gets CodeNoResult,
// otherwise the closest net encountered is returned.
func (s *Spline) Bisect(target, epsilon float64, persnickety bool, component int, ascending bool, maxIter int) (*DeBoorNet, error) {
	if component < 0 || component >= s.dim {
		return nil, newErr(CodeIndex, "component %d out of range [0, %d)", component, s.dim)
	}
	epsilon = math.Abs(epsilon)
	lo, hi := s.Domain()

	var converged, closest *DeBoorNet
	closestDiff := math.Inf(1)
	for iter := 0; iter < maxIter; iter++ {
		mid := lo + (hi-lo)/2
		net, err := s.Eval(mid)
		if err != nil {
			return nil, err
		}
		val := net.Result()[component]
		if diff := math.Abs(val - target); diff < closestDiff {
			closestDiff = diff
			closest = net
		}
		if fequal(val, target, epsilon) {
			converged = net
			hi = mid // keep narrowing toward the leftmost satisfying value
			continue
		}
		below := val < target
		if below == ascending {
			lo = mid
		} else {
			hi = mid
		}
	}
	if converged != nil {
		return converged, nil
	}
	if persnickety {
		return nil, newErr(CodeNoResult, "bisect did not converge within %d iterations", maxIter)
	}
	if closest != nil {
		return closest, nil
	}
	return s.Eval(lo + (hi-lo)/2)
}
