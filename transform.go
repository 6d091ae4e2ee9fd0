package bsplines

import "math"

// distinctInteriorKnots returns the strictly-increasing list of knot values
// that lie strictly between min and max, deduplicated with the package's
// fuzzy knot-equality tolerance.
func distinctInteriorKnots(knots []float64, min, max float64) []float64 {
	var out []float64
	for _, k := range knots {
		if k <= min+KnotEpsilon || k >= max-KnotEpsilon {
			continue
		}
		if len(out) > 0 && knotsEqual(out[len(out)-1], k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// ToBeziers decomposes the spline into a sequence of independent Bézier
// segments: every interior knot (and both domain boundaries) is raised to
// full multiplicity by repeated knot insertion, splitting the curve into
// C0-joined Bézier pieces without changing its shape.
func (s *Spline) ToBeziers() (*Spline, error) {
	result := s.Clone()
	order := result.Order()
	min, max := result.Domain()

	if m := multiplicityAt(result.knots, min); m < order {
		var err error
		result, err = result.InsertKnot(min, order-m)
		if err != nil {
			return nil, err
		}
	}
	if m := multiplicityAt(result.knots, max); m < order {
		var err error
		result, err = result.InsertKnot(max, order-m)
		if err != nil {
			return nil, err
		}
	}
	for _, u := range distinctInteriorKnots(result.knots, min, max) {
		m := multiplicityAt(result.knots, u)
		if need := order - m; need > 0 {
			var err error
			result, err = result.InsertKnot(u, need)
			if err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// removeOneKnot returns a copy of knots with a single occurrence of value
// removed (the first one found under fuzzy knot equality).
func removeOneKnot(knots []float64, value float64) []float64 {
	for i, k := range knots {
		if knotsEqual(k, value) {
			out := make([]float64, 0, len(knots)-1)
			out = append(out, knots[:i]...)
			out = append(out, knots[i+1:]...)
			return out
		}
	}
	return knots
}

// healFullMultiplicityKnots lowers every interior knot at full multiplicity
// (order) by one occurrence, to multiplicity degree, one knot at a time,
// merging the two control points flanking the break into one, so that the
// classical derivative formula never divides by a zero-length knot
// interval. Each merge requires those two control points to agree within
// eps; the merged point is the left one. eps < 0 suppresses the agreement
// check (the left point is always taken); eps >= 0 fails with
// CodeUnderivable when the two disagree by more than eps.
func (s *Spline) healFullMultiplicityKnots(eps float64) (*Spline, error) {
	cur := s
	order := cur.Order()
	for {
		min, max := cur.Domain()
		u, found := math.NaN(), false
		for _, candidate := range distinctInteriorKnots(cur.knots, min, max) {
			if multiplicityAt(cur.knots, candidate) >= order {
				u, found = candidate, true
				break
			}
		}
		if !found {
			return cur, nil
		}
		k := findSpan(cur.knots, cur.degree, cur.NumControlPoints(), u)
		left := k - order
		right := left + 1
		leftP := cur.ctrlp[left*cur.dim : (left+1)*cur.dim]
		rightP := cur.ctrlp[right*cur.dim : (right+1)*cur.dim]
		if eps >= 0 && distance(leftP, rightP) > eps {
			return nil, newErr(CodeUnderivable, "discontinuity at u=%f exceeds eps=%f, cannot derive", u, eps)
		}
		n := cur.NumControlPoints()
		newCtrlp := make([]float64, 0, (n-1)*cur.dim)
		newCtrlp = append(newCtrlp, cur.ctrlp[:left*cur.dim]...)
		newCtrlp = append(newCtrlp, leftP...)
		newCtrlp = append(newCtrlp, cur.ctrlp[(right+1)*cur.dim:]...)
		newKnots := removeOneKnot(cur.knots, u)
		merged, err := NewFromKnots(cur.degree, cur.dim, newCtrlp, newKnots)
		if err != nil {
			return nil, err
		}
		cur = merged
	}
}

// deriveOnce computes a single derivative step: a spline one degree lower
// whose evaluation equals this spline's tangent. A degree-0 spline's
// derivative is the zero point of the same dimension. Any control point
// whose governing knot interval has collapsed to zero length is dropped,
// along with the knot responsible, rather than dividing by zero.
func (s *Spline) deriveOnce() (*Spline, error) {
	if s.degree == 0 {
		return mustNewFromKnots(0, s.dim, make([]float64, s.dim), []float64{0, 1}), nil
	}
	n := s.NumControlPoints()
	newDegree := s.degree - 1
	newKnots := append([]float64(nil), s.knots[1:len(s.knots)-1]...)
	var newCtrlp []float64
	for i := 0; i < n-1; i++ {
		denom := s.knots[i+1+s.degree] - s.knots[i+1]
		if denom == 0 {
			newKnots = removeOneKnot(newKnots, s.knots[i+1])
			continue
		}
		for d := 0; d < s.dim; d++ {
			newCtrlp = append(newCtrlp, float64(s.degree)*(s.ctrlp[(i+1)*s.dim+d]-s.ctrlp[i*s.dim+d])/denom)
		}
	}
	return NewFromKnots(newDegree, s.dim, newCtrlp, newKnots)
}

// Derive computes the spline's n-th derivative. Before each single
// derivation, any interior knot at full multiplicity is healed (lowered by
// one occurrence, its two flanking control points merged into one) when
// those control points agree within eps;
// this is what makes deriving the result of ToBeziers well-defined. See
// healFullMultiplicityKnots and deriveOnce for the two steps' semantics.
func (s *Spline) Derive(n int, eps float64) (*Spline, error) {
	if n < 0 {
		return nil, newErr(CodeInput, "n must be >= 0, got %d", n)
	}
	cur := s
	for i := 0; i < n; i++ {
		healed, err := cur.healFullMultiplicityKnots(eps)
		if err != nil {
			return nil, err
		}
		cur, err = healed.deriveOnce()
		if err != nil {
			return nil, err
		}
	}
	return cur.Clone(), nil
}

func elevateBezierSegment(points []float64, degree, dim int) []float64 {
	n := degree
	out := make([]float64, (n+2)*dim)
	copy(out[0:dim], points[0:dim])
	copy(out[(n+1)*dim:(n+2)*dim], points[n*dim:(n+1)*dim])
	for i := 1; i <= n; i++ {
		frac := float64(i) / float64(n+1)
		for d := 0; d < dim; d++ {
			out[i*dim+d] = frac*points[(i-1)*dim+d] + (1-frac)*points[i*dim+d]
		}
	}
	return out
}

// ElevateDegree raises the spline's degree by times, preserving its shape,
// by decomposing into Béziers, elevating each segment with the classical
// one-step elevation formula, and re-knotting the joined result.
func (s *Spline) ElevateDegree(times int) (*Spline, error) {
	if times < 0 {
		return nil, newErr(CodeInput, "times must be >= 0, got %d", times)
	}
	cur := s
	for t := 0; t < times; t++ {
		bez, err := cur.ToBeziers()
		if err != nil {
			return nil, err
		}
		degree := bez.degree
		dim := bez.dim
		order := degree + 1
		// ToBeziers raises every interior knot to full multiplicity (order),
		// so bez's segments are fully independent: order control points
		// each, none shared with a neighboring segment.
		numSegments := bez.NumControlPoints() / order
		newDegree := degree + 1
		newOrder := newDegree + 1

		min, max := bez.Domain()
		distinct := append([]float64{min}, distinctInteriorKnots(bez.knots, min, max)...)
		distinct = append(distinct, max)

		newKnots := make([]float64, 0, len(distinct)*newOrder)
		for _, u := range distinct {
			for i := 0; i < newOrder; i++ {
				newKnots = append(newKnots, u)
			}
		}

		newCtrlp := make([]float64, 0, numSegments*newOrder*dim)
		for seg := 0; seg < numSegments; seg++ {
			segPts := bez.ctrlp[seg*order*dim : (seg+1)*order*dim]
			elevated := elevateBezierSegment(segPts, degree, dim)
			newCtrlp = append(newCtrlp, elevated...)
		}
		cur = mustNewFromKnots(newDegree, dim, newCtrlp, newKnots)
	}
	return cur, nil
}

// greville returns the i-th Greville abscissa (knot average), the
// parameter value a control point is conventionally associated with.
func greville(s *Spline, i int) float64 {
	var sum float64
	for j := i + 1; j <= i+s.degree; j++ {
		sum += s.knots[j]
	}
	if s.degree == 0 {
		return s.knots[i]
	}
	return sum / float64(s.degree)
}

// Tension blends the spline toward the straight line joining its first and
// last control point (t=0 yields that line, t=1 is the identity),
// following Holten's curve-straightening construction: each control point
// is blended with the point its Greville parameter would occupy on that
// line.
func (s *Spline) Tension(t float64) (*Spline, error) {
	if t < 0 || t > 1 {
		return nil, newErr(CodeInput, "t must be within [0, 1], got %f", t)
	}
	n := s.NumControlPoints()
	first := s.ctrlp[0:s.dim]
	last := s.ctrlp[(n-1)*s.dim : n*s.dim]
	min, max := s.Domain()
	span := max - min
	newCtrlp := make([]float64, len(s.ctrlp))
	for i := 0; i < n; i++ {
		var frac float64
		if span != 0 {
			frac = (greville(s, i) - min) / span
		}
		for d := 0; d < s.dim; d++ {
			straight := (1-frac)*first[d] + frac*last[d]
			newCtrlp[i*s.dim+d] = t*s.ctrlp[i*s.dim+d] + (1-t)*straight
		}
	}
	return mustNewFromKnots(s.degree, s.dim, newCtrlp, s.knots), nil
}

// reknot inserts interior knot values from other into s until the two
// share the same number of control points, used by Align to prepare two
// splines of equal degree for Morph.
func reknot(s, other *Spline) (*Spline, error) {
	cur := s.Clone()
	min, max := cur.Domain()
	for _, u := range distinctInteriorKnots(other.knots, min, max) {
		if cur.NumControlPoints() >= other.NumControlPoints() {
			break
		}
		curMult := multiplicityAt(cur.knots, u)
		otherMult := multiplicityAt(other.knots, u)
		need := otherMult - curMult
		if short := other.NumControlPoints() - cur.NumControlPoints(); need > short {
			need = short
		}
		if need <= 0 {
			continue
		}
		var err error
		cur, err = cur.InsertKnot(u, need)
		if err != nil {
			return nil, err
		}
	}
	// If still short, refine uniformly at domain midpoints between existing
	// distinct knots until counts match.
	for cur.NumControlPoints() < other.NumControlPoints() {
		knots := cur.knots
		min, max := cur.Domain()
		bestGap, bestU := -1.0, math.NaN()
		for i := 0; i < len(knots)-1; i++ {
			if knots[i] < min || knots[i] >= max {
				continue
			}
			gap := knots[i+1] - knots[i]
			if gap > bestGap {
				bestGap = gap
				bestU = (knots[i] + knots[i+1]) / 2
			}
		}
		if bestGap <= KnotEpsilon {
			break
		}
		var err error
		cur, err = cur.InsertKnot(bestU, 1)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Align brings two splines to a common degree and a common control point
// count so that Morph can blend between them: the lower-degree spline is
// elevated to match the higher, then whichever has fewer control points is
// refined with knots drawn from the other (falling back to uniform
// refinement) until the counts agree.
func Align(a, b *Spline) (*Spline, *Spline, error) {
	if a.dim != b.dim {
		return nil, nil, newErr(CodeDimensionMismatch, "a.dim=%d != b.dim=%d", a.dim, b.dim)
	}
	ea, eb := a, b
	var err error
	if ea.degree < eb.degree {
		ea, err = ea.ElevateDegree(eb.degree - ea.degree)
	} else if eb.degree < ea.degree {
		eb, err = eb.ElevateDegree(ea.degree - eb.degree)
	}
	if err != nil {
		return nil, nil, err
	}
	if ea.NumControlPoints() < eb.NumControlPoints() {
		ea, err = reknot(ea, eb)
	} else if eb.NumControlPoints() < ea.NumControlPoints() {
		eb, err = reknot(eb, ea)
	}
	if err != nil {
		return nil, nil, err
	}
	return ea, eb, nil
}

// Morph linearly blends two splines by t, clamped to [0,1]: t=0 returns
// a's shape, t=1 returns b's. If a and b are not already aligned (same
// degree, same control point count, same knot vector length), Align is
// called on them first.
func Morph(a, b *Spline, t float64) (*Spline, error) {
	if a.dim != b.dim {
		return nil, newErr(CodeDimensionMismatch, "dimension mismatch: %d != %d", a.dim, b.dim)
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	ea, eb := a, b
	if a.degree != b.degree || len(a.ctrlp) != len(b.ctrlp) || len(a.knots) != len(b.knots) {
		var err error
		ea, eb, err = Align(a, b)
		if err != nil {
			return nil, err
		}
	}
	newCtrlp := make([]float64, len(ea.ctrlp))
	lerp(newCtrlp, ea.ctrlp, eb.ctrlp, t)
	newKnots := make([]float64, len(ea.knots))
	lerp(newKnots, ea.knots, eb.knots, t)
	return mustNewFromKnots(ea.degree, ea.dim, newCtrlp, newKnots), nil
}
