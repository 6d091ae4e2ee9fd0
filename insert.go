package bsplines

// InsertKnot inserts u into the spline's knot vector count times using
// Boehm's algorithm, raising the multiplicity of u by count and adding
// count new control points. It fails with CodeOverMultiplicity if doing so
// would push u's multiplicity above the spline's order.
func (s *Spline) InsertKnot(u float64, count int) (*Spline, error) {
	if count <= 0 {
		return nil, newErr(CodeInput, "count must be >= 1, got %d", count)
	}
	min, max := s.Domain()
	if u < min-KnotEpsilon || u > max+KnotEpsilon {
		return nil, newErr(CodeInput, "u=%f outside domain [%f, %f]", u, min, max)
	}

	cur := s.Clone()
	dim := s.dim
	p := s.degree

	for iter := 0; iter < count; iter++ {
		n := cur.NumControlPoints() - 1 // index of last control point
		k := findSpan(cur.knots, p, n+1, u)
		mult := multiplicityAt(cur.knots, u)
		if mult+1 > p+1 {
			return nil, newErr(CodeOverMultiplicity, "inserting u=%f would raise multiplicity to %d, above order %d", u, mult+1, p+1)
		}

		newKnots := make([]float64, len(cur.knots)+1)
		copy(newKnots[:k+1], cur.knots[:k+1])
		newKnots[k+1] = u
		copy(newKnots[k+2:], cur.knots[k+1:])

		newCtrlp := make([]float64, (n+2)*dim)
		for i := 0; i <= k-p; i++ {
			copy(newCtrlp[i*dim:(i+1)*dim], cur.ctrlp[i*dim:(i+1)*dim])
		}
		for i := k - mult; i <= n; i++ {
			copy(newCtrlp[(i+1)*dim:(i+2)*dim], cur.ctrlp[i*dim:(i+1)*dim])
		}
		for i := k - p + 1; i <= k-mult; i++ {
			alpha := (u - cur.knots[i]) / (cur.knots[i+p] - cur.knots[i])
			for d := 0; d < dim; d++ {
				newCtrlp[i*dim+d] = alpha*cur.ctrlp[i*dim+d] + (1-alpha)*cur.ctrlp[(i-1)*dim+d]
			}
		}
		cur = mustNewFromKnots(p, dim, newCtrlp, newKnots)
	}
	return cur, nil
}

// Split inserts u until it reaches full multiplicity (order), returning the
// resulting spline and the index k of the knot span containing u, as
// located by findSpan. For u strictly inside the domain, k is the last index
// at which u occurs in the result's knot vector, and the spline can be cut
// there into two independent curves: control points [0, k-degree) with
// knots[:k+1], and control points from k-degree on with knots[k-degree:].
func (s *Spline) Split(u float64) (*Spline, int, error) {
	min, max := s.Domain()
	if u < min-KnotEpsilon || u > max+KnotEpsilon {
		return nil, 0, newErr(CodeInput, "u=%f outside domain [%f, %f]", u, min, max)
	}
	mult := multiplicityAt(s.knots, u)
	order := s.Order()
	result := s
	if need := order - mult; need > 0 {
		var err error
		result, err = s.InsertKnot(u, need)
		if err != nil {
			return nil, 0, err
		}
	} else {
		result = s.Clone()
	}
	k := findSpan(result.knots, result.degree, result.NumControlPoints(), u)
	return result, k, nil
}
