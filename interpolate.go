package bsplines

import "math"

// InterpolateCubicNatural builds a degree-3 spline, emitted as a chain of
// independent Bézier segments (interior knots at full multiplicity, no
// control points shared between segments), that passes through every
// point in points (a flattened array of n*dim coordinates for n points)
// with a natural cubic spline: the second derivative vanishes at both
// endpoints. Points are assumed uniformly (unit) spaced along the
// parametrization; use InterpolateCatmullRom for chord-length or
// centripetal spacing instead. With a single point, the result is a
// degree-0 point.
func InterpolateCubicNatural(points []float64, dim int) (*Spline, error) {
	if dim < 1 {
		return nil, newErr(CodeInput, "dimension must be >= 1, got %d", dim)
	}
	if len(points)%dim != 0 {
		return nil, newErr(CodeInput, "points length %d is not a multiple of dimension %d", len(points), dim)
	}
	n := len(points) / dim
	if n < 1 {
		return nil, newErr(CodeNumPoints, "need at least 1 point, got %d", n)
	}
	if n == 1 {
		return mustNewFromKnots(0, dim, append([]float64(nil), points...), []float64{0, 1}), nil
	}
	if n == 2 {
		ctrlp := make([]float64, 4*dim)
		copy(ctrlp[0:dim], points[0:dim])
		copy(ctrlp[3*dim:4*dim], points[dim:2*dim])
		for d := 0; d < dim; d++ {
			ctrlp[dim+d] = (2*points[d] + points[dim+d]) / 3
			ctrlp[2*dim+d] = (points[d] + 2*points[dim+d]) / 3
		}
		return mustNewFromKnots(3, dim, ctrlp, beziersChainKnots(3, 1)), nil
	}

	// Solve the tridiagonal system M[i-1] + 4 M[i] + M[i+1] = 6 (P[i-1] - 2 P[i] + P[i+1])
	// for i = 1..n-2, with natural boundary conditions M[0] = M[n-1] = 0,
	// independently for each coordinate.
	M := make([]float64, n*dim)
	// Thomas algorithm, run once per coordinate.
	for d := 0; d < dim; d++ {
		c := make([]float64, n)
		rhs := make([]float64, n)
		for i := 1; i < n-1; i++ {
			rhs[i] = 6 * (points[(i-1)*dim+d] - 2*points[i*dim+d] + points[(i+1)*dim+d])
		}
		// Forward sweep over rows 1..n-2 (rows 0 and n-1 are fixed to 0).
		b0 := 4.0
		c[1] = 1.0 / b0
		rhs[1] = rhs[1] / b0
		for i := 2; i < n-1; i++ {
			m := 4.0 - 1.0*c[i-1]
			c[i] = 1.0 / m
			rhs[i] = (rhs[i] - rhs[i-1]) / m
		}
		M[0*dim+d] = 0
		M[(n-1)*dim+d] = 0
		if n-2 >= 1 {
			M[(n-2)*dim+d] = rhs[n-2]
			for i := n - 3; i >= 1; i-- {
				M[i*dim+d] = rhs[i] - c[i]*M[(i+1)*dim+d]
			}
		}
	}

	numSegments := n - 1
	ctrlp := make([]float64, numSegments*4*dim)
	for i := 0; i < numSegments; i++ {
		for d := 0; d < dim; d++ {
			Pi, Pi1 := points[i*dim+d], points[(i+1)*dim+d]
			Mi, Mi1 := M[i*dim+d], M[(i+1)*dim+d]
			b0 := Pi
			b3 := Pi1
			b1 := Pi + (Pi1-Pi)/3 - (2*Mi+Mi1)/18
			b2 := Pi1 - (Pi1-Pi)/3 - (Mi+2*Mi1)/18
			base := i * 4 * dim
			ctrlp[base+d] = b0
			ctrlp[base+dim+d] = b1
			ctrlp[base+2*dim+d] = b2
			ctrlp[base+3*dim+d] = b3
		}
	}
	return mustNewFromKnots(3, dim, ctrlp, beziersChainKnots(3, numSegments)), nil
}

// CatmullRomAlpha selects the parametrization used to convert a polyline
// into Catmull-Rom tangents.
type CatmullRomAlpha float64

const (
	// CatmullRomUniform reproduces the classical, uniformly-parametrized
	// Catmull-Rom spline.
	CatmullRomUniform CatmullRomAlpha = 0
	// CatmullRomCentripetal avoids cusps and self-intersections on
	// unevenly-spaced points; the generally recommended default.
	CatmullRomCentripetal CatmullRomAlpha = 0.5
	// CatmullRomChordal parametrizes by chord length.
	CatmullRomChordal CatmullRomAlpha = 1.0
)

// InterpolateCatmullRom builds a degree-3 Bézier-chain spline that passes
// through every point in points using the Catmull-Rom tangent
// construction, parametrized by alpha (0=uniform, 0.5=centripetal,
// 1=chordal; any value in [0,1] is accepted). Consecutive points closer
// than |eps| are filtered out as duplicates before interpolating; if only
// one point survives, the result is a degree-0 point. first and last, if
// non-nil, override the synthesized "ghost" points just outside the first
// and last surviving point (used to shape the end tangents); an override
// that is itself a near-duplicate of its neighbor (within eps) is ignored
// in favor of the default mirrored ghost point.
func InterpolateCatmullRom(points []float64, dim int, alpha CatmullRomAlpha, first, last []float64, eps float64) (*Spline, error) {
	if dim < 1 {
		return nil, newErr(CodeInput, "dimension must be >= 1, got %d", dim)
	}
	if len(points)%dim != 0 {
		return nil, newErr(CodeInput, "points length %d is not a multiple of dimension %d", len(points), dim)
	}
	n0 := len(points) / dim
	if n0 < 1 {
		return nil, newErr(CodeNumPoints, "need at least 1 point, got %d", n0)
	}
	if float64(alpha) < 0 || float64(alpha) > 1 {
		return nil, newErr(CodeInput, "alpha must be within [0, 1], got %f", float64(alpha))
	}
	eps = math.Abs(eps)

	filtered := append([]float64(nil), points[0:dim]...)
	for i := 1; i < n0; i++ {
		prev := filtered[len(filtered)-dim:]
		cur := points[i*dim : (i+1)*dim]
		if distance(prev, cur) <= eps {
			continue
		}
		filtered = append(filtered, cur...)
	}
	n := len(filtered) / dim
	if n == 1 {
		return mustNewFromKnots(0, dim, append([]float64(nil), filtered...), []float64{0, 1}), nil
	}

	ghost := func(given, neighbor, neighbor2 []float64) []float64 {
		if given != nil && distance(given, neighbor) > eps {
			return given
		}
		p := make([]float64, dim)
		for d := 0; d < dim; d++ {
			p[d] = 2*neighbor[d] - neighbor2[d]
		}
		return p
	}
	firstGhost := ghost(first, filtered[0:dim], filtered[dim:2*dim])
	lastGhost := ghost(last, filtered[(n-1)*dim:n*dim], filtered[(n-2)*dim:(n-1)*dim])

	pt := func(i int) []float64 {
		switch {
		case i < 0:
			return firstGhost
		case i >= n:
			return lastGhost
		default:
			return filtered[i*dim : (i+1)*dim]
		}
	}

	numSegments := n - 1
	ctrlp := make([]float64, numSegments*4*dim)
	a := float64(alpha)
	for seg := 0; seg < numSegments; seg++ {
		p0, p1, p2, p3 := pt(seg-1), pt(seg), pt(seg+1), pt(seg+2)
		t01 := math.Pow(distance(p0, p1), a)
		t12 := math.Pow(distance(p1, p2), a)
		t23 := math.Pow(distance(p2, p3), a)

		m1 := make([]float64, dim)
		m2 := make([]float64, dim)
		for d := 0; d < dim; d++ {
			if t01+t12 != 0 {
				m1[d] = (p2[d] - p1[d]) + t12*((p1[d]-p0[d])/nz(t01) - (p2[d]-p0[d])/nz(t01+t12))
			} else {
				m1[d] = p2[d] - p1[d]
			}
			if t12+t23 != 0 {
				m2[d] = (p2[d] - p1[d]) + t12*((p3[d]-p2[d])/nz(t23) - (p3[d]-p1[d])/nz(t12+t23))
			} else {
				m2[d] = p2[d] - p1[d]
			}
		}

		base := seg * 4 * dim
		for d := 0; d < dim; d++ {
			ctrlp[base+d] = p1[d]
			ctrlp[base+dim+d] = p1[d] + m1[d]/3
			ctrlp[base+2*dim+d] = p2[d] - m2[d]/3
			ctrlp[base+3*dim+d] = p2[d]
		}
	}
	return mustNewFromKnots(3, dim, ctrlp, beziersChainKnots(3, numSegments)), nil
}

func nz(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x
}
