package bsplines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalLinearMidpoint(t *testing.T) {
	// Clamped linear spline, 3 control points -> knots [0,0,0.5,1,1].
	s, err := NewWithControlPoints(1, 1, []float64{0, 10, 0}, Clamped)
	require.NoError(t, err)

	p, err := s.EvalPoint(0.25)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, p[0], 1e-9) // halfway between ctrlp[0]=0 and ctrlp[1]=10

	p, err = s.EvalPoint(0.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, p[0], 1e-9)

	p, err = s.EvalPoint(1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, p[0], 1e-9)
}

func TestEvalOutsideDomain(t *testing.T) {
	s, err := New(2, 1, 4, Clamped)
	require.NoError(t, err)
	_, err = s.Eval(-0.5)
	assert.ErrorIs(t, err, ErrInputError)
	_, err = s.Eval(1.5)
	assert.ErrorIs(t, err, ErrInputError)
}

func TestEvalPartitionOfUnity(t *testing.T) {
	// Manually sum the basis function contribution implicit in Eval by
	// evaluating a spline whose control points are all 1: the curve must
	// be identically 1 everywhere in the domain (partition of unity).
	n := 7
	ctrlp := make([]float64, n)
	for i := range ctrlp {
		ctrlp[i] = 1
	}
	s, err := NewWithControlPoints(3, 1, ctrlp, Clamped)
	require.NoError(t, err)

	for i := 0; i <= 20; i++ {
		u := float64(i) / 20
		p, err := s.EvalPoint(u)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, p[0], 1e-9, "u=%f", u)
	}
}

func TestSample(t *testing.T) {
	s, err := New(2, 2, 5, Clamped)
	require.NoError(t, err)
	pts, err := s.Sample(11)
	require.NoError(t, err)
	assert.Len(t, pts, 11)
	min, max := s.Domain()
	p0, err := s.EvalPoint(min)
	require.NoError(t, err)
	assert.Equal(t, p0, pts[0])
	pLast, err := s.EvalPoint(max)
	require.NoError(t, err)
	assert.Equal(t, pLast, pts[len(pts)-1])

	_, err = s.Sample(1)
	assert.ErrorIs(t, err, ErrInputError)
}

func TestBisectFindsTarget(t *testing.T) {
	// Monotonically increasing linear spline from 0 to 10.
	s, err := NewWithControlPoints(1, 1, []float64{0, 5, 10}, Clamped)
	require.NoError(t, err)

	net, err := s.Bisect(5.0, 1e-6, false, 0, true, 60)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, net.Result()[0], 1e-3)
}

func TestBisectPersnicketyReturnsNoResult(t *testing.T) {
	// Target outside the spline's attainable range, so no midpoint ever
	// satisfies the tolerance.
	s, err := NewWithControlPoints(1, 1, []float64{0, 5, 10}, Clamped)
	require.NoError(t, err)

	_, err = s.Bisect(100.0, 1e-6, true, 0, true, 30)
	assert.ErrorIs(t, err, ErrNoResult)

	net, err := s.Bisect(100.0, 1e-6, false, 0, true, 30)
	require.NoError(t, err)
	assert.NotNil(t, net)
}

func TestDiscontinuityAtFullMultiplicityInteriorKnot(t *testing.T) {
	// Degree 1, knot vector with an interior knot repeated to full order
	// (2), so the curve has a jump there.
	ctrlp := []float64{0, 10, -10, 0}
	knots := []float64{0, 0, 0.5, 0.5, 1, 1}
	s, err := NewFromKnots(1, 1, ctrlp, knots)
	require.NoError(t, err)

	net, err := s.Eval(0.5)
	require.NoError(t, err)
	assert.True(t, net.IsDiscontinuity())
	result := net.Result()
	assert.InDelta(t, 10.0, result[0], 1e-9)
	assert.InDelta(t, -10.0, result[1], 1e-9)

	_, err = s.EvalPoint(0.5)
	assert.ErrorIs(t, err, ErrDegenerateSpline)
}
