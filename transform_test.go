package bsplines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLinearIsConstant(t *testing.T) {
	s, err := NewWithControlPoints(1, 1, []float64{0, 10}, Clamped)
	require.NoError(t, err)
	d, err := s.Derive(1, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Degree())

	p, err := d.EvalPoint(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, p[0], 1e-9)
}

func TestDeriveDegreeZeroIsZeroPoint(t *testing.T) {
	s, err := New(0, 1, 3, Clamped)
	require.NoError(t, err)
	d, err := s.Derive(1, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Degree())
	assert.Equal(t, []float64{0}, d.ControlPoints())
}

func TestDeriveHealsBezierDecomposition(t *testing.T) {
	// ToBeziers raises every interior knot to full multiplicity; Derive
	// must heal that back down before differentiating rather than panic.
	s, err := NewWithControlPoints(2, 1, []float64{0, 5, 10, 5, 0}, Clamped)
	require.NoError(t, err)
	bez, err := s.ToBeziers()
	require.NoError(t, err)

	d, err := bez.Derive(1, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Degree())

	direct, err := s.Derive(1, 1e-6)
	require.NoError(t, err)
	p1, err := d.EvalPoint(0.4)
	require.NoError(t, err)
	p2, err := direct.EvalPoint(0.4)
	require.NoError(t, err)
	assert.InDelta(t, p2[0], p1[0], 1e-6)
}

func TestDeriveFailsOnGenuineDiscontinuity(t *testing.T) {
	ctrlp := []float64{0, 10, -10, 0}
	knots := []float64{0, 0, 0.5, 0.5, 1, 1}
	s, err := NewFromKnots(1, 1, ctrlp, knots)
	require.NoError(t, err)
	_, err = s.Derive(1, 1e-6)
	assert.ErrorIs(t, err, ErrUnderivableSpline)

	// A negative eps suppresses the check and takes the left point.
	d, err := s.Derive(1, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Degree())
}

func TestElevateDegreePreservesShape(t *testing.T) {
	s, err := NewWithControlPoints(2, 1, []float64{0, 5, 10, 5, 0}, Clamped)
	require.NoError(t, err)

	before, err := s.EvalPoint(0.4)
	require.NoError(t, err)

	elevated, err := s.ElevateDegree(1)
	require.NoError(t, err)
	assert.Equal(t, 3, elevated.Degree())

	after, err := elevated.EvalPoint(0.4)
	require.NoError(t, err)
	assert.InDelta(t, before[0], after[0], 1e-6)
}

func TestTensionBoundaries(t *testing.T) {
	s, err := NewWithControlPoints(2, 1, []float64{0, 5, 10, 5, 0}, Clamped)
	require.NoError(t, err)

	unchanged, err := s.Tension(1)
	require.NoError(t, err)
	assert.Equal(t, s.ControlPoints(), unchanged.ControlPoints())

	line, err := s.Tension(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, line.ControlPoints()[0], 1e-9)
	assert.InDelta(t, 0, line.ControlPoints()[len(line.ControlPoints())-1], 1e-9)

	_, err = s.Tension(-0.1)
	assert.ErrorIs(t, err, ErrInputError)
}

func TestAlignAndMorph(t *testing.T) {
	a, err := NewWithControlPoints(1, 1, []float64{0, 10}, Clamped)
	require.NoError(t, err)
	b, err := NewWithControlPoints(2, 1, []float64{0, 5, 10, 5, 0}, Clamped)
	require.NoError(t, err)

	ea, eb, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, eb.Degree(), ea.Degree())
	assert.Equal(t, eb.NumControlPoints(), ea.NumControlPoints())
	assert.Equal(t, len(eb.Knots()), len(ea.Knots()))

	morphed, err := Morph(ea, eb, 0.5)
	require.NoError(t, err)
	assert.Equal(t, ea.Degree(), morphed.Degree())
}

func TestMorphAutoAligns(t *testing.T) {
	a, err := NewWithControlPoints(1, 1, []float64{0, 10}, Clamped)
	require.NoError(t, err)
	b, err := NewWithControlPoints(2, 1, []float64{0, 5, 10, 5, 0}, Clamped)
	require.NoError(t, err)

	morphed, err := Morph(a, b, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2, morphed.Degree())
}

func TestMorphRejectsDimensionMismatch(t *testing.T) {
	a, err := New(2, 1, 5, Clamped)
	require.NoError(t, err)
	b, err := New(2, 2, 5, Clamped)
	require.NoError(t, err)
	_, err = Morph(a, b, 0.5)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMorphClampsT(t *testing.T) {
	a, err := NewWithControlPoints(1, 1, []float64{0, 10}, Clamped)
	require.NoError(t, err)
	b, err := NewWithControlPoints(1, 1, []float64{5, 20}, Clamped)
	require.NoError(t, err)

	lo, err := Morph(a, b, -5)
	require.NoError(t, err)
	assert.Equal(t, a.ControlPoints(), lo.ControlPoints())

	hi, err := Morph(a, b, 5)
	require.NoError(t, err)
	assert.Equal(t, b.ControlPoints(), hi.ControlPoints())
}
