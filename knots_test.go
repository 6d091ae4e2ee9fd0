package bsplines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKnotsRejectsDecreasing(t *testing.T) {
	err := validateKnots([]float64{0, 0, 0.5, 0.2, 1, 1}, 2, 4)
	assert.ErrorIs(t, err, ErrKnotsDecreasing)
}

func TestValidateKnotsRejectsOverMultiplicity(t *testing.T) {
	err := validateKnots([]float64{0, 0, 0, 0.5, 1, 1}, 2, 4)
	assert.ErrorIs(t, err, ErrMultiplicityError)
}

func TestValidateKnotsRejectsWrongLength(t *testing.T) {
	err := validateKnots([]float64{0, 0, 1, 1}, 2, 4)
	assert.ErrorIs(t, err, ErrNumKnots)
}

func TestGenerateKnotsClamped(t *testing.T) {
	knots := generateKnots(3, 5, Clamped)
	assert.Equal(t, []float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1}, knots)
}

func TestGenerateKnotsBeziers(t *testing.T) {
	knots := generateKnots(3, 7, Beziers) // 2 segments
	assert.Equal(t, []float64{0, 0, 0, 0, 0.5, 0.5, 0.5, 1, 1, 1, 1}, knots)
}

func TestMultiplicityAt(t *testing.T) {
	knots := []float64{0, 0, 0, 0.5, 1, 1, 1}
	assert.Equal(t, 3, multiplicityAt(knots, 0))
	assert.Equal(t, 1, multiplicityAt(knots, 0.5))
	assert.Equal(t, 3, multiplicityAt(knots, 1))
	assert.Equal(t, 0, multiplicityAt(knots, 0.3))
}

func TestFindSpan(t *testing.T) {
	knots := []float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1}
	degree, numCtrl := 3, 5
	assert.Equal(t, 3, findSpan(knots, degree, numCtrl, 0))
	assert.Equal(t, 3, findSpan(knots, degree, numCtrl, 0.25))
	assert.Equal(t, 4, findSpan(knots, degree, numCtrl, 0.5))
	assert.Equal(t, 4, findSpan(knots, degree, numCtrl, 0.75))
	assert.Equal(t, 4, findSpan(knots, degree, numCtrl, 1.0))
}

func TestDomain(t *testing.T) {
	s, err := New(3, 1, 5, Clamped)
	require.NoError(t, err)
	min, max := s.Domain()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)
}
