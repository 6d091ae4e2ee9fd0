package bsplines

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	s, err := New(3, 2, 5, Clamped)
	require.NoError(t, err)
	require.NoError(t, s.SetControlPointAt(0, []float64{1, 2}))

	data, err := s.ToJSON()
	require.NoError(t, err)

	parsed, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, s.Degree(), parsed.Degree())
	assert.Equal(t, s.Dimension(), parsed.Dimension())
	assert.Equal(t, s.ControlPoints(), parsed.ControlPoints())
	assert.Equal(t, s.Knots(), parsed.Knots())
}

func TestParseJSONRejectsMalformed(t *testing.T) {
	_, err := ParseJSON([]byte("not json"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(2, 1, 4, Clamped)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "curve.json")

	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.ControlPoints(), loaded.ControlPoints())
	assert.Equal(t, s.Knots(), loaded.Knots())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestParseJSONRejectsDegreeAtOrAboveControlPointCount(t *testing.T) {
	// degree=3 with only 3 control points violates n_ctrl > deg.
	data := []byte(`{"degree":3,"dimension":1,"control_points":[0,1,2],"knots":[0,0,0,0,1,1,1]}`)
	_, err := ParseJSON(data)
	assert.ErrorIs(t, err, ErrDegTooHigh)
}
