package bsplines

import (
	"encoding/json"
	"os"
)

// splineDoc is the on-disk/wire representation of a Spline. No third-party
// serialization library appears anywhere in the example pack this module
// was grounded on, so this uses the standard library's encoding/json
// directly (see DESIGN.md).
type splineDoc struct {
	Degree        int       `json:"degree"`
	Dimension     int       `json:"dimension"`
	ControlPoints []float64 `json:"control_points"`
	Knots         []float64 `json:"knots"`
}

// MarshalJSON implements json.Marshaler.
func (s *Spline) MarshalJSON() ([]byte, error) {
	return json.Marshal(splineDoc{
		Degree:        s.degree,
		Dimension:     s.dim,
		ControlPoints: s.ctrlp,
		Knots:         s.knots,
	})
}

// UnmarshalJSON implements json.Unmarshaler. It validates the decoded knot
// vector exactly as NewFromKnots does.
func (s *Spline) UnmarshalJSON(data []byte) error {
	var doc splineDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return newErr(CodeParse, "%v", err)
	}
	parsed, err := NewFromKnots(doc.Degree, doc.Dimension, doc.ControlPoints, doc.Knots)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// ToJSON serializes the spline to its canonical JSON form.
func (s *Spline) ToJSON() ([]byte, error) {
	return s.MarshalJSON()
}

// ParseJSON parses a spline from its canonical JSON form.
func ParseJSON(data []byte) (*Spline, error) {
	s := &Spline{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the spline's JSON representation to path.
func (s *Spline) Save(path string) error {
	data, err := s.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newErr(CodeIO, "%v", err)
	}
	return nil
}

// Load reads a spline from its JSON representation at path.
func Load(path string) (*Spline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr(CodeIO, "%v", err)
	}
	return ParseJSON(data)
}
