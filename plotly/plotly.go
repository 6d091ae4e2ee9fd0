// Package plotly implements plotting in Jupyter Notebooks using [github.com/janpfeifer/gonb] (Notebook Kernel) and
// the Plotly [github.com/MetalBlueberry/go-plotly] library.
//
// Use New to create a new Config object, and after configuring it, use Config.Plot to draw the plot.
//
// For a 1-D spline (Dimension()==1) it plots the function value, the control points and, optionally, the
// derivative and basis functions as bar charts -- the same view the original B-spline visualizer used.
// For a 2-D (or higher) spline it plots the evaluated curve and its control polygon as an XY scatter trace,
// which is the shape a planar or spatial NURBS/Bézier curve actually has.
//
// Features:
//   - Spline curve/function, visible by default.
//   - Control polygon, visible by default.
//   - Derivative (1-D only), non-visible by default.
//   - Basis functions (1-D only), non-visible by default.
package plotly

import (
	"fmt"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/curvekit/bsplines"
	"github.com/janpfeifer/gonb/gonbui/plotly"
)

// Config holds a plot configuration that can be changed.
// Once finished, call the method [Plot] to actually plot.
type Config struct {
	spline        *bsplines.Spline
	numPlotPoints int
	marginRatio   float64
}

// New returns a Config object that can be changed.
// Once finished, call Config.Plot to draw the plot in the Jupyter notebook.
func New(s *bsplines.Spline) *Config {
	return &Config{
		spline:        s,
		numPlotPoints: 1000,
		marginRatio:   0.1,
	}
}

// WithNumPlotPoints set the number of plot points to evaluate. Default is 1000.
func (c *Config) WithNumPlotPoints(numPlotPoints int) *Config {
	if numPlotPoints < 2 {
		numPlotPoints = 2
	}
	c.numPlotPoints = numPlotPoints
	return c
}

// WithMargin defines how much space (relative to the spline's domain) to plot, for 1-D splines only:
// it's handy to see how the function would look just past its boundaries.
// It defaults to 0.1.
func (c *Config) WithMargin(marginRatio float64) *Config {
	if marginRatio < 0 {
		marginRatio = 0
	}
	c.marginRatio = marginRatio
	return c
}

// Plot using the current configuration.
// It returns an error if plotting failed for some reason.
func (c *Config) Plot() error {
	var fig *grob.Fig
	var err error
	if c.spline.Dimension() == 1 {
		fig, err = c.plot1D()
	} else {
		fig, err = c.plotCurve()
	}
	if err != nil {
		return err
	}
	if err := plotly.DisplayFig(fig); err != nil {
		return fmt.Errorf("plotly.DisplayFig failed: %v", err)
	}
	return nil
}

func (c *Config) plot1D() (*grob.Fig, error) {
	s := c.spline
	min, max := s.Domain()
	delta := max - min
	first, last := min-c.marginRatio*delta, max+c.marginRatio*delta

	x := make([]float64, c.numPlotPoints)
	y := make([]float64, c.numPlotPoints)
	for ii := range c.numPlotPoints {
		x[ii] = first + (last-first)*float64(ii)/float64(c.numPlotPoints-1)
		p, err := s.EvalPoint(clamp(x[ii], min, max))
		if err != nil {
			return nil, err
		}
		y[ii] = p[0]
	}

	derivative, derivErr := s.Derive(1, bsplines.ControlPointEpsilon)
	var derivY []float64
	if derivErr == nil {
		derivY = make([]float64, c.numPlotPoints)
		for ii := range c.numPlotPoints {
			p, err := derivative.EvalPoint(clamp(x[ii], min, max))
			if err != nil {
				return nil, err
			}
			derivY[ii] = p[0]
		}
	}

	n := s.NumControlPoints()
	controlX := make([]float64, n)
	controlY := make([]float64, n)
	for i := range n {
		cp, err := s.ControlPointAt(i)
		if err != nil {
			return nil, err
		}
		controlX[i] = greville(s, i)
		controlY[i] = cp[0]
	}

	fig := &grob.Fig{
		Data: grob.Traces{
			&grob.Bar{
				Name:       "Control Points",
				X:          controlX,
				Y:          controlY,
				Showlegend: grob.True,
				Marker: &grob.BarMarker{
					Line: &grob.BarMarkerLine{
						Width: 3.0,
					},
				},
			},
			&grob.Bar{
				Name:       "B-spline",
				X:          x,
				Y:          y,
				Width:      2.0,
				Showlegend: grob.True,
			},
		},
		Layout: &grob.Layout{
			Title:  &grob.LayoutTitle{Text: "B-Spline"},
			Legend: &grob.LayoutLegend{},
		},
	}
	if derivErr == nil {
		fig.Data = append(fig.Data, &grob.Bar{
			Name:       "1st derivative",
			X:          x,
			Y:          derivY,
			Width:      2.0,
			Showlegend: grob.True,
			Visible:    grob.BarVisibleLegendonly,
		})
	}
	for controlIdx := range n {
		basisY := make([]float64, c.numPlotPoints)
		for ii := range c.numPlotPoints {
			basisY[ii] = basisFunction(s, controlIdx, s.Degree(), clamp(x[ii], min, max))
		}
		fig.Data = append(fig.Data, &grob.Bar{
			Name:       fmt.Sprintf("Basis(idx=%d, control[idx]=%f, degree=%d)", controlIdx, controlY[controlIdx], s.Degree()),
			X:          x,
			Y:          basisY,
			Showlegend: grob.True,
			Width:      0.5,
			Visible:    grob.BarVisibleLegendonly,
		})
	}
	return fig, nil
}

func (c *Config) plotCurve() (*grob.Fig, error) {
	s := c.spline
	pts, err := s.Sample(c.numPlotPoints)
	if err != nil {
		return nil, err
	}
	curveX := make([]float64, len(pts))
	curveY := make([]float64, len(pts))
	for i, p := range pts {
		curveX[i] = p[0]
		curveY[i] = p[1]
	}

	n := s.NumControlPoints()
	controlX := make([]float64, n)
	controlY := make([]float64, n)
	for i := range n {
		cp, err := s.ControlPointAt(i)
		if err != nil {
			return nil, err
		}
		controlX[i] = cp[0]
		controlY[i] = cp[1]
	}

	fig := &grob.Fig{
		Data: grob.Traces{
			&grob.Scatter{
				Name:       "Control Polygon",
				X:          controlX,
				Y:          controlY,
				Mode:       grob.ScatterModeLinesMarkers,
				Showlegend: grob.True,
				Line:       &grob.ScatterLine{Dash: grob.ScatterLineDashDot},
			},
			&grob.Scatter{
				Name:       "Curve",
				X:          curveX,
				Y:          curveY,
				Mode:       grob.ScatterModeLines,
				Showlegend: grob.True,
			},
		},
		Layout: &grob.Layout{
			Title:  &grob.LayoutTitle{Text: "Spline curve"},
			Legend: &grob.LayoutLegend{},
		},
	}
	return fig, nil
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// greville returns the i-th Greville abscissa, the parameter value a
// control point is conventionally plotted at.
func greville(s *bsplines.Spline, i int) float64 {
	degree := s.Degree()
	if degree == 0 {
		k, err := s.KnotAt(i)
		if err != nil {
			return 0
		}
		return k
	}
	var sum float64
	for j := i + 1; j <= i+degree; j++ {
		k, err := s.KnotAt(j)
		if err != nil {
			return 0
		}
		sum += k
	}
	return sum / float64(degree)
}

// basisFunction recomputes the Cox-de Boor basis weight for controlIdx at x, for plotting purposes only.
func basisFunction(s *bsplines.Spline, controlIdx, degree int, x float64) float64 {
	k0, err := s.KnotAt(controlIdx)
	if err != nil {
		return 0
	}
	k1, err := s.KnotAt(controlIdx + 1)
	if err != nil {
		return 0
	}
	if degree == 0 {
		if x >= k0 && x < k1 {
			return 1.0
		}
		return 0.0
	}
	kd0, err := s.KnotAt(controlIdx + degree)
	if err != nil {
		return 0
	}
	kd1, err := s.KnotAt(controlIdx + degree + 1)
	if err != nil {
		return 0
	}
	left := 0.0
	if kd0 != k0 {
		left = (x - k0) / (kd0 - k0) * basisFunction(s, controlIdx, degree-1, x)
	}
	right := 0.0
	if kd1 != k1 {
		right = (kd1 - x) / (kd1 - k1) * basisFunction(s, controlIdx+1, degree-1, x)
	}
	return left + right
}
