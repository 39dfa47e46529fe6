// Package interp provides bilinear interpolation over regular lat/lon grids,
// used to sample gridded site climatology.
package interp

import (
	"fmt"
	"math"
)

// Grid is a regular 2D grid over latitude and longitude.
// Values[i][j] corresponds to (Lats[i], Lons[j]). Both axes must be strictly
// increasing.
type Grid struct {
	Lats   []float64
	Lons   []float64
	Values [][]float64
}

// Validate checks axis ordering and value-matrix shape.
func (g *Grid) Validate() error {
	if len(g.Lats) < 2 || len(g.Lons) < 2 {
		return fmt.Errorf("grid needs at least 2 points per axis, got %dx%d", len(g.Lats), len(g.Lons))
	}
	if len(g.Values) != len(g.Lats) {
		return fmt.Errorf("grid has %d value rows, expected %d", len(g.Values), len(g.Lats))
	}
	for i, row := range g.Values {
		if len(row) != len(g.Lons) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.Lons))
		}
	}
	for i := 1; i < len(g.Lats); i++ {
		if g.Lats[i] <= g.Lats[i-1] {
			return fmt.Errorf("latitudes must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Lons); i++ {
		if g.Lons[i] <= g.Lons[i-1] {
			return fmt.Errorf("longitudes must be strictly increasing")
		}
	}
	return nil
}

// Sample interpolates the grid bilinearly at (lat, lon):
//
//	f(x,y) ≈ (1-t)(1-u)f00 + t(1-u)f01 + (1-t)u*f10 + tu*f11
//
// with t, u the normalized offsets inside the enclosing cell. Points outside
// the grid extent are an error.
func (g *Grid) Sample(lat, lon float64) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("invalid grid: %w", err)
	}

	i, err := cellIndex(g.Lats, lat, "latitude")
	if err != nil {
		return 0, err
	}
	j, err := cellIndex(g.Lons, lon, "longitude")
	if err != nil {
		return 0, err
	}

	u := (lat - g.Lats[i]) / (g.Lats[i+1] - g.Lats[i])
	t := (lon - g.Lons[j]) / (g.Lons[j+1] - g.Lons[j])
	u = math.Max(0, math.Min(1, u))
	t = math.Max(0, math.Min(1, t))

	return (1-t)*(1-u)*g.Values[i][j] +
		t*(1-u)*g.Values[i][j+1] +
		(1-t)*u*g.Values[i+1][j] +
		t*u*g.Values[i+1][j+1], nil
}

// cellIndex finds the lower index of the axis cell containing v.
func cellIndex(axis []float64, v float64, name string) (int, error) {
	if v < axis[0] || v > axis[len(axis)-1] {
		return 0, fmt.Errorf("%s %.4f outside grid range [%.4f, %.4f]",
			name, v, axis[0], axis[len(axis)-1])
	}
	for i := 0; i < len(axis)-1; i++ {
		if v >= axis[i] && v <= axis[i+1] {
			return i, nil
		}
	}
	return len(axis) - 2, nil
}
