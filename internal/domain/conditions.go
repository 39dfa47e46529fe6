package domain

import (
	"fmt"
	"math"
)

// SiteConditions holds the slowly varying observing-session parameters:
// luminary geometry, site location, weather, and calendar terms. One value
// is typically shared across a whole field of sky.
//
// All angles are in radians.
type SiteConditions struct {
	MoonZenith     float64 // Zenith angle of the Moon.
	SunZenith      float64 // Zenith angle of the Sun.
	MoonElongation float64 // Sun-Moon angular separation (pi = full moon).

	HeightM      float64 // Height above sea level in meters.
	Latitude     float64 // Site latitude.
	TemperatureC float64 // Air temperature in degrees Celsius.
	// RelHumidity is the relative humidity in percent. Values are clamped
	// to [0,100]; 100 is treated as a pinned extreme rather than a measured
	// value, to avoid the aerosol term's logarithmic singularity.
	RelHumidity float64

	Year  int // Calendar year, drives the 11-year solar-cycle airglow term.
	Month int // Calendar month 1..12, drives the seasonal aerosol asymmetry.
}

// Validate rejects conditions the model cannot interpret.
func (c SiteConditions) Validate() error {
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, c.Month)
	}
	if math.Abs(c.Latitude) > math.Pi/2 {
		return fmt.Errorf("latitude %.4f rad outside [-pi/2, pi/2]", c.Latitude)
	}
	return nil
}

// clampedHumidity returns the relative humidity pinned to [0,100].
func (c SiteConditions) clampedHumidity() float64 {
	return math.Max(0, math.Min(100, c.RelHumidity))
}

// SkyTarget holds the geometry of the sky point being evaluated.
// All angles are in radians.
type SkyTarget struct {
	Zenith   float64 // Zenith angle of the target point.
	MoonDist float64 // Angular separation from the target to the Moon.
	SunDist  float64 // Angular separation from the target to the Sun.
}

// Validate rejects geometry for which the scattering function is singular
// or undefined.
func (t SkyTarget) Validate() error {
	if t.Zenith < 0 || t.Zenith > math.Pi {
		return fmt.Errorf("target zenith angle %.4f rad outside [0, pi]", t.Zenith)
	}
	if t.MoonDist <= 0 {
		return fmt.Errorf("%w: moon separation %.6f rad", ErrZeroSeparation, t.MoonDist)
	}
	if t.SunDist <= 0 {
		return fmt.Errorf("%w: sun separation %.6f rad", ErrZeroSeparation, t.SunDist)
	}
	return nil
}
