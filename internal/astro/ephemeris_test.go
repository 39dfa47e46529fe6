package astro

import (
	"math"
	"testing"
	"time"
)

// TestSunMoonGeometry_EquinoxNoon checks the Sun near the zenith for an
// equatorial observer at solar noon on the March equinox.
func TestSunMoonGeometry_EquinoxNoon(t *testing.T) {
	obs := Observer{LatDeg: 0, LonDeg: 0}
	// 2000-03-20 was the equinox; solar noon at Greenwich was ~12:07 UTC.
	g := SunMoonGeometry(obs, time.Date(2000, 3, 20, 12, 7, 0, 0, time.UTC))

	if g.SunZenith > 5*math.Pi/180 {
		t.Errorf("sun zenith angle at equinox noon: expected < 5 deg, got %.3f deg",
			g.SunZenith*180/math.Pi)
	}
}

// TestSunMoonGeometry_Midnight checks the Sun is below the horizon at local
// midnight.
func TestSunMoonGeometry_Midnight(t *testing.T) {
	obs := Observer{LatDeg: 0, LonDeg: 0}
	g := SunMoonGeometry(obs, time.Date(2000, 3, 20, 0, 0, 0, 0, time.UTC))

	if g.SunZenith <= math.Pi/2 {
		t.Errorf("sun should be below horizon at midnight, zenith angle %.3f deg",
			g.SunZenith*180/math.Pi)
	}
}

// TestSunMoonGeometry_Elongation checks the elongation at a known full moon
// and at a known new moon (the 2024-04-08 solar eclipse).
func TestSunMoonGeometry_Elongation(t *testing.T) {
	obs := Observer{LatDeg: 40, LonDeg: -75}

	full := SunMoonGeometry(obs, time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC))
	if full.MoonElongation < 160*math.Pi/180 {
		t.Errorf("full moon elongation: expected > 160 deg, got %.2f deg",
			full.MoonElongation*180/math.Pi)
	}

	newMoon := SunMoonGeometry(obs, time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC))
	if newMoon.MoonElongation > 10*math.Pi/180 {
		t.Errorf("eclipse elongation: expected < 10 deg, got %.2f deg",
			newMoon.MoonElongation*180/math.Pi)
	}
}

// TestSunMoonGeometry_ZenithRange checks both zenith angles stay in [0, pi].
func TestSunMoonGeometry_ZenithRange(t *testing.T) {
	obs := Observer{LatDeg: -33.9, LonDeg: 18.4}
	for hour := 0; hour < 24; hour += 3 {
		g := SunMoonGeometry(obs, time.Date(2025, 8, 1, hour, 0, 0, 0, time.UTC))
		if g.SunZenith < 0 || g.SunZenith > math.Pi {
			t.Errorf("hour %d: sun zenith %.4f outside [0, pi]", hour, g.SunZenith)
		}
		if g.MoonZenith < 0 || g.MoonZenith > math.Pi {
			t.Errorf("hour %d: moon zenith %.4f outside [0, pi]", hour, g.MoonZenith)
		}
	}
}

// TestSphereSep checks the great-circle separation helper against fixed
// geometry.
func TestSphereSep(t *testing.T) {
	if got := sphereSep(1.0, 0.5, 1.0, 0.5); got > 1e-9 {
		t.Errorf("separation of a point from itself: got %.12f", got)
	}

	// Zenith to horizon is a quarter circle.
	got := sphereSep(0, math.Pi/2, 0, 0)
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("zenith-horizon separation: expected pi/2, got %.12f", got)
	}

	// Two horizon points 90 degrees apart in azimuth.
	got = sphereSep(0, 0, math.Pi/2, 0)
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("horizon quarter-turn separation: expected pi/2, got %.12f", got)
	}
}

// TestTargetSeparations_Bounds checks separations stay in [0, pi] across a
// sweep of target points.
func TestTargetSeparations_Bounds(t *testing.T) {
	obs := Observer{LatDeg: 51.5, LonDeg: 0}
	g := SunMoonGeometry(obs, time.Date(2025, 1, 15, 22, 0, 0, 0, time.UTC))

	for az := 0.0; az < 360; az += 45 {
		for alt := 0.0; alt <= 90; alt += 30 {
			moonDist, sunDist := g.TargetSeparations(az, alt)
			if moonDist < 0 || moonDist > math.Pi {
				t.Errorf("az %g alt %g: moon separation %.4f outside [0, pi]", az, alt, moonDist)
			}
			if sunDist < 0 || sunDist > math.Pi {
				t.Errorf("az %g alt %g: sun separation %.4f outside [0, pi]", az, alt, sunDist)
			}
		}
	}
}
