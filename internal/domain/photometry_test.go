package domain

import (
	"math"
	"testing"
)

// TestMagBrightnessRoundTrip verifies that MagToBrightness and
// BrightnessToMag are exact inverses across the useful magnitude range.
func TestMagBrightnessRoundTrip(t *testing.T) {
	for m := -30.0; m <= 30.0; m += 0.25 {
		got := BrightnessToMag(MagToBrightness(m))
		if math.Abs(got-m) > 1e-9 {
			t.Errorf("round trip of %.2f mag: got %.12f", m, got)
		}
	}
}

// TestAirMassZenith checks the zenith airmass against the closed form
// 1/(1 + 0.025*exp(-11)). The exponential correction term makes it slightly
// less than 1, not exactly 1.
func TestAirMassZenith(t *testing.T) {
	want := 1 / (1 + 0.025*math.Exp(-11))
	got := AirMass(0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("AirMass(0): expected %.12f, got %.12f", want, got)
	}
	if got >= 1.0 {
		t.Errorf("AirMass(0) should be slightly below 1, got %.12f", got)
	}
}

// TestAirMassBelowHorizon checks the saturating fallback for objects at or
// below the horizon.
func TestAirMassBelowHorizon(t *testing.T) {
	for _, zenith := range []float64{math.Pi / 2, 2.0, 2.5, math.Pi} {
		if got := AirMass(zenith); got != 40.0 {
			t.Errorf("AirMass(%.4f): expected 40, got %.6f", zenith, got)
		}
	}
}

// TestAirMassMonotonic verifies airmass grows toward the horizon.
func TestAirMassMonotonic(t *testing.T) {
	prev := AirMass(0)
	for zenith := 0.1; zenith < math.Pi/2; zenith += 0.1 {
		cur := AirMass(zenith)
		if cur <= prev {
			t.Errorf("airmass not increasing at zenith angle %.2f: %.6f <= %.6f", zenith, cur, prev)
		}
		prev = cur
	}
}

// TestScatterFDecreasing verifies the scattering falloff decreases with
// separation over the aureole-dominated range.
func TestScatterFDecreasing(t *testing.T) {
	prev := scatterF(0.01)
	for rho := 0.05; rho <= math.Pi/2; rho += 0.05 {
		cur := scatterF(rho)
		if cur >= prev {
			t.Errorf("scatterF not decreasing at %.2f rad: %.4g >= %.4g", rho, cur, prev)
		}
		if cur <= 0 {
			t.Errorf("scatterF(%.2f) not positive: %.4g", rho, cur)
		}
		prev = cur
	}
}
