package domain

import (
	"fmt"
	"math"
)

// Report holds the per-band sky brightness and line-of-sight extinction for
// one sky target under one set of site conditions, plus the derived V-band
// limiting magnitude. Like Coefficients it is immutable; bands outside the
// computation mask are not readable.
type Report struct {
	coeffs *Coefficients
	target SkyTarget

	brightness [NumBands]float64 // Linear units; divide by 1.11e-15 for nL.
	extinction [NumBands]float64 // Magnitudes along the line of sight.

	limitingMag float64
	hasLimiting bool
}

// Compute runs the full model: extinction coefficients from the site
// conditions, then sky brightness and line-of-sight extinction for the
// target, for every band in mask. Brightness and extinction depend only on
// the coefficients, not on each other.
func Compute(site SiteConditions, target SkyTarget, mask BandMask) (*Report, error) {
	coeffs, err := ComputeCoefficients(site, mask)
	if err != nil {
		return nil, err
	}
	return ComputeSky(coeffs, target)
}

// ComputeSky evaluates sky brightness and extinction for one target from
// previously computed coefficients. Reuse the coefficients when sweeping
// many targets under the same conditions.
func ComputeSky(coeffs *Coefficients, target SkyTarget) (*Report, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("sky target: %w", err)
	}

	r := &Report{coeffs: coeffs, target: target}
	r.computeBrightness()
	r.computeExtinction()

	if coeffs.mask.Has(BandV) {
		r.limitingMag = limitingMagnitude(r.brightness[BandV], r.extinction[BandV])
		r.hasLimiting = true
	}
	return r, nil
}

// computeBrightness fills the per-band sky brightness: dark-sky airglow,
// scattered moonlight when the Moon is up, and the lesser of the twilight
// and daylight solar-scattering estimates. The two solar formulas are
// approximations valid in different regimes; outside its regime each badly
// overestimates, so the smaller of the two is the trustworthy one.
func (r *Report) computeBrightness() {
	c := r.coeffs
	site := c.site

	airMass := AirMass(r.target.Zenith)
	sinZ := math.Sin(r.target.Zenith)
	// Van Rhijn falloff of airglow brightness with zenith angle.
	brightnessDrop := 0.4 + 0.6/math.Sqrt(1-0.96*sinZ*sinZ)

	fMoon := scatterF(r.target.MoonDist)
	fSun := scatterF(r.target.SunDist)

	sunZenithDeg := site.SunZenith * 180 / math.Pi
	sunDistDeg := r.target.SunDist * 180 / math.Pi
	moonUp := site.MoonZenith < math.Pi/2

	for b := Band(0); b < NumBands; b++ {
		if !c.mask.Has(b) {
			continue
		}
		k := c.Total[b]
		directLoss := MagToBrightness(k * airMass)

		// Intrinsic dark-sky background.
		bn := darkSkyBrightness[b] * c.YearTerm * brightnessDrop * directLoss

		var moonBright float64
		if moonUp {
			moonBright = MagToBrightness(c.LunarMag+moonMagCorrection[b]-lunarMagZero[b]+43.27) *
				(1 - directLoss) *
				(fMoon*c.moonPathLoss[b] + 440000*(1-c.moonPathLoss[b]))
		}

		// Twilight estimate: computed in magnitudes, then scaled by the
		// solar separation and by the light lost over one airmass.
		twilightMag := solarMag[b] - lunarMagZero[b] + 32.5 -
			(90 - sunZenithDeg) - r.target.Zenith/(2*math.Pi*k)
		twilight := MagToBrightness(twilightMag) * (100 / sunDistDeg) *
			(1 - MagToBrightness(k))

		daylight := MagToBrightness(solarMag[b]-lunarMagZero[b]+43.27) *
			(1 - directLoss) *
			(fSun*c.sunPathLoss[b] + 440000*(1-c.sunPathLoss[b]))

		solar := daylight
		if twilight < daylight {
			solar = twilight
		}

		r.brightness[b] = bn + moonBright + solar
	}
}

// computeExtinction fills the per-band line-of-sight extinction using
// component-specific airmasses for gas, aerosol and ozone.
func (r *Report) computeExtinction() {
	c := r.coeffs
	cosZ := math.Cos(r.target.Zenith)
	sinZ := math.Sin(r.target.Zenith)
	// Past the horizon the component airmass formulas leave their valid
	// regime (the gas and aerosol denominators cross zero just below
	// cosZ = 0); pin the path at its horizon value, matching AirMass's
	// saturation.
	if cosZ < 0 {
		cosZ, sinZ = 0, 1
	}

	amGas := gasAirMass(cosZ)
	amAerosol := aerosolAirMass(cosZ)
	amOzone := ozoneAirMass(sinZ)

	for b := Band(0); b < NumBands; b++ {
		if !c.mask.Has(b) {
			continue
		}
		r.extinction[b] = (c.Rayleigh[b]+c.Water[b])*amGas +
			c.Aerosol[b]*amAerosol +
			c.Ozone[b]*amOzone
	}
}

// limitingMagnitude inverts the sky brightness through a piecewise model of
// the eye's threshold response; the branch switches from rod to cone
// coefficients on bright (>1500 nL) skies.
func limitingMagnitude(brightnessV, extinctionV float64) float64 {
	bl := brightnessV / nanolambertUnit

	c1, c2 := 1.5849e-10, 1.2589e-2
	if bl > 1500 {
		c1, c2 = 4.4668e-9, 1.2589e-6
	}

	tval := 1 + math.Sqrt(c2*bl)
	th := c1 * tval * tval

	return -16.57 + BrightnessToMag(th) - extinctionV
}

// Mask returns the band mask the report was computed for.
func (r *Report) Mask() BandMask {
	return r.coeffs.mask
}

// Coefficients returns the phase-1 coefficients behind the report.
func (r *Report) Coefficients() *Coefficients {
	return r.coeffs
}

// ExtinctionCoefficient returns the total extinction coefficient k for a
// band, in mag/airmass.
func (r *Report) ExtinctionCoefficient(b Band) (float64, error) {
	return r.coeffs.ExtinctionCoefficient(b)
}

// SkyBrightness returns the sky brightness for a band in the model's linear
// units.
func (r *Report) SkyBrightness(b Band) (float64, error) {
	if err := r.coeffs.checkBand(b); err != nil {
		return 0, err
	}
	return r.brightness[b], nil
}

// SkyBrightnessNL returns the sky brightness for a band in nanolamberts.
func (r *Report) SkyBrightnessNL(b Band) (float64, error) {
	v, err := r.SkyBrightness(b)
	if err != nil {
		return 0, err
	}
	return v / nanolambertUnit, nil
}

// Extinction returns the line-of-sight extinction for a band in magnitudes.
func (r *Report) Extinction(b Band) (float64, error) {
	if err := r.coeffs.checkBand(b); err != nil {
		return 0, err
	}
	return r.extinction[b], nil
}

// LimitingMagnitude returns the V-band naked-eye limiting magnitude.
// It requires the V band in the computation mask.
func (r *Report) LimitingMagnitude() (float64, error) {
	if !r.hasLimiting {
		return 0, fmt.Errorf("%w: band V required for limiting magnitude", ErrBandNotComputed)
	}
	return r.limitingMag, nil
}

// Visible reports whether an object of the given apparent V magnitude is
// above the naked-eye threshold for this sky.
func (r *Report) Visible(apparentMag float64) (bool, error) {
	lim, err := r.LimitingMagnitude()
	if err != nil {
		return false, err
	}
	return apparentMag <= lim, nil
}
