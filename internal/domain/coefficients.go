package domain

import (
	"fmt"
	"math"
)

// Coefficients holds the band-dependent extinction components and the
// session-level intermediate terms derived from SiteConditions. It is an
// immutable value: build a new one when the conditions change.
type Coefficients struct {
	mask BandMask
	site SiteConditions

	// Per-band extinction components in mag/airmass, and their sum.
	Rayleigh [NumBands]float64
	Aerosol  [NumBands]float64
	Ozone    [NumBands]float64
	Water    [NumBands]float64
	Total    [NumBands]float64

	// Airmass along the line of sight to each luminary.
	AirMassMoon float64
	AirMassSun  float64

	// YearTerm modulates the airglow with the ~11-year solar cycle.
	YearTerm float64
	// LunarMag is the Moon's apparent V magnitude at the session elongation.
	LunarMag float64

	// Brightness dropoff of luminary light along the path to the Moon/Sun,
	// per band (extinction toward the scatterer, not toward the target).
	moonPathLoss [NumBands]float64
	sunPathLoss  [NumBands]float64
}

// ComputeCoefficients derives the extinction coefficients and session terms
// for every band selected by mask. Bands outside the mask are left zero and
// are not readable through Report accessors.
func ComputeCoefficients(site SiteConditions, mask BandMask) (*Coefficients, error) {
	if mask&AllBands == 0 {
		return nil, ErrEmptyMask
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site conditions: %w", err)
	}

	c := &Coefficients{mask: mask & AllBands, site: site}

	monthAngle := float64(site.Month-3) * math.Pi / 6

	// Component bases before per-band scaling.
	kr := 0.1066 * math.Exp(-site.HeightM/8200)

	ka := 0.1 * math.Exp(-site.HeightM/1500)
	if rh := site.clampedHumidity(); rh > 0 {
		// The factor diverges as rh -> 100; pin it to a large saturating
		// value there instead of evaluating log(0).
		humidityFactor := 1e6
		if rh < 100 {
			humidityFactor = 1 - 0.32/math.Log(rh/100)
		}
		ka *= math.Exp(1.33 * math.Log(humidityFactor))
	}
	// Seasonal aerosol asymmetry, mirrored between hemispheres.
	if site.Latitude < 0 {
		ka *= 1 - math.Sin(monthAngle)
	} else {
		ka *= 1 + math.Sin(monthAngle)
	}

	// Published form of the seasonal/latitudinal ozone term. The latitude
	// enters in radians here; that is how the source formula reads and the
	// coefficients are tuned to it, so it is kept verbatim.
	ko := (3 + 0.4*(site.Latitude*math.Cos(monthAngle)-math.Cos(3*site.Latitude))) / 3

	kw := 0.94 * (site.clampedHumidity() / 100) *
		math.Exp(site.TemperatureC/15) * math.Exp(-site.HeightM/8200)

	c.YearTerm = 1 + 0.3*math.Cos(2*math.Pi*float64(site.Year-1992)/11)
	c.AirMassMoon = AirMass(site.MoonZenith)
	c.AirMassSun = AirMass(site.SunZenith)

	elongDeg := site.MoonElongation * 180 / math.Pi
	c.LunarMag = -12.73 + elongDeg*(0.026+4e-9*elongDeg*elongDeg*elongDeg)

	for b := Band(0); b < NumBands; b++ {
		if !c.mask.Has(b) {
			continue
		}
		c.Rayleigh[b] = kr * rayleighScale[b]
		c.Aerosol[b] = ka * aerosolScale[b]
		c.Ozone[b] = ko * ozoneScale[b]
		c.Water[b] = kw * waterScale[b]
		c.Total[b] = c.Rayleigh[b] + c.Aerosol[b] + c.Ozone[b] + c.Water[b]

		c.moonPathLoss[b] = MagToBrightness(c.Total[b] * c.AirMassMoon)
		c.sunPathLoss[b] = MagToBrightness(c.Total[b] * c.AirMassSun)
	}

	return c, nil
}

// Mask returns the band mask the coefficients were computed for.
func (c *Coefficients) Mask() BandMask {
	return c.mask
}

// ExtinctionCoefficient returns the total extinction coefficient k for a
// band, in mag/airmass.
func (c *Coefficients) ExtinctionCoefficient(b Band) (float64, error) {
	if err := c.checkBand(b); err != nil {
		return 0, err
	}
	return c.Total[b], nil
}

func (c *Coefficients) checkBand(b Band) error {
	if !b.Valid() {
		return fmt.Errorf("%w: index %d", ErrInvalidBand, int(b))
	}
	if !c.mask.Has(b) {
		return fmt.Errorf("%w: band %s", ErrBandNotComputed, b)
	}
	return nil
}
