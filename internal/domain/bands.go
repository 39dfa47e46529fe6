package domain

import (
	"errors"
	"fmt"
)

// Band identifies a Johnson-Cousins photometric band.
type Band int

// The five bands, in wavelength order. The numeric values index every
// per-band table and result array in this package.
const (
	BandU Band = iota // Ultraviolet, ~365 nm.
	BandB             // Blue, ~440 nm.
	BandV             // Visual, ~550 nm. Limiting magnitude is derived here.
	BandR             // Red, ~700 nm.
	BandI             // Infrared, ~900 nm.
)

// NumBands is the number of photometric bands the model covers.
const NumBands = 5

var bandNames = [NumBands]string{"U", "B", "V", "R", "I"}

func (b Band) String() string {
	if b < 0 || b >= NumBands {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return bandNames[b]
}

// Valid reports whether b indexes one of the five bands.
func (b Band) Valid() bool {
	return b >= 0 && b < NumBands
}

// ParseBand maps a single band letter (case sensitive, "U".."I") to a Band.
func ParseBand(s string) (Band, error) {
	for i, name := range bandNames {
		if s == name {
			return Band(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBand, s)
}

// BandMask selects the subset of bands a computation populates.
// Bit i corresponds to Band(i).
type BandMask uint8

// AllBands selects U, B, V, R and I.
const AllBands BandMask = 1<<NumBands - 1

// MaskOf builds a mask from individual bands.
func MaskOf(bands ...Band) BandMask {
	var m BandMask
	for _, b := range bands {
		if b.Valid() {
			m |= 1 << uint(b)
		}
	}
	return m
}

// Has reports whether band b is selected by the mask.
func (m BandMask) Has(b Band) bool {
	return b.Valid() && m&(1<<uint(b)) != 0
}

// Bands returns the selected bands in index order.
func (m BandMask) Bands() []Band {
	out := make([]Band, 0, NumBands)
	for b := Band(0); b < NumBands; b++ {
		if m.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

// Errors reported by the sky-brightness model.
var (
	// ErrInvalidBand is returned for a band index outside [0,4].
	ErrInvalidBand = errors.New("invalid band")
	// ErrBandNotComputed is returned when a result is queried for a band
	// that was not selected by the computation mask.
	ErrBandNotComputed = errors.New("band not selected by computation mask")
	// ErrEmptyMask is returned when a computation is requested with a mask
	// that selects no bands.
	ErrEmptyMask = errors.New("band mask selects no bands")
	// ErrZeroSeparation is returned when the target coincides with the Moon
	// or the Sun; the scattering function is singular at zero separation.
	ErrZeroSeparation = errors.New("angular separation to Moon/Sun must be positive")
	// ErrInvalidMonth is returned for a calendar month outside 1..12.
	ErrInvalidMonth = errors.New("month must be in 1..12")
)

// Per-band scaling tables for the extinction components and the brightness
// terms, indexed U,B,V,R,I and normalized to the V band.
// Reference: Schaefer, "Telescopic limiting magnitudes" (PASP 102, 1990),
// and Garstang's night-sky brightness model.
var (
	// rayleighScale is the (550nm/λ)^4 Rayleigh scattering term.
	rayleighScale = [NumBands]float64{5.155601, 2.441406, 1.0, 0.381117, 0.139470}
	// aerosolScale is the (550nm/λ)^1.3 aerosol scattering term.
	aerosolScale = [NumBands]float64{1.704083, 1.336543, 1.0, 0.730877, 0.527177}
	// ozoneScale is the Chappuis-band ozone absorption (mag/airmass).
	ozoneScale = [NumBands]float64{0, 0, 0.031, 0.008, 0}
	// waterScale is the water-vapor absorption term.
	waterScale = [NumBands]float64{0.074, 0.045, 0.031, 0.020, 0.015}
	// darkSkyBrightness is the zenith dark-sky (airglow) brightness b₀.
	darkSkyBrightness = [NumBands]float64{8.0e-14, 7.0e-14, 1.0e-13, 1.0e-13, 3.0e-13}
	// moonMagCorrection converts the lunar V magnitude to each band.
	moonMagCorrection = [NumBands]float64{1.36, 0.91, 0.00, -0.76, -1.17}
	// solarMag is the apparent magnitude of the Sun per band.
	solarMag = [NumBands]float64{-25.96, -26.09, -26.74, -27.26, -27.55}
	// lunarMagZero is the per-band brightness normalization magnitude m₀.
	lunarMagZero = [NumBands]float64{-10.93, -10.45, -11.05, -11.90, -12.70}
)

// BandTable describes one band's fixed model constants, for reporting.
type BandTable struct {
	Band          Band
	RayleighScale float64
	AerosolScale  float64
	OzoneScale    float64
	WaterScale    float64
	DarkSky       float64
	MoonMagCorr   float64
	SolarMag      float64
}

// BandTables returns the model constants for all five bands.
func BandTables() []BandTable {
	out := make([]BandTable, NumBands)
	for b := Band(0); b < NumBands; b++ {
		out[b] = BandTable{
			Band:          b,
			RayleighScale: rayleighScale[b],
			AerosolScale:  aerosolScale[b],
			OzoneScale:    ozoneScale[b],
			WaterScale:    waterScale[b],
			DarkSky:       darkSkyBrightness[b],
			MoonMagCorr:   moonMagCorrection[b],
			SolarMag:      solarMag[b],
		}
	}
	return out
}
