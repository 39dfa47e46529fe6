package domain

import "math"

// belowHorizonAirMass is the saturating airmass used when the line of sight
// drops at or below the horizon (cos(zenith) <= 0), where the plane-parallel
// formula would go negative or infinite.
const belowHorizonAirMass = 40.0

// nanolambertUnit converts the model's linear brightness units to
// nanolamberts: nL = brightness / nanolambertUnit.
const nanolambertUnit = 1.11e-15

// MagToBrightness converts a magnitude difference to a linear brightness
// ratio: 10^(-0.4*m). Exact inverse of BrightnessToMag.
func MagToBrightness(m float64) float64 {
	return math.Exp(-0.4 * m * math.Ln10)
}

// BrightnessToMag converts a linear brightness ratio to magnitudes:
// -2.5*log10(b). Exact inverse of MagToBrightness.
func BrightnessToMag(b float64) float64 {
	return -2.5 * math.Log10(b)
}

// AirMass returns the relative atmospheric path length along a line of sight
// at the given zenith angle (radians). For zenith angles at or past the
// horizon it returns the saturating fallback of 40 airmasses.
func AirMass(zenith float64) float64 {
	cosZ := math.Cos(zenith)
	if cosZ <= 0 {
		return belowHorizonAirMass
	}
	return 1 / (cosZ + 0.025*math.Exp(-11*cosZ))
}

// scatterF is Schaefer's scattering falloff toward a luminary at angular
// distance rho (radians): an inverse-square aureole term, an exponential
// forward-scattering term, and a Rayleigh polarization term.
// Singular at rho = 0; callers must reject zero separations.
func scatterF(rho float64) float64 {
	rhoDeg := rho * 180 / math.Pi
	cosRho := math.Cos(rho)
	return 6.2e7/(rhoDeg*rhoDeg) +
		math.Pow(10, 6.15-rhoDeg/40) +
		229086*(1.06+cosRho*cosRho)
}

// gasAirMass is the airmass for molecular (Rayleigh + water vapor)
// extinction along the line of sight to the target.
func gasAirMass(cosZ float64) float64 {
	return 1 / (cosZ + 0.0286*math.Exp(-10.5*cosZ))
}

// aerosolAirMass is the airmass for aerosol extinction.
func aerosolAirMass(cosZ float64) float64 {
	return 1 / (cosZ + 0.0123*math.Exp(-24.5*cosZ))
}

// ozoneAirMass is the airmass through the ozone layer, modeled as a thin
// shell 20 km above an Earth of radius 6378 km.
func ozoneAirMass(sinZ float64) float64 {
	t := sinZ / (1 + 20.0/6378.0)
	return 1 / math.Sqrt(1-t*t)
}
