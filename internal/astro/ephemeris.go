// Package astro derives the Sun/Moon geometry the sky-brightness model
// consumes from an observer location and a time, using the Meeus series.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Observer is a ground site. Longitude is east-positive degrees; Meeus'
// west-positive convention is handled internally.
type Observer struct {
	LatDeg     float64
	LonDeg     float64
	ElevationM float64
}

// Geometry holds the luminary positions for one observer and instant.
// Angles are radians, matching the domain package's conventions.
type Geometry struct {
	MoonZenith     float64
	SunZenith      float64
	MoonElongation float64

	// Horizontal coordinates, azimuth measured from north through east,
	// kept for separation calculations against target points.
	moonAz, moonAlt float64
	sunAz, sunAlt   float64
}

// SunMoonGeometry computes apparent Sun and geocentric Moon positions for
// the observer at time t and reduces them to zenith angles and elongation.
// The Moon position ignores topocentric parallax (up to ~1 degree), which is
// within the tolerance of the brightness model's empirical terms.
func SunMoonGeometry(obs Observer, t time.Time) Geometry {
	jd := julian.TimeToJD(t.UTC())

	sunRA, sunDec := solar.ApparentEquatorial(jd)
	sunEq := &coord.Equatorial{RA: sunRA, Dec: sunDec}

	moonLon, moonLat, _ := moonposition.Position(jd)
	obliquity := coord.NewObliquity(nutation.MeanObliquity(jd))
	moonEq := new(coord.Equatorial).EclToEq(
		&coord.Ecliptic{Lon: moonLon, Lat: moonLat}, obliquity)

	st := sidereal.Apparent(jd)
	site := &globe.Coord{
		Lat: unit.AngleFromDeg(obs.LatDeg),
		Lon: unit.AngleFromDeg(-obs.LonDeg), // Meeus longitudes are west-positive.
	}

	sunAz, sunAlt := toHorizontal(sunEq, site, st)
	moonAz, moonAlt := toHorizontal(moonEq, site, st)

	elong := angle.Sep(unit.Angle(sunEq.RA), sunEq.Dec, unit.Angle(moonEq.RA), moonEq.Dec)

	return Geometry{
		MoonZenith:     math.Pi/2 - moonAlt,
		SunZenith:      math.Pi/2 - sunAlt,
		MoonElongation: elong.Rad(),
		moonAz:         moonAz,
		moonAlt:        moonAlt,
		sunAz:          sunAz,
		sunAlt:         sunAlt,
	}
}

// toHorizontal reduces an equatorial position to north-referenced azimuth
// and altitude, both in radians.
func toHorizontal(eq *coord.Equatorial, site *globe.Coord, st unit.Time) (az, alt float64) {
	hz := new(coord.Horizontal).EqToHz(eq, site, st)
	// Meeus measures azimuth from south through west; shift to from-north.
	az = math.Mod(hz.Az.Rad()+math.Pi, 2*math.Pi)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az, hz.Alt.Rad()
}

// TargetSeparations returns the angular separations (radians) from a target
// point, given as north-referenced azimuth and altitude in degrees, to the
// Moon and the Sun.
func (g Geometry) TargetSeparations(targetAzDeg, targetAltDeg float64) (moonDist, sunDist float64) {
	az := targetAzDeg * math.Pi / 180
	alt := targetAltDeg * math.Pi / 180
	moonDist = sphereSep(az, alt, g.moonAz, g.moonAlt)
	sunDist = sphereSep(az, alt, g.sunAz, g.sunAlt)
	return moonDist, sunDist
}

// sphereSep is the great-circle separation between two az/alt directions.
func sphereSep(az1, alt1, az2, alt2 float64) float64 {
	cosSep := math.Sin(alt1)*math.Sin(alt2) +
		math.Cos(alt1)*math.Cos(alt2)*math.Cos(az1-az2)
	// Clamp against floating point drift before acos.
	cosSep = math.Max(-1, math.Min(1, cosSep))
	return math.Acos(cosSep)
}
