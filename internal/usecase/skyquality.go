package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.skyglow.dev/skyglow-api/internal/astro"
	"go.skyglow.dev/skyglow-api/internal/domain"
)

// Weather defaults used when a request carries no measurements and no
// climatology grid covers the site.
const (
	defaultTemperatureC = 10.0
	defaultHumidityPct  = 40.0
)

// ClimateSource supplies climatological weather for a site and month.
type ClimateSource interface {
	Conditions(lat, lon float64, month int) (temperatureC, humidity float64, err error)
	Available() bool
}

// SkyQueryRequest describes one sky-quality query. Two mutually exclusive
// modes are supported:
//
//   - ephemeris mode: Lat/Lon/Time plus a target Alt/Az; the Sun and Moon
//     geometry is computed internally.
//   - explicit mode: all six geometry angles are given directly, in degrees.
type SkyQueryRequest struct {
	// Ephemeris mode.
	Lat          *float64  // Site latitude, degrees.
	Lon          *float64  // Site longitude, degrees east.
	Time         time.Time // Observation time (UTC recommended).
	TargetAltDeg *float64  // Target altitude above horizon, degrees.
	TargetAzDeg  *float64  // Target azimuth from north, degrees.

	// Explicit mode (all angles in degrees).
	MoonZenithDeg     *float64
	SunZenithDeg      *float64
	MoonElongationDeg *float64
	TargetZenithDeg   *float64
	MoonSepDeg        *float64
	SunSepDeg         *float64
	Year              int // Required in explicit mode.
	Month             int // Required in explicit mode.

	// Common optional parameters.
	ElevationM   float64
	TemperatureC *float64
	HumidityPct  *float64
	Bands        string   // Band letters, e.g. "V" or "BVR". Empty = all.
	Body         string   // Observer body; only "earth" is meaningful.
	TargetMag    *float64 // Apparent V magnitude for the visibility check.
}

// BandResult is one band's row in the response.
type BandResult struct {
	Band          string  `json:"band"`
	K             float64 `json:"k_mag_per_airmass"`
	BrightnessNL  float64 `json:"sky_brightness_nl"`
	ExtinctionMag float64 `json:"extinction_mag"`
}

// SkyQueryResponse is the JSON-friendly result of a query.
type SkyQueryResponse struct {
	Mode              string            `json:"mode"`
	Bands             []BandResult      `json:"bands"`
	LimitingMagnitude *float64          `json:"limiting_magnitude,omitempty"`
	TargetVisible     *bool             `json:"target_visible,omitempty"`
	Meta              map[string]string `json:"meta"`
}

// SkyQueryUseCase orchestrates geometry resolution, weather lookup and the
// brightness model.
type SkyQueryUseCase struct {
	climate ClimateSource // May be nil.
}

// NewSkyQueryUseCase creates the use case. climate may be nil, in which case
// weather defaults apply.
func NewSkyQueryUseCase(climate ClimateSource) *SkyQueryUseCase {
	return &SkyQueryUseCase{climate: climate}
}

// ephemerisMode reports whether the request carries the ephemeris-mode
// parameters.
func (r *SkyQueryRequest) ephemerisMode() bool {
	return r.Lat != nil && r.Lon != nil && !r.Time.IsZero() &&
		r.TargetAltDeg != nil && r.TargetAzDeg != nil
}

// explicitMode reports whether the request carries the full explicit
// geometry.
func (r *SkyQueryRequest) explicitMode() bool {
	return r.MoonZenithDeg != nil && r.SunZenithDeg != nil &&
		r.MoonElongationDeg != nil && r.TargetZenithDeg != nil &&
		r.MoonSepDeg != nil && r.SunSepDeg != nil
}

// Validate checks the request before execution.
func (r *SkyQueryRequest) Validate() error {
	if body := strings.ToLower(strings.TrimSpace(r.Body)); body != "" && body != "earth" {
		return fmt.Errorf("observer must be on Earth, got body %q", r.Body)
	}

	eph, exp := r.ephemerisMode(), r.explicitMode()
	if eph && exp {
		return fmt.Errorf("ephemeris parameters (lat/lon/time/alt/az) and explicit geometry are mutually exclusive")
	}
	if !eph && !exp {
		return fmt.Errorf("either lat/lon/time/alt/az or the full explicit geometry must be provided")
	}

	if eph {
		if *r.Lat < -90 || *r.Lat > 90 {
			return fmt.Errorf("latitude must be between -90 and 90")
		}
		if *r.Lon < -180 || *r.Lon > 180 {
			return fmt.Errorf("longitude must be between -180 and 180")
		}
		if *r.TargetAltDeg < 0 || *r.TargetAltDeg > 90 {
			return fmt.Errorf("target altitude must be between 0 and 90")
		}
	} else {
		if r.Month < 1 || r.Month > 12 {
			return fmt.Errorf("month must be between 1 and 12")
		}
		if r.Year == 0 {
			return fmt.Errorf("year is required with explicit geometry")
		}
		if *r.MoonSepDeg <= 0 || *r.SunSepDeg <= 0 {
			return fmt.Errorf("moon and sun separations must be positive")
		}
	}

	if r.HumidityPct != nil && (*r.HumidityPct < 0 || *r.HumidityPct > 100) {
		return fmt.Errorf("humidity must be between 0 and 100")
	}

	if _, err := parseBandMask(r.Bands); err != nil {
		return err
	}
	return nil
}

// Execute runs a validated query.
func (uc *SkyQueryUseCase) Execute(req SkyQueryRequest) (*SkyQueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	mask, err := parseBandMask(req.Bands)
	if err != nil {
		return nil, err
	}

	site, target, mode, err := uc.resolveGeometry(req)
	if err != nil {
		return nil, err
	}

	weatherSource := uc.resolveWeather(&site, req, mode)

	report, err := domain.Compute(site, target, mask)
	if err != nil {
		return nil, fmt.Errorf("sky model: %w", err)
	}

	resp := &SkyQueryResponse{
		Mode:  mode,
		Bands: make([]BandResult, 0, domain.NumBands),
		Meta: map[string]string{
			"model":   "schaefer_v1",
			"weather": weatherSource,
		},
	}

	for _, b := range mask.Bands() {
		k, err := report.ExtinctionCoefficient(b)
		if err != nil {
			return nil, err
		}
		nl, err := report.SkyBrightnessNL(b)
		if err != nil {
			return nil, err
		}
		ext, err := report.Extinction(b)
		if err != nil {
			return nil, err
		}
		resp.Bands = append(resp.Bands, BandResult{
			Band:          b.String(),
			K:             roundTo(k, 4),
			BrightnessNL:  roundTo(nl, 3),
			ExtinctionMag: roundTo(ext, 4),
		})
	}

	if mask.Has(domain.BandV) {
		lim, err := report.LimitingMagnitude()
		if err != nil {
			return nil, err
		}
		limRounded := roundTo(lim, 2)
		resp.LimitingMagnitude = &limRounded

		if req.TargetMag != nil {
			visible, err := report.Visible(*req.TargetMag)
			if err != nil {
				return nil, err
			}
			resp.TargetVisible = &visible
		}
	}

	return resp, nil
}

// resolveGeometry builds the model inputs for either request mode.
func (uc *SkyQueryUseCase) resolveGeometry(req SkyQueryRequest) (domain.SiteConditions, domain.SkyTarget, string, error) {
	if req.ephemerisMode() {
		obs := astro.Observer{LatDeg: *req.Lat, LonDeg: *req.Lon, ElevationM: req.ElevationM}
		t := req.Time.UTC()
		g := astro.SunMoonGeometry(obs, t)
		moonDist, sunDist := g.TargetSeparations(*req.TargetAzDeg, *req.TargetAltDeg)

		site := domain.SiteConditions{
			MoonZenith:     g.MoonZenith,
			SunZenith:      g.SunZenith,
			MoonElongation: g.MoonElongation,
			HeightM:        req.ElevationM,
			Latitude:       *req.Lat * math.Pi / 180,
			Year:           t.Year(),
			Month:          int(t.Month()),
		}
		target := domain.SkyTarget{
			Zenith:   (90 - *req.TargetAltDeg) * math.Pi / 180,
			MoonDist: moonDist,
			SunDist:  sunDist,
		}
		return site, target, "ephemeris", nil
	}

	deg := math.Pi / 180
	site := domain.SiteConditions{
		MoonZenith:     *req.MoonZenithDeg * deg,
		SunZenith:      *req.SunZenithDeg * deg,
		MoonElongation: *req.MoonElongationDeg * deg,
		HeightM:        req.ElevationM,
		Year:           req.Year,
		Month:          req.Month,
	}
	if req.Lat != nil {
		site.Latitude = *req.Lat * deg
	}
	target := domain.SkyTarget{
		Zenith:   *req.TargetZenithDeg * deg,
		MoonDist: *req.MoonSepDeg * deg,
		SunDist:  *req.SunSepDeg * deg,
	}
	return site, target, "explicit", nil
}

// resolveWeather fills temperature and humidity from the request, the
// climatology store, or the defaults, in that order of preference.
func (uc *SkyQueryUseCase) resolveWeather(site *domain.SiteConditions, req SkyQueryRequest, mode string) string {
	site.TemperatureC = defaultTemperatureC
	site.RelHumidity = defaultHumidityPct
	source := "default"

	if uc.climate != nil && uc.climate.Available() && req.Lat != nil && req.Lon != nil {
		if temp, hum, err := uc.climate.Conditions(*req.Lat, *req.Lon, site.Month); err == nil {
			site.TemperatureC = temp
			site.RelHumidity = hum
			source = "climatology"
		}
	}

	if req.TemperatureC != nil {
		site.TemperatureC = *req.TemperatureC
		source = "request"
	}
	if req.HumidityPct != nil {
		site.RelHumidity = *req.HumidityPct
		source = "request"
	}
	return source
}

// parseBandMask parses a band-letter string ("V", "UBV", ...) into a mask.
// Empty selects all bands.
func parseBandMask(s string) (domain.BandMask, error) {
	if s == "" {
		return domain.AllBands, nil
	}
	var mask domain.BandMask
	for _, ch := range strings.ToUpper(s) {
		b, err := domain.ParseBand(string(ch))
		if err != nil {
			return 0, fmt.Errorf("invalid band %q (expected letters from UBVRI)", string(ch))
		}
		mask |= domain.MaskOf(b)
	}
	return mask, nil
}

// roundTo rounds to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	m := math.Pow(10, float64(places))
	return math.Round(v*m) / m
}
