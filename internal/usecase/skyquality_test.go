package usecase

import (
	"strings"
	"testing"
	"time"
)

func f(v float64) *float64 { return &v }

// explicitNightRequest mirrors the dark moonless-night reference scenario in
// degrees: moon on the horizon, sun well below, mid-latitude sea-level site.
func explicitNightRequest() SkyQueryRequest {
	return SkyQueryRequest{
		MoonZenithDeg:     f(90),
		SunZenithDeg:      f(114.6),
		MoonElongationDeg: f(0),
		TargetZenithDeg:   f(0),
		MoonSepDeg:        f(90),
		SunSepDeg:         f(114.6),
		Lat:               f(40.1),
		Year:              2000,
		Month:             6,
		TemperatureC:      f(15),
		HumidityPct:       f(50),
	}
}

// TestValidate covers the request validation rules.
func TestValidate(t *testing.T) {
	// Neither mode.
	if err := (&SkyQueryRequest{}).Validate(); err == nil {
		t.Error("empty request: expected error")
	}

	// Both modes at once.
	req := explicitNightRequest()
	req.Lon = f(-75)
	req.Time = time.Now()
	req.TargetAltDeg = f(45)
	req.TargetAzDeg = f(180)
	if err := req.Validate(); err == nil {
		t.Error("both modes: expected error")
	}

	// Observer off Earth.
	req = explicitNightRequest()
	req.Body = "mars"
	if err := req.Validate(); err == nil || !strings.Contains(err.Error(), "Earth") {
		t.Errorf("mars observer: expected Earth error, got %v", err)
	}

	// Bad latitude in ephemeris mode.
	req = SkyQueryRequest{
		Lat: f(95), Lon: f(0), Time: time.Now(),
		TargetAltDeg: f(45), TargetAzDeg: f(0),
	}
	if err := req.Validate(); err == nil {
		t.Error("latitude 95: expected error")
	}

	// Bad band letters.
	req = explicitNightRequest()
	req.Bands = "VX"
	if err := req.Validate(); err == nil {
		t.Error("band X: expected error")
	}

	// Humidity out of range.
	req = explicitNightRequest()
	req.HumidityPct = f(120)
	if err := req.Validate(); err == nil {
		t.Error("humidity 120: expected error")
	}

	// Zero separation.
	req = explicitNightRequest()
	req.MoonSepDeg = f(0)
	if err := req.Validate(); err == nil {
		t.Error("moon separation 0: expected error")
	}

	req = explicitNightRequest()
	if err := req.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

// TestExecute_ExplicitNight runs the reference scenario end to end.
func TestExecute_ExplicitNight(t *testing.T) {
	uc := NewSkyQueryUseCase(nil)

	resp, err := uc.Execute(explicitNightRequest())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if resp.Mode != "explicit" {
		t.Errorf("mode: expected explicit, got %q", resp.Mode)
	}
	if len(resp.Bands) != 5 {
		t.Fatalf("expected 5 band rows, got %d", len(resp.Bands))
	}
	for _, row := range resp.Bands {
		if row.K <= 0 {
			t.Errorf("band %s: k = %g, expected > 0", row.Band, row.K)
		}
		if row.BrightnessNL <= 0 {
			t.Errorf("band %s: brightness = %g, expected > 0", row.Band, row.BrightnessNL)
		}
	}
	if resp.LimitingMagnitude == nil {
		t.Fatal("limiting magnitude missing")
	}
	if *resp.LimitingMagnitude < 5.5 || *resp.LimitingMagnitude > 7.0 {
		t.Errorf("limiting magnitude %.2f outside dark-sky range", *resp.LimitingMagnitude)
	}
	if resp.Meta["weather"] != "request" {
		t.Errorf("weather source: expected request, got %q", resp.Meta["weather"])
	}
}

// TestExecute_BandSelection verifies the band mask narrows the response and
// that dropping V also drops the limiting magnitude.
func TestExecute_BandSelection(t *testing.T) {
	uc := NewSkyQueryUseCase(nil)

	req := explicitNightRequest()
	req.Bands = "V"
	resp, err := uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute (V): %v", err)
	}
	if len(resp.Bands) != 1 || resp.Bands[0].Band != "V" {
		t.Errorf("expected single V row, got %+v", resp.Bands)
	}
	if resp.LimitingMagnitude == nil {
		t.Error("V mask should include limiting magnitude")
	}

	req.Bands = "BR"
	resp, err = uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute (BR): %v", err)
	}
	if len(resp.Bands) != 2 {
		t.Errorf("expected B and R rows, got %+v", resp.Bands)
	}
	if resp.LimitingMagnitude != nil {
		t.Error("mask without V must not report a limiting magnitude")
	}
}

// TestExecute_VisibilityPredicate checks the naked-eye flag.
func TestExecute_VisibilityPredicate(t *testing.T) {
	uc := NewSkyQueryUseCase(nil)

	req := explicitNightRequest()
	req.TargetMag = f(3.0)
	resp, err := uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.TargetVisible == nil || !*resp.TargetVisible {
		t.Error("3rd magnitude object should be visible under a dark sky")
	}

	req.TargetMag = f(20.0)
	resp, err = uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.TargetVisible == nil || *resp.TargetVisible {
		t.Error("20th magnitude object should not be naked-eye visible")
	}
}

// fakeClimate is a canned ClimateSource.
type fakeClimate struct {
	temp, hum float64
}

func (c fakeClimate) Conditions(lat, lon float64, month int) (float64, float64, error) {
	return c.temp, c.hum, nil
}

func (c fakeClimate) Available() bool { return true }

// TestExecute_ClimatologyFallback verifies the weather resolution order:
// request measurements beat climatology, climatology beats defaults.
func TestExecute_ClimatologyFallback(t *testing.T) {
	uc := NewSkyQueryUseCase(fakeClimate{temp: 0, hum: 80})

	req := explicitNightRequest()
	req.Lon = f(-74.5)
	req.TemperatureC = nil
	req.HumidityPct = nil
	resp, err := uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Meta["weather"] != "climatology" {
		t.Errorf("weather source: expected climatology, got %q", resp.Meta["weather"])
	}

	// Explicit measurements win.
	req.TemperatureC = f(15)
	req.HumidityPct = f(50)
	resp, err = uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Meta["weather"] != "request" {
		t.Errorf("weather source: expected request, got %q", resp.Meta["weather"])
	}

	// No climate source and no measurements: defaults.
	req.TemperatureC = nil
	req.HumidityPct = nil
	resp, err = NewSkyQueryUseCase(nil).Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Meta["weather"] != "default" {
		t.Errorf("weather source: expected default, got %q", resp.Meta["weather"])
	}
}

// TestExecute_EphemerisMode runs a full ephemeris-mode query for a winter
// night on the US east coast.
func TestExecute_EphemerisMode(t *testing.T) {
	uc := NewSkyQueryUseCase(nil)

	req := SkyQueryRequest{
		Lat:          f(40.0),
		Lon:          f(-75.0),
		Time:         time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC), // 22:00 local.
		TargetAltDeg: f(90),
		TargetAzDeg:  f(0),
	}
	resp, err := uc.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if resp.Mode != "ephemeris" {
		t.Errorf("mode: expected ephemeris, got %q", resp.Mode)
	}
	if len(resp.Bands) != 5 {
		t.Fatalf("expected 5 band rows, got %d", len(resp.Bands))
	}
	if resp.LimitingMagnitude == nil {
		t.Fatal("limiting magnitude missing")
	}
	// Night sky, waning gibbous moon: somewhere between moonlit and dark.
	if *resp.LimitingMagnitude < 3.5 || *resp.LimitingMagnitude > 7.5 {
		t.Errorf("limiting magnitude %.2f outside plausible night range", *resp.LimitingMagnitude)
	}
}
