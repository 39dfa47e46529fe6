// Package main provides a one-shot command line sky-quality report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/naoina/toml"

	"go.skyglow.dev/skyglow-api/internal/adapter/store/climate"
	"go.skyglow.dev/skyglow-api/internal/usecase"
)

const version = "0.1.0"

// siteFile is the TOML site description accepted by -site.
type siteFile struct {
	Name        string
	Lat         float64
	Lon         float64
	Elevation   float64
	Temperature float64
	Humidity    float64
}

// Report styling tiers for the limiting magnitude.
const (
	colorDark   = "#7CFC00" // excellent, rural dark sky
	colorDecent = "#FFD700" // suburban
	colorBright = "#FF6347" // badly light- or moon-polluted
	colorDim    = "241"
)

func main() {
	siteTOML := flag.String("site", "", "TOML site file (name, lat, lon, elevation, temperature, humidity)")
	lat := flag.Float64("lat", math.NaN(), "Site latitude, degrees north")
	lon := flag.Float64("lon", math.NaN(), "Site longitude, degrees east")
	elev := flag.Float64("elev", 0, "Site elevation, metres")
	when := flag.String("time", "", "Observation time, RFC3339 (default: now)")
	alt := flag.Float64("alt", 90, "Target altitude above the horizon, degrees")
	az := flag.Float64("az", 0, "Target azimuth from north, degrees")
	temp := flag.Float64("temp", math.NaN(), "Air temperature, Celsius (default: climatology or 10)")
	humidity := flag.Float64("humidity", math.NaN(), "Relative humidity, percent (default: climatology or 40)")
	bands := flag.String("bands", "", "Band letters from UBVRI (default: all)")
	mag := flag.Float64("mag", math.NaN(), "Target V magnitude for a visibility verdict")
	climateDir := flag.String("climate", os.Getenv("CLIMATE_DIR"), "Monthly climatology NetCDF directory")
	asJSON := flag.Bool("json", false, "Emit the raw JSON response instead of the table")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("skyglow version %s\n", version)
		return
	}

	siteName := ""
	if *siteTOML != "" {
		sf, err := loadSiteFile(*siteTOML)
		if err != nil {
			log.Fatal(err)
		}
		siteName = sf.Name
		*lat, *lon, *elev = sf.Lat, sf.Lon, sf.Elevation
		if !math.IsNaN(sf.Temperature) {
			*temp = sf.Temperature
		}
		if !math.IsNaN(sf.Humidity) {
			*humidity = sf.Humidity
		}
	}
	if math.IsNaN(*lat) || math.IsNaN(*lon) {
		log.Fatal("a site is required: pass -lat/-lon or -site file.toml")
	}

	t := time.Now().UTC()
	if *when != "" {
		parsed, err := time.Parse(time.RFC3339, *when)
		if err != nil {
			log.Fatalf("invalid -time (expected RFC3339): %v", err)
		}
		t = parsed.UTC()
	}

	req := usecase.SkyQueryRequest{
		Lat:          lat,
		Lon:          lon,
		Time:         t,
		TargetAltDeg: alt,
		TargetAzDeg:  az,
		ElevationM:   *elev,
		Bands:        *bands,
	}
	if !math.IsNaN(*temp) {
		req.TemperatureC = temp
	}
	if !math.IsNaN(*humidity) {
		req.HumidityPct = humidity
	}
	if !math.IsNaN(*mag) {
		req.TargetMag = mag
	}

	var source usecase.ClimateSource
	if *climateDir != "" {
		if store := climate.NewStore(*climateDir); store.Available() {
			source = store
		}
	}

	resp, err := usecase.NewSkyQueryUseCase(source).Execute(req)
	if err != nil {
		log.Fatal(err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Print(renderReport(siteName, *lat, *lon, t, resp))
}

// loadSiteFile reads and parses a TOML site description. Absent keys are
// reported as NaN so the caller can tell them apart from a legitimate zero;
// lat and lon are required.
func loadSiteFile(path string) (siteFile, error) {
	sf := siteFile{
		Lat:         math.NaN(),
		Lon:         math.NaN(),
		Temperature: math.NaN(),
		Humidity:    math.NaN(),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sf, err
	}
	if err := toml.Unmarshal(data, &sf); err != nil {
		return sf, fmt.Errorf("parse %s: %w", path, err)
	}
	if math.IsNaN(sf.Lat) || math.IsNaN(sf.Lon) {
		return sf, fmt.Errorf("%s: lat and lon are required", path)
	}
	return sf, nil
}

// renderReport formats the response as a styled terminal table.
func renderReport(siteName string, lat, lon float64, t time.Time, resp *usecase.SkyQueryResponse) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	headerStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder

	title := "Sky quality"
	if siteName != "" {
		title += " at " + siteName
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%.4f°, %.4f°   %s   weather: %s",
		lat, lon, t.Format("2006-01-02 15:04 UTC"), resp.Meta["weather"])))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %12s %16s %12s",
		"Band", "k (mag/X)", "Sky (nL)", "Ext (mag)")))
	b.WriteString("\n")
	for _, row := range resp.Bands {
		b.WriteString(fmt.Sprintf("%-6s %12.4f %16.3f %12.4f\n",
			row.Band, row.K, row.BrightnessNL, row.ExtinctionMag))
	}

	if resp.LimitingMagnitude != nil {
		lim := *resp.LimitingMagnitude
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Limiting magnitude: "))
		b.WriteString(limStyle(lim).Render(fmt.Sprintf("%.2f", lim)))
		b.WriteString("\n")
	}
	if resp.TargetVisible != nil {
		verdict := "not visible to the naked eye"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorBright))
		if *resp.TargetVisible {
			verdict = "visible to the naked eye"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDark))
		}
		b.WriteString("Target: ")
		b.WriteString(style.Render(verdict))
		b.WriteString("\n")
	}

	return b.String()
}

// limStyle picks a color tier for the limiting magnitude.
func limStyle(lim float64) lipgloss.Style {
	switch {
	case lim >= 6:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorDark))
	case lim >= 4.5:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorDecent))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBright))
	}
}
