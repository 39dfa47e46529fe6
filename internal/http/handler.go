package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.skyglow.dev/skyglow-api/internal/domain"
	"go.skyglow.dev/skyglow-api/internal/usecase"
)

// Handler handles HTTP requests for sky-quality queries.
type Handler struct {
	skyUC *usecase.SkyQueryUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(skyUC *usecase.SkyQueryUseCase) *Handler {
	return &Handler{skyUC: skyUC}
}

// GetSkyBrightness handles GET /v1/sky/brightness.
func (h *Handler) GetSkyBrightness(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	resp, err := h.skyUC.Execute(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetLimitingMagnitude handles GET /v1/sky/limiting-magnitude. It forces the
// V band into the computation and returns the scalar threshold plus the
// optional visibility verdict.
func (h *Handler) GetLimitingMagnitude(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}
	// Limiting magnitude is defined on the V band.
	req.Bands = "V"

	resp, err := h.skyUC.Execute(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := gin.H{
		"limiting_magnitude": resp.LimitingMagnitude,
		"meta":               resp.Meta,
	}
	if resp.TargetVisible != nil {
		out["target_visible"] = *resp.TargetVisible
	}
	c.JSON(http.StatusOK, out)
}

// BandInfo is the response row for listing bands.
type BandInfo struct {
	Band          string  `json:"band"`
	Description   string  `json:"description"`
	RayleighScale float64 `json:"rayleigh_scale"`
	AerosolScale  float64 `json:"aerosol_scale"`
	OzoneScale    float64 `json:"ozone_scale"`
	WaterScale    float64 `json:"water_scale"`
	DarkSky       float64 `json:"dark_sky_brightness"`
	SolarMag      float64 `json:"solar_magnitude"`
}

// GetBands handles GET /v1/bands: the model's per-band constant tables.
func (h *Handler) GetBands(c *gin.Context) {
	descriptions := map[string]string{
		"U": "Johnson U, ultraviolet ~365 nm",
		"B": "Johnson B, blue ~440 nm",
		"V": "Johnson V, visual ~550 nm",
		"R": "Cousins R, red ~700 nm",
		"I": "Cousins I, near-infrared ~900 nm",
	}

	tables := domain.BandTables()
	response := make([]BandInfo, len(tables))
	for i, tb := range tables {
		response[i] = BandInfo{
			Band:          tb.Band.String(),
			Description:   descriptions[tb.Band.String()],
			RayleighScale: tb.RayleighScale,
			AerosolScale:  tb.AerosolScale,
			OzoneScale:    tb.OzoneScale,
			WaterScale:    tb.WaterScale,
			DarkSky:       tb.DarkSky,
			SolarMag:      tb.SolarMag,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"bands": response,
		"count": len(response),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// parseRequest maps query parameters onto a SkyQueryRequest. On a parse
// failure it writes the 400 response and returns ok=false.
func (h *Handler) parseRequest(c *gin.Context) (usecase.SkyQueryRequest, bool) {
	req := usecase.SkyQueryRequest{
		Bands: c.Query("bands"),
		Body:  c.Query("body"),
	}

	floatParams := []struct {
		name string
		dst  **float64
	}{
		{"lat", &req.Lat},
		{"lon", &req.Lon},
		{"alt", &req.TargetAltDeg},
		{"az", &req.TargetAzDeg},
		{"moon_zenith", &req.MoonZenithDeg},
		{"sun_zenith", &req.SunZenithDeg},
		{"moon_elongation", &req.MoonElongationDeg},
		{"zenith", &req.TargetZenithDeg},
		{"moon_sep", &req.MoonSepDeg},
		{"sun_sep", &req.SunSepDeg},
		{"temp", &req.TemperatureC},
		{"humidity", &req.HumidityPct},
		{"mag", &req.TargetMag},
	}
	for _, p := range floatParams {
		s := c.Query(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", p.name, err)})
			return req, false
		}
		*p.dst = &v
	}

	if s := c.Query("elev"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid elev: %v", err)})
			return req, false
		}
		req.ElevationM = v
	}

	intParams := []struct {
		name string
		dst  *int
	}{
		{"year", &req.Year},
		{"month", &req.Month},
	}
	for _, p := range intParams {
		s := c.Query(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", p.name, err)})
			return req, false
		}
		*p.dst = v
	}

	if s := c.Query("time"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid time (expected RFC3339): %v", err)})
			return req, false
		}
		req.Time = ts.UTC()
	}

	return req, true
}
