// Package climate provides monthly site-climatology lookups (temperature and
// relative humidity) from gridded NetCDF files. The sky-brightness service
// falls back to these grids when a request does not carry measured weather.
package climate

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.skyglow.dev/skyglow-api/internal/adapter/interp"
)

// Variable name candidates tried in order when opening a grid file.
var (
	latNames         = []string{"lat", "latitude", "y"}
	lonNames         = []string{"lon", "longitude", "x"}
	temperatureNames = []string{"temperature", "t2m", "tas", "data"}
	humidityNames    = []string{"humidity", "rh", "hurs", "data"}
)

// Store reads monthly climatology grids from a directory of NetCDF files
// named temperature_MM.nc and humidity_MM.nc (MM = 01..12). Grids are cached
// after first load.
type Store struct {
	dataDir string
	cache   map[string]*interp.Grid
	mu      sync.RWMutex
}

// NewStore creates a climate store over dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		cache:   make(map[string]*interp.Grid),
	}
}

// Conditions returns the climatological temperature (degrees C) and relative
// humidity (percent) at a location for a calendar month.
func (s *Store) Conditions(lat, lon float64, month int) (temperatureC, humidity float64, err error) {
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %d outside 1..12", month)
	}

	temperatureC, err = s.sample("temperature", temperatureNames, lat, lon, month)
	if err != nil {
		return 0, 0, fmt.Errorf("temperature climatology: %w", err)
	}
	humidity, err = s.sample("humidity", humidityNames, lat, lon, month)
	if err != nil {
		return 0, 0, fmt.Errorf("humidity climatology: %w", err)
	}
	// Grids occasionally carry slightly out-of-range humidity near coasts.
	humidity = math.Max(0, math.Min(100, humidity))
	return temperatureC, humidity, nil
}

// Available reports whether the store's data directory exists.
func (s *Store) Available() bool {
	info, err := os.Stat(s.dataDir)
	return err == nil && info.IsDir()
}

func (s *Store) sample(kind string, varNames []string, lat, lon float64, month int) (float64, error) {
	grid, err := s.loadGrid(kind, varNames, month)
	if err != nil {
		return 0, err
	}

	v, err := grid.Sample(lat, lon)
	if err == nil {
		return v, nil
	}
	// Retry on the 0-360 longitude convention before giving up. The retry
	// only masks a longitude-convention mismatch; any other failure keeps
	// the original error.
	if v, retryErr := grid.Sample(lat, normalizeLon360(lon)); retryErr == nil {
		return v, nil
	}
	return 0, err
}

// loadGrid loads (or returns the cached) grid for one variable and month.
func (s *Store) loadGrid(kind string, varNames []string, month int) (*interp.Grid, error) {
	key := fmt.Sprintf("%s_%02d", kind, month)

	s.mu.RLock()
	if g, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return g, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.dataDir, key+".nc")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("climatology file %s: %w", path, err)
	}

	g, err := loadNetCDFGrid(path, varNames)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[key] = g
	s.mu.Unlock()
	return g, nil
}

// normalizeLon360 maps arbitrary degree longitudes into [0, 360).
func normalizeLon360(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// loadNetCDFGrid reads one 2D lat/lon grid from a NetCDF file, trying the
// candidate data variable names in order.
func loadNetCDFGrid(path string, dataNames []string) (*interp.Grid, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	lats, err := readAxis(nc, latNames)
	if err != nil {
		return nil, fmt.Errorf("latitude axis: %w", err)
	}
	lons, err := readAxis(nc, lonNames)
	if err != nil {
		return nil, fmt.Errorf("longitude axis: %w", err)
	}

	var dataVar netcdf.Var
	found := false
	for _, name := range dataNames {
		if v, err := nc.Var(name); err == nil {
			dataVar = v
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("data variable not found (tried %v)", dataNames)
	}

	values, err := read2D(dataVar, len(lats), len(lons))
	if err != nil {
		return nil, err
	}

	g := &interp.Grid{Lats: lats, Lons: lons, Values: values}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("malformed grid: %w", err)
	}
	return g, nil
}

// readAxis reads a 1D coordinate variable, trying candidate names in order.
func readAxis(nc netcdf.Dataset, names []string) ([]float64, error) {
	for _, name := range names {
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		data, err := readFloat64s(v)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("axis variable not found (tried %v)", names)
}

// readFloat64s reads a 1D variable as float64, converting from float or
// double storage.
func readFloat64s(v netcdf.Var) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(dims))
	}
	length, err := dims[0].Len()
	if err != nil {
		return nil, err
	}

	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("get var type: %w", err)
	}
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, length)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, length)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, length)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
}

// read2D reads a 2D variable as a [lat][lon] matrix, transposing if the file
// stores [lon][lat].
func read2D(v netcdf.Var, nLat, nLon int) ([][]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D data, got %dD", len(dims))
	}
	d0, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	d1, err := dims[1].Len()
	if err != nil {
		return nil, err
	}

	switch {
	case d0 == uint64(nLat) && d1 == uint64(nLon):
		return readMatrix(v, nLat, nLon)
	case d0 == uint64(nLon) && d1 == uint64(nLat):
		m, err := readMatrix(v, nLon, nLat)
		if err != nil {
			return nil, err
		}
		return transpose(m), nil
	default:
		return nil, fmt.Errorf("data is [%d, %d], expected [%d, %d] or [%d, %d]",
			d0, d1, nLat, nLon, nLon, nLat)
	}
}

func readMatrix(v netcdf.Var, rows, cols int) ([][]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("get var type: %w", err)
	}

	flat := make([]float64, rows*cols)
	switch t {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, rows*cols)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = flat[i*cols : (i+1)*cols]
	}
	return out, nil
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return m
	}
	out := make([][]float64, len(m[0]))
	for i := range out {
		out[i] = make([]float64, len(m))
		for j := range m {
			out[i][j] = m[j][i]
		}
	}
	return out
}
