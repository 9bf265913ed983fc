package routeio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/geo"
	"github.com/lintang-b-s/routediff/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

const (
	ColumnID       = "ID"
	ColumnTime     = "total_time_in_sec"
	ColumnPolyline = "polyline_points"
	ColumnDistance = "total_distance_in_meters"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrMalformedRecord   = errors.New("malformed route record")
	ErrMalformedPolyline = errors.New("malformed polyline")
)

// LoadReport counts the records of one route file. Failed records are skipped, never fatal.
type LoadReport struct {
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

type RouteLoader struct {
	logger *zap.Logger
}

func NewRouteLoader(logger *zap.Logger) *RouteLoader {
	return &RouteLoader{logger: logger}
}

// LoadFile reads a route CSV. Files ending in .bz2 are decompressed on the fly.
func (rl *RouteLoader) LoadFile(path string) (da.RouteCollection, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, LoadReport{}, err
		}
		defer bz.Close()
		r = bz
	}

	routes, report, err := rl.Load(r)
	if err != nil {
		return nil, report, fmt.Errorf("load routes from %s: %w", path, err)
	}
	rl.logger.Info("loaded routes", zap.String("path", path),
		zap.Int("loaded", report.Loaded), zap.Int("failed", report.Failed))
	return routes, report, nil
}

// Load reads route records from a CSV stream with a header row. Coordinates are stored as
// (lat, lon) in the file and flipped to (lon, lat). When an id repeats, the last record wins.
func (rl *RouteLoader) Load(r io.Reader) (da.RouteCollection, LoadReport, error) {
	var report LoadReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, report, util.WrapErrorf(err, util.ErrBadParamInput, "read header")
	}
	cols, err := newColumnIndex(header)
	if err != nil {
		return nil, report, err
	}

	routes := make(da.RouteCollection)
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.Failed++
				rl.logger.Debug("skipping unreadable record", zap.Int("record", row), zap.Error(err))
				continue
			}
			return nil, report, err
		}
		if isBlank(record) {
			continue
		}

		route, err := cols.parseRecord(record)
		if err != nil {
			report.Failed++
			rl.logger.Debug("skipping malformed route record", zap.Int("record", row), zap.Error(err))
			continue
		}
		routes[route.GetID()] = route
		report.Loaded++
	}
	return routes, report, nil
}

type columnIndex struct {
	id, time, polyline int
	distance           int // -1 when absent
}

func newColumnIndex(header []string) (columnIndex, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	cols := columnIndex{distance: -1}
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{ColumnID, &cols.id},
		{ColumnTime, &cols.time},
		{ColumnPolyline, &cols.polyline},
	} {
		i, ok := idx[c.name]
		if !ok {
			return cols, util.WrapErrorf(ErrMissingColumn, util.ErrBadParamInput, "column %q not in header %v", c.name, header)
		}
		*c.dst = i
	}
	if i, ok := idx[ColumnDistance]; ok {
		cols.distance = i
	}
	return cols, nil
}

func (ci columnIndex) parseRecord(record []string) (da.Route, error) {
	maxCol := max(ci.id, ci.time, ci.polyline)
	if len(record) <= maxCol {
		return da.Route{}, fmt.Errorf("%w: %d columns", ErrMalformedRecord, len(record))
	}
	id := strings.TrimSpace(record[ci.id])
	if id == "" {
		return da.Route{}, fmt.Errorf("%w: empty id", ErrMalformedRecord)
	}
	travelTime, err := util.StringToFloat64(strings.TrimSpace(record[ci.time]))
	if err != nil {
		return da.Route{}, fmt.Errorf("%w: travel time: %v", ErrMalformedRecord, err)
	}
	var distance float64
	if ci.distance >= 0 && ci.distance < len(record) {
		if d, err := strconv.ParseFloat(strings.TrimSpace(record[ci.distance]), 64); err == nil {
			distance = d
		}
	}
	points, err := ParsePolyline(record[ci.polyline])
	if err != nil {
		return da.Route{}, err
	}
	return da.NewRouteWithMetadata(id, points, travelTime, distance), nil
}

// ParsePolyline accepts either a literal point list "[(lat, lon), (lat, lon), ...]" or a Google
// encoded polyline, and returns the points in (lon, lat) order.
func ParsePolyline(s string) ([]da.Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedPolyline)
	}
	if isPointList(s) {
		return parsePointList(s)
	}
	return decodePolyline(s)
}

// characters of an encoded polyline are in [63, 126], so '(' and ',' only occur in point lists.
func isPointList(s string) bool {
	return s == "[]" || (s[0] == '[' && strings.ContainsAny(s, "(,"))
}

func parsePointList(s string) ([]da.Coordinate, error) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: point list must be enclosed in []", ErrMalformedPolyline)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	points := make([]da.Coordinate, 0, strings.Count(body, ",")/2+1)
	for len(body) > 0 {
		var closing byte
		switch body[0] {
		case '(':
			closing = ')'
		case '[':
			closing = ']'
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrMalformedPolyline, body[0])
		}
		end := strings.IndexByte(body, closing)
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated point", ErrMalformedPolyline)
		}
		fields := strings.Split(body[1:end], ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: point %q needs two values", ErrMalformedPolyline, body[:end+1])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPolyline, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPolyline, err)
		}
		if !geo.ValidLatLon(lat, lon) {
			return nil, fmt.Errorf("%w: (%v, %v) out of range", ErrMalformedPolyline, lat, lon)
		}
		points = append(points, da.NewCoordinateFromLatLon(lat, lon))

		body = strings.TrimSpace(body[end+1:])
		if strings.HasPrefix(body, ",") {
			body = strings.TrimSpace(body[1:])
		} else if body != "" {
			return nil, fmt.Errorf("%w: missing separator before %q", ErrMalformedPolyline, body)
		}
	}
	return points, nil
}

func decodePolyline(s string) ([]da.Coordinate, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPolyline, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPolyline, len(rest))
	}
	points := make([]da.Coordinate, 0, len(coords))
	for _, c := range coords {
		if !geo.ValidLatLon(c[0], c[1]) {
			return nil, fmt.Errorf("%w: (%v, %v) out of range", ErrMalformedPolyline, c[0], c[1])
		}
		points = append(points, da.NewCoordinateFromLatLon(c[0], c[1]))
	}
	return points, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
