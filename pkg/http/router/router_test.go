package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/http/usecases"
	http_server "github.com/lintang-b-s/routediff/pkg/http/server"
	"github.com/lintang-b-s/routediff/pkg/spatialindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func verdict(lon1, lat1, lon2, lat2 float64, lower, upper int) da.SegmentVerdict {
	s := da.NewSegment(da.NewCoordinate(lon1, lat1), da.NewCoordinate(lon2, lat2))
	return da.NewSegmentVerdict(s, da.NewSegmentStats(lower, upper, (lower+upper)/2, float64(lower+upper)/2))
}

func newTestHandler(t *testing.T, config http_server.Config, verdicts []da.SegmentVerdict) http.Handler {
	t.Helper()
	log := zap.NewNop()
	rt := spatialindex.NewRtree()
	rt.Build(verdicts, log)
	return NewAPI(log).Handler(config, usecases.NewSegmentService(log, rt))
}

func testVerdicts() []da.SegmentVerdict {
	return []da.SegmentVerdict{
		verdict(-87.63, 41.88, -87.62, 41.89, 1, 4),
		verdict(-87.62, 41.89, -87.63, 41.88, -2, 3),
		verdict(-87.50, 41.70, -87.49, 41.71, -5, -1),
	}
}

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestSegmentsEndpoint(t *testing.T) {
	h := newTestHandler(t, http_server.Config{}, testVerdicts())

	testCases := []struct {
		name      string
		query     string
		wantLower []float64
	}{
		{
			name:      "all segments in the box",
			query:     "min_lon=-88&min_lat=41&max_lon=-87&max_lat=42",
			wantLower: []float64{1, -2, -5},
		},
		{
			name:      "significant only",
			query:     "min_lon=-88&min_lat=41&max_lon=-87&max_lat=42&significant_only=true",
			wantLower: []float64{1, -5},
		},
		{
			name:      "limit",
			query:     "min_lon=-88&min_lat=41&max_lon=-87&max_lat=42&limit=1",
			wantLower: []float64{1},
		},
		{
			name:      "empty box",
			query:     "min_lon=0&min_lat=0&max_lon=1&max_lat=1",
			wantLower: []float64{},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/segments?"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

			var fc featureCollection
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
			assert.Equal(t, "FeatureCollection", fc.Type)

			lowers := make([]float64, 0, len(fc.Features))
			for _, f := range fc.Features {
				assert.Equal(t, "LineString", f.Geometry.Type)
				assert.Len(t, f.Geometry.Coordinates, 2)
				lowers = append(lowers, f.Properties["lower"].(float64))
			}
			assert.Equal(t, tt.wantLower, lowers)
		})
	}
}

func TestSegmentsEndpointValidation(t *testing.T) {
	h := newTestHandler(t, http_server.Config{}, testVerdicts())

	testCases := []struct {
		name  string
		query string
	}{
		{name: "missing max_lat", query: "min_lon=-88&min_lat=41&max_lon=-87"},
		{name: "not a number", query: "min_lon=abc&min_lat=41&max_lon=-87&max_lat=42"},
		{name: "longitude out of range", query: "min_lon=-200&min_lat=41&max_lon=-87&max_lat=42"},
		{name: "latitude out of range", query: "min_lon=-88&min_lat=41&max_lon=-87&max_lat=95"},
		{name: "min greater than max", query: "min_lon=-87&min_lat=41&max_lon=-88&max_lat=42"},
		{name: "negative limit", query: "min_lon=-88&min_lat=41&max_lon=-87&max_lat=42&limit=-1"},
		{name: "limit too large", query: "min_lon=-88&min_lat=41&max_lon=-87&max_lat=42&limit=100001"},
		{name: "bad bool", query: "min_lon=-88&min_lat=41&max_lon=-87&max_lat=42&significant_only=maybe"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/segments?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusText(http.StatusBadRequest), body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestSegmentsEndpointEmptyIndex(t *testing.T) {
	h := newTestHandler(t, http_server.Config{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/segments?min_lon=-88&min_lat=41&max_lon=-87&max_lat=42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestHandler(t, http_server.Config{}, testVerdicts())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]int{"segments": 3, "significant": 2, "favor_a": 1, "favor_b": 1}, got)
}

func TestHeartbeat(t *testing.T) {
	h := newTestHandler(t, http_server.Config{}, testVerdicts())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, http_server.Config{RateLimitRPS: 0.001, RateLimitBurst: 2}, testVerdicts())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecoverPanic(t *testing.T) {
	api := NewAPI(zap.NewNop())
	h := api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestRealIP(t *testing.T) {
	var got string
	h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.7", got)
}
