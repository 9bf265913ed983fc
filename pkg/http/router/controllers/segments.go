package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julienschmidt/httprouter"
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	helper "github.com/lintang-b-s/routediff/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/routediff/pkg/routeio"
	"github.com/lintang-b-s/routediff/pkg/util"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

type segmentAPI struct {
	segmentService SegmentService
	log            *zap.Logger
}

func New(segmentService SegmentService, log *zap.Logger) *segmentAPI {
	return &segmentAPI{
		segmentService: segmentService,
		log:            log,
	}
}

func (api *segmentAPI) Routes(group *helper.RouteGroup) {
	group.GET("/segments", api.segments)
	group.GET("/summary", api.summary)
}

// segments godoc
//
//	@Summary		segment statistics inside a bounding box, as a GeoJSON FeatureCollection
//	@Tags			segments
//	@Param			min_lon				query	number	true	"west edge"
//	@Param			min_lat				query	number	true	"south edge"
//	@Param			max_lon				query	number	true	"east edge"
//	@Param			max_lat				query	number	true	"north edge"
//	@Param			significant_only	query	boolean	false	"only significant segments"
//	@Param			limit				query	integer	false	"maximum number of features, 0 for all"
//	@Produce		application/geo+json
//	@Router			/segments [get]
func (api *segmentAPI) segments(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, err := parseSegmentsRequest(r.URL.Query())
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := util.ValidateStruct(request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %w", err))
		return
	}

	verdicts, err := api.segmentService.SegmentsWithinBound(request.MinLon, request.MinLat, request.MaxLon,
		request.MaxLat, request.SignificantOnly, request.Limit)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/geo+json")

	if err := api.writeJSON(w, http.StatusOK, newSegmentFeatureCollection(verdicts), headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// summary. counts of the loaded result.
func (api *segmentAPI) summary(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	segments, significant, favorA, favorB := api.segmentService.Summary()

	if err := api.writeJSON(w, http.StatusOK, NewSummaryResponse(segments, significant, favorA, favorB), nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func parseSegmentsRequest(query url.Values) (segmentsRequest, error) {
	var (
		request segmentsRequest
		err     error
	)
	for _, c := range []struct {
		name string
		dst  *float64
	}{
		{"min_lon", &request.MinLon},
		{"min_lat", &request.MinLat},
		{"max_lon", &request.MaxLon},
		{"max_lat", &request.MaxLat},
	} {
		*c.dst, err = strconv.ParseFloat(query.Get(c.name), 64)
		if err != nil {
			return request, fmt.Errorf("%s is required and must be a valid float", c.name)
		}
	}

	if v := query.Get("significant_only"); v != "" {
		request.SignificantOnly, err = strconv.ParseBool(v)
		if err != nil {
			return request, fmt.Errorf("significant_only must be a valid bool")
		}
	}
	if v := query.Get("limit"); v != "" {
		request.Limit, err = strconv.Atoi(v)
		if err != nil {
			return request, fmt.Errorf("limit must be a valid int")
		}
	}
	return request, nil
}

func newSegmentFeatureCollection(verdicts []da.SegmentVerdict) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(verdicts))
	for _, v := range verdicts {
		fc.Append(routeio.NewSegmentFeature(v.Segment, v.Stats))
	}
	return fc
}
