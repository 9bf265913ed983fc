package routeio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/geo"
	"github.com/lintang-b-s/routediff/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	PropLower       = "lower"
	PropUpper       = "upper"
	PropMedian      = "median"
	PropMean        = "mean"
	PropSignificant = "significant"
	PropLength      = "length_m"
	PropBearing     = "bearing"
)

var ErrMalformedFeature = errors.New("malformed segment feature")

// NewSegmentFeature builds the GeoJSON LineString feature of one segment. Besides the five
// statistics it carries the segment length in meter and its bearing, for map styling.
func NewSegmentFeature(s da.Segment, st da.SegmentStats) *geojson.Feature {
	f := geojson.NewFeature(orb.LineString{
		orb.Point{s.From.Lon, s.From.Lat},
		orb.Point{s.To.Lon, s.To.Lat},
	})
	f.Properties[PropLower] = st.Lower
	f.Properties[PropUpper] = st.Upper
	f.Properties[PropMedian] = st.Median
	f.Properties[PropMean] = st.Mean
	f.Properties[PropSignificant] = st.Significant
	f.Properties[PropLength] = util.RoundFloat(geo.SegmentLength(s.From.Lat, s.From.Lon, s.To.Lat, s.To.Lon), 2)
	f.Properties[PropBearing] = util.RoundFloat(geo.BearingTo(s.From.Lat, s.From.Lon, s.To.Lat, s.To.Lon), 1)
	return f
}

// NewFeatureCollection lists segments in the given order. Every segment must have stats.
func NewFeatureCollection(segments []da.Segment, stats map[da.Segment]da.SegmentStats) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(segments))
	for _, s := range segments {
		st, ok := stats[s]
		if !ok {
			return nil, util.WrapErrorf(util.ErrNotFound, util.ErrInternalServerError, "no statistics for segment %v", s)
		}
		fc.Append(NewSegmentFeature(s, st))
	}
	return fc, nil
}

func WriteSegmentStats(w io.Writer, segments []da.Segment, stats map[da.Segment]da.SegmentStats) error {
	fc, err := NewFeatureCollection(segments, stats)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveSegmentStats writes the feature collection to path, bzip2 compressed when path ends in .bz2.
func SaveSegmentStats(path string, segments []da.Segment, stats map[da.Segment]da.SegmentStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var bz *bzip2.Writer
	if strings.HasSuffix(path, ".bz2") {
		bz, err = bzip2.NewWriter(f, &bzip2.WriterConfig{})
		if err != nil {
			return err
		}
		w = bz
	}
	bw := bufio.NewWriter(w)

	if err := WriteSegmentStats(bw, segments, stats); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if bz != nil {
		if err := bz.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}

// ReadSegmentStats parses a feature collection written by WriteSegmentStats, keeping feature order.
func ReadSegmentStats(r io.Reader) ([]da.SegmentVerdict, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode feature collection")
	}

	out := make([]da.SegmentVerdict, 0, len(fc.Features))
	for i, f := range fc.Features {
		sf, err := parseSegmentFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, sf)
	}
	return out, nil
}

func LoadSegmentStats(path string) ([]da.SegmentVerdict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}
	return ReadSegmentStats(r)
}

func parseSegmentFeature(f *geojson.Feature) (da.SegmentVerdict, error) {
	ls, ok := f.Geometry.(orb.LineString)
	if !ok || len(ls) != 2 {
		return da.SegmentVerdict{}, fmt.Errorf("%w: geometry must be a two point LineString", ErrMalformedFeature)
	}

	var (
		st  da.SegmentStats
		err error
	)
	if st.Lower, err = intProperty(f.Properties, PropLower); err != nil {
		return da.SegmentVerdict{}, err
	}
	if st.Upper, err = intProperty(f.Properties, PropUpper); err != nil {
		return da.SegmentVerdict{}, err
	}
	if st.Median, err = intProperty(f.Properties, PropMedian); err != nil {
		return da.SegmentVerdict{}, err
	}
	mean, ok := f.Properties[PropMean].(float64)
	if !ok {
		return da.SegmentVerdict{}, fmt.Errorf("%w: property %q", ErrMalformedFeature, PropMean)
	}
	st.Mean = mean
	significant, ok := f.Properties[PropSignificant].(bool)
	if !ok {
		return da.SegmentVerdict{}, fmt.Errorf("%w: property %q", ErrMalformedFeature, PropSignificant)
	}
	st.Significant = significant

	s := da.NewSegment(da.NewCoordinate(ls[0].Lon(), ls[0].Lat()), da.NewCoordinate(ls[1].Lon(), ls[1].Lat()))
	return da.NewSegmentVerdict(s, st), nil
}

// json numbers decode as float64.
func intProperty(p geojson.Properties, key string) (int, error) {
	v, ok := p[key].(float64)
	if !ok || v != float64(int(v)) {
		return 0, fmt.Errorf("%w: property %q", ErrMalformedFeature, key)
	}
	return int(v), nil
}
