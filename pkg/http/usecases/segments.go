package usecases

import (
	"errors"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/util"
	"go.uber.org/zap"
)

var ErrEmptyIndex = errors.New("no segments loaded")

// SegmentService answers overlay queries over one exported comparison result.
type SegmentService struct {
	log          *zap.Logger
	spatialIndex SpatialIndex

	significant, favorA, favorB int
}

func NewSegmentService(log *zap.Logger, spatialIndex SpatialIndex) *SegmentService {
	ss := &SegmentService{
		log:          log,
		spatialIndex: spatialIndex,
	}
	for _, v := range spatialIndex.Verdicts() {
		if !v.Stats.Significant {
			continue
		}
		ss.significant++
		switch v.Stats.Favors() {
		case da.SIDE_A:
			ss.favorA++
		case da.SIDE_B:
			ss.favorB++
		}
	}
	log.Info("segment service ready", zap.Int("segments", spatialIndex.Len()),
		zap.Int("significant", ss.significant), zap.Int("favor_a", ss.favorA), zap.Int("favor_b", ss.favorB))
	return ss
}

func (ss *SegmentService) SegmentsWithinBound(minLon, minLat, maxLon, maxLat float64, significantOnly bool,
	limit int) ([]da.SegmentVerdict, error) {
	if ss.spatialIndex.Len() == 0 {
		return nil, util.WrapErrorf(ErrEmptyIndex, util.ErrNotFound, "segment index is empty")
	}
	return ss.spatialIndex.SearchWithinBound(minLon, minLat, maxLon, maxLat, significantOnly, limit), nil
}

func (ss *SegmentService) Summary() (segments, significant, favorA, favorB int) {
	return ss.spatialIndex.Len(), ss.significant, ss.favorA, ss.favorB
}
