package segdiff

import (
	"context"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/util"
	"go.uber.org/zap"
)

// Comparison is the result of one run: the verdict of every segment of the universe.
type Comparison struct {
	Stats      map[da.Segment]da.SegmentStats
	Universe   *SegmentUniverse
	Match      MatchReport
	Iterations int
	Alpha      float64
	FavorA     int
	FavorB     int
}

// NumberOfSignificant. segments significantly favoring either side.
func (c *Comparison) NumberOfSignificant() int {
	return c.FavorA + c.FavorB
}

type Engine struct {
	opts   Options
	logger *zap.Logger
}

func NewEngine(opts Options, logger *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts:   opts,
		logger: logger,
	}, nil
}

func (e *Engine) GetOptions() Options {
	return e.opts
}

// Compare matches a and b by route id, builds the segment universe, bootstraps the per-segment usage
// differences and evaluates them. Either the full result is returned or an error.
func (e *Engine) Compare(ctx context.Context, a, b da.RouteCollection) (*Comparison, error) {
	ma, mb, report := MatchPairsWithinTolerance(a, b, e.opts.DistanceTolerance)
	e.logger.Info("matched route pairs",
		zap.Int("kept", report.Kept), zap.Int("only_in_a", report.OnlyInA),
		zap.Int("only_in_b", report.OnlyInB), zap.Int("out_of_tolerance", report.OutOfTolerance))
	if report.Kept == 0 {
		return nil, util.WrapErrorf(ErrNoMatchedRoutes, util.ErrBadParamInput,
			"collection A has %d routes, collection B has %d routes", len(a), len(b))
	}

	universe := BuildSegmentUniverse(ma, mb)
	e.logger.Info("built segment universe", zap.Int("segments", universe.Len()))

	workers := e.opts.numWorkers()
	resampler := NewResampler(e.opts.Iterations, e.opts.Seed, workers, e.opts.ProgressEvery,
		e.opts.Progress, e.logger)
	records, err := resampler.Resample(ctx, ma, mb, universe)
	if err != nil {
		return nil, err
	}

	evaluator := NewEvaluator(e.opts.Alpha, workers)
	stats, err := evaluator.EvaluateAll(ctx, universe, records)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Stats:      stats,
		Universe:   universe,
		Match:      report,
		Iterations: e.opts.Iterations,
		Alpha:      e.opts.Alpha,
	}
	for _, st := range stats {
		switch st.Favors() {
		case da.SIDE_A:
			cmp.FavorA++
		case da.SIDE_B:
			cmp.FavorB++
		}
	}
	e.logger.Info("evaluated segment differences",
		zap.Int("significant", cmp.NumberOfSignificant()),
		zap.Int("favor_a", cmp.FavorA), zap.Int("favor_b", cmp.FavorB))
	return cmp, nil
}
