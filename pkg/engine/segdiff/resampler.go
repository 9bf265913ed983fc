package segdiff

import (
	"context"
	"time"

	"github.com/lintang-b-s/routediff/pkg/concurrent"
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// ProgressFunc is called with the number of finished bootstrap rounds.
type ProgressFunc func(done, total int)

// population is the resampling unit: matched route ids in ascending order, each with the universe
// indices of its route segments in A and in B. A segment traversed twice by a route appears twice.
type population struct {
	ids   []string
	segsA [][]int32
	segsB [][]int32
}

func newPopulation(a, b da.RouteCollection, universe *SegmentUniverse) (*population, error) {
	ids := a.IDs()
	p := &population{
		ids:   ids,
		segsA: make([][]int32, len(ids)),
		segsB: make([][]int32, len(ids)),
	}
	for i, id := range ids {
		rb, ok := b[id]
		if !ok {
			return nil, util.WrapErrorf(ErrUnmatchedRoute, util.ErrBadParamInput, "route %q is missing from collection B", id)
		}
		var err error
		p.segsA[i], err = segmentIndices(a[id], universe)
		if err != nil {
			return nil, err
		}
		p.segsB[i], err = segmentIndices(rb, universe)
		if err != nil {
			return nil, err
		}
	}
	if len(b) != len(ids) {
		return nil, util.WrapErrorf(ErrUnmatchedRoute, util.ErrBadParamInput,
			"collection B has %d routes, collection A has %d", len(b), len(ids))
	}
	return p, nil
}

func segmentIndices(r da.Route, universe *SegmentUniverse) ([]int32, error) {
	idxs := make([]int32, 0, r.NumberOfSegments())
	var missing *da.Segment
	r.ForSegments(func(s da.Segment) {
		idx, ok := universe.Index(s)
		if !ok {
			if missing == nil {
				missing = &s
			}
			return
		}
		idxs = append(idxs, int32(idx))
	})
	if missing != nil {
		return nil, util.WrapErrorf(ErrUnknownSegment, util.ErrBadParamInput, "route %q: segment %v", r.GetID(), *missing)
	}
	return idxs, nil
}

func (p *population) size() int {
	return len(p.ids)
}

// draw samples size() ids uniformly with replacement and returns how often each id was drawn.
func (p *population) draw(rd *rand.Rand) []int32 {
	n := p.size()
	counts := make([]int32, n)
	for i := 0; i < n; i++ {
		counts[rd.Intn(n)]++
	}
	return counts
}

// roundDiffs. net usage A-B of every universe segment for one resample given as draw multiplicities.
func (p *population) roundDiffs(counts []int32, numSegments int) []int32 {
	diffs := make([]int32, numSegments)
	for i, k := range counts {
		if k == 0 {
			continue
		}
		for _, s := range p.segsA[i] {
			diffs[s] += k
		}
		for _, s := range p.segsB[i] {
			diffs[s] -= k
		}
	}
	return diffs
}

type roundResult struct {
	round int
	diffs []int32
	err   error
}

type Resampler struct {
	iterations    int
	seed          uint64
	workers       int
	progressEvery int
	progress      ProgressFunc
	logger        *zap.Logger
}

// NewResampler. seed 0 picks a time based seed; workers <= 0 means one worker.
func NewResampler(iterations int, seed uint64, workers, progressEvery int, progress ProgressFunc,
	logger *zap.Logger) *Resampler {
	return &Resampler{
		iterations:    iterations,
		seed:          seed,
		workers:       workers,
		progressEvery: progressEvery,
		progress:      progress,
		logger:        logger,
	}
}

// Resample runs the bootstrap rounds and returns records[segmentIndex][round].
// Round r draws from a source seeded with seed+r, so the records do not depend on the number of
// workers or on the order the rounds finish in.
func (rs *Resampler) Resample(ctx context.Context, a, b da.RouteCollection,
	universe *SegmentUniverse) ([][]int32, error) {
	if rs.iterations <= 0 {
		return nil, util.WrapErrorf(ErrInvalidConfig, util.ErrBadParamInput, "iterations must be positive, got %d", rs.iterations)
	}

	pop, err := newPopulation(a, b, universe)
	if err != nil {
		return nil, err
	}
	if pop.size() == 0 {
		return nil, util.WrapErrorf(ErrNoMatchedRoutes, util.ErrBadParamInput, "cannot resample an empty route population")
	}

	seed := rs.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		rs.logger.Debug("no seed given, using time based seed", zap.Uint64("seed", seed))
	}

	numSegments := universe.Len()
	flat := make([]int32, numSegments*rs.iterations)
	records := make([][]int32, numSegments)
	for s := range records {
		records[s] = flat[s*rs.iterations : (s+1)*rs.iterations : (s+1)*rs.iterations]
	}

	rounds := make([]int, rs.iterations)
	for r := range rounds {
		rounds[r] = r
	}

	wp := concurrent.NewWorkerPool[int, roundResult](rs.workers, rs.workers*2)
	results := wp.Run(rounds, func(round int) roundResult {
		if err := ctx.Err(); err != nil {
			return roundResult{round: round, err: err}
		}
		rd := rand.New(rand.NewSource(seed + uint64(round)))
		return roundResult{round: round, diffs: pop.roundDiffs(pop.draw(rd), numSegments)}
	})

	var firstErr error
	done := 0
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		for s, d := range res.diffs {
			records[s][res.round] = d
		}
		done++
		if rs.progress != nil && rs.progressEvery > 0 && (done%rs.progressEvery == 0 || done == rs.iterations) {
			rs.progress(done, rs.iterations)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return records, nil
}
