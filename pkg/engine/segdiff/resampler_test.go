package segdiff

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResampleSingleRoute(t *testing.T) {
	a := da.NewRouteCollection(route("r1", pt(0, 0), pt(0, 1), pt(0, 2)))
	b := da.NewRouteCollection(route("r1", pt(0, 0), pt(0, 1)))
	universe := BuildSegmentUniverse(a, b)

	rs := NewResampler(50, 7, 3, 0, nil, zap.NewNop())
	records, err := rs.Resample(context.Background(), a, b, universe)
	require.NoError(t, err)
	require.Len(t, records, 2)

	shared, _ := universe.Index(seg(pt(0, 0), pt(0, 1)))
	onlyA, _ := universe.Index(seg(pt(0, 1), pt(0, 2)))
	for round := 0; round < 50; round++ {
		// n = 1: every draw is r1, so it is drawn exactly once per round.
		assert.Equal(t, int32(0), records[shared][round])
		assert.Equal(t, int32(1), records[onlyA][round])
	}
}

func TestResampleIdenticalCollections(t *testing.T) {
	a := gridRoutes(5, 0)
	universe := BuildSegmentUniverse(a, a)

	rs := NewResampler(40, 99, 2, 0, nil, zap.NewNop())
	records, err := rs.Resample(context.Background(), a, a, universe)
	require.NoError(t, err)

	for _, rec := range records {
		require.Len(t, rec, 40)
		for _, v := range rec {
			assert.Equal(t, int32(0), v)
		}
	}
}

func TestResampleCountsMultiplicity(t *testing.T) {
	a := gridRoutes(4, 0)
	b := gridRoutes(4, 0.5)
	universe := BuildSegmentUniverse(a, b)

	rs := NewResampler(30, 11, 4, 0, nil, zap.NewNop())
	records, err := rs.Resample(context.Background(), a, b, universe)
	require.NoError(t, err)

	// A and B share no segment, so per round the A segments of one route all carry the number of
	// times that route was drawn, and the draws of a round add up to the population size.
	for round := 0; round < 30; round++ {
		total := int32(0)
		for _, id := range a.IDs() {
			var k int32
			first := true
			a[id].ForSegments(func(s da.Segment) {
				idx, _ := universe.Index(s)
				if first {
					k = records[idx][round]
					first = false
				}
				assert.Equal(t, k, records[idx][round])
			})
			b[id].ForSegments(func(s da.Segment) {
				idx, _ := universe.Index(s)
				assert.Equal(t, -k, records[idx][round])
			})
			assert.GreaterOrEqual(t, k, int32(0))
			total += k
		}
		assert.Equal(t, int32(len(a)), total)
	}
}

func TestResampleReproducible(t *testing.T) {
	a := gridRoutes(8, 0)
	b := gridRoutes(8, 0.25)
	universe := BuildSegmentUniverse(a, b)

	base, err := NewResampler(60, 1234, 1, 0, nil, zap.NewNop()).
		Resample(context.Background(), a, b, universe)
	require.NoError(t, err)

	t.Run("independent of worker count", func(t *testing.T) {
		got, err := NewResampler(60, 1234, 7, 0, nil, zap.NewNop()).
			Resample(context.Background(), a, b, universe)
		require.NoError(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("independent of input order", func(t *testing.T) {
		routesA := make([]da.Route, 0, len(a))
		for _, r := range a {
			routesA = append(routesA, r)
		}
		routesB := make([]da.Route, 0, len(b))
		for _, r := range b {
			routesB = append(routesB, r)
		}
		rd := rand.New(rand.NewSource(3))
		rd.Shuffle(len(routesA), func(i, j int) { routesA[i], routesA[j] = routesA[j], routesA[i] })
		rd.Shuffle(len(routesB), func(i, j int) { routesB[i], routesB[j] = routesB[j], routesB[i] })

		sa := da.NewRouteCollection(routesA...)
		sb := da.NewRouteCollection(routesB...)
		got, err := NewResampler(60, 1234, 3, 0, nil, zap.NewNop()).
			Resample(context.Background(), sa, sb, BuildSegmentUniverse(sa, sb))
		require.NoError(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("different seed differs", func(t *testing.T) {
		got, err := NewResampler(60, 4321, 3, 0, nil, zap.NewNop()).
			Resample(context.Background(), a, b, universe)
		require.NoError(t, err)
		assert.NotEqual(t, base, got)
	})
}

func TestResampleProgress(t *testing.T) {
	a := gridRoutes(3, 0)
	b := gridRoutes(3, 1)
	universe := BuildSegmentUniverse(a, b)

	var calls []int
	progress := func(done, total int) {
		assert.Equal(t, 25, total)
		calls = append(calls, done)
	}
	_, err := NewResampler(25, 5, 4, 10, progress, zap.NewNop()).
		Resample(context.Background(), a, b, universe)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 25}, calls)
}

func TestResampleErrors(t *testing.T) {
	a := da.NewRouteCollection(route("r1", pt(0, 0), pt(1, 1)))
	universe := BuildSegmentUniverse(a)

	testCases := []struct {
		name    string
		a       da.RouteCollection
		b       da.RouteCollection
		su      *SegmentUniverse
		iters   int
		ctx     func() context.Context
		wantErr error
	}{
		{
			name:    "empty population",
			a:       da.RouteCollection{},
			b:       da.RouteCollection{},
			su:      NewSegmentUniverse(),
			iters:   10,
			wantErr: ErrNoMatchedRoutes,
		},
		{
			name:    "unmatched route",
			a:       a,
			b:       da.RouteCollection{},
			su:      universe,
			iters:   10,
			wantErr: ErrUnmatchedRoute,
		},
		{
			name:    "segment outside universe",
			a:       a,
			b:       a,
			su:      NewSegmentUniverse(),
			iters:   10,
			wantErr: ErrUnknownSegment,
		},
		{
			name:    "zero iterations",
			a:       a,
			b:       a,
			su:      universe,
			iters:   0,
			wantErr: ErrInvalidConfig,
		},
		{
			name:  "cancelled context",
			a:     a,
			b:     a,
			su:    universe,
			iters: 10,
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			_, err := NewResampler(tt.iters, 1, 2, 0, nil, zap.NewNop()).Resample(ctx, tt.a, tt.b, tt.su)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
