package segdiff

import (
	"runtime"

	"github.com/lintang-b-s/routediff/pkg/util"
)

const (
	DefaultIterations    = 500
	DefaultAlpha         = 0.01
	DefaultProgressEvery = 10
)

type Options struct {
	Iterations int     `json:"iterations" validate:"gt=0"`
	Alpha      float64 `json:"alpha" validate:"gt=0,lt=1"`
	// Seed of the bootstrap draws. 0 means a time based seed.
	Seed    uint64 `json:"seed"`
	Workers int    `json:"workers" validate:"gte=0"`
	// ProgressEvery. report progress every n finished rounds, 0 disables it.
	ProgressEvery     int          `json:"progress_every" validate:"gte=0"`
	DistanceTolerance float64      `json:"distance_tolerance" validate:"gte=0"`
	Progress          ProgressFunc `json:"-" validate:"-"`
}

func DefaultOptions() Options {
	return Options{
		Iterations:    DefaultIterations,
		Alpha:         DefaultAlpha,
		Workers:       runtime.GOMAXPROCS(0),
		ProgressEvery: DefaultProgressEvery,
	}
}

func (o Options) Validate() error {
	if err := util.ValidateStruct(o); err != nil {
		return util.WrapErrorf(ErrInvalidConfig, util.ErrBadParamInput, "%v", err)
	}
	return nil
}

func (o Options) numWorkers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}
