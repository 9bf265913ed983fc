package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/engine/segdiff"
	"github.com/lintang-b-s/routediff/pkg/logger"
	"github.com/lintang-b-s/routediff/pkg/routeio"
	"github.com/lintang-b-s/routediff/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	routesA    = flag.String("a", "", "route csv of strategy A (.csv or .csv.bz2)")
	routesB    = flag.String("b", "", "route csv of strategy B (.csv or .csv.bz2)")
	outPath    = flag.String("out", "segments.geojson", "output geojson path, bzip2 compressed when it ends in .bz2")
	iterations = flag.Int("iterations", segdiff.DefaultIterations, "number of bootstrap rounds")
	alpha      = flag.Float64("alpha", segdiff.DefaultAlpha, "significance level of the two sided confidence interval")
	seed       = flag.Uint64("seed", 0, "seed of the bootstrap draws, 0 for a time based seed")
	workers    = flag.Int("workers", 0, "number of bootstrap workers, 0 for GOMAXPROCS")
	tolerance  = flag.Float64("tolerance", 0, "drop route pairs whose relative length difference is at least this, 0 disables the check")
	configDir  = flag.String("config", ".", "directory of an optional config file")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := loadConfig(*configDir); err != nil {
		log.Fatal("failed to read config", zap.Error(err))
	}

	pathA, pathB, out := viper.GetString("a"), viper.GetString("b"), viper.GetString("out")
	if pathA == "" || pathB == "" {
		log.Fatal("both -a and -b route files are required")
	}

	opts := segdiff.DefaultOptions()
	opts.Iterations = viper.GetInt("iterations")
	opts.Alpha = viper.GetFloat64("alpha")
	opts.Seed = viper.GetUint64("seed")
	opts.Workers = viper.GetInt("workers")
	opts.DistanceTolerance = viper.GetFloat64("tolerance")
	opts.Progress = func(done, total int) {
		log.Info("bootstrap progress", zap.Int("done", done), zap.Int("total", total))
	}

	engine, err := segdiff.NewEngine(opts, log)
	if err != nil {
		log.Fatal("invalid options", zap.Error(err))
	}

	loader := routeio.NewRouteLoader(log)
	a, _, err := loader.LoadFile(pathA)
	if err != nil {
		log.Fatal("failed to load routes A", zap.Error(err))
	}
	b, _, err := loader.LoadFile(pathB)
	if err != nil {
		log.Fatal("failed to load routes B", zap.Error(err))
	}
	log.Info("mean travel time", zap.Float64("a_sec", meanTravelTime(a)), zap.Float64("b_sec", meanTravelTime(b)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmp, err := engine.Compare(ctx, a, b)
	if err != nil {
		log.Fatal("comparison failed", zap.Error(err))
	}

	if err := routeio.SaveSegmentStats(out, cmp.Universe.Segments(), cmp.Stats); err != nil {
		log.Fatal("failed to write segment statistics", zap.String("path", out), zap.Error(err))
	}
	log.Info("segment statistics written", zap.String("path", out), zap.Int("segments", cmp.Universe.Len()),
		zap.Int("significant", cmp.NumberOfSignificant()), zap.Int("favor_a", cmp.FavorA), zap.Int("favor_b", cmp.FavorB))
}

// loadConfig layers the sources: flags set on the command line override the config file, which
// overrides the flag defaults.
func loadConfig(dir string) error {
	flag.VisitAll(func(f *flag.Flag) {
		viper.SetDefault(f.Name, f.DefValue)
	})
	if err := util.ReadConfig(dir); err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		viper.Set(f.Name, f.Value.String())
	})
	return nil
}

func meanTravelTime(routes da.RouteCollection) float64 {
	if len(routes) == 0 {
		return 0
	}
	var sum float64
	for _, r := range routes {
		sum += r.GetTravelTime()
	}
	return util.RoundFloat(sum/float64(len(routes)), 2)
}
