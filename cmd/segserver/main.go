package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/routediff/pkg/http"
	"github.com/lintang-b-s/routediff/pkg/http/usecases"
	"github.com/lintang-b-s/routediff/pkg/logger"
	"github.com/lintang-b-s/routediff/pkg/routeio"
	"github.com/lintang-b-s/routediff/pkg/spatialindex"
	"github.com/lintang-b-s/routediff/pkg/util"
	"go.uber.org/zap"
)

var (
	segmentsPath = flag.String("segments", "segments.geojson", "segment statistics exported by routediff")
	configDir    = flag.String("config", ".", "directory of an optional config file")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := util.ReadConfig(*configDir); err != nil {
		log.Fatal("failed to read config", zap.Error(err))
	}

	verdicts, err := routeio.LoadSegmentStats(*segmentsPath)
	if err != nil {
		log.Fatal("failed to load segment statistics", zap.String("path", *segmentsPath), zap.Error(err))
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(verdicts, log)

	segmentService := usecases.NewSegmentService(log, rtree)

	ctx, cleanup := NewContext()

	api := http.NewServer(log)
	if _, err := api.Use(ctx, log, segmentService); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	log.Info("routediff segment server stopping", zap.String("signal", signal.String()))
	cleanup()

	if err := api.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
	}
	log.Info("routediff segment server stopped")
}

func NewContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, cancel
}
