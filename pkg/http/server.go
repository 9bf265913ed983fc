package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/routediff/pkg/http/router"
	"github.com/lintang-b-s/routediff/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/routediff/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the overlay API in the background. It stops when ctx is canceled; Wait returns the error
// it stopped with.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	segmentService controllers.SegmentService,
) (*Server, error) {
	config := NewConfig()

	server := http_router.NewAPI(log)

	s.g.Go(func() error {
		return server.Run(ctx, config, log, segmentService)
	})

	return s, nil
}

func (s *Server) Wait() error {
	return s.g.Wait()
}

// NewConfig reads the server settings from viper.
func NewConfig() http_server.Config {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("RATE_LIMIT_RPS", 0.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	return http_server.Config{
		Port:           viper.GetInt("API_PORT"),
		Timeout:        viper.GetDuration("API_TIMEOUT"),
		RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
	}
}

// GracefulShutdown blocks until SIGINT or SIGTERM arrives.
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
