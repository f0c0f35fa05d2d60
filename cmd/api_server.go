package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"

	"github.com/rm-hull/nsw-fuel-check/internal"
	"github.com/rm-hull/nsw-fuel-check/internal/config"
	"github.com/rm-hull/nsw-fuel-check/internal/routes"
)

func ApiServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, debug bool) error {
	client, repo, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close repository")
		}
	}()

	scheduler, err := internal.StartCron(client, repo)
	if err != nil {
		return errors.Wrap(err, "failed to start CRON jobs")
	}
	defer scheduler.Stop()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		logger.Warn().Msg("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		repo.Check(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize healthcheck")
	}

	v1 := r.Group("/v1/fuel-prices")
	v1.GET("/search", routes.Search(repo, client))
	v1.GET("/station/:code", routes.StationPrices(client))
	v1.GET("/nearby", routes.Nearby(client))
	v1.GET("/trends", routes.Trends(client))
	v1.GET("/reference-data", routes.ReferenceData(client))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().Int("port", cfg.Port).Msg("Starting HTTP API Server")
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "HTTP API Server failed to start on port %d", cfg.Port)
	}

	return nil
}
