package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/oasis-sync/internal/api"
	"github.com/skybi/oasis-sync/internal/config"
	"github.com/skybi/oasis-sync/internal/nexacro"
	"github.com/skybi/oasis-sync/internal/oasis"
	"github.com/skybi/oasis-sync/internal/observability"
	"github.com/skybi/oasis-sync/internal/portal"
	"github.com/skybi/oasis-sync/internal/storage"
	"github.com/skybi/oasis-sync/internal/storage/cache"
	"github.com/skybi/oasis-sync/internal/storage/memory"
	"github.com/skybi/oasis-sync/internal/storage/postgres"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")

	// Register the metrics
	registry := prometheus.NewRegistry()
	observability.MustRegister(registry)

	// Initialize the storage driver
	log.Info().Str("driver", cfg.StorageDriver).Msg("initializing storage driver...")
	var underlying storage.Driver
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		underlying = memory.New()
	default:
		underlying = postgres.New(cfg.PostgresDSN)
	}
	if err := underlying.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the storage driver")
	}
	defer underlying.Close()

	// Wrap the storage driver into a caching one
	driver := cache.New(underlying, cfg.CacheLifetime)
	if err := driver.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the caching storage driver")
	}
	defer driver.Close()

	// Create the sync service
	portalConfig := portal.Config{
		BaseURL:      cfg.PortalBaseURL,
		MarkerCookie: cfg.PortalMarkerCookie,
		UserAgent:    cfg.PortalUserAgent,
		Timeout:      cfg.PortalTimeout,
		Transport:    observability.InstrumentTransport(nil),
		Selector:     nexacro.SelectAll,
	}
	if cfg.PortalSelectLast {
		portalConfig.Selector = nexacro.SelectLast
	}
	service, err := oasis.NewService(portalConfig, driver)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the sync service")
	}

	// Start up the API
	log.Info().Str("address", cfg.ListenAddress).Msg("starting up the API...")
	apis := &api.Service{
		Config: cfg,
		Oasis:  service,
	}
	if cfg.MetricsEnabled {
		apis.Gatherer = registry
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
