package api

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/skybi/oasis-sync/internal/api/gateway"
	"github.com/skybi/oasis-sync/internal/config"
	"github.com/skybi/oasis-sync/internal/oasis"
)

// Service represents the API service
type Service struct {
	Config   *config.Config
	Oasis    *oasis.Service
	Gatherer prometheus.Gatherer
	gateway  *gateway.Service
}

// Startup starts up the API in the background; unexpected server errors are sent to errs
func (service *Service) Startup(errs chan<- error) {
	gatewayService := &gateway.Service{
		Config:   service.Config,
		Oasis:    service.Oasis,
		Gatherer: service.Gatherer,
	}
	service.gateway = gatewayService
	go func() {
		if err := gatewayService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the API
func (service *Service) Shutdown() {
	if service.gateway != nil {
		service.gateway.Shutdown()
		service.gateway = nil
	}
}
