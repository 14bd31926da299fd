package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/solaredge2eink/internal/config"
	"github.com/berfenger/solaredge2eink/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// HealthReporter exposes the controller state to the health endpoint.
type HealthReporter interface {
	Health() domain.HealthState
	Sleeping() bool
}

type Server struct {
	port     uint
	httpLog  bool
	health   HealthReporter
	registry *prometheus.Registry
}

func NewServer(cfg config.Config, health HealthReporter, registry *prometheus.Registry) *http.Server {
	NewServer := &Server{
		port:     cfg.Port,
		httpLog:  cfg.HttpLog,
		health:   health,
		registry: registry,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
