package server

import (
	"fmt"
	"net/http"

	"github.com/berfenger/solaredge2eink/internal/core/domain"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	if s.registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	return e
}

// HealthCheckHandler fails only once the monitor gave up on the API.
// A degraded or sleeping monitor is still healthy.
func (s *Server) HealthCheckHandler(c echo.Context) error {
	state := s.health.Health()
	body := fmt.Sprintf("health_check: %s", state)
	if s.health.Sleeping() {
		body += " (sleeping)"
	}
	if state == domain.HealthFailed {
		return c.String(http.StatusServiceUnavailable, body)
	}
	return c.String(http.StatusOK, body)
}
