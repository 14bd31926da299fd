package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/berfenger/solaredge2eink/internal/adapter/display"
	"github.com/berfenger/solaredge2eink/internal/adapter/forecastsolar"
	"github.com/berfenger/solaredge2eink/internal/adapter/solaredge"
	"github.com/berfenger/solaredge2eink/internal/config"
	"github.com/berfenger/solaredge2eink/internal/core/controller"
	"github.com/berfenger/solaredge2eink/internal/core/events"
	"github.com/berfenger/solaredge2eink/internal/core/port"
	"github.com/berfenger/solaredge2eink/internal/core/service"
	"github.com/berfenger/solaredge2eink/internal/logging"
	"github.com/berfenger/solaredge2eink/internal/metrics"
	"github.com/berfenger/solaredge2eink/internal/mqtt"
	"github.com/berfenger/solaredge2eink/internal/render"
	"github.com/berfenger/solaredge2eink/internal/server"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	EXIT_OK            = 0
	EXIT_CONFIG_ERROR  = 1
	EXIT_DISPLAY_ERROR = 2

	SERVER_SHUTDOWN_TIMEOUT = 5 * time.Second
)

func main() {
	os.Exit(run())
}

func openDisplay(cfg *config.Config, logger *zap.Logger) (port.Display, int) {
	screen, err := display.New(cfg.Debug, cfg.DebugDir, logger)
	if err != nil {
		logger.Error("no display backend available", zap.Error(err))
		return nil, EXIT_DISPLAY_ERROR
	}
	return screen, EXIT_OK
}

func run() int {
	boot := logging.NewBootstrap()
	defer boot.Sync()

	// load and validate config
	v := viper.New()
	if err := config.Init(v); err != nil {
		boot.Error("configuration error", zap.Error(err))
		return EXIT_CONFIG_ERROR
	}
	cfg, err := config.Load(v)
	if err != nil {
		for _, e := range config.Errors(err) {
			boot.Error("configuration error", zap.Error(e))
		}
		return EXIT_CONFIG_ERROR
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()
	logger.Info("starting solaredge2eink", zap.String("version", versioninfo.Short()))
	config.SafeLog(*cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		sig := <-signals
		logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	telemetry := solaredge.NewClient(cfg, logger)

	screen, code := openDisplay(cfg, logger)
	if code != EXIT_OK {
		return code
	}
	defer screen.Close()

	caps := controller.DetectCapabilities(ctx, telemetry, cfg.Battery, cfg.Forecast != nil, logger)

	es := &eventstream.EventStream{}
	m := metrics.New()
	m.Subscribe(es)
	defer m.Unsubscribe()

	if cfg.MQTT.Enabled() {
		sensors := events.Sensors(events.BridgeDevice(cfg.SiteID), caps.Battery, caps.Forecast)
		publisher := mqtt.NewPublisher(cfg, sensors, logger)
		if err := publisher.Start(es); err != nil {
			logger.Error("mqtt disabled", zap.Error(err))
		} else {
			defer publisher.Stop()
		}
	}

	opts := controller.Options{
		Telemetry:    telemetry,
		Display:      screen,
		Renderer:     render.New(cfg.Location),
		Events:       es,
		Window:       service.SleepWindow{StartHour: cfg.SleepStart, EndHour: cfg.SleepEnd},
		Location:     cfg.Location,
		PollInterval: cfg.PollInterval,
		Capabilities: caps,
		Logger:       logger,
	}
	if cfg.Forecast != nil {
		opts.Forecast = forecastsolar.NewCached(forecastsolar.NewClient(cfg, logger), forecastsolar.CACHE_TTL, logger)
	}
	ctrl := controller.New(opts)

	if cfg.Port > 0 {
		srv := server.NewServer(*cfg, ctrl, m.Registry())
		go func() {
			logger.Info("http server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), SERVER_SHUTDOWN_TIMEOUT)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http server forced to shutdown", zap.Error(err))
			}
		}()
	}

	if err := ctrl.Run(ctx); err != nil {
		logger.Error("controller stopped", zap.Error(err))
	}
	logger.Info("graceful shutdown complete")
	return EXIT_OK
}
