package controller

import (
	"context"

	"github.com/berfenger/solaredge2eink/internal/config"
	"github.com/berfenger/solaredge2eink/internal/core/port"
	"github.com/berfenger/solaredge2eink/internal/core/service"

	"go.uber.org/zap"
)

// DetectCapabilities decides once which optional screens the rotation holds.
// In auto mode the site is probed for a storage unit, first through the power
// flow and then through the storage endpoint.
func DetectCapabilities(ctx context.Context, telemetry port.TelemetrySource, mode config.BatteryMode,
	forecast bool, logger *zap.Logger) service.Capabilities {
	caps := service.Capabilities{Forecast: forecast}

	switch mode {
	case config.BATTERY_ON:
		caps.Battery = true
	case config.BATTERY_OFF:
		caps.Battery = false
	default:
		caps.Battery = probeBattery(ctx, telemetry, logger)
	}

	logger.Info("capabilities detected",
		zap.Bool("battery", caps.Battery),
		zap.Bool("forecast", caps.Forecast),
		zap.String("battery_mode", string(mode)))
	return caps
}

func probeBattery(ctx context.Context, telemetry port.TelemetrySource, logger *zap.Logger) bool {
	pf, err := telemetry.PowerFlow(ctx)
	if err == nil && pf.HasStorage {
		return true
	}
	if err != nil {
		logger.Warn("power flow unavailable while detecting storage", zap.Error(err))
	}
	if _, err := telemetry.Battery(ctx); err != nil {
		logger.Warn("no storage data, battery screen disabled", zap.Error(err))
		return false
	}
	return true
}
