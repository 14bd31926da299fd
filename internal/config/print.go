package config

import "go.uber.org/zap"

// SafeLog logs the effective configuration with secrets masked.
func SafeLog(cfg Config, logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("api_key", MaskSecret(cfg.APIKey)),
		zap.String("site_id", cfg.SiteID),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Int("sleep_start", cfg.SleepStart),
		zap.Int("sleep_end", cfg.SleepEnd),
		zap.Stringer("timezone", cfg.Location),
		zap.Bool("debug", cfg.Debug),
		zap.String("battery", string(cfg.Battery)),
		zap.Stringer("log_level", cfg.LogLevel),
		zap.String("log_file", cfg.LogFile),
	}
	if cfg.Forecast != nil {
		fields = append(fields,
			zap.Float64("forecast_lat", cfg.Forecast.Lat),
			zap.Float64("forecast_lon", cfg.Forecast.Lon),
			zap.Int("forecast_tilt", cfg.Forecast.Tilt),
			zap.Int("forecast_azimuth", cfg.Forecast.Azimuth),
			zap.Float64("forecast_kwp", cfg.Forecast.KWp),
		)
	} else {
		fields = append(fields, zap.Bool("forecast", false))
	}
	if cfg.MQTT.Enabled() {
		mqtt := cfg.MQTT
		mqtt.Username = "*redacted*"
		mqtt.Password = "*redacted*"
		fields = append(fields, zap.Any("mqtt", mqtt))
	}
	if cfg.Port > 0 {
		fields = append(fields, zap.Uint("port", cfg.Port))
	}
	logger.Info("configuration loaded", fields...)
}
