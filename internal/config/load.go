package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ENV_PREFIX = "solaredge"

// Init binds v to the SOLAREDGE_* environment and, when CONFIG_FILE is set,
// to a config file.
func Init(v *viper.Viper) error {
	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("config file %s: %w", cfgFile, err)
		}
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "solaredge_monitor.log")
	v.SetDefault("poll_interval", 5)
	v.SetDefault("sleep_start", 0)
	v.SetDefault("sleep_end", 6)
	v.SetDefault("timezone", "Europe/Berlin")
	v.SetDefault("debug", "false")
	v.SetDefault("debug_dir", "debug")
	v.SetDefault("battery", string(BATTERY_AUTO))
	v.SetDefault("forecast.tilt", 30)
	v.SetDefault("forecast.azimuth", 0)
	v.SetDefault("mqtt.host", "")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.base_topic", "solaredge")
	v.SetDefault("mqtt.ha_discovery_enable", false)
	v.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	v.SetDefault("port", 0)
	v.SetDefault("http_log", false)
	v.SetDefault("api_url", "https://monitoringapi.solaredge.com")
	v.SetDefault("forecast.url", "https://api.forecast.solar")
}

// Load validates every setting and returns all problems at once.
func Load(v *viper.Viper) (*Config, error) {
	var errs error
	cfg := Config{
		LogFile:     strings.TrimSpace(v.GetString("log_file")),
		DebugDir:    strings.TrimSpace(v.GetString("debug_dir")),
		HttpLog:     v.GetBool("http_log"),
		APIURL:      strings.TrimRight(v.GetString("api_url"), "/"),
		ForecastURL: strings.TrimRight(v.GetString("forecast.url"), "/"),
	}

	cfg.LogLevel = parseLogLevel(v.GetString("log_level"))

	cfg.APIKey = strings.TrimSpace(v.GetString("api_key"))
	if cfg.APIKey == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", envName("api_key")))
	}
	cfg.SiteID = strings.TrimSpace(v.GetString("site_id"))
	if cfg.SiteID == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", envName("site_id")))
	}

	if minutes, err := intSetting(v, "poll_interval"); err != nil {
		errs = multierr.Append(errs, err)
	} else if minutes < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be >= 1 minute, got %d", envName("poll_interval"), minutes))
	} else {
		cfg.PollInterval = time.Duration(minutes) * time.Minute
	}

	var err error
	if cfg.SleepStart, err = hourSetting(v, "sleep_start"); err != nil {
		errs = multierr.Append(errs, err)
	}
	if cfg.SleepEnd, err = hourSetting(v, "sleep_end"); err != nil {
		errs = multierr.Append(errs, err)
	}

	if cfg.Location, err = time.LoadLocation(v.GetString("timezone")); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", envName("timezone"), err))
	}

	cfg.Debug = parseFlag(v.GetString("debug"))

	switch strings.ToLower(strings.TrimSpace(v.GetString("battery"))) {
	case "auto", "":
		cfg.Battery = BATTERY_AUTO
	case "on", "true", "1", "yes":
		cfg.Battery = BATTERY_ON
	case "off", "false", "0", "no":
		cfg.Battery = BATTERY_OFF
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s must be one of auto, on, off", envName("battery")))
	}

	if cfg.Forecast, err = loadForecast(v); err != nil {
		errs = multierr.Append(errs, err)
	}

	// full unmarshal so env overrides of nested keys apply
	var raw struct {
		MQTT MQTTConfig `mapstructure:"mqtt"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("mqtt: %w", err))
	} else if cfg.MQTT = raw.MQTT; cfg.MQTT.Enabled() {
		// check and fix base topic
		if topic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", envName("mqtt.base_topic"), err))
		} else {
			cfg.MQTT.BaseTopic = topic
		}
		// check and fix homeassistant discovery topic
		if topic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", envName("mqtt.ha_discovery_topic"), err))
		} else {
			cfg.MQTT.HADiscoveryTopic = topic
		}
	}

	if port, err := intSetting(v, "port"); err != nil {
		errs = multierr.Append(errs, err)
	} else if port < 0 || port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be within 0..65535", envName("port")))
	} else {
		cfg.Port = uint(port)
	}

	if errs != nil {
		return nil, errs
	}
	return &cfg, nil
}

func loadForecast(v *viper.Viper) (*ForecastConfig, error) {
	keys := []string{"forecast.lat", "forecast.lon", "forecast.kwp"}
	set := 0
	for _, key := range keys {
		if strings.TrimSpace(v.GetString(key)) != "" {
			set++
		}
	}
	if set == 0 {
		return nil, nil
	}
	if set != len(keys) {
		return nil, fmt.Errorf("forecast needs all of %s, %s and %s",
			envName(keys[0]), envName(keys[1]), envName(keys[2]))
	}

	var errs error
	fc := &ForecastConfig{}
	var err error
	if fc.Lat, err = floatSetting(v, "forecast.lat", -90, 90); err != nil {
		errs = multierr.Append(errs, err)
	}
	if fc.Lon, err = floatSetting(v, "forecast.lon", -180, 180); err != nil {
		errs = multierr.Append(errs, err)
	}
	if fc.KWp, err = floatSetting(v, "forecast.kwp", 0, 1000); err != nil {
		errs = multierr.Append(errs, err)
	} else if fc.KWp <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be > 0", envName("forecast.kwp")))
	}
	if fc.Tilt, err = rangeSetting(v, "forecast.tilt", 0, 90); err != nil {
		errs = multierr.Append(errs, err)
	}
	if fc.Azimuth, err = rangeSetting(v, "forecast.azimuth", -180, 180); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return fc, nil
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	// avoid octal parsing of zero padded values like "08"
	if trimmed := strings.TrimLeft(raw, "0"); trimmed != raw {
		if trimmed == "" {
			trimmed = "0"
		}
		raw = trimmed
	}
	i, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", envName(key), v.GetString(key))
	}
	return i, nil
}

func rangeSetting(v *viper.Viper, key string, lo, hi int) (int, error) {
	i, err := intSetting(v, key)
	if err != nil {
		return 0, err
	}
	if i < lo || i > hi {
		return 0, fmt.Errorf("%s must be within %d..%d, got %d", envName(key), lo, hi, i)
	}
	return i, nil
}

func hourSetting(v *viper.Viper, key string) (int, error) {
	return rangeSetting(v, key, 0, 23)
}

func floatSetting(v *viper.Viper, key string, lo, hi float64) (float64, error) {
	f, err := cast.ToFloat64E(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", envName(key), v.GetString(key))
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("%s must be within %g..%g, got %g", envName(key), lo, hi, f)
	}
	return f, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func envName(key string) string {
	return strings.ToUpper(ENV_PREFIX + "_" + strings.ReplaceAll(key, ".", "_"))
}

// Errors flattens an error returned by Load.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	return multierr.Errors(err)
}
