package util

import (
	"time"

	"github.com/berfenger/solaredge2eink/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel:     zap.DebugLevel,
		APIKey:       "TESTKEY0123456789",
		SiteID:       "424242",
		PollInterval: 5 * time.Minute,
		SleepStart:   0,
		SleepEnd:     6,
		Location:     time.UTC,
		DebugDir:     "debug",
		Battery:      config.BATTERY_AUTO,
		Forecast: &config.ForecastConfig{
			Lat:     52.52,
			Lon:     13.4,
			Tilt:    30,
			Azimuth: 0,
			KWp:     9.8,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "solaredge",
			HADiscoveryTopic: "homeassistant",
		},
		APIURL:      "http://127.0.0.1:0",
		ForecastURL: "http://127.0.0.1:0",
		Port:        8080,
	}
}
