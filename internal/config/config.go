package config

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type BatteryMode string

const (
	BATTERY_AUTO BatteryMode = "auto"
	BATTERY_ON   BatteryMode = "on"
	BATTERY_OFF  BatteryMode = "off"
)

type Config struct {
	LogLevel zapcore.Level
	LogFile  string

	APIKey       string
	SiteID       string
	PollInterval time.Duration
	SleepStart   int
	SleepEnd     int
	Location     *time.Location

	Debug    bool
	DebugDir string
	Battery  BatteryMode
	// Forecast is nil when no forecast location is configured.
	Forecast *ForecastConfig

	MQTT    MQTTConfig
	Port    uint
	HttpLog bool

	APIURL      string
	ForecastURL string
}

type ForecastConfig struct {
	Lat     float64
	Lon     float64
	Tilt    int
	Azimuth int
	KWp     float64
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func (c MQTTConfig) Enabled() bool {
	return c.Host != ""
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// MaskSecret keeps only the last 4 characters of s.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
