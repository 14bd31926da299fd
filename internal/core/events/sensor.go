package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	. "github.com/berfenger/solaredge2eink/internal/core/domain"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE         = "bridge"
	SENSOR_ID_PRODUCTION           = "production_today"
	SENSOR_ID_CONSUMPTION          = "consumption_today"
	SENSOR_ID_SELF_CONSUMPTION     = "self_consumption_today"
	SENSOR_ID_FEED_IN              = "feed_in_today"
	SENSOR_ID_PURCHASED            = "purchased_today"
	SENSOR_ID_SOLAR_SHARE          = "solar_share"
	SENSOR_ID_PV_POWER             = "pv_power"
	SENSOR_ID_GRID_POWER           = "grid_power"
	SENSOR_ID_LOAD_POWER           = "load_power"
	SENSOR_ID_OFF_GRID             = "off_grid"
	SENSOR_ID_BATTERY_SOC          = "battery_soc"
	SENSOR_ID_BATTERY_POWER        = "battery_power"
	SENSOR_ID_BATTERY_TEMPERATURE  = "battery_temperature"
	SENSOR_ID_BATTERY_AVAILABLE    = "battery_available_energy"
	SENSOR_ID_BATTERY_STATE        = "battery_operating_state"
	SENSOR_ID_FORECAST_TODAY       = "forecast_today"
	SENSOR_ID_FORECAST_TOMORROW    = "forecast_tomorrow"
	SENSOR_ID_HEALTH_STATE         = "health_state"
	SENSOR_ID_CONSECUTIVE_FAILURES = "consecutive_failures"
	STATE_CLASS_MEASUREMENT        = "measurement"
	STATE_CLASS_TOTAL_INCREASING   = "total_increasing"
	DEVICE_CLASS_BATTERY           = "battery"
	DEVICE_CLASS_ENERGY            = "energy"
	DEVICE_CLASS_ENERGY_STORAGE    = "energy_storage"
	DEVICE_CLASS_POWER             = "power"
	DEVICE_CLASS_TEMPERATURE       = "temperature"
	DEVICE_CLASS_CONNECTIVITY      = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC        = "diagnostic"
	SENSOR_TYPE_SENSOR             = "sensor"
	SENSOR_TYPE_BINARY             = "binary_sensor"
)

func BridgeDevice(siteID string) Device {
	return Device{
		Id:           fmt.Sprintf("solaredge2eink_%s", md5HashShort(siteID)),
		Manufacturer: "ACasal",
		Model:        "SolarEdge e-ink monitor",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("SolarEdge site %s", md5HashShort(siteID)),
	}
}

// Sensors lists the entities announced for a site. Battery and forecast
// entities are only announced when the site provides them.
func Sensors(device Device, battery, forecast bool) []GenericSensor {

	var sensors []GenericSensor

	sensors = append(sensors, GenericSensor{
		Device:         device,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Bridge state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(device.Id, SENSOR_ID_BRIDGE_STATE),
	})

	energy := []struct{ id, name string }{
		{SENSOR_ID_PRODUCTION, "Production today"},
		{SENSOR_ID_CONSUMPTION, "Consumption today"},
		{SENSOR_ID_SELF_CONSUMPTION, "Self consumption today"},
		{SENSOR_ID_FEED_IN, "Feed-in today"},
		{SENSOR_ID_PURCHASED, "Purchased today"},
	}
	for _, e := range energy {
		sensors = append(sensors, GenericSensor{
			Device:            device,
			Id:                e.id,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              e.name,
			StateClass:        STATE_CLASS_TOTAL_INCREASING,
			DeviceClass:       DEVICE_CLASS_ENERGY,
			UnitOfMeasurement: "kWh",
			UniqueId:          uniqueId(device.Id, e.id),
		})
	}

	sensors = append(sensors, GenericSensor{
		Device:            device,
		Id:                SENSOR_ID_SOLAR_SHARE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Solar share",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "%",
		UniqueId:          uniqueId(device.Id, SENSOR_ID_SOLAR_SHARE),
		Icon:              "mdi:solar-power-variant",
	})

	power := []struct{ id, name string }{
		{SENSOR_ID_PV_POWER, "PV power"},
		{SENSOR_ID_GRID_POWER, "Grid power"},
		{SENSOR_ID_LOAD_POWER, "House power"},
	}
	for _, p := range power {
		sensors = append(sensors, GenericSensor{
			Device:            device,
			Id:                p.id,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              p.name,
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_POWER,
			UnitOfMeasurement: "kW",
			UniqueId:          uniqueId(device.Id, p.id),
		})
	}

	sensors = append(sensors, GenericSensor{
		Device:     device,
		Id:         SENSOR_ID_OFF_GRID,
		SensorType: SENSOR_TYPE_BINARY,
		Name:       "Off-grid",
		UniqueId:   uniqueId(device.Id, SENSOR_ID_OFF_GRID),
		Icon:       "mdi:transmission-tower-off",
	})

	if battery {
		sensors = append(sensors, batterySensors(device)...)
	}
	if forecast {
		sensors = append(sensors, forecastSensors(device)...)
	}

	sensors = append(sensors, GenericSensor{
		Device:         device,
		Id:             SENSOR_ID_HEALTH_STATE,
		SensorType:     SENSOR_TYPE_SENSOR,
		Name:           "Monitor state",
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(device.Id, SENSOR_ID_HEALTH_STATE),
		Icon:           "mdi:heart-pulse",
	})
	sensors = append(sensors, GenericSensor{
		Device:           device,
		Id:               SENSOR_ID_CONSECUTIVE_FAILURES,
		SensorType:       SENSOR_TYPE_SENSOR,
		Name:             "Consecutive failures",
		StateClass:       STATE_CLASS_MEASUREMENT,
		EntityCategory:   ENTITY_CLASS_DIAGNOSTIC,
		EnabledByDefault: optionalBool(false),
		UniqueId:         uniqueId(device.Id, SENSOR_ID_CONSECUTIVE_FAILURES),
	})

	return sensors
}

func batterySensors(device Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:            device,
			Id:                SENSOR_ID_BATTERY_SOC,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Battery SoC",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_BATTERY,
			UnitOfMeasurement: "%",
			UniqueId:          uniqueId(device.Id, SENSOR_ID_BATTERY_SOC),
		},
		{
			Device:            device,
			Id:                SENSOR_ID_BATTERY_POWER,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Battery power",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_POWER,
			UnitOfMeasurement: "kW",
			UniqueId:          uniqueId(device.Id, SENSOR_ID_BATTERY_POWER),
		},
		{
			Device:            device,
			Id:                SENSOR_ID_BATTERY_TEMPERATURE,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Battery temperature",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_TEMPERATURE,
			UnitOfMeasurement: "°C",
			UniqueId:          uniqueId(device.Id, SENSOR_ID_BATTERY_TEMPERATURE),
		},
		{
			Device:            device,
			Id:                SENSOR_ID_BATTERY_AVAILABLE,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Battery available energy",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_ENERGY_STORAGE,
			UnitOfMeasurement: "kWh",
			UniqueId:          uniqueId(device.Id, SENSOR_ID_BATTERY_AVAILABLE),
		},
		{
			Device:     device,
			Id:         SENSOR_ID_BATTERY_STATE,
			SensorType: SENSOR_TYPE_SENSOR,
			Name:       "Battery operating state",
			UniqueId:   uniqueId(device.Id, SENSOR_ID_BATTERY_STATE),
		},
	}
}

func forecastSensors(device Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:            device,
			Id:                SENSOR_ID_FORECAST_TODAY,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Forecast today",
			DeviceClass:       DEVICE_CLASS_ENERGY,
			UnitOfMeasurement: "kWh",
			UniqueId:          uniqueId(device.Id, SENSOR_ID_FORECAST_TODAY),
			Icon:              "mdi:weather-sunny",
		},
		{
			Device:            device,
			Id:                SENSOR_ID_FORECAST_TOMORROW,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Forecast tomorrow",
			DeviceClass:       DEVICE_CLASS_ENERGY,
			UnitOfMeasurement: "kWh",
			UniqueId:          uniqueId(device.Id, SENSOR_ID_FORECAST_TOMORROW),
			Icon:              "mdi:weather-partly-cloudy",
		},
	}
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}

func optionalBool(value bool) *bool {
	return &value
}
