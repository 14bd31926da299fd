package events

import (
	. "github.com/berfenger/solaredge2eink/internal/core/domain"
)

// PollCompletedToUpdateEvents converts the freshly fetched part of a poll into
// sensor updates. Kinds that were not refreshed produce no events.
func PollCompletedToUpdateEvents(pc PollCompleted) []any {
	var events []any

	if e := pc.Fresh.Energy; e != nil {
		events = append(events, EnergyTotalsToUpdateEvents(e)...)
	}
	if pf := pc.Fresh.PowerFlow; pf != nil {
		events = append(events, PowerFlowToUpdateEvents(pf)...)
	}
	if b := pc.Fresh.Battery; b != nil {
		events = append(events, BatteryToUpdateEvents(b)...)
	}
	if f := pc.Fresh.Forecast; f != nil {
		events = append(events, ForecastToUpdateEvents(f)...)
	}
	events = append(events, HealthToUpdateEvents(pc.State, pc.Failures)...)

	return events
}

func EnergyTotalsToUpdateEvents(e *EnergyTotals) []any {
	return []any{
		floatEvent(SENSOR_ID_PRODUCTION, e.ProductionKWh, 3),
		floatEvent(SENSOR_ID_CONSUMPTION, e.ConsumptionKWh, 3),
		floatEvent(SENSOR_ID_SELF_CONSUMPTION, e.SelfConsumptionKWh, 3),
		floatEvent(SENSOR_ID_FEED_IN, e.FeedInKWh, 3),
		floatEvent(SENSOR_ID_PURCHASED, e.PurchasedKWh, 3),
		floatEvent(SENSOR_ID_SOLAR_SHARE, 100-e.PurchasedShare(), 0),
	}
}

func PowerFlowToUpdateEvents(pf *PowerFlowSnapshot) []any {
	return []any{
		floatEvent(SENSOR_ID_PV_POWER, pf.PVKW, 2),
		floatEvent(SENSOR_ID_GRID_POWER, pf.GridKW, 2),
		floatEvent(SENSOR_ID_LOAD_POWER, pf.LoadKW, 2),
		BinarySensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_OFF_GRID,
			},
			Value: pf.OffGrid,
		},
	}
}

func BatteryToUpdateEvents(b *BatterySnapshot) []any {
	return []any{
		floatEvent(SENSOR_ID_BATTERY_SOC, float64(b.StateOfCharge), 0),
		floatEvent(SENSOR_ID_BATTERY_POWER, b.PowerKW, 2),
		floatEvent(SENSOR_ID_BATTERY_TEMPERATURE, b.TemperatureC, 1),
		floatEvent(SENSOR_ID_BATTERY_AVAILABLE, b.AvailableKWh, 2),
		TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BATTERY_STATE,
			},
			Value: b.Status.String(),
		},
	}
}

func ForecastToUpdateEvents(f *ForecastSnapshot) []any {
	return []any{
		floatEvent(SENSOR_ID_FORECAST_TODAY, f.TodayKWh, 2),
		floatEvent(SENSOR_ID_FORECAST_TOMORROW, f.TomorrowKWh, 2),
	}
}

func HealthToUpdateEvents(state HealthState, failures int) []any {
	return []any{
		TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_HEALTH_STATE,
			},
			Value: state.String(),
		},
		floatEvent(SENSOR_ID_CONSECUTIVE_FAILURES, float64(failures), 0),
	}
}

func BridgeStateUpdateEvents(online bool) any {
	return BridgeStateUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BRIDGE_STATE,
		},
		Value: online,
	}
}

func floatEvent(id string, value float64, decimals uint) FloatSensorUpdateEvent {
	return FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: id,
		},
		Value:    value,
		Decimals: decimals,
	}
}
