package solaredge

import (
	"context"
	"net/url"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

const (
	STORAGE_WINDOW = time.Hour
	// below this battery power in W the battery is reported as idle
	STORAGE_IDLE_THRESHOLD_W = 10.0
)

// Battery returns the latest telemetry of the first battery of the site.
func (c *Client) Battery(ctx context.Context) (*domain.BatterySnapshot, error) {
	path := c.sitePath("storageData")
	end := c.now().In(c.loc)
	query := url.Values{
		"startTime": {end.Add(-STORAGE_WINDOW).Format(TIME_LAYOUT)},
		"endTime":   {end.Format(TIME_LAYOUT)},
	}

	var resp storageDataResponse
	if err := c.getJSON(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	if resp.StorageData == nil {
		return nil, malformed(path, "missing storageData")
	}
	if len(resp.StorageData.Batteries) == 0 {
		return nil, ErrNoBattery
	}
	telemetries := resp.StorageData.Batteries[0].Telemetries
	if len(telemetries) == 0 {
		return nil, ErrNoBattery
	}
	last := telemetries[len(telemetries)-1]
	if last.BatteryPercentageState == nil || last.Power == nil {
		return nil, malformed(path, "telemetry without batteryPercentageState or power")
	}

	power := *last.Power
	status := domain.StorageIdle
	switch {
	case power > STORAGE_IDLE_THRESHOLD_W:
		status = domain.StorageCharging
	case power < -STORAGE_IDLE_THRESHOLD_W:
		status = domain.StorageDischarging
	}

	soc := clampPercent(*last.BatteryPercentageState)
	snap := &domain.BatterySnapshot{
		StateOfCharge: soc,
		Status:        status,
		PowerKW:       power / 1000,
		FetchedAt:     c.now(),
	}
	if last.InternalTemp != nil {
		snap.TemperatureC = *last.InternalTemp
	}
	if last.FullPackEnergyAvailable != nil {
		snap.AvailableKWh = *last.FullPackEnergyAvailable * float64(soc) / 100 / 1000
	}
	return snap, nil
}
