package solaredge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/util"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 14, 12, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := util.LoadTestConfig()
	cfg.APIURL = srv.URL
	c := NewClient(&cfg, zap.NewNop())
	c.now = func() time.Time { return testNow }
	c.backOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, MAX_RETRIES)
	}
	return c
}

const energyDetailsJSON = `{"energyDetails":{"timeUnit":"QUARTER_OF_AN_HOUR","unit":"Wh","meters":[
{"type":"Purchased","values":[{"date":"2024-06-14 00:00:00","value":1000.0},{"date":"2024-06-14 00:15:00","value":500.0}]},
{"type":"FeedIn","values":[{"date":"2024-06-14 10:00:00","value":4000.0},{"date":"2024-06-14 10:15:00"}]},
{"type":"Production","values":[{"date":"2024-06-14 10:00:00","value":10000.0}]},
{"type":"SelfConsumption","values":[{"date":"2024-06-14 10:00:00","value":6000.0}]},
{"type":"Consumption","values":[{"date":"2024-06-14 10:00:00","value":9000.0}]}]}}`

func TestEnergyTotals(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/site/424242/energyDetails", r.URL.Path)
		assert.Equal("TESTKEY0123456789", r.URL.Query().Get("api_key"))
		assert.Equal("2024-06-14 00:00:00", r.URL.Query().Get("startTime"))
		assert.Equal("2024-06-14 23:59:59", r.URL.Query().Get("endTime"))
		assert.Contains(r.Header.Get("User-Agent"), "solaredge2eink/")
		fmt.Fprint(w, energyDetailsJSON)
	})

	totals, err := c.EnergyTotals(context.Background())
	require.NoError(err)
	assert.InDelta(10.0, totals.ProductionKWh, 0.0001)
	assert.InDelta(6.0, totals.SelfConsumptionKWh, 0.0001)
	assert.InDelta(4.0, totals.FeedInKWh, 0.0001)
	assert.InDelta(9.0, totals.ConsumptionKWh, 0.0001)
	assert.InDelta(1.5, totals.PurchasedKWh, 0.0001)
	assert.Equal(testNow, totals.FetchedAt)
}

func TestEnergyTotalsMissingMeter(t *testing.T) {

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"energyDetails":{"unit":"Wh","meters":[{"type":"Production","values":[]}]}}`)
	})

	totals, err := c.EnergyTotals(context.Background())
	assert.Nil(t, totals)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEnergyTotalsInvalidJSON(t *testing.T) {

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})

	_, err := c.EnergyTotals(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRetriesOnServerErrors(t *testing.T) {

	require := require.New(t)

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, energyDetailsJSON)
	})

	totals, err := c.EnergyTotals(context.Background())
	require.NoError(err)
	require.NotNil(totals)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGivesUpAfterRetries(t *testing.T) {

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.EnergyTotals(context.Background())
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusTooManyRequests, serr.StatusCode)
	assert.Equal(t, int32(MAX_RETRIES+1), calls.Load())
}

func TestNoRetryOnClientErrors(t *testing.T) {

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.EnergyTotals(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelledContext(t *testing.T) {

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, energyDetailsJSON)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.EnergyTotals(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPowerFlow(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/site/424242/currentPowerFlow", r.URL.Path)
		fmt.Fprint(w, `{"siteCurrentPowerFlow":{"unit":"kW","connections":[{"from":"GRID","to":"Load"},{"from":"PV","to":"Load"}],
"GRID":{"status":"Active","currentPower":0.4},
"LOAD":{"status":"Active","currentPower":2.1},
"PV":{"status":"Active","currentPower":2.5},
"STORAGE":{"status":"Charging","currentPower":0.8,"chargeLevel":61,"critical":false}}}`)
	})

	pf, err := c.PowerFlow(context.Background())
	require.NoError(err)
	assert.Equal(0.4, pf.GridKW)
	assert.Equal(2.1, pf.LoadKW)
	assert.Equal(2.5, pf.PVKW)
	assert.True(pf.HasStorage)
	assert.Equal(domain.StorageCharging, pf.StorageStatus)
	assert.Equal(61, pf.StateOfCharge)
	assert.False(pf.OffGrid)
}

func TestPowerFlowOffGridWithoutStorage(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"siteCurrentPowerFlow":{"unit":"W","connections":[{"from":"PV","to":"Load"}],
"GRID":{"status":"Idle","currentPower":0},
"LOAD":{"status":"Active","currentPower":1500},
"PV":{"status":"Active","currentPower":1500}}}`)
	})

	pf, err := c.PowerFlow(context.Background())
	require.NoError(err)
	assert.False(pf.HasStorage)
	assert.True(pf.OffGrid)
	assert.Equal(1.5, pf.LoadKW)
}

func TestPowerFlowMissingField(t *testing.T) {

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"siteCurrentPowerFlow":{"unit":"kW","GRID":{"status":"Active"},"LOAD":{"currentPower":1},"PV":{"currentPower":1}}}`)
	})

	pf, err := c.PowerFlow(context.Background())
	assert.Nil(t, pf)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBattery(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/site/424242/storageData", r.URL.Path)
		assert.Equal("2024-06-14 11:30:00", r.URL.Query().Get("startTime"))
		fmt.Fprint(w, `{"storageData":{"batteryCount":1,"batteries":[{"nameplate":9700,"serialNumber":"X","telemetries":[
{"timeStamp":"2024-06-14 12:00:00","power":100,"batteryState":3,"fullPackEnergyAvailable":9000,"internalTemp":24,"batteryPercentageState":40},
{"timeStamp":"2024-06-14 12:25:00","power":-1200,"batteryState":3,"fullPackEnergyAvailable":9000,"internalTemp":25.5,"batteryPercentageState":50.2}]}]}}`)
	})

	b, err := c.Battery(context.Background())
	require.NoError(err)
	assert.Equal(50, b.StateOfCharge)
	assert.Equal(domain.StorageDischarging, b.Status)
	assert.Equal(25.5, b.TemperatureC)
	assert.InDelta(4.5, b.AvailableKWh, 0.0001)
	assert.InDelta(-1.2, b.PowerKW, 0.0001)
}

func TestBatteryNone(t *testing.T) {

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"storageData":{"batteryCount":0,"batteries":[]}}`)
	})

	_, err := c.Battery(context.Background())
	assert.ErrorIs(t, err, ErrNoBattery)
}

func TestHistory(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("DAY", r.URL.Query().Get("timeUnit"))
		assert.Equal("2024-06-01 00:00:00", r.URL.Query().Get("startTime"))
		assert.Equal("2024-06-14 23:59:59", r.URL.Query().Get("endTime"))
		fmt.Fprint(w, `{"energyDetails":{"timeUnit":"DAY","unit":"Wh","meters":[
{"type":"Production","values":[{"date":"2024-06-01 00:00:00","value":12000},{"date":"2024-06-14 00:00:00","value":8000}]},
{"type":"Consumption","values":[{"date":"2024-06-02 00:00:00","value":7000},{"date":"2024-06-03 00:00:00"}]}]}}`)
	})

	h, err := c.History(context.Background())
	require.NoError(err)
	require.Equal(domain.HistoryDays, h.Len())
	assert.Len(h.ProductionKWh, domain.HistoryDays)
	assert.Len(h.ConsumptionKWh, domain.HistoryDays)
	assert.Equal("2024-06-01", h.Dates[0])
	assert.Equal("2024-06-14", h.Dates[13])
	assert.Equal(12.0, h.ProductionKWh[0])
	assert.Equal(8.0, h.ProductionKWh[13])
	assert.Equal(0.0, h.ProductionKWh[5], "missing day")
	assert.Equal(7.0, h.ConsumptionKWh[1])
	assert.Equal(0.0, h.ConsumptionKWh[2], "null value")
}

func TestHistoryIsReused(t *testing.T) {

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"energyDetails":{"timeUnit":"DAY","unit":"Wh","meters":[]}}`)
	})

	_, err := c.History(context.Background())
	require.NoError(t, err)
	_, err = c.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
