package solaredge

import (
	"context"
	"fmt"
	"strings"

	"github.com/berfenger/solaredge2eink/internal/core/domain"

	"go.uber.org/zap"
)

const (
	METER_PRODUCTION       = "Production"
	METER_CONSUMPTION      = "Consumption"
	METER_SELF_CONSUMPTION = "SelfConsumption"
	METER_FEED_IN          = "FeedIn"
	METER_PURCHASED        = "Purchased"
)

var totalsMeters = []string{METER_PURCHASED, METER_FEED_IN, METER_PRODUCTION, METER_SELF_CONSUMPTION, METER_CONSUMPTION}

// EnergyTotals returns today's energy per meter in kWh.
func (c *Client) EnergyTotals(ctx context.Context) (*domain.EnergyTotals, error) {
	path := c.sitePath("energyDetails")
	today := c.today()
	query := dayRange(today, today)
	query.Set("meters", strings.Join(totalsMeters, ","))

	var resp energyDetailsResponse
	if err := c.getJSON(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	if resp.EnergyDetails == nil {
		return nil, malformed(path, "missing energyDetails")
	}
	scale, err := energyScale(resp.EnergyDetails.Unit)
	if err != nil {
		return nil, malformed(path, "%v", err)
	}

	sums := make(map[string]float64, len(totalsMeters))
	for _, m := range resp.EnergyDetails.Meters {
		name := canonicalMeter(m.Type)
		if name == "" {
			continue
		}
		total := 0.0
		for _, v := range m.Values {
			if v.Value != nil {
				total += *v.Value
			}
		}
		sums[name] += total * scale
	}
	for _, name := range totalsMeters {
		kwh, ok := sums[name]
		if !ok {
			return nil, malformed(path, "missing meter %s", name)
		}
		if kwh < 0 {
			return nil, malformed(path, "negative %s total %.3f", name, kwh)
		}
	}

	totals := &domain.EnergyTotals{
		ProductionKWh:      sums[METER_PRODUCTION],
		SelfConsumptionKWh: sums[METER_SELF_CONSUMPTION],
		FeedInKWh:          sums[METER_FEED_IN],
		ConsumptionKWh:     sums[METER_CONSUMPTION],
		PurchasedKWh:       sums[METER_PURCHASED],
		FetchedAt:          c.now(),
	}
	c.logger.Debug("energy totals fetched", zap.Any("totals", totals))
	return totals, nil
}

// History returns daily production and consumption of the last HistoryDays
// days including today. Days without values are reported as 0. Results are
// reused for HISTORY_TTL since past days do not change.
func (c *Client) History(ctx context.Context) (*domain.EnergyHistory, error) {
	return c.history.Get(ctx)
}

func (c *Client) fetchHistory(ctx context.Context) (*domain.EnergyHistory, error) {
	path := c.sitePath("energyDetails")
	today := c.today()
	first := today.AddDate(0, 0, -(domain.HistoryDays - 1))
	query := dayRange(first, today)
	query.Set("timeUnit", "DAY")
	query.Set("meters", METER_PRODUCTION+","+METER_CONSUMPTION)

	var resp energyDetailsResponse
	if err := c.getJSON(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	if resp.EnergyDetails == nil {
		return nil, malformed(path, "missing energyDetails")
	}
	scale, err := energyScale(resp.EnergyDetails.Unit)
	if err != nil {
		return nil, malformed(path, "%v", err)
	}

	perDay := map[string]map[string]float64{
		METER_PRODUCTION:  {},
		METER_CONSUMPTION: {},
	}
	for _, m := range resp.EnergyDetails.Meters {
		days, ok := perDay[canonicalMeter(m.Type)]
		if !ok {
			continue
		}
		for _, v := range m.Values {
			if v.Value == nil || len(v.Date) < len(DATE_LAYOUT) {
				continue
			}
			days[v.Date[:len(DATE_LAYOUT)]] += max(0, *v.Value*scale)
		}
	}

	h := &domain.EnergyHistory{
		Dates:          make([]string, domain.HistoryDays),
		ProductionKWh:  make([]float64, domain.HistoryDays),
		ConsumptionKWh: make([]float64, domain.HistoryDays),
		FetchedAt:      c.now(),
	}
	for i := 0; i < domain.HistoryDays; i++ {
		day := first.AddDate(0, 0, i).Format(DATE_LAYOUT)
		h.Dates[i] = day
		h.ProductionKWh[i] = perDay[METER_PRODUCTION][day]
		h.ConsumptionKWh[i] = perDay[METER_CONSUMPTION][day]
	}
	return h, nil
}

func canonicalMeter(t string) string {
	for _, name := range totalsMeters {
		if strings.EqualFold(name, t) {
			return name
		}
	}
	return ""
}

func energyScale(unit string) (float64, error) {
	switch strings.ToLower(unit) {
	case "wh", "":
		return 1.0 / 1000, nil
	case "kwh":
		return 1, nil
	case "mwh":
		return 1000, nil
	}
	return 0, fmt.Errorf("unknown energy unit %q", unit)
}
