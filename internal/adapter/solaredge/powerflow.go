package solaredge

import (
	"context"
	"math"
	"strings"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

// PowerFlow returns the current power flow of the site.
func (c *Client) PowerFlow(ctx context.Context) (*domain.PowerFlowSnapshot, error) {
	path := c.sitePath("currentPowerFlow")

	var resp powerFlowResponse
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	flow := resp.SiteCurrentPowerFlow
	if flow == nil {
		return nil, malformed(path, "missing siteCurrentPowerFlow")
	}

	scale := 1.0
	if strings.EqualFold(flow.Unit, "W") {
		scale = 1.0 / 1000
	}

	grid, err := nodePower(path, "GRID", flow.Grid, scale)
	if err != nil {
		return nil, err
	}
	load, err := nodePower(path, "LOAD", flow.Load, scale)
	if err != nil {
		return nil, err
	}
	pv, err := nodePower(path, "PV", flow.PV, scale)
	if err != nil {
		return nil, err
	}

	snap := &domain.PowerFlowSnapshot{
		GridKW:    grid,
		LoadKW:    load,
		PVKW:      pv,
		OffGrid:   len(flow.Connections) > 0 && !strings.EqualFold(flow.Connections[0].From, "grid"),
		FetchedAt: c.now(),
	}

	if flow.Storage != nil {
		storage, err := nodePower(path, "STORAGE", flow.Storage, scale)
		if err != nil {
			return nil, err
		}
		status, err := domain.ParseStorageStatus(flow.Storage.Status)
		if err != nil {
			return nil, malformed(path, "%v", err)
		}
		if flow.Storage.ChargeLevel == nil {
			return nil, malformed(path, "STORAGE without chargeLevel")
		}
		snap.HasStorage = true
		snap.StorageKW = storage
		snap.StorageStatus = status
		snap.StateOfCharge = clampPercent(*flow.Storage.ChargeLevel)
	}
	return snap, nil
}

func nodePower(path, name string, node *flowNode, scale float64) (float64, error) {
	if node == nil {
		return 0, malformed(path, "missing %s", name)
	}
	if node.CurrentPower == nil {
		return 0, malformed(path, "%s without currentPower", name)
	}
	return *node.CurrentPower * scale, nil
}

func clampPercent(v float64) int {
	return int(math.Round(min(100, max(0, v))))
}
