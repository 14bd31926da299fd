package solaredge

type powerFlowResponse struct {
	SiteCurrentPowerFlow *struct {
		Unit        string `json:"unit"`
		Connections []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"connections"`
		Grid    *flowNode `json:"GRID"`
		Load    *flowNode `json:"LOAD"`
		PV      *flowNode `json:"PV"`
		Storage *flowNode `json:"STORAGE"`
	} `json:"siteCurrentPowerFlow"`
}

type flowNode struct {
	Status       string   `json:"status"`
	CurrentPower *float64 `json:"currentPower"`
	ChargeLevel  *float64 `json:"chargeLevel"`
}

type energyDetailsResponse struct {
	EnergyDetails *struct {
		TimeUnit string  `json:"timeUnit"`
		Unit     string  `json:"unit"`
		Meters   []meter `json:"meters"`
	} `json:"energyDetails"`
}

type meter struct {
	Type   string       `json:"type"`
	Values []meterValue `json:"values"`
}

type meterValue struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type storageDataResponse struct {
	StorageData *struct {
		BatteryCount int `json:"batteryCount"`
		Batteries    []struct {
			Nameplate    float64            `json:"nameplate"`
			SerialNumber string             `json:"serialNumber"`
			Telemetries  []batteryTelemetry `json:"telemetries"`
		} `json:"batteries"`
	} `json:"storageData"`
}

type batteryTelemetry struct {
	TimeStamp               string   `json:"timeStamp"`
	Power                   *float64 `json:"power"`
	BatteryState            int      `json:"batteryState"`
	FullPackEnergyAvailable *float64 `json:"fullPackEnergyAvailable"`
	InternalTemp            *float64 `json:"internalTemp"`
	BatteryPercentageState  *float64 `json:"batteryPercentageState"`
}
