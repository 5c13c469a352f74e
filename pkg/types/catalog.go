package types

// InverterSpec is a catalog row describing an inverter and the battery model
// it is sold with.
type InverterSpec struct {
	Model          string  `json:"model" yaml:"model"`
	PeakPowerVA    float64 `json:"peakPowerVA" yaml:"peak_power_va"`
	NominalPowerVA float64 `json:"nominalPowerVA" yaml:"nominal_power_va"`
	Topology       string  `json:"topology" yaml:"topology"`
	EstimatedPrice float64 `json:"estimatedPrice" yaml:"estimated_price"`
	// CompatibleBattery is the Model of a BatterySpec in the same catalog.
	CompatibleBattery string `json:"compatibleBattery" yaml:"compatible_battery"`
}

// BatterySpec is a catalog row describing a single battery module.
type BatterySpec struct {
	Model            string  `json:"model" yaml:"model"`
	NominalEnergyKWh float64 `json:"nominalEnergyKWh" yaml:"nominal_energy_kwh"`
	VoltageV         float64 `json:"voltageV" yaml:"voltage_v"`
}

// RegionIrradiance maps a normalized region name to its peak sun hours.
type RegionIrradiance struct {
	Region       string  `json:"region" yaml:"region"`
	PeakSunHours float64 `json:"peakSunHours" yaml:"peak_sun_hours"`
}
