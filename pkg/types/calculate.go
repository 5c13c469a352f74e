package types

// CalculateRequest is the input record of a sizing calculation.
type CalculateRequest struct {
	Equipments []LoadEntryInput `json:"equipments" yaml:"equipments"`
	// AutonomyDays defaults to 1 when unset.
	AutonomyDays Number `json:"dias_autonomia" yaml:"dias_autonomia"`
	// Region defaults to "fortaleza" when nil. Only the text before the
	// first comma is used, so "Fortaleza, CE" works.
	Region *string `json:"regiao" yaml:"regiao"`
}

// SolutionCandidate is one inverter plus battery bank that can carry the load.
type SolutionCandidate struct {
	InverterModel          string  `json:"inversor_modelo"`
	InverterNominalPowerVA float64 `json:"inversor_potencia_va"`
	BatteryModel           string  `json:"bateria_modelo"`
	BatteryQuantity        int     `json:"bateria_quantidade"`
}

// SizingResult is the unrounded output of the system sizer.
type SizingResult struct {
	Region string `json:"region"`
	// RegionKnown is false when PeakSunHours is the catalog default.
	RegionKnown    bool                `json:"regionKnown"`
	PeakSunHours   float64             `json:"peakSunHours"`
	PVArrayKWp     float64             `json:"pvArrayKWp"`
	BatteryBankKWh float64             `json:"batteryBankKWh"`
	Solutions      []SolutionCandidate `json:"solutions"`
}

// MainResults are the headline figures, rounded to 2 decimal places.
type MainResults struct {
	PVArrayKWp     float64 `json:"potencia_pv_kWp"`
	BatteryBankKWh float64 `json:"capacidade_banco_kwh"`
	PeakLoadVA     float64 `json:"potencia_pico_carga_va"`
	DailyEnergyKWh float64 `json:"energia_diaria_kwh"`
}

// CalculateResponse is the output record of a sizing calculation.
type CalculateResponse struct {
	Warnings    []string            `json:"intellectus_warnings"`
	MainResults MainResults         `json:"main_results"`
	Solutions   []SolutionCandidate `json:"solutions"`
}
