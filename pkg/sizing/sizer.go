package sizing

import (
	"cmp"
	"math"
	"slices"

	"github.com/solaris-sizer/solaris/pkg/types"
)

const (
	// SystemEfficiency derates the PV array for inverter, wiring and
	// temperature losses.
	SystemEfficiency = 0.85
	// DepthOfDischarge is the usable fraction of the battery bank.
	DepthOfDischarge = 0.80
	// MaxSolutions is the most candidates returned per calculation.
	MaxSolutions = 3
)

// Catalog is the read-only equipment catalog the sizer matches against.
type Catalog interface {
	Presets

	// PeakSunHours normalizes region and returns its peak sun hours, or the
	// default with known set to false.
	PeakSunHours(region string) (normalized string, hours float64, known bool)

	// Inverters returns the inverters in catalog order.
	Inverters() []types.InverterSpec

	// Battery returns the battery with the given model.
	Battery(model string) (types.BatterySpec, bool)
}

// Size derives the PV array and battery bank for agg and picks up to
// MaxSolutions inverters, cheapest first, that cover both the nominal and the
// peak apparent power.
func Size(cat Catalog, agg types.AggregateLoad, region string, autonomyDays float64) types.SizingResult {
	normalized, hsp, known := cat.PeakSunHours(region)

	res := types.SizingResult{
		Region:         normalized,
		RegionKnown:    known,
		PeakSunHours:   hsp,
		PVArrayKWp:     agg.DailyEnergyKWh / (hsp * SystemEfficiency),
		BatteryBankKWh: (agg.DailyEnergyKWh * autonomyDays) / DepthOfDischarge,
	}
	res.Solutions = Match(cat, agg, res.BatteryBankKWh)
	return res
}

// Match filters the catalog inverters against agg, sorts the survivors by
// price keeping catalog order for equal prices and pairs each of the first
// MaxSolutions with enough of its compatible battery to hold bankKWh.
// It returns an empty, non-nil slice when nothing qualifies.
func Match(cat Catalog, agg types.AggregateLoad, bankKWh float64) []types.SolutionCandidate {
	survivors := slices.DeleteFunc(cat.Inverters(), func(inv types.InverterSpec) bool {
		return inv.NominalPowerVA < agg.NominalApparentPowerVA || inv.PeakPowerVA < agg.PeakApparentPowerVA
	})
	slices.SortStableFunc(survivors, func(a, b types.InverterSpec) int {
		return cmp.Compare(a.EstimatedPrice, b.EstimatedPrice)
	})
	if len(survivors) > MaxSolutions {
		survivors = survivors[:MaxSolutions]
	}

	solutions := make([]types.SolutionCandidate, 0, len(survivors))
	for _, inv := range survivors {
		battery, ok := cat.Battery(inv.CompatibleBattery)
		if !ok {
			// the catalog is checked when it is loaded
			panic("catalog: inverter " + inv.Model + " references unknown battery " + inv.CompatibleBattery)
		}
		solutions = append(solutions, types.SolutionCandidate{
			InverterModel:          inv.Model,
			InverterNominalPowerVA: inv.NominalPowerVA,
			BatteryModel:           battery.Model,
			BatteryQuantity:        BatteryQuantity(bankKWh, battery.NominalEnergyKWh),
		})
	}
	return solutions
}

// BatteryQuantity is the number of batteries of batteryKWh needed to store
// bankKWh. At least one battery is always returned.
func BatteryQuantity(bankKWh, batteryKWh float64) int {
	n := int(math.Ceil(bankKWh / batteryKWh))
	if n < 1 {
		return 1
	}
	return n
}
