package sizing

import (
	"fmt"
	"strconv"

	"github.com/solaris-sizer/solaris/pkg/types"
)

const (
	// A single unit using more than this per day gets a warning.
	largeLoadDailyKWh = 2.0
	// A single unit drawing more than this gets a warning.
	largeLoadWatts = 1500.0
)

// Presets resolves the electrical defaults of a load category. Unknown
// categories must resolve to a generic preset.
type Presets interface {
	Preset(category string) types.CategoryPreset
}

// ResolvePreset returns the power factor and inrush multiplier used for
// entry. A non-zero override on the entry wins over the category preset.
func ResolvePreset(presets Presets, entry types.LoadEntry) (powerFactor, inrush float64) {
	preset := presets.Preset(entry.Type)
	powerFactor = entry.PowerFactor
	if powerFactor == 0 {
		powerFactor = preset.PowerFactor
	}
	inrush = entry.InrushMultiplier
	if inrush == 0 {
		inrush = preset.InrushMultiplier
	}
	return powerFactor, inrush
}

// CoerceEntries converts raw load entries, stopping at the first invalid one.
func CoerceEntries(inputs []types.LoadEntryInput) ([]types.LoadEntry, error) {
	entries := make([]types.LoadEntry, 0, len(inputs))
	for i, in := range inputs {
		e, err := in.Coerce(i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Aggregate sums the daily energy, nominal apparent power and peak apparent
// power of entries. Entries are summed in order.
func Aggregate(presets Presets, entries []types.LoadEntry) types.AggregateLoad {
	agg := types.AggregateLoad{
		Warnings: []string{},
	}
	for _, e := range entries {
		powerFactor, inrush := ResolvePreset(presets, e)

		// warnings look at a single unit, regardless of quantity
		unitDailyKWh := (e.PowerWatts * e.HoursPerDay) / 1000
		if unitDailyKWh > largeLoadDailyKWh || e.PowerWatts > largeLoadWatts {
			agg.Warnings = append(agg.Warnings, largeLoadWarning(e))
		}

		apparent := (e.Quantity * e.PowerWatts) / powerFactor
		agg.DailyEnergyKWh += (e.Quantity * e.PowerWatts * e.HoursPerDay) / 1000
		agg.NominalApparentPowerVA += apparent
		agg.PeakApparentPowerVA += apparent * inrush
	}
	return agg
}

// largeLoadWarning names the wattage and hours the way the caller wrote them.
func largeLoadWarning(e types.LoadEntry) string {
	return fmt.Sprintf(
		"Atenção: O equipamento com potência %sW usado por %sh é um grande consumidor. Ele terá um impacto significativo na autonomia das baterias.",
		textOr(e.PowerWattsText, e.PowerWatts),
		textOr(e.HoursPerDayText, e.HoursPerDay),
	)
}

func textOr(text string, f float64) string {
	if text != "" {
		return text
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
