package types

import (
	"strings"
)

// LoadEntryInput is a single piece of equipment as received from the caller.
// Numeric fields may be numbers or numeric strings.
type LoadEntryInput struct {
	Type string `json:"type" yaml:"type"`
	// Quantidade is the field name the landing page posts. Quantity is
	// accepted as an alias and used only when Quantidade is unset.
	Quantidade  Number `json:"quantidade" yaml:"quantidade"`
	Quantity    Number `json:"quantity" yaml:"quantity"`
	PowerWatts  Number `json:"potencia" yaml:"potencia"`
	HoursPerDay Number `json:"tempo_uso" yaml:"tempo_uso"`
	// Optional overrides, zero or unset means use the category preset.
	PowerFactor      Number `json:"fp" yaml:"fp"`
	InrushMultiplier Number `json:"ipin" yaml:"ipin"`
}

// LoadEntry is a coerced load entry. PowerFactor and InrushMultiplier are 0
// when the caller did not override them.
type LoadEntry struct {
	Type             string  `json:"type"`
	Quantity         float64 `json:"quantity"`
	PowerWatts       float64 `json:"powerWatts"`
	HoursPerDay      float64 `json:"hoursPerDay"`
	PowerFactor      float64 `json:"powerFactor,omitempty"`
	InrushMultiplier float64 `json:"inrushMultiplier,omitempty"`

	// PowerWattsText and HoursPerDayText are the values as the caller wrote
	// them, echoed back in warnings.
	PowerWattsText  string `json:"-"`
	HoursPerDayText string `json:"-"`
}

// Coerce converts the raw entry into a LoadEntry. index is used in the
// returned *ValidationError.
func (in LoadEntryInput) Coerce(index int) (LoadEntry, error) {
	entry := LoadEntry{
		Type: strings.TrimSpace(in.Type),
	}
	if entry.Type == "" {
		return LoadEntry{}, &ValidationError{Index: index, Field: "type", Reason: "required"}
	}

	quantity := in.Quantidade
	quantityField := "quantidade"
	if !quantity.IsSet() {
		quantity = in.Quantity
		quantityField = "quantity"
	}

	required := []struct {
		field string
		num   Number
		dst   *float64
	}{
		{quantityField, quantity, &entry.Quantity},
		{"potencia", in.PowerWatts, &entry.PowerWatts},
		{"tempo_uso", in.HoursPerDay, &entry.HoursPerDay},
	}
	for _, r := range required {
		f, err := coerceNonNegative(index, r.field, r.num)
		if err != nil {
			return LoadEntry{}, err
		}
		if !r.num.IsSet() {
			return LoadEntry{}, &ValidationError{Index: index, Field: r.field, Reason: "required"}
		}
		*r.dst = f
	}
	entry.PowerWattsText = strings.TrimSpace(in.PowerWatts.Raw())
	entry.HoursPerDayText = strings.TrimSpace(in.HoursPerDay.Raw())

	var err error
	if entry.PowerFactor, err = coerceNonNegative(index, "fp", in.PowerFactor); err != nil {
		return LoadEntry{}, err
	}
	if entry.PowerFactor > 1 {
		return LoadEntry{}, &ValidationError{Index: index, Field: "fp", Value: in.PowerFactor.Raw(), Reason: "must not be greater than 1"}
	}
	if entry.InrushMultiplier, err = coerceNonNegative(index, "ipin", in.InrushMultiplier); err != nil {
		return LoadEntry{}, err
	}
	return entry, nil
}

func coerceNonNegative(index int, field string, n Number) (float64, error) {
	f, _, err := n.Float()
	if err != nil {
		return 0, &ValidationError{Index: index, Field: field, Value: n.Raw(), Reason: err.Error()}
	}
	if f < 0 {
		return 0, &ValidationError{Index: index, Field: field, Value: n.Raw(), Reason: "must not be negative"}
	}
	return f, nil
}

// CategoryPreset holds the electrical defaults of a load category.
type CategoryPreset struct {
	Category         string  `json:"category" yaml:"category"`
	Name             string  `json:"name" yaml:"name"`
	PowerFactor      float64 `json:"fp" yaml:"fp"`
	InrushMultiplier float64 `json:"ipin" yaml:"ipin"`
}

// AggregateLoad is the sum of every load entry in a request.
type AggregateLoad struct {
	DailyEnergyKWh         float64  `json:"dailyEnergyKWh"`
	NominalApparentPowerVA float64  `json:"nominalApparentPowerVA"`
	PeakApparentPowerVA    float64  `json:"peakApparentPowerVA"`
	Warnings               []string `json:"warnings"`
}
