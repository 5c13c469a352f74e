package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/solaris-sizer/solaris/pkg/types"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ErrCatalogIntegrity is returned when the catalog tables are inconsistent,
// for example an inverter referencing a battery model that does not exist.
var ErrCatalogIntegrity = errors.New("catalog integrity")

// file is the on-disk shape of the catalog.
type file struct {
	DefaultPeakSunHours float64                  `yaml:"default_peak_sun_hours"`
	FallbackCategory    string                   `yaml:"fallback_category"`
	Categories          []types.CategoryPreset   `yaml:"categories"`
	Regions             []types.RegionIrradiance `yaml:"regions"`
	Inverters           []types.InverterSpec     `yaml:"inverters"`
	Batteries           []types.BatterySpec      `yaml:"batteries"`
}

// Catalog holds the static equipment tables, category presets and regional
// irradiance. It is built once and never mutated, so it is safe for
// concurrent use without locking. Accessors return copies.
type Catalog struct {
	defaultPeakSunHours float64
	fallback            types.CategoryPreset

	inverters  []types.InverterSpec
	batteries  []types.BatterySpec
	categories []types.CategoryPreset
	regions    []types.RegionIrradiance

	batteryByModel   map[string]types.BatterySpec
	presetByCategory map[string]types.CategoryPreset
	peakSunByRegion  map[string]float64
}

// Default returns the catalog embedded in the binary. It panics if the
// embedded tables fail the integrity check since that is a build defect.
func Default() *Catalog {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		panic(fmt.Errorf("embedded catalog: %w", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog, builds the lookup indexes and verifies that
// every inverter resolves to exactly one battery.
func Parse(b []byte) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return build(f)
}

func build(f file) (*Catalog, error) {
	c := &Catalog{
		defaultPeakSunHours: f.DefaultPeakSunHours,
		inverters:           f.Inverters,
		batteries:           f.Batteries,
		categories:          f.Categories,
		regions:             make([]types.RegionIrradiance, 0, len(f.Regions)),
		batteryByModel:      make(map[string]types.BatterySpec, len(f.Batteries)),
		presetByCategory:    make(map[string]types.CategoryPreset, len(f.Categories)),
		peakSunByRegion:     make(map[string]float64, len(f.Regions)),
	}

	if c.defaultPeakSunHours <= 0 {
		return nil, fmt.Errorf("%w: default_peak_sun_hours must be positive", ErrCatalogIntegrity)
	}

	for _, b := range f.Batteries {
		if b.Model == "" {
			return nil, fmt.Errorf("%w: battery without model", ErrCatalogIntegrity)
		}
		if _, ok := c.batteryByModel[b.Model]; ok {
			return nil, fmt.Errorf("%w: duplicate battery %q", ErrCatalogIntegrity, b.Model)
		}
		if b.NominalEnergyKWh <= 0 || b.VoltageV <= 0 {
			return nil, fmt.Errorf("%w: battery %q must have positive energy and voltage", ErrCatalogIntegrity, b.Model)
		}
		c.batteryByModel[b.Model] = b
	}

	seen := make(map[string]bool, len(f.Inverters))
	for _, inv := range f.Inverters {
		if inv.Model == "" {
			return nil, fmt.Errorf("%w: inverter without model", ErrCatalogIntegrity)
		}
		if seen[inv.Model] {
			return nil, fmt.Errorf("%w: duplicate inverter %q", ErrCatalogIntegrity, inv.Model)
		}
		seen[inv.Model] = true
		if inv.PeakPowerVA <= 0 || inv.NominalPowerVA <= 0 || inv.EstimatedPrice <= 0 {
			return nil, fmt.Errorf("%w: inverter %q must have positive power and price", ErrCatalogIntegrity, inv.Model)
		}
		if _, ok := c.batteryByModel[inv.CompatibleBattery]; !ok {
			return nil, fmt.Errorf("%w: inverter %q references unknown battery %q", ErrCatalogIntegrity, inv.Model, inv.CompatibleBattery)
		}
	}

	for _, p := range f.Categories {
		if _, ok := c.presetByCategory[p.Category]; ok {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrCatalogIntegrity, p.Category)
		}
		if p.PowerFactor <= 0 || p.PowerFactor > 1 {
			return nil, fmt.Errorf("%w: category %q power factor must be in (0,1]", ErrCatalogIntegrity, p.Category)
		}
		if p.InrushMultiplier < 1 {
			return nil, fmt.Errorf("%w: category %q inrush multiplier must be at least 1", ErrCatalogIntegrity, p.Category)
		}
		c.presetByCategory[p.Category] = p
	}
	fallback, ok := c.presetByCategory[f.FallbackCategory]
	if !ok {
		return nil, fmt.Errorf("%w: fallback category %q is not defined", ErrCatalogIntegrity, f.FallbackCategory)
	}
	c.fallback = fallback

	for _, r := range f.Regions {
		name := NormalizeRegion(r.Region)
		if _, ok := c.peakSunByRegion[name]; ok {
			return nil, fmt.Errorf("%w: duplicate region %q", ErrCatalogIntegrity, name)
		}
		if r.PeakSunHours <= 0 {
			return nil, fmt.Errorf("%w: region %q peak sun hours must be positive", ErrCatalogIntegrity, name)
		}
		c.peakSunByRegion[name] = r.PeakSunHours
		c.regions = append(c.regions, types.RegionIrradiance{Region: name, PeakSunHours: r.PeakSunHours})
	}

	return c, nil
}

// NormalizeRegion keeps the text before the first comma, trimmed and
// lowercased, so "Fortaleza, CE" becomes "fortaleza".
func NormalizeRegion(region string) string {
	region, _, _ = strings.Cut(region, ",")
	return strings.ToLower(strings.TrimSpace(region))
}

// PeakSunHours returns the peak sun hours for region after normalizing it.
// Unknown regions get the catalog default and known is false.
func (c *Catalog) PeakSunHours(region string) (normalized string, hours float64, known bool) {
	normalized = NormalizeRegion(region)
	if h, ok := c.peakSunByRegion[normalized]; ok {
		return normalized, h, true
	}
	return normalized, c.defaultPeakSunHours, false
}

// DefaultPeakSunHours is used for regions that are not in the catalog.
func (c *Catalog) DefaultPeakSunHours() float64 {
	return c.defaultPeakSunHours
}

// Preset returns the preset for category, falling back to the generic
// preset when the category is not known.
func (c *Catalog) Preset(category string) types.CategoryPreset {
	if p, ok := c.presetByCategory[category]; ok {
		return p
	}
	return c.fallback
}

// Battery returns the battery with the given model.
func (c *Catalog) Battery(model string) (types.BatterySpec, bool) {
	b, ok := c.batteryByModel[model]
	return b, ok
}

// Inverters returns the inverters in catalog order.
func (c *Catalog) Inverters() []types.InverterSpec {
	return append([]types.InverterSpec(nil), c.inverters...)
}

// Batteries returns the batteries in catalog order.
func (c *Catalog) Batteries() []types.BatterySpec {
	return append([]types.BatterySpec(nil), c.batteries...)
}

// Presets returns the category presets in catalog order.
func (c *Catalog) Presets() []types.CategoryPreset {
	return append([]types.CategoryPreset(nil), c.categories...)
}

// Regions returns the known regions in catalog order.
func (c *Catalog) Regions() []types.RegionIrradiance {
	return append([]types.RegionIrradiance(nil), c.regions...)
}
