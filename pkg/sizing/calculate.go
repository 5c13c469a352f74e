package sizing

import (
	"context"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/solaris-sizer/solaris/pkg/log"
	"github.com/solaris-sizer/solaris/pkg/types"
)

const (
	// DefaultRegion is used when the request does not name a region.
	DefaultRegion = "fortaleza"
	// DefaultAutonomyDays is used when the request does not set dias_autonomia.
	DefaultAutonomyDays = 1.0
)

// Observer is notified about every calculation, e.g. to record metrics.
type Observer interface {
	ObserveCalculation(agg types.AggregateLoad, res types.SizingResult)
	ObserveRejected()
}

// Sizer turns calculation requests into sizing responses against a fixed
// catalog. It holds no mutable state and is safe for concurrent use.
type Sizer struct {
	catalog  Catalog
	observer Observer
}

// NewSizer creates a Sizer. observer may be nil.
func NewSizer(cat Catalog, observer Observer) *Sizer {
	return &Sizer{
		catalog:  cat,
		observer: observer,
	}
}

// Calculate coerces the request, aggregates the loads and sizes the system.
// Invalid input is returned as a *types.ValidationError.
func (s *Sizer) Calculate(ctx context.Context, req types.CalculateRequest) (types.CalculateResponse, error) {
	agg, res, err := s.calculate(ctx, req)
	if err != nil {
		if s.observer != nil {
			s.observer.ObserveRejected()
		}
		return types.CalculateResponse{}, err
	}
	if s.observer != nil {
		s.observer.ObserveCalculation(agg, res)
	}
	return Response(agg, res), nil
}

func (s *Sizer) calculate(ctx context.Context, req types.CalculateRequest) (types.AggregateLoad, types.SizingResult, error) {
	days, err := autonomyDays(req.AutonomyDays)
	if err != nil {
		return types.AggregateLoad{}, types.SizingResult{}, err
	}
	region := DefaultRegion
	if req.Region != nil {
		region = *req.Region
	}

	entries, err := CoerceEntries(req.Equipments)
	if err != nil {
		return types.AggregateLoad{}, types.SizingResult{}, err
	}

	agg := Aggregate(s.catalog, entries)
	if !finite(agg.DailyEnergyKWh, agg.NominalApparentPowerVA, agg.PeakApparentPowerVA) {
		return types.AggregateLoad{}, types.SizingResult{}, &types.ValidationError{Index: -1, Field: "equipments", Reason: "result is not a finite number"}
	}
	log.Ctx(ctx).DebugContext(ctx, "loads aggregated",
		slog.Int("entries", len(entries)),
		slog.Float64("dailyEnergyKWh", agg.DailyEnergyKWh),
		slog.Float64("nominalVA", agg.NominalApparentPowerVA),
		slog.Float64("peakVA", agg.PeakApparentPowerVA),
		slog.Int("warnings", len(agg.Warnings)),
	)

	res := Size(s.catalog, agg, region, days)
	if !finite(res.PVArrayKWp) {
		return types.AggregateLoad{}, types.SizingResult{}, &types.ValidationError{Index: -1, Field: "equipments", Reason: "result is not a finite number"}
	}
	if !finite(res.BatteryBankKWh) {
		return types.AggregateLoad{}, types.SizingResult{}, &types.ValidationError{Index: -1, Field: "dias_autonomia", Value: req.AutonomyDays.Raw(), Reason: "result is not a finite number"}
	}
	if !res.RegionKnown {
		log.Ctx(ctx).DebugContext(ctx, "unknown region, using default peak sun hours",
			slog.String("region", res.Region),
			slog.Float64("peakSunHours", res.PeakSunHours),
		)
	}
	log.Ctx(ctx).DebugContext(ctx, "system sized",
		slog.String("region", res.Region),
		slog.Float64("pvArrayKWp", res.PVArrayKWp),
		slog.Float64("batteryBankKWh", res.BatteryBankKWh),
		slog.Int("solutions", len(res.Solutions)),
	)
	return agg, res, nil
}

func autonomyDays(n types.Number) (float64, error) {
	days, ok, err := n.Float()
	if err != nil {
		return 0, &types.ValidationError{Index: -1, Field: "dias_autonomia", Value: n.Raw(), Reason: err.Error()}
	}
	if !ok {
		return DefaultAutonomyDays, nil
	}
	if days < 0 {
		return 0, &types.ValidationError{Index: -1, Field: "dias_autonomia", Value: n.Raw(), Reason: "must not be negative"}
	}
	return days, nil
}

// finite reports whether none of fs is NaN or infinite. Inputs are finite
// after coercion but their products can still overflow.
func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Response builds the output record, rounding the main results to 2 decimal
// places. Solutions are passed through unchanged.
func Response(agg types.AggregateLoad, res types.SizingResult) types.CalculateResponse {
	warnings := agg.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	solutions := res.Solutions
	if solutions == nil {
		solutions = []types.SolutionCandidate{}
	}
	return types.CalculateResponse{
		Warnings: warnings,
		MainResults: types.MainResults{
			PVArrayKWp:     round2(res.PVArrayKWp),
			BatteryBankKWh: round2(res.BatteryBankKWh),
			PeakLoadVA:     round2(agg.PeakApparentPowerVA),
			DailyEnergyKWh: round2(agg.DailyEnergyKWh),
		},
		Solutions: solutions,
	}
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
