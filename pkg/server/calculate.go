package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/solaris-sizer/solaris/pkg/log"
	"github.com/solaris-sizer/solaris/pkg/types"
)

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	var req types.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode calculate request", slog.Any("error", err))
		s.metrics.ObserveRejected()
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.sizer.Calculate(ctx, req)
	if err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			log.Ctx(ctx).InfoContext(ctx, "rejected calculate request",
				slog.String("field", verr.Field),
				slog.Int("index", verr.Index),
				slog.String("reason", verr.Reason),
			)
			writeJSONError(w, verr.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to calculate", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Ctx(ctx).InfoContext(ctx, "calculated system",
		slog.Int("equipments", len(req.Equipments)),
		slog.Float64("dailyEnergyKWh", resp.MainResults.DailyEnergyKWh),
		slog.Int("solutions", len(resp.Solutions)),
	)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, resp)
}
