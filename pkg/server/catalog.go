package server

import (
	"net/http"

	"github.com/solaris-sizer/solaris/pkg/types"
)

// the catalog never changes while the process runs
const catalogCacheControl = "public, max-age=3600"

func (s *Server) handleListInverters(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, s.catalog.Inverters())
}

func (s *Server) handleListBatteries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, s.catalog.Batteries())
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, s.catalog.Presets())
}

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, struct {
		DefaultPeakSunHours float64                  `json:"defaultPeakSunHours"`
		Regions             []types.RegionIrradiance `json:"regions"`
	}{
		DefaultPeakSunHours: s.catalog.DefaultPeakSunHours(),
		Regions:             s.catalog.Regions(),
	})
}
