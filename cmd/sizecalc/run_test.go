package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-sizer/solaris/pkg/common"
	"github.com/solaris-sizer/solaris/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const fridgeYAML = `
regiao: Fortaleza, CE
dias_autonomia: 1
equipments:
  - type: geladeira
    quantidade: 1
    potencia: 150
    tempo_uso: 24
`

func decodeOutput(t *testing.T, out *bytes.Buffer) types.CalculateResponse {
	t.Helper()
	var resp types.CalculateResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

func TestRunCalculate(t *testing.T) {
	ctx := context.Background()

	t.Run("YAML file", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runCalculate(ctx, &out, writeFile(t, "loads.yaml", fridgeYAML), calculateOptions{}))

		resp := decodeOutput(t, &out)
		assert.Equal(t, 0.72, resp.MainResults.PVArrayKWp)
		assert.Equal(t, 4.5, resp.MainResults.BatteryBankKWh)
		require.Len(t, resp.Solutions, 3)
		assert.Equal(t, "SUN2000-2KTL-L1", resp.Solutions[0].InverterModel)
		assert.Contains(t, out.String(), "\n  \"main_results\": {")
	})

	t.Run("JSON file with string values", func(t *testing.T) {
		path := writeFile(t, "loads.json", `{
	"equipments": [{"type": "geladeira", "quantidade": "1", "potencia": "150", "tempo_uso": "24"}]
}`)
		var out bytes.Buffer
		require.NoError(t, runCalculate(ctx, &out, path, calculateOptions{}))
		assert.Equal(t, 3.6, decodeOutput(t, &out).MainResults.DailyEnergyKWh)
	})

	t.Run("Flags override the file", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runCalculate(ctx, &out, writeFile(t, "loads.yml", fridgeYAML), calculateOptions{
			region:    "curitiba",
			regionSet: true,
			days:      "3",
		}))

		resp := decodeOutput(t, &out)
		assert.Equal(t, 13.5, resp.MainResults.BatteryBankKWh)
		// 3.6 / (4.2 * 0.85)
		assert.Equal(t, 1.01, resp.MainResults.PVArrayKWp)
		assert.Equal(t, 3, resp.Solutions[0].BatteryQuantity)
	})

	t.Run("Custom catalog", func(t *testing.T) {
		catalogPath := writeFile(t, "catalog.yaml", `
default_peak_sun_hours: 5
fallback_category: outro
categories: [{category: outro, fp: 1, ipin: 1}]
inverters: [{model: ONLY-1, peak_power_va: 9000, nominal_power_va: 3000, estimated_price: 10, compatible_battery: B}]
batteries: [{model: B, nominal_energy_kwh: 1, voltage_v: 48}]
`)
		var out bytes.Buffer
		require.NoError(t, runCalculate(ctx, &out, writeFile(t, "loads.yaml", fridgeYAML), calculateOptions{
			catalogFile: catalogPath,
		}))

		resp := decodeOutput(t, &out)
		require.Len(t, resp.Solutions, 1)
		assert.Equal(t, "ONLY-1", resp.Solutions[0].InverterModel)
		assert.Equal(t, 5, resp.Solutions[0].BatteryQuantity)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name string
			file string
			body string
			opts calculateOptions
			want string
		}{
			{"invalid power", "loads.yaml", "equipments:\n  - {type: tv, quantidade: 1, potencia: muito, tempo_uso: 2}\n", calculateOptions{}, "equipments[0].potencia"},
			{"overflowing load", "loads.yaml", "equipments:\n  - {type: tv, quantidade: 1e200, potencia: 1e200, tempo_uso: 1}\n", calculateOptions{}, "result is not a finite number"},
			{"invalid days flag", "loads.yaml", fridgeYAML, calculateOptions{days: "dois"}, "dias_autonomia"},
			{"unknown field", "loads.yaml", "equipment: []\n", calculateOptions{}, "parsing load file"},
			{"broken JSON", "loads.json", "{", calculateOptions{}, "parsing load file"},
			{"missing catalog", "loads.yaml", fridgeYAML, calculateOptions{catalogFile: "/does/not/exist.yaml"}, "loading catalog"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var out bytes.Buffer
				err := runCalculate(ctx, &out, writeFile(t, tt.file, tt.body), tt.opts)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
				assert.Zero(t, out.Len())
			})
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		err := runCalculate(ctx, io.Discard, filepath.Join(t.TempDir(), "nope.yaml"), calculateOptions{})
		assert.ErrorContains(t, err, "reading load file")
	})
}

func TestRunCalculateRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/calculate", r.URL.Path)
			assert.Equal(t, common.UserAgent(), r.Header.Get("User-Agent"))

			var req types.CalculateRequest
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			assert.Len(t, req.Equipments, 1)
			if assert.NotNil(t, req.Region) {
				assert.Equal(t, "recife", *req.Region)
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"intellectus_warnings": [], "main_results": {"potencia_pv_kWp": 1.5}, "solutions": []}`))
		}))
		defer srv.Close()

		var out bytes.Buffer
		require.NoError(t, runCalculate(ctx, &out, writeFile(t, "loads.yaml", fridgeYAML), calculateOptions{
			server:    srv.URL + "/",
			region:    "recife",
			regionSet: true,
			timeout:   5 * time.Second,
		}))
		assert.Equal(t, 1.5, decodeOutput(t, &out).MainResults.PVArrayKWp)
	})

	t.Run("Server rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "invalid equipments[0].potencia: required"}`))
		}))
		defer srv.Close()

		err := runCalculate(ctx, io.Discard, writeFile(t, "loads.yaml", fridgeYAML), calculateOptions{
			server:  srv.URL,
			timeout: 5 * time.Second,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
		assert.Contains(t, err.Error(), "equipments[0].potencia")
	})

	t.Run("Server error without body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := runCalculate(ctx, io.Discard, writeFile(t, "loads.yaml", fridgeYAML), calculateOptions{
			server:  srv.URL,
			timeout: 5 * time.Second,
		})
		assert.ErrorContains(t, err, "502")
	})
}

func TestRunCatalog(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runCatalog(&out, ""))

	s := out.String()
	assert.Contains(t, s, "INVERTERS (8):")
	assert.Contains(t, s, "BATTERIES (3):")
	assert.Contains(t, s, "REGIONS (4, default 4.5 peak sun hours):")
	assert.Contains(t, s, "SUN2000-2KTL-L1")
	assert.Contains(t, s, "LUNA2000")

	// inverters are listed in catalog order
	assert.Less(t, strings.Index(s, "X1-Hybrid-5K LV"), strings.Index(s, "SUN2000-6KTL-L1"))

	assert.Error(t, runCatalog(io.Discard, "/does/not/exist.yaml"))
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runVersion(&out))
	assert.Equal(t, "sizecalc "+common.Version()+"\n", out.String())
}
