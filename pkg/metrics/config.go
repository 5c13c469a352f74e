package metrics

import (
	"github.com/levenlabs/go-lflag"
)

// Configured returns a Manager that records nothing when --metrics-enabled
// is false.
func Configured() *Manager {
	enabled := lflag.Bool("metrics-enabled", true, "Expose Prometheus metrics on /metrics")

	m := NewManager()
	lflag.Do(func() {
		m.disabled = !*enabled
	})
	return m
}
