package main

import (
	"fmt"
	"io"

	"github.com/solaris-sizer/solaris/pkg/catalog"
)

func printCatalog(w io.Writer, c *catalog.Catalog) {
	inverters := c.Inverters()
	fmt.Fprintf(w, "INVERTERS (%d):\n", len(inverters))
	fmt.Fprintf(w, "  %-18s %10s %10s  %-12s %10s  %s\n", "MODEL", "NOMINAL VA", "PEAK VA", "TOPOLOGY", "PRICE", "BATTERY")
	for _, inv := range inverters {
		fmt.Fprintf(w, "  %-18s %10.0f %10.0f  %-12s %10.2f  %s\n",
			inv.Model, inv.NominalPowerVA, inv.PeakPowerVA, inv.Topology, inv.EstimatedPrice, inv.CompatibleBattery)
	}
	fmt.Fprintln(w)

	batteries := c.Batteries()
	fmt.Fprintf(w, "BATTERIES (%d):\n", len(batteries))
	fmt.Fprintf(w, "  %-18s %10s %10s\n", "MODEL", "KWH", "VOLTS")
	for _, b := range batteries {
		fmt.Fprintf(w, "  %-18s %10.2f %10.0f\n", b.Model, b.NominalEnergyKWh, b.VoltageV)
	}
	fmt.Fprintln(w)

	regions := c.Regions()
	fmt.Fprintf(w, "REGIONS (%d, default %.1f peak sun hours):\n", len(regions), c.DefaultPeakSunHours())
	for _, r := range regions {
		fmt.Fprintf(w, "  %-18s %4.1f\n", r.Region, r.PeakSunHours)
	}
}
