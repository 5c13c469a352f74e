package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sizecalc",
		Short:        "Size a backup solar inverter and battery bank for a list of loads",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func calculateCmd() *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate [load-file]",
		Short: "Size a system for the loads in a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.regionSet = cmd.Flags().Changed("region")
			return runCalculate(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "City to size for, overriding regiao in the file")
	cmd.Flags().StringVarP(&opts.days, "days", "d", "", "Days of autonomy, overriding dias_autonomia in the file")
	cmd.Flags().StringVar(&opts.catalogFile, "catalog", "", "YAML catalog replacing the embedded one")
	cmd.Flags().StringVar(&opts.server, "server", "", "Base URL of a solaris server to calculate on instead of locally")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout for --server requests")
	return cmd
}

func catalogCmd() *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the inverters and batteries in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd.OutOrStdout(), catalogFile)
		},
	}

	cmd.Flags().StringVar(&catalogFile, "catalog", "", "YAML catalog replacing the embedded one")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd.OutOrStdout())
		},
	}
}
