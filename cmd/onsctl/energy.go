package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	earYear   int
	cargaYear int
)

var earCmd = &cobra.Command{
	Use:   "ear",
	Short: "Show stored reservoir energy per subsystem",
	Long:  `Downloads the daily EAR (stored energy) CSV for a year and prints one line per measurement.`,
	RunE:  runEAR,
}

var cargaCmd = &cobra.Command{
	Use:   "carga",
	Short: "Show verified energy load per subsystem",
	RunE:  runCarga,
}

func init() {
	earCmd.Flags().IntVar(&earYear, "year", 0, "year to fetch (default: current year)")
	cargaCmd.Flags().IntVar(&cargaYear, "year", 0, "year to fetch (default: current year)")
	rootCmd.AddCommand(earCmd)
	rootCmd.AddCommand(cargaCmd)
}

func runEAR(cmd *cobra.Command, args []string) error {
	client := newClient()

	measurements, err := client.GetEARSubsistema(cmd.Context(), earYear)
	if err != nil {
		return fmt.Errorf("fetching EAR data: %w", err)
	}

	fmt.Printf("%-20s  %-12s  %10s\n", "Instante", "Subsystem", "EAR %")
	fmt.Println(strings.Repeat("-", 46))
	for _, m := range measurements {
		fmt.Printf("%-20s  %-12s  %10.2f\n", m.Instante, m.SubsystemID, m.Percent)
	}
	fmt.Printf("\n%d measurements\n", len(measurements))

	return nil
}

func runCarga(cmd *cobra.Command, args []string) error {
	client := newClient()

	measurements, err := client.GetCargaEnergia(cmd.Context(), cargaYear)
	if err != nil {
		return fmt.Errorf("fetching load data: %w", err)
	}

	fmt.Printf("%-20s  %-12s  %12s\n", "Instante", "Subsystem", "MWmed")
	fmt.Println(strings.Repeat("-", 48))
	for _, m := range measurements {
		fmt.Printf("%-20s  %-12s  %12.1f\n", m.Instante, m.SubsystemID, m.LoadMWMed)
	}
	fmt.Printf("\n%d measurements\n", len(measurements))

	return nil
}
