package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <dataset-id>",
	Short: "Show a dataset's metadata and resources",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	client := newClient()
	id := args[0]

	detail, err := client.GetDatasetInfo(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("fetching dataset info: %w", err)
	}
	if detail == nil {
		fmt.Printf("Dataset %q not found\n", id)
		return nil
	}

	fmt.Printf("Name:  %s\n", detail.Name)
	fmt.Printf("Title: %s\n", detail.Title)
	if detail.Notes != "" {
		fmt.Printf("Notes: %s\n", detail.Notes)
	}
	fmt.Printf("Resources (%d):\n", len(detail.Resources))
	for _, res := range detail.Resources {
		fmt.Printf("  [%s] %s\n       %s\n", res.Format, res.Name, res.URL)
	}

	return nil
}
