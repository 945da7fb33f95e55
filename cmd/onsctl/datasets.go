package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets available on the portal",
	Long:  `Lists the first datasets published on the ONS open data portal with their titles and tags.`,
	RunE:  runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	client := newClient()

	datasets, err := client.ListDatasets(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Println("No datasets found")
		return nil
	}

	fmt.Printf("%-40s  %s\n", "Name", "Title")
	fmt.Println(strings.Repeat("-", 80))
	for _, ds := range datasets {
		title := ds.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%-40s  %s\n", ds.Name, title)
		if len(ds.Tags) > 0 {
			fmt.Printf("%-40s  tags: %s\n", "", strings.Join(ds.Tags, ", "))
		}
	}
	fmt.Printf("\n%d datasets\n", len(datasets))

	return nil
}
