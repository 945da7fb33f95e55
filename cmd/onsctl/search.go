package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search datasets by name, title or tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client := newClient()
	term := args[0]

	datasets, err := client.SearchDatasets(cmd.Context(), term)
	if err != nil {
		return fmt.Errorf("searching datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Printf("No datasets matched %q\n", term)
		return nil
	}

	for _, ds := range datasets {
		fmt.Printf("%s\n  title: %s\n", ds.Name, ds.Title)
		if len(ds.Tags) > 0 {
			fmt.Printf("  tags:  %s\n", strings.Join(ds.Tags, ", "))
		}
	}
	fmt.Printf("\n%d matches for %q\n", len(datasets), term)

	return nil
}
