package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/person-researcher/internal/observability"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search LinkedIn and Wikipedia profiles for a name",
	Long:  "Search LinkedIn and Wikipedia profiles for a name. With --web the contextual web search is run instead.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var (
	searchWeb  bool
	searchJSON bool
)

func init() {
	searchCmd.Flags().BoolVar(&searchWeb, "web", false, "Run the contextual web search instead of the profile search")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	printer := observability.NewPrinter(os.Stdout)

	if searchWeb {
		results, err := a.research.WebSearch(ctx, query)
		if err != nil {
			return err
		}
		if searchJSON {
			return writeJSON(results)
		}
		printer.PrintSearchResults(results)
		return nil
	}

	candidates, err := a.research.SearchProfiles(ctx, query)
	if err != nil {
		return err
	}
	if searchJSON {
		return writeJSON(candidates)
	}
	printer.PrintCandidates(candidates)
	return nil
}

// writeJSON prints v as indented JSON on stdout
func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
