package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/person-researcher/internal/observability"
	"github.com/jonathan/person-researcher/internal/types"
	"github.com/spf13/cobra"
)

var researchCmd = &cobra.Command{
	Use:   "research <name>",
	Short: "Build a dossier for a person",
	Long: `Search profiles for a name, select one and build a full dossier.

The first candidate is used unless --profile-url names another one, in which
case the URL does not have to appear in the search results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

var (
	researchProfileURL string
	researchSource     string
	researchJSON       bool
	researchVerbose    bool
)

func init() {
	researchCmd.Flags().StringVar(&researchProfileURL, "profile-url", "", "URL of the profile to research")
	researchCmd.Flags().StringVar(&researchSource, "source", "", "Prefer candidates from this source (linkedin, wikipedia)")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "Print the dossier as JSON")
	researchCmd.Flags().BoolVarP(&researchVerbose, "verbose", "v", false, "Print candidates and each section as it settles")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
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
	printer := observability.NewPrinter(os.Stderr)

	profile, err := resolveProfile(ctx, a, query, printer)
	if err != nil {
		return err
	}

	var emit func(types.SectionEvent)
	if researchVerbose {
		emit = printer.PrintSectionEvent
	}

	d, err := a.dossiers.Run(ctx, types.DossierRequest{SearchQuery: query, SelectedProfile: profile}, emit)
	if err != nil {
		return err
	}

	if researchJSON {
		return writeJSON(d)
	}
	observability.NewPrinter(os.Stdout).PrintDossier(d)
	return nil
}

// resolveProfile searches for candidates and picks the one to research
func resolveProfile(ctx context.Context, a *app, query string, printer *observability.Printer) (*types.Profile, error) {
	candidates, err := a.research.SearchProfiles(ctx, query)
	if err != nil {
		return nil, err
	}
	if researchVerbose {
		printer.PrintCandidates(candidates)
	}

	profile := pickProfile(candidates, researchProfileURL, types.Source(researchSource))
	if profile == nil {
		if researchProfileURL == "" {
			return nil, fmt.Errorf("no profiles found for %q", query)
		}
		// Research the given URL even if search did not return it
		profile = &types.Profile{
			ID:     researchProfileURL,
			Name:   query,
			URL:    researchProfileURL,
			Source: types.SourceFromURL(researchProfileURL),
		}
	}
	return profile, nil
}

// pickProfile returns the candidate with profileURL, or the first candidate
// from the preferred source, or the first candidate overall.
func pickProfile(candidates *types.ProfileCandidates, profileURL string, prefer types.Source) *types.Profile {
	if candidates == nil {
		return nil
	}
	all := append(append([]types.Profile{}, candidates.LinkedIn...), candidates.Wikipedia...)

	if profileURL != "" {
		for i := range all {
			if strings.TrimSuffix(all[i].URL, "/") == strings.TrimSuffix(profileURL, "/") {
				return &all[i]
			}
		}
		return nil
	}
	for i := range all {
		if prefer == "" || all[i].Source == prefer {
			return &all[i]
		}
	}
	if len(all) > 0 {
		return &all[0]
	}
	return nil
}
