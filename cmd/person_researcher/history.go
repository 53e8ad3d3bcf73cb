package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/person-researcher/internal/db"
	"github.com/jonathan/person-researcher/internal/observability"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored dossiers and the page cache",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored dossiers, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored dossier",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored dossier",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune-pages",
	Short: "Delete expired pages from the page cache",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var (
	historyQuery      string
	historyProfileURL string
	historyLimit      int
	historyJSON       bool
)

func init() {
	historyListCmd.Flags().StringVarP(&historyQuery, "query", "q", "", "Filter by search query or profile name")
	historyListCmd.Flags().StringVar(&historyProfileURL, "profile-url", "", "Filter by profile URL")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", db.DefaultListLimit, "Maximum number of dossiers")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the dossier as JSON")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd, migrateCmd)
}

// withDatabase loads config and runs fn against a connected database
func withDatabase(ctx context.Context, fn func(*db.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("a database is required (set DATABASE_URL or database.url)")
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(database)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	return withDatabase(cmd.Context(), func(database *db.DB) error {
		list, err := database.ListDossiers(cmd.Context(), db.DossierFilters{
			Query:      historyQuery,
			ProfileURL: historyProfileURL,
			Limit:      historyLimit,
		})
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No dossiers found")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tNAME\tQUERY\tFAILED")
		for _, d := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				d.ID, d.CreatedAt.Format("2006-01-02 15:04"), d.ProfileName, d.SearchQuery, strings.Join(d.Failed, ","))
		}
		return tw.Flush()
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withDatabase(cmd.Context(), func(database *db.DB) error {
		d, err := database.GetDossier(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("dossier not found: %s", args[0])
		}
		if historyJSON {
			return writeJSON(d)
		}
		observability.NewPrinter(os.Stdout).PrintDossier(d)
		return nil
	})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	return withDatabase(cmd.Context(), func(database *db.DB) error {
		if err := database.DeleteDossier(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted dossier %s\n", args[0])
		return nil
	})
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	return withDatabase(cmd.Context(), func(database *db.DB) error {
		n, err := database.DeleteExpiredPages(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired pages\n", n)
		return nil
	})
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("a database is required (set DATABASE_URL or database.url)")
	}
	// Migrate explicitly regardless of database.migrate
	cfg.Database.Migrate = true
	database, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	database.Close()
	fmt.Println("Migrations applied")
	return nil
}

