package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"ISQM/internal/config"
	"ISQM/internal/history"
	"ISQM/internal/institution"
	"ISQM/internal/repo"
	"ISQM/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openStore connects with the server's configuration. TOKEN_KEY is not
// needed for maintenance jobs.
func openStore() (*repo.PostgresRepository, config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoTokenKey) {
		return nil, cfg, nil, err
	}
	db, err := repo.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, cfg, nil, err
	}
	return repo.NewPostgresDB(db), cfg, func() { db.Close() }, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("schema applied")
		fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
		return nil
	},
}

var institutionsCmd = &cobra.Command{
	Use:   "institutions",
	Short: "Manage the institution directory",
}

var seedURL string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Scrape the polytechnic and community college listing into the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()
		start := seedURL
		if start == "" {
			start = cfg.InstitutionsURL
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()
		n, err := institution.NewSeeder(store, logger).Seed(ctx, start)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "upserted %d institutions\n", n)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved calculations",
}

var (
	historyUser string
	historyType string
	historyFrom string
	historyTo   string
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's saved calculations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()
		return listHistory(cmd, history.NewService(store, logger))
	},
}

func listHistory(cmd *cobra.Command, svc *history.Service) error {
	if historyUser == "" {
		return errors.New("--user is required")
	}
	q := url.Values{}
	q.Set("type", historyType)
	q.Set("from", historyFrom)
	q.Set("to", historyTo)
	f, err := history.ParseFilters(q, svc.Now())
	if err != nil {
		return err
	}
	ctx := session.WithSession(cmd.Context(), session.Session{UserID: historyUser})
	entries, err := svc.List(ctx, f)
	if err != nil {
		return err
	}
	logger.Debug("history listed", zap.String("user", historyUser), zap.Int("count", len(entries)))

	tr := translator()
	w := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-9s %-24s %s %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), history.TypeLabel(e.Type, tr), e.Label, history.FormatResult(e), e.Unit)
	}
	fmt.Fprintf(w, "%d entries\n", len(entries))
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedURL, "url", "", "listing page to start from (default INSTITUTIONS_URL)")
	institutionsCmd.AddCommand(seedCmd)

	historyListCmd.Flags().StringVar(&historyUser, "user", "", "user id")
	historyListCmd.Flags().StringVar(&historyType, "type", "", "calculation type or all")
	historyListCmd.Flags().StringVar(&historyFrom, "from", "", "first day, YYYY-MM-DD")
	historyListCmd.Flags().StringVar(&historyTo, "to", "", "last day, YYYY-MM-DD")
	historyCmd.AddCommand(historyListCmd)

	rootCmd.AddCommand(migrateCmd, institutionsCmd, historyCmd)
}
