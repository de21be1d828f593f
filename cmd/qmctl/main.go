// Command qmctl runs the quantity calculators and maintenance jobs from a shell.
package main

import (
	"fmt"
	"os"

	"ISQM/internal/i18n"
	applog "ISQM/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	logLevel string
	langFlag string
	bundle   = i18n.MustLoad(i18n.LangMS)
)

var rootCmd = &cobra.Command{
	Use:   "qmctl",
	Short: "Quantity measurement calculators and maintenance jobs",
	Long: `qmctl computes beam, column, slab, soffit, rebar, concrete and formwork
quantities with the same validation as the web tools, and runs database
maintenance: schema migration, institution seeding and history listing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = applog.New(logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if _, ok := i18n.ParseLang(langFlag); !ok {
			return fmt.Errorf("unsupported language %q", langFlag)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", string(i18n.LangEN), "message language (en, ms)")
}

func translator() i18n.Translator {
	lang, _ := i18n.ParseLang(langFlag)
	return bundle.For(lang)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
