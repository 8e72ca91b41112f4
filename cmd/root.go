package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facturation-backend/config"
	"facturation-backend/database"
	"facturation-backend/logger"
)

var version = "1.0.0"

// cfg is loaded once by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "facturation",
	Short: "Multi-tenant invoicing backend",
	Long: `facturation serves the invoicing API (company settings, document numbering,
price conversion, document previews and the product catalog) and carries the
maintenance commands that operate on tenant schemas directly.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.Setup(cfg.LoggerConfig())
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// connect opens the shared pool and migrates the public registry.
func connect() error {
	if err := database.Connect(cfg.DSN()); err != nil {
		return err
	}
	return database.AutoMigrate()
}
