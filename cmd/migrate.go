package cmd

import (
	"github.com/spf13/cobra"

	"facturation-backend/database"
	"facturation-backend/logger"
	"facturation-backend/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the public registry and tenant schemas",
	Long: `Migrate brings the public registry up to date, then every tenant schema listed
in it. With --schema only that tenant is migrated.`,
	Example: `  # Migrate every registered tenant
  facturation migrate

  # Migrate one tenant
  facturation migrate --schema t_atlas_sarl`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().String("schema", "", "Tenant schema to migrate (default: all registered tenants)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("migrate")

	if err := connect(); err != nil {
		return err
	}

	schema, _ := cmd.Flags().GetString("schema")
	schemas := []string{schema}
	if schema == "" {
		schemas = nil
		if err := database.DB.Model(&models.Company{}).Order("schema_name").Pluck("schema_name", &schemas).Error; err != nil {
			return err
		}
	}

	for _, s := range schemas {
		if err := database.CreateSchema(database.DB, s); err != nil {
			return err
		}
		if err := database.MigrateTenantSchema(database.DB, s); err != nil {
			return err
		}
		log.Info().Str("tenant", s).Msg("tenant migrated")
	}
	log.Info().Int("tenants", len(schemas)).Msg("migration complete")
	return nil
}
