package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdc-ai/personaproxy/internal/repository"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables and exit",
		Long:  `Connect to DATABASE_URL, create any missing tables and indexes, then exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := repository.NewDB(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", db.Dialect())
			return nil
		},
	}
}
