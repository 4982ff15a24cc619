package cmd

import (
	"github.com/spf13/cobra"

	"blogcms/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if _, err := openDatabase(cfg); err != nil {
				return err
			}
			logger.Get().Info().Str("db_driver", cfg.DBDriver).Msg("Schema is up to date")
			return nil
		},
	}
}
