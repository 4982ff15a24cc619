package cmd

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"blogcms/common"
	"blogcms/config"
	"blogcms/database"
	"blogcms/logger"
)

const configFlag = "config"

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogcms",
		Short:         "Blog CMS with a public site and an admin JSON API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(configFlag, "", "Optional config file (yaml, json or toml)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateAdminCommand())
	return root
}

// loadConfig reads .env files and the optional config file, then sets up
// the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	config.LoadDotEnv()

	configFile, _ := cmd.Flags().GetString(configFlag)
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Env)
	return cfg, nil
}

// openDatabase connects and brings the schema up to date.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := common.ConnectDb(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}
