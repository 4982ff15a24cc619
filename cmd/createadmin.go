package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blogcms/admin"
	"blogcms/logger"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

func newCreateAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account for the write API",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString(emailFlag)
			password, _ := cmd.Flags().GetString(passwordFlag)
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			user, err := admin.CreateUser(db, email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			logger.Get().Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Admin created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().String(emailFlag, "", "Admin email")
	cmd.Flags().String(passwordFlag, "", "Admin password (at least 8 characters)")
	return cmd
}
