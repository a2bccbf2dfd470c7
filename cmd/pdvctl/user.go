package main

import (
	"errors"
	"fmt"
	"os"

	identityapp "github.com/pdv/backend/internal/application/identity"
	"github.com/pdv/backend/internal/infrastructure/auth"
	"github.com/pdv/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// passwordEnv lets scripts pass the password without it showing up in ps
const passwordEnv = "PDV_ADMIN_PASSWORD"

func newUserCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newCreateAdminCommand(root))
	return cmd
}

func newCreateAdminCommand(root *rootOptions) *cobra.Command {
	var email, fullName, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active administrator account",
		Example: `  pdvctl user create-admin --email admin@padaria.com --name "Maria Souza"
  PDV_ADMIN_PASSWORD=... pdvctl user create-admin --email admin@padaria.com --name Admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				return errors.New("password is required, use --password or " + passwordEnv)
			}

			cfg, err := root.config()
			if err != nil {
				return err
			}
			db, err := persistence.NewDatabase(cfg.Database, persistence.Options{
				Logger:   root.log,
				LogLevel: gormlogger.Warn,
			})
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			users := identityapp.NewUserService(
				persistence.NewGormUserRepository(db.DB),
				auth.NewInMemoryTokenBlacklist(),
				cfg.JWT.RefreshTokenExpiration,
				root.log,
			)
			user, err := users.CreateAdmin(cmd.Context(), email, fullName, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			root.log.Info("Administrator created",
				zap.String("user_id", user.ID.String()),
				zap.String("email", user.Email),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&password, "password", "", "initial password (falls back to "+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
