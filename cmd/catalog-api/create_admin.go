package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pilateslab/catalog/internal/config"
	"github.com/pilateslab/catalog/internal/database"
	"github.com/pilateslab/catalog/internal/logging"
	"github.com/pilateslab/catalog/internal/users"
)

// newCreateAdminCommand builds the one-time bootstrap command that seeds an
// admin account. Safe to run repeatedly: an existing account is left alone.
func newCreateAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the initial admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(cmd)
		},
	}

	cmd.Flags().String("email", "", "Admin email address")
	cmd.Flags().String("password", "", "Admin password")
	if err := viper.BindPFlag("admin.email", cmd.Flags().Lookup("email")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("admin.password", cmd.Flags().Lookup("password")); err != nil {
		panic(err)
	}

	return cmd
}

func runCreateAdmin(cmd *cobra.Command) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	email := viper.GetString("admin.email")
	password := viper.GetString("admin.password")
	if email == "" || password == "" {
		return errors.New("admin.email and admin.password are required")
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	usersService, err := users.NewService(users.ServiceConfig{
		Database:   db,
		IDProvider: users.NewUUIDProvider(),
	})
	if err != nil {
		return err
	}

	account, created, err := usersService.EnsureAdmin(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if !created {
		logger.Info("admin account already exists", zap.String("email", account.Email))
		return nil
	}

	logger.Info("admin account created",
		zap.String("email", account.Email),
		zap.String("role", account.Role))
	return nil
}
