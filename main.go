// Package main, panel backend uygulamasının giriş noktasıdır.
//
// Komutlar:
//
//	panel serve         HTTP + WebSocket sunucusu (varsayılan)
//	panel migrate       bekleyen migration'ları uygular
//	panel create-admin  kayıt kapalıyken yeni admin ekler
//
// Global değişken olarak sadece flag'ler tutulur; bağımlılıklar her
// komutta oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twomark/panel/config"
	"github.com/twomark/panel/database"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/pkg/i18n"
	"github.com/twomark/panel/pkg/logger"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/services"
)

var (
	envFile string
	verbose bool

	adminUsername string
	adminFullName string
	adminPassword string

	cfg           *config.Config
	restoreLogger func()
)

var rootCmd = &cobra.Command{
	Use:           "panel",
	Short:         "Agency management panel backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var envFiles []string
		if envFile != "" {
			envFiles = append(envFiles, envFile)
		}

		var err error
		cfg, err = config.Load(envFiles...)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		l, err := logger.New(level, cfg.Log.Format)
		if err != nil {
			return err
		}
		restoreLogger = logger.Install(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
		if restoreLogger != nil {
			restoreLogger()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := db.Migrate(cmd.Context(), database.Migrations())
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
		}
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account even when registration is closed",
	Long: `Creates an admin user directly in the database.

Public registration only works while no user exists; use this command to
add another admin or to recover access.

Example:
  panel create-admin --username owner --full-name "Owner" --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("PANEL_ADMIN_PASSWORD")
		}

		db, err := database.New(cfg.Database.Path, database.Migrations())
		if err != nil {
			return err
		}
		defer db.Close()

		catalog, err := access.DefaultCatalog()
		if err != nil {
			return err
		}
		policy := access.NewPolicy(catalog)

		authService := services.NewAuthService(
			db.Conn,
			repository.NewSQLiteUserRepo(db.Conn),
			repository.NewSQLiteCompanyRepo(db.Conn),
			repository.NewSQLiteSessionRepo(db.Conn),
			policy,
			cfg.JWT.Secret,
			cfg.JWT.AccessTokenExpiry,
			cfg.JWT.RefreshTokenExpiry,
		)

		user, err := authService.CreateAdmin(cmd.Context(), &models.CreateUserRequest{
			FullName: adminFullName,
			Username: adminUsername,
			Password: adminPassword,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "login name")
	createAdminCmd.Flags().StringVar(&adminFullName, "full-name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password (or PANEL_ADMIN_PASSWORD)")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("full-name")

	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	if err := i18n.LoadEmbedded(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load translations:", err)
		os.Exit(1)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
