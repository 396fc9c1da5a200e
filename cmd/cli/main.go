package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/cmd/cli/commands"
	"github.com/smartagri/seat-allocator/internal/config"
	"github.com/smartagri/seat-allocator/pkg/clients/gmailclient"
	"github.com/smartagri/seat-allocator/pkg/clients/smsclient"
	"github.com/smartagri/seat-allocator/pkg/core/services"
	"github.com/smartagri/seat-allocator/pkg/metrics"
	"github.com/smartagri/seat-allocator/pkg/postgres"
	"github.com/smartagri/seat-allocator/pkg/utils/logging"
)

var (
	env      string
	app      = &commands.AppContext{}
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Seat Allocator CLI - Run quota-based seat allocation for agricultural schemes",
		Long: `A CLI tool for publishing schemes, accepting applications, running the one-time
reserved-quota seat allocation per district, and managing the waitlist.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.CreateSchemeCmd(app))
	rootCmd.AddCommand(commands.ListSchemesCmd(app))
	rootCmd.AddCommand(commands.EligibleSchemesCmd(app))
	rootCmd.AddCommand(commands.ApplyCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.SetStatusCmd(app))
	rootCmd.AddCommand(commands.ViewAllocationCmd(app))
	rootCmd.AddCommand(commands.ViewWaitlistCmd(app))
	rootCmd.AddCommand(commands.ViewSMSLogCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	app.Migrator = database
	app.Logger.Info("Database connected successfully")

	app.Metrics = metrics.NewMetrics()

	// Disabled channels stay as nil interfaces
	var sms services.SMSSender
	if app.Cfg.SMS.Enabled {
		app.Logger.Info("Initializing sms client", zap.String("region", app.Cfg.SMS.Region))
		client, err := smsclient.NewClient(app.Ctx, app.Cfg.SMS.Region, app.Cfg.SMS.SenderID)
		if err != nil {
			return fmt.Errorf("failed to create sms client: %w", err)
		}
		sms = client
	}

	var email services.EmailSender
	if app.Cfg.Email.Enabled() {
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.Logger.Info("Initializing gmail client")
		client, err := gmailclient.NewClient(app.Ctx, oauthCfg, app.Cfg.Email, env)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		email = client
	}

	app.Notifier = services.NewNotifier(app.Database, sms, email, app.Cfg.Email.OfficerEmail, app.Metrics, app.Logger)

	return nil
}

// shutdown pushes metrics and releases resources. Safe to call more than once.
func shutdown() {
	if app.Logger == nil {
		return
	}

	if app.Metrics != nil && app.Cfg != nil && app.Cfg.Metrics.PushgatewayURL != "" {
		if err := app.Metrics.Push(app.Cfg.Metrics.PushgatewayURL, app.Cfg.Metrics.Job); err != nil {
			app.Logger.Warn("Failed to push metrics", zap.Error(err))
		}
		app.Metrics = nil
	}

	if database != nil {
		database.Close()
		database = nil
	}

	app.Logger.Sync()
}
