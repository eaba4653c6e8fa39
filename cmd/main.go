// Package main runs the ledger as an http server or as an interactive terminal menu.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/app"
	"github.com/go-petr/pet-ledger/internal/menu"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "petledger",
	Short:         "Bank account ledger with fraud screening",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the http api",
	RunE:  runServe,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive terminal menu",
	RunE:  runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "Directory holding app.env or path to an .env file")
	rootCmd.AddCommand(serveCmd, menuCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB opens the configured database.
var openDB = dbpkg.Setup

// setup loads the config and builds the application on a migrated database.
// The database is closed again if anything after opening it fails.
func setup(ctx context.Context) (*app.App, configpkg.Config, zerolog.Logger, error) {
	config, err := configpkg.Load(configPath)
	if err != nil {
		return nil, config, zerolog.Nop(), fmt.Errorf("cannot load config: %w", err)
	}

	logger := middleware.CreateLogger(config)

	db, err := openDB(config.DBDriver, config.DBSource)
	if err != nil {
		return nil, config, logger, fmt.Errorf("cannot connect to database: %w", err)
	}

	a, err := build(ctx, db, config)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("cannot close database")
		}

		return nil, config, logger, err
	}

	return a, config, logger, nil
}

func build(ctx context.Context, db *sql.DB, config configpkg.Config) (*app.App, error) {
	if err := dbpkg.Migrate(ctx, db, config.DBDriver); err != nil {
		return nil, fmt.Errorf("cannot migrate database: %w", err)
	}

	rdb, err := app.NewRedisClient(ctx, config)
	if err != nil {
		return nil, err
	}

	a, err := app.New(db, config, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}

		return nil, fmt.Errorf("cannot create app: %w", err)
	}

	return a, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, config, logger, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.DB.Close()

	server, err := httpserver.New(a, logger, config)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	logger.Info().Str("address", config.ServerAddress).Msg("LEDGER API SERVER HAS STARTED")

	return server.Engine.Run(config.ServerAddress)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, _, logger, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.DB.Close()

	// Keep the screen for the menu; only problems reach the log.
	logger = logger.Level(zerolog.WarnLevel)
	ctx := logger.WithContext(cmd.Context())

	return menu.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.Accounts, a.Ledger, a.Entries).Run(ctx)
}
