package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

var (
	cfg *config.Config
	db  *gorm.DB
)

// rootCmd is the operator entry point; every subcommand gets a migrated database
var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "foodgram administration commands",
	Long: `manage loads reference data and creates accounts directly against the
configured database. Connection settings come from the same environment
variables as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		logger.Init(logger.Options{Level: cfg.LogLevel, Stdout: true})

		db, err = database.New(cfg)
		if err != nil {
			return err
		}
		return database.RunMigrations(db, cfg.MigrationsDir)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			_ = database.Close(db)
		}
		logger.Sync()
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loadIngredientsCmd, loadTagsCmd, createUserCmd, seedDemoCmd)
}
