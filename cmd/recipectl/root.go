package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/database"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "recipectl",
	Short: "recipectl runs maintenance tasks against the recipe database",
	Long:  "recipectl migrates the schema, recounts category totals and repairs favorites and likes that drifted out of sync.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file first")
}

// withDB loads the configuration, connects and migrates before running fn.
func withDB(ctx context.Context, fn func(db *gorm.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	config.SetupLogger(cfg)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	return fn(db)
}
