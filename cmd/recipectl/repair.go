package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/service"
)

var repairJSON bool

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Drop references to deleted recipes and recompute like counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			report, err := service.NewFavoritesCoordinator(db).Repair(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if repairJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintf(out, "Users scanned:     %d\n", report.UsersScanned)
			fmt.Fprintf(out, "Users repaired:    %d\n", report.UsersRepaired)
			fmt.Fprintf(out, "Dangling removed:  %d\n", report.DanglingRemoved)
			fmt.Fprintf(out, "Recipes scanned:   %d\n", report.RecipesScanned)
			fmt.Fprintf(out, "Recipes recounted: %d\n", report.RecipesRecounted)
			return nil
		})
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(repairCmd)
}
