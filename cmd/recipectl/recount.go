package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/service"
)

var recountCmd = &cobra.Command{
	Use:   "recount [category]",
	Short: "Recompute recipe counts for one category or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			categories := service.NewCategoryService(db)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				n, err := categories.Recount(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%d\n", args[0], n)
				return nil
			}

			counts, err := categories.RecountAll(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range models.Categories {
				if n, ok := counts[c]; ok {
					fmt.Fprintf(out, "%s\t%d\n", c, n)
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recountCmd)
}
