package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/config"
	"github.com/mealdash/mealadmin/internal/database"
	"github.com/mealdash/mealadmin/internal/lookup"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local lookup cache",
	}

	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [table]",
		Short: "Drop cached lookup tables",
		Long:  "Drop cached lookup tables so the next command refetches them. With no argument all tables are cleared; otherwise name one of users, restaurants, or areas.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := []string{lookup.TableUsers, lookup.TableRestaurants, lookup.TableAreas}
			if len(args) == 1 {
				switch args[0] {
				case lookup.TableUsers, lookup.TableRestaurants, lookup.TableAreas:
					tables = []string{args[0]}
				default:
					return fmt.Errorf("unknown lookup table: %s", args[0])
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dbCtx, err := database.CreateDatabase(cfg.CacheDBPath)
			if err != nil {
				return fmt.Errorf("open lookup cache: %w", err)
			}
			defer database.CloseDatabase(dbCtx)

			repo := database.NewLookupRepository(dbCtx)
			ctx := context.Background()
			for _, name := range tables {
				if err := repo.DeleteTable(ctx, name); err != nil {
					return fmt.Errorf("clear %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", name)
			}
			return nil
		},
	}

	return cmd
}
