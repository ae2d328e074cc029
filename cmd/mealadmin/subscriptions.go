package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/usecase"
)

func newSubscriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Inspect subscriptions and manage delivery items",
	}

	cmd.AddCommand(newSubscriptionsListCmd())
	cmd.AddCommand(newSubscriptionsShowCmd())
	cmd.AddCommand(newSubscriptionsStatsCmd())
	cmd.AddCommand(newSubscriptionsItemStatusCmd())

	return cmd
}

func newSubscriptionsListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			uc := usecase.NewSubscriptions(a.deps)
			uc.LoadLookups(ctx)

			res, err := uc.List(ctx, q)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(res.Items))
			for _, sub := range res.Items {
				rows = append(rows, []string{
					strconv.FormatInt(sub.ID, 10),
					uc.UserLabel(sub),
					uc.RestaurantLabel(sub),
					sub.Status,
					sub.StartDate,
					sub.EndDate,
					strconv.Itoa(len(sub.Items)),
				})
			}
			headers := []string{"ID", "User", "Restaurant", "Status", "Start", "End", "Items"}
			return renderList(cmd, flags.format, headers, rows, res.Pagination, res.Items)
		},
	}

	addListFlags(cmd, &flags)
	return cmd
}

func newSubscriptionsShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one subscription with its delivery items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			uc := usecase.NewSubscriptions(a.deps)
			uc.LoadLookups(ctx)

			sub, err := uc.Get(ctx, id)
			if err != nil {
				return err
			}

			if format == "json" {
				return outputJSON(cmd, sub)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Subscription %d: %s at %s (%s, %s to %s)\n",
				sub.ID, uc.UserLabel(sub), uc.RestaurantLabel(sub), sub.Status, sub.StartDate, sub.EndDate)

			rows := make([][]string, 0, len(sub.Items))
			for _, item := range sub.Items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					strconv.FormatInt(item.MealID, 10),
					item.DeliveryDate,
					item.Status,
				})
			}
			renderTable(cmd, []string{"Item", "Meal", "Delivery", "Status"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func newSubscriptionsStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show subscription aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			stats := usecase.NewSubscriptions(a.deps).Statistics(context.Background())
			renderTable(cmd, []string{"Metric", "Value"}, [][]string{
				{"Total", strconv.FormatInt(stats.TotalCount, 10)},
				{"Active", strconv.FormatInt(stats.ActiveCount, 10)},
				{"Paused", strconv.FormatInt(stats.PausedCount, 10)},
				{"Cancelled", strconv.FormatInt(stats.CancelledCount, 10)},
			})
			return nil
		},
	}

	return cmd
}

func newSubscriptionsItemStatusCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "item-status <subscription-id> <item-id> <status>",
		Short: "Move a delivery item to a new status",
		Long:  "Move a delivery item to a new status. Items advance pending -> preparing -> delivered and may be cancelled while still pending or preparing; delivered items and items of a cancelled subscription are frozen.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			subID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid subscription id: %s", args[0])
			}
			itemID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id: %s", args[1])
			}
			status := args[2]

			a, err := newApp(cmd, force)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			uc := usecase.NewSubscriptions(a.deps)

			sub, err := uc.Get(ctx, subID)
			if err != nil {
				return err
			}
			err = uc.UpdateItemStatus(ctx, sub, itemID, status)
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}
