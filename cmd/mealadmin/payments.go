package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/usecase"
)

func newPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect payments and issue refunds",
	}

	cmd.AddCommand(newPaymentsListCmd())
	cmd.AddCommand(newPaymentsStatsCmd())
	cmd.AddCommand(newPaymentsRefundCmd())
	cmd.AddCommand(newPaymentsStatusCmd())

	return cmd
}

func newPaymentsListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments",
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
			uc := usecase.NewPayments(a.deps)
			uc.LoadLookups(ctx)

			items, page, err := uc.List(ctx, q)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, p := range items {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					uc.UserLabel(p),
					uc.RestaurantLabel(p),
					p.Amount.StringFixed(2),
					p.Net().StringFixed(2),
					p.Method,
					p.Status,
					p.CreatedAt.Format("2006-01-02"),
				})
			}
			headers := []string{"ID", "User", "Restaurant", "Amount", "Net", "Method", "Status", "Created"}
			return renderList(cmd, flags.format, headers, rows, page, items)
		},
	}

	addListFlags(cmd, &flags)
	return cmd
}

func newPaymentsStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show payment aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			stats := usecase.NewPayments(a.deps).Statistics(context.Background())
			renderTable(cmd, []string{"Metric", "Value"}, [][]string{
				{"Total", strconv.FormatInt(stats.TotalCount, 10)},
				{"Completed", strconv.FormatInt(stats.CompletedCount, 10)},
				{"Pending", strconv.FormatInt(stats.PendingCount, 10)},
				{"Failed", strconv.FormatInt(stats.FailedCount, 10)},
				{"Total amount", stats.TotalAmount.StringFixed(2)},
				{"Refunded amount", stats.RefundedAmount.StringFixed(2)},
			})
			return nil
		},
	}

	return cmd
}

func newPaymentsRefundCmd() *cobra.Command {
	var (
		amountFlag string
		reason     string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "refund <id>",
		Short: "Refund a completed payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			amount, err := decimal.NewFromString(amountFlag)
			if err != nil {
				return fmt.Errorf("invalid amount: %s", amountFlag)
			}

			a, err := newApp(cmd, force)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			uc := usecase.NewPayments(a.deps)

			payment, err := uc.Get(ctx, id)
			if err != nil {
				return err
			}
			err = uc.Refund(ctx, payment, amount, reason)
			return reportMutation(cmd, a.cfg.Language, err, "refunded")
		},
	}

	cmd.Flags().StringVar(&amountFlag, "amount", "", "Refund amount")
	cmd.Flags().StringVar(&reason, "reason", "", "Refund reason")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newPaymentsStatusCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Mark a pending payment completed or failed",
		Long:  "Mark a pending payment completed or failed. Completed, failed, and refunded payments cannot be edited here; use the refund command to refund a completed payment.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			status := args[1]

			a, err := newApp(cmd, force)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			uc := usecase.NewPayments(a.deps)

			payment, err := uc.Get(ctx, id)
			if err != nil {
				return err
			}
			err = uc.UpdateStatus(ctx, payment, status)
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}
