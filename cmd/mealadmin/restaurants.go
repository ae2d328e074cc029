package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/model"
	"github.com/mealdash/mealadmin/internal/usecase"
)

func newRestaurantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "Manage partner restaurants",
	}

	cmd.AddCommand(newRestaurantsListCmd())
	cmd.AddCommand(newRestaurantsCreateCmd())
	cmd.AddCommand(newRestaurantsUpdateCmd())
	cmd.AddCommand(newRestaurantsDeleteCmd())
	cmd.AddCommand(newRestaurantsToggleCmd())

	return cmd
}

func newRestaurantsListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
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

			uc := usecase.NewRestaurants(a.deps)
			res, err := uc.List(context.Background(), q)
			if err != nil {
				return err
			}

			lang := a.deps.Lookups.Lang()
			rows := make([][]string, 0, len(res.Items))
			for _, r := range res.Items {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.Name().In(lang),
					r.Commission.StringFixed(2),
					statusLabel(lang, r.IsActive),
					r.CreatedAt.Format("2006-01-02"),
				})
			}
			headers := []string{"ID", "Name", "Commission", "Status", "Created"}
			return renderList(cmd, flags.format, headers, rows, res.Pagination, res.Items)
		},
	}

	addListFlags(cmd, &flags)
	return cmd
}

type restaurantFlags struct {
	nameEN     string
	nameAR     string
	commission string
	active     bool
	logoPath   string
}

func addRestaurantFlags(cmd *cobra.Command, f *restaurantFlags) {
	cmd.Flags().StringVar(&f.nameEN, "name-en", "", "English name")
	cmd.Flags().StringVar(&f.nameAR, "name-ar", "", "Arabic name")
	cmd.Flags().StringVar(&f.commission, "commission", "", "Commission percentage")
	cmd.Flags().BoolVar(&f.active, "active", true, "Active flag")
	cmd.Flags().StringVar(&f.logoPath, "logo", "", "Path to a logo image")
}

func (f *restaurantFlags) model() (model.Restaurant, error) {
	rest := model.Restaurant{
		NameEN:   f.nameEN,
		NameAR:   f.nameAR,
		IsActive: f.active,
	}
	if f.commission != "" {
		commission, err := decimal.NewFromString(f.commission)
		if err != nil {
			return model.Restaurant{}, fmt.Errorf("invalid commission: %s", f.commission)
		}
		rest.Commission = commission
	}
	return rest, nil
}

func newRestaurantsCreateCmd() *cobra.Command {
	var flags restaurantFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rest, err := flags.model()
			if err != nil {
				return err
			}
			logo, err := loadAttachment(flags.logoPath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewRestaurants(a.deps)
			err = uc.Create(context.Background(), uc.CreateForm(rest, logo))
			return reportMutation(cmd, a.cfg.Language, err, "created")
		},
	}

	addRestaurantFlags(cmd, &flags)
	return cmd
}

func newRestaurantsUpdateCmd() *cobra.Command {
	var flags restaurantFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			rest, err := flags.model()
			if err != nil {
				return err
			}
			logo, err := loadAttachment(flags.logoPath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewRestaurants(a.deps)
			err = uc.Update(context.Background(), id, uc.EditForm(rest, logo))
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	addRestaurantFlags(cmd, &flags)
	return cmd
}

func newRestaurantsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}

			a, err := newApp(cmd, force)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewRestaurants(a.deps)
			err = uc.Delete(context.Background(), id)
			return reportMutation(cmd, a.cfg.Language, err, "deleted")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func newRestaurantsToggleCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a restaurant's active status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}

			a, err := newApp(cmd, force)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewRestaurants(a.deps)
			active, err := uc.ToggleStatus(context.Background(), id)
			if err != nil {
				return mutationError(cmd, a.cfg.Language, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", id, statusLabel(a.cfg.Language, active))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}
