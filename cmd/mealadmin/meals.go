package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/form"
	"github.com/mealdash/mealadmin/internal/model"
	"github.com/mealdash/mealadmin/internal/usecase"
)

func newMealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Manage meals",
	}

	cmd.AddCommand(newMealsListCmd())
	cmd.AddCommand(newMealsCreateCmd())
	cmd.AddCommand(newMealsUpdateCmd())
	cmd.AddCommand(newMealsDeleteCmd())
	cmd.AddCommand(newMealsToggleCmd())

	return cmd
}

func newMealsListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meals",
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
			uc := usecase.NewMeals(a.deps)
			uc.LoadLookups(ctx)

			res, err := uc.List(ctx, q)
			if err != nil {
				return err
			}

			lang := a.deps.Lookups.Lang()
			rows := make([][]string, 0, len(res.Items))
			for _, meal := range res.Items {
				rows = append(rows, []string{
					strconv.FormatInt(meal.ID, 10),
					meal.Name().In(lang),
					uc.RestaurantLabel(meal),
					meal.MealType,
					meal.Price.StringFixed(2),
					availabilityLabel(lang, meal.IsAvailable),
					meal.CreatedAt.Format("2006-01-02"),
				})
			}
			headers := []string{"ID", "Name", "Restaurant", "Type", "Price", "Available", "Created"}
			return renderList(cmd, flags.format, headers, rows, res.Pagination, res.Items)
		},
	}

	addListFlags(cmd, &flags)
	return cmd
}

// mealFlags are the fields shared by create and update.
type mealFlags struct {
	restaurantID int64
	nameEN       string
	nameAR       string
	mealType     string
	price        string
	deliveryTime string
	available    bool
	imagePath    string
}

func addMealFlags(cmd *cobra.Command, f *mealFlags) {
	cmd.Flags().Int64Var(&f.restaurantID, "restaurant", 0, "Owning restaurant id")
	cmd.Flags().StringVar(&f.nameEN, "name-en", "", "English name")
	cmd.Flags().StringVar(&f.nameAR, "name-ar", "", "Arabic name")
	cmd.Flags().StringVar(&f.mealType, "type", "", "Meal type: breakfast, lunch, or dinner")
	cmd.Flags().StringVar(&f.price, "price", "", "Price")
	cmd.Flags().StringVar(&f.deliveryTime, "delivery-time", "", "Delivery time window")
	cmd.Flags().BoolVar(&f.available, "available", true, "Availability flag")
	cmd.Flags().StringVar(&f.imagePath, "image", "", "Path to a meal image")
}

func (f *mealFlags) model() (model.Meal, error) {
	meal := model.Meal{
		RestaurantID: f.restaurantID,
		NameEN:       f.nameEN,
		NameAR:       f.nameAR,
		MealType:     f.mealType,
		DeliveryTime: f.deliveryTime,
		IsAvailable:  f.available,
	}
	if f.price != "" {
		price, err := decimal.NewFromString(f.price)
		if err != nil {
			return model.Meal{}, fmt.Errorf("invalid price: %s", f.price)
		}
		meal.Price = price
	}
	return meal, nil
}

// loadAttachment reads a file flag into a form attachment. An empty path
// means no attachment.
func loadAttachment(path string) (*form.File, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return &form.File{Filename: filepath.Base(path), Content: content}, nil
}

func newMealsCreateCmd() *cobra.Command {
	var flags mealFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meal, err := flags.model()
			if err != nil {
				return err
			}
			image, err := loadAttachment(flags.imagePath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewMeals(a.deps)
			err = uc.Create(context.Background(), uc.CreateForm(meal, image))
			return reportMutation(cmd, a.cfg.Language, err, "created")
		},
	}

	addMealFlags(cmd, &flags)
	return cmd
}

func newMealsUpdateCmd() *cobra.Command {
	var flags mealFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			meal, err := flags.model()
			if err != nil {
				return err
			}
			image, err := loadAttachment(flags.imagePath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewMeals(a.deps)
			err = uc.Update(context.Background(), id, uc.EditForm(meal, image))
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	addMealFlags(cmd, &flags)
	return cmd
}

func newMealsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a meal",
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

			uc := usecase.NewMeals(a.deps)
			err = uc.Delete(context.Background(), id)
			return reportMutation(cmd, a.cfg.Language, err, "deleted")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func newMealsToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a meal's availability",
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

			uc := usecase.NewMeals(a.deps)
			available, err := uc.ToggleAvailability(context.Background(), id)
			if err != nil {
				return mutationError(cmd, a.cfg.Language, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", id, availabilityLabel(a.cfg.Language, available))
			return nil
		},
	}

	return cmd
}
