package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/model"
	"github.com/mealdash/mealadmin/internal/usecase"
)

func newAddressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage delivery addresses",
	}

	cmd.AddCommand(newAddressesListCmd())
	cmd.AddCommand(newAddressesCreateCmd())
	cmd.AddCommand(newAddressesUpdateCmd())
	cmd.AddCommand(newAddressesDeleteCmd())
	cmd.AddCommand(newAddressesSetPrimaryCmd())

	return cmd
}

func newAddressesListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List addresses",
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
			uc := usecase.NewAddresses(a.deps)
			uc.LoadLookups(ctx)

			items, page, err := uc.List(ctx, q)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, addr := range items {
				primary := ""
				if addr.IsPrimary {
					primary = "yes"
				}
				rows = append(rows, []string{
					strconv.FormatInt(addr.ID, 10),
					uc.UserLabel(addr),
					uc.AreaLabel(addr),
					addr.Street,
					addr.Building,
					primary,
					addr.CreatedAt.Format("2006-01-02"),
				})
			}
			headers := []string{"ID", "User", "Area", "Street", "Building", "Primary", "Created"}
			return renderList(cmd, flags.format, headers, rows, page, items)
		},
	}

	addListFlags(cmd, &flags)
	return cmd
}

func newAddressesCreateCmd() *cobra.Command {
	var (
		userID   int64
		areaID   int64
		street   string
		building string
		floor    string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewAddresses(a.deps)
			f := uc.CreateForm(userID, areaID, street, building, floor, notes)
			err = uc.Create(context.Background(), f)
			return reportMutation(cmd, a.cfg.Language, err, "created")
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owning user id")
	cmd.Flags().Int64Var(&areaID, "area", 0, "Delivery area id")
	cmd.Flags().StringVar(&street, "street", "", "Street")
	cmd.Flags().StringVar(&building, "building", "", "Building")
	cmd.Flags().StringVar(&floor, "floor", "", "Floor")
	cmd.Flags().StringVar(&notes, "notes", "", "Delivery notes")

	return cmd
}

func newAddressesUpdateCmd() *cobra.Command {
	var (
		userID   int64
		areaID   int64
		street   string
		building string
		floor    string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an address",
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

			uc := usecase.NewAddresses(a.deps)
			f := uc.EditForm(model.Address{
				UserID:   userID,
				AreaID:   areaID,
				Street:   street,
				Building: building,
				Floor:    floor,
				Notes:    notes,
			})
			err = uc.Update(context.Background(), id, f)
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owning user id")
	cmd.Flags().Int64Var(&areaID, "area", 0, "Delivery area id")
	cmd.Flags().StringVar(&street, "street", "", "Street")
	cmd.Flags().StringVar(&building, "building", "", "Building")
	cmd.Flags().StringVar(&floor, "floor", "", "Floor")
	cmd.Flags().StringVar(&notes, "notes", "", "Delivery notes")

	return cmd
}

func newAddressesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an address",
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

			uc := usecase.NewAddresses(a.deps)
			err = uc.Delete(context.Background(), id)
			return reportMutation(cmd, a.cfg.Language, err, "deleted")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func newAddressesSetPrimaryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "set-primary <id>",
		Short: "Make an address the user's primary one",
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

			uc := usecase.NewAddresses(a.deps)
			err = uc.SetPrimary(context.Background(), id)
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}
