package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/model"
	"github.com/mealdash/mealadmin/internal/usecase"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage platform accounts",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersStatsCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersUpdateCmd())
	cmd.AddCommand(newUsersDeleteCmd())
	cmd.AddCommand(newUsersRoleCmd())
	cmd.AddCommand(newUsersToggleCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
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

			uc := usecase.NewUsers(a.deps)
			items, page, err := uc.List(context.Background(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, u := range items {
				rows = append(rows, []string{
					strconv.FormatInt(u.ID, 10),
					u.Name,
					u.Email,
					u.Phone,
					u.Role,
					statusLabel(a.cfg.Language, u.IsActive),
					u.CreatedAt.Format("2006-01-02"),
				})
			}
			headers := []string{"ID", "Name", "Email", "Phone", "Role", "Status", "Created"}
			return renderList(cmd, flags.format, headers, rows, page, items)
		},
	}

	addListFlags(cmd, &flags)
	return cmd
}

func newUsersStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show user aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			stats := usecase.NewUsers(a.deps).Statistics(context.Background())
			renderTable(cmd, []string{"Metric", "Value"}, [][]string{
				{"Total", strconv.FormatInt(stats.TotalCount, 10)},
				{"Active", strconv.FormatInt(stats.ActiveCount, 10)},
				{"New this month", strconv.FormatInt(stats.NewThisMonth, 10)},
				{"Customers", strconv.FormatInt(stats.CustomerCount, 10)},
			})
			return nil
		},
	}

	return cmd
}

type userFlags struct {
	name   string
	email  string
	phone  string
	role   string
	active bool
}

func addUserFlags(cmd *cobra.Command, f *userFlags) {
	cmd.Flags().StringVar(&f.name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.role, "role", "", "Role: admin, restaurant_owner, or customer")
	cmd.Flags().BoolVar(&f.active, "active", true, "Active flag")
}

func (f *userFlags) model() model.User {
	return model.User{
		Name:     f.name,
		Email:    f.email,
		Phone:    f.phone,
		Role:     f.role,
		IsActive: f.active,
	}
}

func newUsersCreateCmd() *cobra.Command {
	var (
		flags        userFlags
		password     string
		confirmation string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewUsers(a.deps)
			f, err := uc.CreateForm(flags.model(), password, confirmation)
			if err != nil {
				return err
			}
			err = uc.Create(context.Background(), f)
			return reportMutation(cmd, a.cfg.Language, err, "created")
		},
	}

	addUserFlags(cmd, &flags)
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&confirmation, "confirm-password", "", "Password confirmation")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm-password")

	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var flags userFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
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

			uc := usecase.NewUsers(a.deps)
			err = uc.Update(context.Background(), id, uc.EditForm(flags.model()))
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	addUserFlags(cmd, &flags)
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
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

			uc := usecase.NewUsers(a.deps)
			err = uc.Delete(context.Background(), id)
			return reportMutation(cmd, a.cfg.Language, err, "deleted")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func newUsersRoleCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "role <id> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			role := args[1]

			a, err := newApp(cmd, force)
			if err != nil {
				return err
			}
			defer a.close()

			uc := usecase.NewUsers(a.deps)
			err = uc.UpdateRole(context.Background(), id, role)
			return reportMutation(cmd, a.cfg.Language, err, "updated")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func newUsersToggleCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle an account's active status",
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

			uc := usecase.NewUsers(a.deps)
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
