package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mealadmin",
	Short: "mealadmin - admin console for the meal subscription platform",
	Long:  "mealadmin manages addresses, meals, payments, subscriptions, restaurants, and users against the platform's admin API.",
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newAddressesCmd())
	rootCmd.AddCommand(newMealsCmd())
	rootCmd.AddCommand(newPaymentsCmd())
	rootCmd.AddCommand(newSubscriptionsCmd())
	rootCmd.AddCommand(newRestaurantsCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newMCPCmd())
}
