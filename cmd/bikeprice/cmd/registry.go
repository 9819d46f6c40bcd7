package cmd

import (
	"bikeprice/internal/di"
	"github.com/spf13/cobra"
)

var checkDayDealsCmd = &cobra.Command{
	Use:   "check-daydeals",
	Short: "Report which cities list day passes",
	Long: `check-daydeals calls every city's nearby endpoint and prints one line per
city: pass_offers=YES|NO with the offer count, or ERROR with the failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := di.InitRunner(&flags)
		if err != nil {
			return err
		}
		defer runner.Close()

		ctx, cancel := runContext(cmd.Context())
		defer cancel()
		return runner.CheckDayDeals(ctx, cmd.OutOrStdout())
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "Print the city registry grouped by country",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := di.InitRunner(&flags)
		if err != nil {
			return err
		}
		defer runner.Close()
		return runner.PrintCities(cmd.OutOrStdout())
	},
}
