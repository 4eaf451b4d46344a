package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Mandi prices",
	}
	cmd.AddCommand(newPricesCurrentCmd())
	return cmd
}

func newPricesCurrentCmd() *cobra.Command {
	var market, cropID string

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show today's prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authorized(cmd, func(e *env, token string) error {
				prices, err := e.api.CurrentPrices(cmd.Context(), token, market, cropID)
				if err != nil {
					return err
				}
				if len(prices) == 0 {
					cmd.Println("no prices today")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MARKET\tCROP\tPRICE\tDATE")
				for _, p := range prices {
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.MarketName, p.CropID, p.Price, p.Date.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&market, "market", "", "only this market")
	cmd.Flags().StringVar(&cropID, "crop", "", "only this crop id")
	return cmd
}
