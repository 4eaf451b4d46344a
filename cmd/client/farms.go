package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iudanet/fasalsaathi/pkg/api"
)

func newFarmsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farms",
		Short: "Manage your farms",
	}
	cmd.AddCommand(newFarmsListCmd())
	cmd.AddCommand(newFarmsAddCmd())
	return cmd
}

func newFarmsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your farms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authorized(cmd, func(e *env, token string) error {
				farms, err := e.api.ListFarms(cmd.Context(), token)
				if err != nil {
					return err
				}
				if len(farms) == 0 {
					cmd.Println("no farms")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tLOCATION\tAREA\tSOIL\tIRRIGATION")
				for _, f := range farms {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n", f.ID, f.Name, f.Location, f.Area, f.SoilType, f.IrrigationType)
				}
				return w.Flush()
			})
		},
	}
}

func newFarmsAddCmd() *cobra.Command {
	var req api.FarmRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a farm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authorized(cmd, func(e *env, token string) error {
				farm, err := e.api.CreateFarm(cmd.Context(), token, req)
				if err != nil {
					return err
				}
				cmd.Printf("added farm %s (id %s)\n", farm.Name, farm.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "farm name")
	cmd.Flags().StringVar(&req.Location, "location", "", "village or district")
	cmd.Flags().Float64Var(&req.Area, "area", 0, "area in acres")
	cmd.Flags().StringVar(&req.SoilType, "soil", "", "soil type")
	cmd.Flags().StringVar(&req.IrrigationType, "irrigation", "", "irrigation type")
	for _, name := range []string{"name", "location", "area", "soil", "irrigation"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
