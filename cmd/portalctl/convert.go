package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/informreaders/portal/internal/converter"
)

func (c *cli) convertCmd() *cobra.Command {
	var table bool
	cmd := &cobra.Command{
		Use:   "convert <category> <value> <from> <to>",
		Short: "Convert a value between two units",
		Long: `Convert a value between two units of the same category.

Examples:
  portalctl convert length 1 km m
  portalctl convert temperature 100 c f
  portalctl convert data-storage 1 gib mib --table`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := converter.ConvertString(args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !table {
				_, err = fmt.Fprintf(out, "%s %s = %s %s\n", converter.Format(res.Value), res.From.Symbol, res.Formatted, res.To.Symbol)
				return err
			}
			rows, err := converter.Table(res.Category, res.Value, res.From.Symbol)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, row := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Unit.Symbol, row.Formatted, row.Unit.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "print the value in every unit of the category")
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories and their units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, cat := range converter.Categories() {
				symbols := make([]string, 0, len(cat.Units))
				for _, u := range cat.Units {
					symbols = append(symbols, u.Symbol)
				}
				fmt.Fprintf(tw, "%s\t%v\n", cat.Slug, symbols)
			}
			return tw.Flush()
		},
	})
	return cmd
}
