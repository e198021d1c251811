package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mingus-outlook/internal/service"
)

func init() {
	tiersCmd := &cobra.Command{
		Use:   "tiers",
		Short: "Print the subscription tier catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTiers(cmd.OutOrStdout(), service.NewTierCatalog())
		},
	}
	rootCmd.AddCommand(tiersCmd)
}

func printTiers(out io.Writer, catalog *service.TierCatalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tNAME\tPRICE\tFEATURES")
	for _, t := range catalog.ListTiers() {
		var features []string
		for name, enabled := range t.Features {
			if enabled {
				features = append(features, name)
			}
		}
		sort.Strings(features)
		fmt.Fprintf(w, "%s\t%s\t$%.0f/mo\t%s\n", t.ID, t.Name, t.MonthlyPrice, strings.Join(features, ","))
	}
	return w.Flush()
}
