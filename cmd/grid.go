package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/benefit-lab/uctakeup/internal/tune"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the hyperparameter grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "row\ttree_depth\tmin_n\tlearn_rate\tloss_reduction")
		for i, p := range tune.Grid() {
			fmt.Fprintf(w, "%d\t%d\t%d\t%g\t%g\n", i, p.TreeDepth, p.MinN, p.LearnRate, p.LossReduction)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
}
