package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MarketCompare/internal/model"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the price corrections in effect",
	Long: `Lists the built-in price corrections merged with the "corrections"
section of the config file. Every price dated before the cutoff is divided
by the divisor.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tBEFORE\tDIVISOR")
	for _, sym := range a.rules.Symbols() {
		for _, r := range a.rules[sym] {
			fmt.Fprintf(w, "%s\t%s\t%s\n", sym, r.Cutoff.Format(model.DateLayout), strconv.FormatFloat(r.Divisor, 'f', -1, 64))
		}
	}
	return w.Flush()
}
