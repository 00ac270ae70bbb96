package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compare",
	Short: "MarketCompare - compare the historical performance of tickers",
	Long: `MarketCompare

Simulates investing the same capital in several tickers over their common
trading window and compares total return, CAGR, volatility, max drawdown
and year-by-year ROI.

Examples:
  compare run 0050.TW 0052.TW QQQ --from 2015-01-01
  compare run SPY QQQ --format markdown --chart growth.png
  compare serve
  compare history --limit 5
  compare rules`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
}
