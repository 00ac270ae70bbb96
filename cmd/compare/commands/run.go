package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"MarketCompare/internal/config"
	"MarketCompare/internal/model"
	"MarketCompare/internal/report"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [SYMBOL...]",
	Short: "Run one comparison and print the report",
	Long: `Fetches adjusted daily prices for every symbol, aligns them on a common
window and prints the comparison.

Symbols default to compare.symbols from the config file.

Example:
  compare run 0050.TW 0052.TW QQQ
  compare run SPY QQQ --from 2015-01-01 --to 2024-12-31 --capital 5000
  compare run SPY QQQ --format json
  compare run SPY QQQ --chart growth.png --record`,
	RunE: runCompare,
}

var (
	runFrom     string
	runTo       string
	runCapital  float64
	runProvider string
	runFormat   string
	runChart    string
	runRecord   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFrom, "from", "", "start date YYYY-MM-DD (default compare.start_date)")
	runCmd.Flags().StringVar(&runTo, "to", "", "end date YYYY-MM-DD (default today)")
	runCmd.Flags().Float64Var(&runCapital, "capital", 0, "initial capital (default compare.initial_capital)")
	runCmd.Flags().StringVar(&runProvider, "provider", "", "data provider (yahoo|eodhd|yfinance)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "output format (text|markdown|json)")
	runCmd.Flags().StringVar(&runChart, "chart", "", "write a growth chart PNG to this file")
	runCmd.Flags().BoolVar(&runRecord, "record", false, "store the run in the SQLite database")
}

func runCompare(cmd *cobra.Command, args []string) error {
	switch runFormat {
	case "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown format %q (text|markdown|json)", runFormat)
	}

	a, err := loadApp(func(cfg *config.Config) {
		if runProvider != "" {
			cfg.DataSource.Provider = runProvider
		}
	})
	if err != nil {
		return err
	}

	base, err := a.cfg.Request(time.Now())
	if err != nil {
		return err
	}
	var capital *float64
	if cmd.Flags().Changed("capital") {
		capital = &runCapital
	}
	req, err := applyRunFlags(base, args, runFrom, runTo, capital)
	if err != nil {
		return err
	}

	runner, err := a.newRunner()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := runner.Compare(ctx, req)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), rep, runFormat); err != nil {
		return err
	}

	if runChart != "" {
		png, err := report.RenderGrowthChart(rep)
		if err != nil {
			return fmt.Errorf("growth chart: %w", err)
		}
		if err := os.WriteFile(runChart, png, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		a.log.Info().Str("path", runChart).Msg("growth chart written")
	}

	if runRecord {
		return recordRun(a, rep)
	}
	return nil
}

func recordRun(a *app, rep *model.Report) error {
	rec, err := a.openRecorder(true)
	if err != nil {
		return err
	}
	defer rec.Close()
	id, err := rec.RecordRun(rep)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	a.log.Info().Int64("run_id", id).Msg("run recorded")
	return nil
}

// applyRunFlags overrides the configured request with command-line values.
// A nil capital keeps the configured one; an explicit value, even 0, is used
// as given and left to request validation.
func applyRunFlags(base model.Request, symbols []string, from, to string, capital *float64) (model.Request, error) {
	req := base
	if len(symbols) > 0 {
		req.Symbols = model.NormalizeSymbols(symbols)
	}
	if from != "" {
		d, err := model.ParseDate(from)
		if err != nil {
			return model.Request{}, fmt.Errorf("--from: %w", err)
		}
		req.Start = d
	}
	if to != "" {
		d, err := model.ParseDate(to)
		if err != nil {
			return model.Request{}, fmt.Errorf("--to: %w", err)
		}
		req.End = d
	}
	if capital != nil {
		req.InitialCapital = *capital
	}
	return req, nil
}

func writeReport(w io.Writer, rep *model.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "markdown":
		_, err := io.WriteString(w, report.Markdown(rep))
		return err
	default:
		md := report.Markdown(rep)
		out, err := report.RenderTerminal(md)
		if err != nil {
			out = md
		}
		_, err = io.WriteString(w, out)
		return err
	}
}
