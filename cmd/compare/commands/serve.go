package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"MarketCompare/internal/notifier"
	"MarketCompare/internal/scheduler"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled reports and answer Telegram commands",
	Long: `Starts the cron scheduler and Telegram long polling until SIGINT/SIGTERM.

The configured comparison (end date = today) is sent on schedule.report_cron.
Set RUN_ON_START=true to send one report immediately.

Telegram commands:
  /compare SYM [SYM...] [from=YYYY-MM-DD] [to=YYYY-MM-DD] [capital=N]
  /history
  /rules`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}
	if err := a.cfg.ValidateService(); err != nil {
		return err
	}
	a.log.Info().Msg("MarketCompare starting")

	runner, err := a.newRunner()
	if err != nil {
		return err
	}

	tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)

	rec, err := a.openRecorder(false)
	if err != nil {
		return err
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, runner, tn, rec, a.rules, a.cfg.Request, a.log)
	if err := sched.Register(a.cfg.Schedule.ReportCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	a.log.Info().Msg("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		a.log.Info().Msg("RUN_ON_START enabled, sending report now")
		go sched.RunReportNow()
	}

	a.log.Info().Str("cron", a.cfg.Schedule.ReportCron).Msg("MarketCompare is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		a.log.Info().Msg("shutdown signal received, stopping")
	case <-ctx.Done():
	}
	cancel()
	a.log.Info().Msg("MarketCompare stopped")
	return nil
}
