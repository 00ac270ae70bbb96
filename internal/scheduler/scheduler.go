package scheduler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MarketCompare/internal/correction"
	"MarketCompare/internal/model"
	"MarketCompare/internal/notifier"
	"MarketCompare/internal/recorder"
	"MarketCompare/internal/report"
)

// Comparer runs comparison requests.
type Comparer interface {
	Compare(ctx context.Context, req model.Request) (*model.Report, error)
}

// Sender delivers messages and images to the chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhoto(ctx context.Context, png []byte, caption string) error
}

// RequestFunc builds the configured default request for a given day.
type RequestFunc func(now time.Time) (model.Request, error)

const sendRetries = 3

// Scheduler manages cron tasks and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Comparer
	Notifier Sender
	Recorder recorder.Recorder
	Rules    correction.Rules
	Request  RequestFunc
	Ctx      context.Context

	log zerolog.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Comparer, sender Sender, rec recorder.Recorder,
	rules correction.Rules, request RequestFunc, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: sender,
		Recorder: rec,
		Rules:    rules,
		Request:  request,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// Register adds the periodic report task.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunReportNow executes the report task immediately (RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) reportTask() {
	s.log.Info().Msg("running scheduled comparison")
	req, err := s.Request(s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("build scheduled request")
		s.trySend(notifier.FormatError(err))
		return
	}
	if err := s.compareAndReport(s.Ctx, req); err != nil {
		s.trySend(notifier.FormatError(err))
	}
}

// compareAndReport runs req, sends the report and growth chart, and records the run.
func (s *Scheduler) compareAndReport(ctx context.Context, req model.Request) error {
	rep, err := s.Runner.Compare(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Strs("symbols", req.Symbols).Msg("comparison failed")
		return err
	}

	s.trySend(notifier.FormatReport(rep))

	if len(rep.Years) >= 2 {
		png, err := report.RenderGrowthChart(rep)
		if err != nil {
			s.log.Warn().Err(err).Msg("render growth chart")
		} else if err := s.Notifier.SendPhoto(ctx, png, "Asset growth"); err != nil {
			s.log.Error().Err(err).Msg("send growth chart")
		}
	}

	if id, err := s.Recorder.RecordRun(rep); err != nil {
		s.log.Error().Err(err).Msg("record run")
	} else if id > 0 {
		s.log.Info().Int64("run_id", id).Msg("run recorded")
	}
	return nil
}

// HandleCommand processes a chat command and returns the reply. Comparison
// results are sent directly, so a successful /compare returns "".
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	name := strings.ToLower(fields[0])
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i] // "/compare@SomeBot" in group chats
	}

	switch name {
	case "/compare":
		base, err := s.Request(s.now())
		if err != nil {
			return notifier.FormatError(err)
		}
		req, err := ParseCompareArgs(fields[1:], base)
		if err != nil {
			return notifier.FormatError(err)
		}
		if err := s.compareAndReport(ctx, req); err != nil {
			return notifier.FormatError(err)
		}
		return ""
	case "/history":
		runs, err := s.Recorder.RecentRuns(10)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatHistory(runs)
	case "/rules":
		return notifier.FormatRules(s.Rules)
	default:
		return notifier.HelpText()
	}
}

// ParseCompareArgs applies "/compare" arguments to base. Bare words are
// symbols and replace the default list; from=, to= and capital= override
// the request's fields.
func ParseCompareArgs(args []string, base model.Request) (model.Request, error) {
	req := base
	var symbols []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			symbols = append(symbols, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "from":
			d, err := model.ParseDate(value)
			if err != nil {
				return model.Request{}, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
			}
			req.Start = d
		case "to":
			d, err := model.ParseDate(value)
			if err != nil {
				return model.Request{}, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
			}
			req.End = d
		case "capital":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return model.Request{}, fmt.Errorf("%w: capital %q", model.ErrInvalidRequest, value)
			}
			req.InitialCapital = v
		default:
			return model.Request{}, fmt.Errorf("%w: unknown option %q", model.ErrInvalidRequest, key)
		}
	}
	if len(symbols) > 0 {
		req.Symbols = model.NormalizeSymbols(symbols)
	}
	return req, nil
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
