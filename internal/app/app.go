package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/courtcheck/internal/availability"
	"github.com/five82/courtcheck/internal/config"
	"github.com/five82/courtcheck/internal/logging"
	"github.com/five82/courtcheck/internal/sportcenter"
	"github.com/five82/courtcheck/internal/state"
	"github.com/five82/courtcheck/internal/ui"
)

// Options configure a courtcheck run. The request fields prefill the form in
// interactive mode and form the request in one-shot mode.
type Options struct {
	ConfigPath string // empty uses ~/.config/courtcheck/config.toml

	Date       string // YYYY-MM-DD; empty means today
	Until      string // YYYY-MM-DD; empty means Date only
	TimeBucket string
	Location   string
	Category   string

	Format string    // one-shot output: table, json or yaml
	Out    io.Writer // one-shot output; nil means stdout
	ErrOut io.Writer // one-shot log output; nil means stderr

	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run boots the interactive TUI until the user quits or ctx is cancelled.
// Logs go to the configured log file so they never reach the terminal.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info().Str("config", cfg.Path).Str("settings", cfg.String()).Msg("courtcheck started")

	return ui.Run(ui.Options{
		Context:         ctx,
		Store:           &state.Store{},
		Source:          availability.ClientSource(client),
		Logger:          logger,
		DefaultCategory: cfg.Category,
		ConfigPath:      cfg.Path,
		LogFile:         cfg.LogFile,
		ThemeName:       cfg.Theme,
		Prefill: ui.Prefill{
			Category:   opts.Category,
			From:       opts.Date,
			Until:      opts.Until,
			TimeBucket: opts.TimeBucket,
			Location:   opts.Location,
		},
	})
}

// RunOnce checks the requested dates and prints the results, then returns.
// Location failures are reported in the output, not as an error; only bad
// input, output errors or cancellation fail the run.
func RunOnce(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	format, err := availability.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	dates, err := availability.ParseDateRange(opts.Date, opts.Until, opts.now())
	if err != nil {
		return err
	}

	errOut := opts.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Console: errOut})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	req := availability.NewRequest(opts.Category, cfg.Category, dates, opts.TimeBucket, opts.Location)
	store := &state.Store{}
	availability.RunCheck(ctx, store, availability.ClientSource(client), req, logger)
	snap := store.Snapshot()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if err := availability.WriteDays(out, format, snap.Days); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if snap.LastError != nil {
		return fmt.Errorf("check interrupted after %d of %d dates: %w", snap.Done(), snap.Total, snap.LastError)
	}
	return nil
}

func newClient(cfg config.Config, logger zerolog.Logger) (*sportcenter.Client, error) {
	client, err := sportcenter.NewClient(sportcenter.Options{
		Endpoint: cfg.Endpoint,
		Category: cfg.Category,
		PageSize: cfg.PageSize,
		Timeout:  cfg.RequestTimeout,
		Logger:   &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init booking client: %w", err)
	}
	return client, nil
}
