package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/parkrun-stats/internal/clock"
	"github.com/pfrederiksen/parkrun-stats/internal/config"
	"github.com/pfrederiksen/parkrun-stats/internal/event"
	"github.com/pfrederiksen/parkrun-stats/internal/eventurl"
	"github.com/pfrederiksen/parkrun-stats/internal/fetch"
	"github.com/pfrederiksen/parkrun-stats/internal/logger"
	"github.com/pfrederiksen/parkrun-stats/internal/scraper"
	"github.com/pfrederiksen/parkrun-stats/internal/stats"
)

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2
	ExitNoData       = 3
)

// NoDataMessage is shown when a page has too little history to summarise.
const NoDataMessage = "No historical data found for given parkrun."

const parseErrorPrefix = "an error occurred while attempting to parse the HTML data: "

// options holds flag values. Zero or empty values defer to the config file.
type options struct {
	configPath string
	format     string
	verbose    bool
	weekday    string
	top        int
	displayTop int
	latest     int
	csvPath    string
	xlsxPath   string
	pdfPath    string
	docxPath   string
	outDir     string
}

// app carries what the commands share once flags and config are resolved.
type app struct {
	opts       options
	cfg        config.Config
	stdout     io.Writer
	newFetcher func(config.FetchConfig) fetch.Fetcher
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{stdout: os.Stdout, newFetcher: newFetcher})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parkrun-stats",
		Short: "Summarise the event history of a parkrun",
		Long: `A CLI tool that reads a parkrun event-history page and reports attendance,
course records, most frequent winners and the cancellation rate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.opts.configPath, "config", "", "Path to a YAML config file")
	f.StringVar(&a.opts.format, "format", "text", "Output format: text or json")
	f.BoolVar(&a.opts.verbose, "verbose", false, "Enable verbose logging")
	f.StringVar(&a.opts.weekday, "weekday", "", "Day the event normally runs on (default from config: saturday)")
	f.IntVar(&a.opts.top, "top", 0, "Number of most frequent winners to rank per gender")
	f.IntVar(&a.opts.displayTop, "display-top", 0, "Number of ranked winners shown in text output")
	f.IntVar(&a.opts.latest, "latest", 0, "Number of most recent events shown in text output")
	f.StringVar(&a.opts.csvPath, "csv", "", "Write the event table to this CSV file")
	f.StringVar(&a.opts.xlsxPath, "xlsx", "", "Write the event table to this XLSX file")
	f.StringVar(&a.opts.pdfPath, "pdf", "", "Write the PDF report to this file")
	f.StringVar(&a.opts.docxPath, "docx", "", "Write the Word report to this file")
	f.StringVar(&a.opts.outDir, "out-dir", "", "Write every export format into this directory")

	cmd.AddCommand(
		newValidateCmd(a),
		newFetchCmd(a),
		newParseCmd(a),
	)
	return cmd
}

// setup loads config, lets changed flags override it and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	format := OutputFormat(strings.ToLower(a.opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.opts.format)
	}

	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("weekday") {
		cfg.Stats.Weekday = a.opts.weekday
	}
	if flags.Changed("top") {
		cfg.Stats.TopWinners = a.opts.top
	}
	if flags.Changed("display-top") {
		cfg.Report.DisplayWinners = a.opts.displayTop
	}
	if flags.Changed("latest") {
		cfg.Report.LatestEvents = a.opts.latest
	}
	if flags.Changed("out-dir") {
		cfg.Export.Dir = a.opts.outDir
	}
	if a.opts.verbose {
		cfg.Logging.Level = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := logger.ParseLevel(cfg.Logging.Level)
	if cfg.Logging.Development {
		logger.SetDefault(logger.NewDevelopment(level, cmd.ErrOrStderr()))
	} else {
		logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	}
	return nil
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <url>",
		Short: "Check an event URL and print the event-history address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := eventurl.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, target)
			return nil
		},
	}
}

func newFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch an event-history page and report its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			html, err := a.newFetcher(a.cfg.Fetch).Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			return a.report(html)
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Report the statistics of a saved event-history page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := fetch.ReadFile(args[0])
			if err != nil {
				return err
			}
			return a.report(html)
		},
	}
}

func newFetcher(cfg config.FetchConfig) fetch.Fetcher {
	if cfg.Mode == config.ModeHTTP {
		return fetch.NewHTTP(fetch.HTTPConfig{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent})
	}
	return fetch.NewChromedp(fetch.ChromedpConfig{
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		WaitSelector: cfg.WaitSelector,
		ChromePath:   cfg.ChromePath,
		Headless:     cfg.Headless,
	})
}

// report runs extraction and aggregation on html, then writes output and exports.
func (a *app) report(html string) error {
	summary, err := a.summarize(html)
	if err != nil {
		return err
	}

	if err := a.export(summary); err != nil {
		return err
	}

	view := &OutputResult{
		Summary:        summary,
		DisplayWinners: a.cfg.Report.DisplayWinners,
		LatestEvents:   a.cfg.Report.LatestEvents,
	}
	if err := WriteOutput(a.stdout, view, OutputFormat(strings.ToLower(a.opts.format)), a.opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (a *app) summarize(html string) (*event.Summary, error) {
	start := time.Now()
	page, err := scraper.ExtractPage(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted event history", logger.Fields{"title": page.Title, "events": len(page.Events)})

	summary, err := stats.Aggregate(page, stats.Options{
		Weekday:    a.cfg.Weekday(),
		TopWinners: a.cfg.Stats.TopWinners,
	})
	if err != nil {
		return nil, err
	}
	logger.RecordTiming("summarize", time.Since(start))
	return summary, nil
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, newFetcher: newFetcher}
	return run(a, args, stderr)
}

func run(a *app, args []string, stderr io.Writer) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	defer func() { _ = logger.Default().Sync() }()
	if err == nil {
		return ExitSuccess
	}

	message, code := describe(err)
	fmt.Fprintf(stderr, "Error: %s\n", message)
	logger.Debug("run failed", logger.Fields{"exit_code": code, "error": err.Error()})
	return code
}

// describe maps an error to what the user sees and the exit code.
func describe(err error) (string, int) {
	var (
		urlErr    *eventurl.InvalidURLError
		connErr   *fetch.ConnectivityError
		structErr *scraper.StructureError
		rowErr    *scraper.MalformedRowError
		clockErr  *clock.FormatError
	)
	switch {
	case errors.As(err, &urlErr):
		return urlErr.Reason, ExitInvalidInput
	case errors.Is(err, stats.ErrInsufficientData):
		return NoDataMessage, ExitNoData
	case errors.Is(err, fetch.ErrCanceled):
		return "canceled", ExitError
	case errors.As(err, &connErr):
		return connErr.Error(), ExitError
	case errors.As(err, &structErr), errors.As(err, &rowErr), errors.As(err, &clockErr):
		return parseErrorPrefix + err.Error(), ExitError
	default:
		return err.Error(), ExitError
	}
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
