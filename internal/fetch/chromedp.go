package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/pfrederiksen/parkrun-stats/internal/eventurl"
	"github.com/pfrederiksen/parkrun-stats/internal/logger"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultWaitSelector = "#primary"
)

// ChromedpConfig controls the headless browser.
type ChromedpConfig struct {
	Timeout      time.Duration
	UserAgent    string
	WaitSelector string
	ChromePath   string
	Headless     bool
}

// runFunc matches chromedp.Run so tests can stand in for a browser.
type runFunc func(ctx context.Context, actions ...chromedp.Action) error

// Chromedp fetches pages with headless Chrome.
//
// A fetch runs three stages: navigate, wait for the wait selector, read the
// outer HTML. Cancellation is checked before each one. Navigate and wait are
// each bounded by the configured timeout.
type Chromedp struct {
	cfg      ChromedpConfig
	run      runFunc
	canceled atomic.Bool
}

// NewChromedp returns a browser fetcher. Zero config fields take defaults.
func NewChromedp(cfg ChromedpConfig) *Chromedp {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WaitSelector == "" {
		cfg.WaitSelector = DefaultWaitSelector
	}
	return &Chromedp{cfg: cfg, run: chromedp.Run}
}

// Cancel asks an in-flight or future Fetch to stop at its next stage.
func (c *Chromedp) Cancel() {
	c.canceled.Store(true)
}

// Canceled reports whether ctx is done or Cancel was called.
func (c *Chromedp) Canceled(ctx context.Context) bool {
	return ctx.Err() != nil || c.canceled.Load()
}

// Fetch validates eventURL, then loads and returns the rendered page.
func (c *Chromedp) Fetch(ctx context.Context, eventURL string) (string, error) {
	target, err := eventurl.Parse(eventURL)
	if err != nil {
		return "", err
	}
	if c.Canceled(ctx) {
		return "", ErrCanceled
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer taskCancel()

	start := time.Now()
	logger.Info("loading event history", logger.Fields{"url": target})

	var html string
	stages := []struct {
		name    string
		timeout time.Duration
		actions []chromedp.Action
	}{
		{"navigate", c.cfg.Timeout, []chromedp.Action{c.userAgentAction(), chromedp.Navigate(target)}},
		{"wait", c.cfg.Timeout, []chromedp.Action{chromedp.WaitVisible(c.cfg.WaitSelector, chromedp.ByQuery)}},
		{"read", 0, []chromedp.Action{chromedp.OuterHTML("html", &html, chromedp.ByQuery)}},
	}

	for _, stage := range stages {
		if c.Canceled(ctx) {
			logger.Info("fetch canceled", logger.Fields{"stage": stage.name})
			return "", ErrCanceled
		}
		if err := c.runStage(taskCtx, stage.timeout, stage.actions); err != nil {
			if c.Canceled(ctx) {
				return "", ErrCanceled
			}
			logger.IncrCounter("fetch.errors")
			logger.Error("browser stage failed", logger.Fields{"stage": stage.name, "url": target}, err)
			return "", &ConnectivityError{URL: target, Err: fmt.Errorf("%s: %w", stage.name, err)}
		}
	}

	logger.RecordTiming("fetch", time.Since(start))
	return html, nil
}

func (c *Chromedp) runStage(ctx context.Context, timeout time.Duration, actions []chromedp.Action) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := c.run(ctx, actions...)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no response within %s: %w", timeout, err)
	}
	return err
}

func (c *Chromedp) userAgentAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if c.cfg.UserAgent == "" {
			return nil
		}
		if err := emulation.SetUserAgentOverride(c.cfg.UserAgent).Do(ctx); err != nil {
			return fmt.Errorf("set user-agent: %w", err)
		}
		return nil
	})
}

func (c *Chromedp) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if c.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.cfg.UserAgent))
	}
	if !c.cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if c.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ChromePath))
	}
	return opts
}
