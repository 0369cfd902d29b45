package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/parkrun-stats/internal/eventurl"
	"github.com/pfrederiksen/parkrun-stats/internal/logger"
)

// maxBody bounds how much of a response is read.
const maxBody = 16 << 20

// HTTPConfig controls the plain HTTP fetcher.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
	// Client replaces the default client when set.
	Client *http.Client
}

// HTTP fetches pages with a single GET and no script execution.
type HTTP struct {
	client    *http.Client
	userAgent string
}

// NewHTTP returns a plain HTTP fetcher.
func NewHTTP(cfg HTTPConfig) *HTTP {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTP{client: client, userAgent: cfg.UserAgent}
}

// Fetch validates eventURL and returns the body of the event-history page.
func (h *HTTP) Fetch(ctx context.Context, eventURL string) (string, error) {
	target, err := eventurl.Parse(eventURL)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ErrCanceled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrCanceled
		}
		logger.IncrCounter("fetch.errors")
		return "", &ConnectivityError{URL: target, Err: fmt.Errorf("fetching page: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.IncrCounter("fetch.errors")
		logger.Warn("unexpected status", logger.Fields{"url": target, "status": resp.StatusCode})
		return "", &ConnectivityError{URL: target, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &ConnectivityError{URL: target, Err: fmt.Errorf("reading body: %w", err)}
	}

	logger.RecordTiming("fetch", time.Since(start))
	return string(body), nil
}
