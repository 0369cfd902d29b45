// Package fetch retrieves the rendered event-history markup that the scraper
// extracts from.
//
// Chromedp drives headless Chrome, which the live site requires. HTTP is a
// plain GET for mirrors and tests that serve static markup. ReadFile covers
// pages saved by hand.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
)

// Fetcher loads the event-history page for a user-supplied event URL and
// returns its markup.
type Fetcher interface {
	Fetch(ctx context.Context, eventURL string) (string, error)
}

// ErrCanceled is returned when the caller asked to stop before the markup was read.
var ErrCanceled = errors.New("fetch canceled")

// ConnectivityMessage is shown when the results table never appeared.
const ConnectivityMessage = "Summary table failed to load - check your Internet connection. " +
	"Otherwise, perhaps the bot has been detected."

// ConnectivityError reports that the page could not be loaded or the results
// table never rendered.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return ConnectivityMessage
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a saved event-history page as UTF-8, dropping a leading BOM.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}
