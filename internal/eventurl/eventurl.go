// Package eventurl validates user-supplied parkrun event URLs and turns them
// into the canonical event-history address the fetcher loads.
package eventurl

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxInputLength caps what a user may type; longer input is rejected outright.
	MaxInputLength = 128

	historyURLFormat = "https://www.%s/%s/results/eventhistory/"
	domainPrefix     = "parkrun"
)

// Reasons carried by InvalidURLError.
const (
	ReasonInvalidURL    = "Invalid URL"
	ReasonInvalidDomain = "Invalid domain"
	ReasonInvalidName   = "Invalid parkrun name"
	ReasonTooLong       = "URL too long"
)

// InvalidURLError is returned when the input is not a parkrun event URL.
// Reason is short enough to show inline next to an input field.
type InvalidURLError struct {
	Input  string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return e.Reason
}

// Parse validates raw and returns the event-history URL to fetch.
//
// Accepted shapes, with optional scheme, optional "www." and trailing slashes:
//
//	parkrun.org.uk/bushy
//	parkrun.org.uk/bushy/results/eventhistory
func Parse(raw string) (string, error) {
	url := strings.ToLower(strings.TrimSpace(raw))
	if len(url) > MaxInputLength {
		return "", &InvalidURLError{Input: raw, Reason: ReasonTooLong}
	}

	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(url, scheme) {
			url = strings.TrimPrefix(url, scheme)
			break
		}
	}
	url = strings.TrimPrefix(url, "www.")
	url = strings.TrimRight(url, "/")

	parts := strings.Split(url, "/")
	if len(parts) != 2 && len(parts) != 4 {
		return "", &InvalidURLError{Input: raw, Reason: ReasonInvalidURL}
	}

	domain := parts[0]
	if !validDomain(domain) {
		return "", &InvalidURLError{Input: raw, Reason: ReasonInvalidDomain}
	}

	name := parts[1]
	if !isAlpha(name) {
		return "", &InvalidURLError{Input: raw, Reason: ReasonInvalidName}
	}

	if len(parts) == 4 && (parts[2] != "results" || parts[3] != "eventhistory") {
		return "", &InvalidURLError{Input: raw, Reason: ReasonInvalidURL}
	}

	return fmt.Sprintf(historyURLFormat, domain, name), nil
}

// Valid reports whether raw would parse. Cheap enough to call per keystroke.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

func validDomain(domain string) bool {
	switch {
	case !strings.HasPrefix(domain, domainPrefix):
		return false
	case strings.Contains(domain, ".."):
		return false
	case strings.HasSuffix(domain, "."):
		return false
	case !strings.Contains(domain, "."):
		return false
	}
	return isAlpha(strings.ReplaceAll(domain, ".", ""))
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
