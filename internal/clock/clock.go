package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError reports a time string that does not match the expected layout.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// ClockToSeconds parses a first-place time. The first two characters are the
// minutes and the remainder the seconds; a single ':' after the minutes is
// tolerated because the live site renders "MM:SS".
func ClockToSeconds(text string) (int, error) {
	digits := text
	if len(digits) > 2 && digits[2] == ':' {
		digits = digits[:2] + digits[3:]
	}
	if len(digits) < 3 {
		return 0, &FormatError{Input: text, Reason: "expected MMSS"}
	}

	minutes, err := parseComponent(digits[:2])
	if err != nil {
		return 0, &FormatError{Input: text, Reason: "minutes are not a number"}
	}
	seconds, err := parseComponent(digits[2:])
	if err != nil {
		return 0, &FormatError{Input: text, Reason: "seconds are not a number"}
	}

	return minutes*60 + seconds, nil
}

// HMSToSeconds converts "HH:MM:SS" into seconds.
func HMSToSeconds(text string) (int, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, &FormatError{Input: text, Reason: fmt.Sprintf("expected 3 components, got %d", len(parts))}
	}

	var values [3]int
	for i, part := range parts {
		n, err := parseComponent(part)
		if err != nil {
			return 0, &FormatError{Input: text, Reason: fmt.Sprintf("component %q is not a number", part)}
		}
		values[i] = n
	}

	return values[0]*3600 + values[1]*60 + values[2], nil
}

// SecondsToClock formats seconds as "MM:SS". Minutes are not wrapped into
// hours, so 100 minutes or more prints with three or more digits.
func SecondsToClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// parseComponent accepts only unsigned decimal digits.
func parseComponent(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return strconv.Atoi(s)
}
