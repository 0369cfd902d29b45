package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is how dates are written in exports.
const DateLayout = "2006-01-02"

// ParseDate parses the "DD/MM/YYYY" dates of the results table.
// The components are read right to left as year, month, day and must name a
// real calendar day.
func ParseDate(dateText string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(dateText), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: expected DD/MM/YYYY", dateText)
	}

	var ymd [3]int
	for i := range parts {
		n, err := strconv.Atoi(parts[len(parts)-1-i])
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", dateText, err)
		}
		ymd[i] = n
	}

	year, month, day := ymd[0], time.Month(ymd[1]), ymd[2]
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("date %q: not a calendar day", dateText)
	}
	return t, nil
}
