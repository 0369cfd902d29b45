package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/parkrun-stats/internal/clock"
	"github.com/pfrederiksen/parkrun-stats/internal/event"
	"github.com/pfrederiksen/parkrun-stats/internal/export"
	"github.com/pfrederiksen/parkrun-stats/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	Summary        *event.Summary
	DisplayWinners int
	LatestEvents   int
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the whole summary, every winner and event included
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result.Summary)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	s := result.Summary

	fmt.Fprintln(w, export.Heading(s))

	writeSection(w, "Event Popularity", export.PopularityLines(s))
	writeSection(w, "Competitive", export.CompetitiveLines(s))

	for _, g := range []event.Gender{event.Male, event.Female} {
		winners := s.TopWinners(g, result.DisplayWinners)
		if len(winners) == 0 {
			continue
		}
		lines := make([]string, 0, len(winners))
		for i, tw := range winners {
			lines = append(lines, fmt.Sprintf("%d. %s (A%d) - %s", i+1, tw.Name, tw.AthleteID, plural(tw.Wins, "win")))
		}
		writeSection(w, fmt.Sprintf("Most frequent %s winners", g), lines)
	}

	if latest := s.Latest(result.LatestEvents); len(latest) > 0 {
		lines := make([]string, 0, len(latest))
		for _, evt := range latest {
			lines = append(lines, eventLine(evt))
		}
		writeSection(w, "Latest events", lines)
	}

	writeSection(w, "Summary", export.SummaryLines(s))

	if verbose {
		snapshot := logger.GetMetricsSnapshot()
		lines := make([]string, 0, len(snapshot))
		for _, key := range sortedKeys(snapshot) {
			lines = append(lines, fmt.Sprintf("%s: %v", key, snapshot[key]))
		}
		if len(lines) > 0 {
			writeSection(w, "Metrics", lines)
		}
	}

	return nil
}

func writeSection(w io.Writer, heading string, lines []string) {
	fmt.Fprintf(w, "\n%s\n", heading)
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func eventLine(evt event.EventData) string {
	line := fmt.Sprintf("#%d %s: %s, %s",
		evt.Number, evt.Date.Format(event.DateLayout),
		plural(evt.Finishers, "finisher"), plural(evt.Volunteers, "volunteer"))
	for _, g := range []event.Gender{event.Male, event.Female} {
		if fp, ok := evt.First(g); ok {
			line += fmt.Sprintf(", 1st %s %s %s", g, fp.Name, clock.SecondsToClock(fp.Seconds))
		}
	}
	return line
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func sortedKeys(fields logger.Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
