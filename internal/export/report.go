package export

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pfrederiksen/parkrun-stats/internal/clock"
	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

// ReportWinners is how many ranked winners per gender the documents list.
const ReportWinners = 10

// WinnerColumns heads the ranked winner tables.
var WinnerColumns = []string{"#", "Name", "Athlete ID", "Wins"}

// Heading is the report title for an event.
func Heading(s *event.Summary) string {
	return fmt.Sprintf("%s Parkrun - Statistics", s.Title)
}

// PopularityLines describes attendance.
func PopularityLines(s *event.Summary) []string {
	return []string{
		fmt.Sprintf("Mean finishers: %.1f", s.MeanFinishers),
		fmt.Sprintf("Median finishers: %d", s.MedianFinishers),
		fmt.Sprintf("Mean volunteers: %.1f", s.MeanVolunteers),
		fmt.Sprintf("Median volunteers: %d", s.MedianVolunteers),
	}
}

// RecordLine describes the course record for g.
func RecordLine(s *event.Summary, g event.Gender) string {
	label := "Male"
	if g == event.Female {
		label = "Female"
	}
	r := s.Record(g)
	return fmt.Sprintf("%s course record: %s | A%d | %s", label, r.Name, r.AthleteID, clock.SecondsToClock(r.Seconds))
}

// CompetitiveLines holds the course records and the mean winning times.
func CompetitiveLines(s *event.Summary) []string {
	return []string{
		RecordLine(s, event.Male),
		RecordLine(s, event.Female),
		"Mean male 1st time: " + clock.SecondsToClock(s.MeanFirstMaleSeconds),
		"Mean female 1st time: " + clock.SecondsToClock(s.MeanFirstFemaleSeconds),
	}
}

// SummaryLines holds the series totals.
func SummaryLines(s *event.Summary) []string {
	return []string{
		fmt.Sprintf("Event count: %d", s.EventCount),
		fmt.Sprintf("Cancellation rate: %.1f%%", s.CancellationRate*100),
		fmt.Sprintf("Finishes: %d", s.Finishes),
		fmt.Sprintf("Finishers: %d", s.Finishers),
		fmt.Sprintf("Volunteers: %d", s.Volunteers),
		fmt.Sprintf("Personal bests: %d", s.PersonalBests),
		"Mean finish time: " + clock.SecondsToClock(s.MeanSeconds),
		fmt.Sprintf("Groups: %d", s.Groups),
		"Email: " + s.Email,
	}
}

// WinnerRows renders ranked winners as table rows under WinnerColumns.
func WinnerRows(winners []event.TopWinner) [][]string {
	rows := make([][]string, 0, len(winners))
	for i, tw := range winners {
		rows = append(rows, []string{strconv.Itoa(i + 1), tw.Name, "A" + strconv.Itoa(tw.AthleteID), strconv.Itoa(tw.Wins)})
	}
	return rows
}

// documentWriter is a document format the report can be laid out in.
type documentWriter interface {
	title(text string) error
	section(text string) error
	bullets(lines []string) error
	paragraph(text string) error
	image(name string, png []byte) error
	table(caption string, header []string, rows [][]string) error
}

// renderReport lays the report out section by section. Both document
// formats share it so they never drift apart.
func renderReport(d documentWriter, s *event.Summary) error {
	steps := []func() error{
		func() error { return d.title(Heading(s)) },
		func() error { return d.section("Event Popularity") },
		func() error { return d.bullets(PopularityLines(s)) },
		func() error { return chartInto(d, s, SeriesFinishers) },
		func() error { return chartInto(d, s, SeriesVolunteers) },
		func() error { return d.section("Competitive") },
		func() error {
			for _, line := range CompetitiveLines(s) {
				if err := d.paragraph(line); err != nil {
					return err
				}
			}
			return nil
		},
		func() error { return chartInto(d, s, SeriesMaleFirst) },
		func() error { return chartInto(d, s, SeriesFemaleFirst) },
		func() error {
			return d.table("Most frequent male winners", WinnerColumns, WinnerRows(s.TopWinners(event.Male, ReportWinners)))
		},
		func() error {
			return d.table("Most frequent female winners", WinnerColumns, WinnerRows(s.TopWinners(event.Female, ReportWinners)))
		},
		func() error { return d.section("Summary") },
		func() error { return d.bullets(SummaryLines(s)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// chartInto adds the chart for series, leaving out a series with no points.
func chartInto(d documentWriter, s *event.Summary, series Series) error {
	png, err := Chart(s, series)
	if errors.Is(err, ErrNoPoints) {
		return nil
	}
	if err != nil {
		return err
	}
	return d.image(fmt.Sprintf("chart-%d", series), png)
}
