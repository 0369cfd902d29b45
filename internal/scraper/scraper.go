package scraper

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pfrederiksen/parkrun-stats/internal/clock"
	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

// Labels of the summary statistics above the results table.
const (
	LabelFinishes      = "Finishes:"
	LabelFinishers     = "Finishers:"
	LabelVolunteers    = "Volunteers:"
	LabelPersonalBests = "PBs:"
	LabelMeanTime      = "Average finish time:"
	LabelGroups        = "Groups:"
)

const (
	titleSuffix  = "Event History"
	titleSeries  = " parkrun"
	emailHrefKey = "mailto"
)

var errMissing = errors.New("missing")

// ExtractPage parses markup and extracts the event history from it.
func ExtractPage(r io.Reader) (*event.Page, error) {
	doc, err := NewDocument(r)
	if err != nil {
		return nil, err
	}
	return ExtractDocument(doc)
}

// ExtractDocument extracts the ordered event rows and the page-level totals.
// Rows keep their page order. A table with no rows is not an error here; it
// is left to the aggregator to decide there is nothing to summarise.
func ExtractDocument(doc Document) (*event.Page, error) {
	rows, ok := doc.TableRows()
	if !ok {
		return nil, &StructureError{What: "results table"}
	}

	events := make([]event.EventData, 0, len(rows))
	for i, row := range rows {
		evt, err := ExtractRow(row)
		if err != nil {
			var rowErr *MalformedRowError
			if errors.As(err, &rowErr) {
				rowErr.Row = i + 1
			}
			return nil, err
		}
		events = append(events, evt)
	}

	heading, ok := doc.Heading()
	if !ok {
		return nil, &StructureError{What: "page heading"}
	}

	page := &event.Page{Events: events}
	page.Title = cleanTitle(heading)

	var err error

	counts := []struct {
		label string
		dst   *int
	}{
		{LabelFinishes, &page.Finishes},
		{LabelFinishers, &page.Finishers},
		{LabelVolunteers, &page.Volunteers},
		{LabelPersonalBests, &page.PersonalBests},
	}
	for _, c := range counts {
		n, err := statInt(doc, c.label)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	meanTime, ok := doc.StatByLabel(LabelMeanTime)
	if !ok {
		return nil, &StructureError{What: "statistic " + strconv.Quote(LabelMeanTime)}
	}
	page.MeanSeconds, err = clock.HMSToSeconds(strings.TrimSpace(meanTime))
	if err != nil {
		return nil, &StructureError{What: "statistic " + strconv.Quote(LabelMeanTime), Err: err}
	}

	if page.Groups, err = statInt(doc, LabelGroups); err != nil {
		return nil, err
	}

	email, ok := doc.FirstLinkText(emailHrefKey)
	if !ok {
		return nil, &StructureError{What: "contact email"}
	}
	page.Email = strings.TrimSpace(email)

	return page, nil
}

// ExtractRow reads one results-table row.
func ExtractRow(row Row) (event.EventData, error) {
	var evt event.EventData
	var err error

	if evt.Number, err = intAttr(row, "data-parkrun"); err != nil {
		return evt, err
	}

	dateText, ok := row.Attr("data-date")
	if !ok {
		return evt, &MalformedRowError{Field: "data-date", Err: errMissing}
	}
	if evt.Date, err = event.ParseDate(dateText); err != nil {
		return evt, &MalformedRowError{Field: "data-date", Err: err}
	}

	if evt.Finishers, err = intAttr(row, "data-finishers"); err != nil {
		return evt, err
	}
	if evt.Volunteers, err = intAttr(row, "data-volunteers"); err != nil {
		return evt, err
	}

	maleName := nameAttr(row, "data-male")
	femaleName := nameAttr(row, "data-female")
	maleHref, femaleHref := assignAthleteLinks(row.AthleteLinks(), maleName != "", femaleName != "")

	if evt.FirstMale, err = firstPlace(row, maleName, "data-maletime", maleHref); err != nil {
		return evt, err
	}
	if evt.FirstFemale, err = firstPlace(row, femaleName, "data-femaletime", femaleHref); err != nil {
		return evt, err
	}

	return evt, nil
}

// assignAthleteLinks pairs athlete links with genders. The first link is the
// male winner's and the second the female's; anything after is ignored. A row
// carrying a single link and a single winner gives that link to the winner,
// wherever the winner sits.
func assignAthleteLinks(links []string, hasMale, hasFemale bool) (male, female string) {
	if len(links) == 1 && hasMale != hasFemale {
		if hasMale {
			return links[0], ""
		}
		return "", links[0]
	}
	if len(links) > 0 {
		male = links[0]
	}
	if len(links) > 1 {
		female = links[1]
	}
	return male, female
}

func firstPlace(row Row, name, timeAttr, href string) (*event.FirstPlace, error) {
	if name == "" {
		return nil, nil
	}

	timeText, ok := row.Attr(timeAttr)
	if !ok || strings.TrimSpace(timeText) == "" {
		return nil, &MalformedRowError{Field: timeAttr, Err: fmt.Errorf("%w for %q", errMissing, name)}
	}
	seconds, err := clock.ClockToSeconds(strings.TrimSpace(timeText))
	if err != nil {
		return nil, &MalformedRowError{Field: timeAttr, Err: err}
	}

	if href == "" {
		return nil, &MalformedRowError{Field: "athlete link", Err: fmt.Errorf("%w for %q", errMissing, name)}
	}
	id, err := athleteID(href)
	if err != nil {
		return nil, &MalformedRowError{Field: "athlete link", Err: err}
	}

	return &event.FirstPlace{AthleteID: id, Name: name, Seconds: seconds}, nil
}

// athleteID reads the integer after the last '=' of an athlete link.
func athleteID(href string) (int, error) {
	idx := strings.LastIndex(href, "=")
	if idx < 0 {
		return 0, fmt.Errorf("no athlete id in %q", href)
	}
	id, err := strconv.Atoi(href[idx+1:])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid athlete id in %q", href)
	}
	return id, nil
}

func intAttr(row Row, name string) (int, error) {
	raw, ok := row.Attr(name)
	if !ok {
		return 0, &MalformedRowError{Field: name, Err: errMissing}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &MalformedRowError{Field: name, Err: err}
	}
	if n < 0 {
		return 0, &MalformedRowError{Field: name, Err: fmt.Errorf("negative value %d", n)}
	}
	return n, nil
}

func nameAttr(row Row, name string) string {
	v, _ := row.Attr(name)
	return strings.TrimSpace(v)
}

func statInt(doc Document, label string) (int, error) {
	raw, ok := doc.StatByLabel(label)
	if !ok {
		return 0, &StructureError{What: "statistic " + strconv.Quote(label)}
	}
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	if err != nil {
		return 0, &StructureError{What: "statistic " + strconv.Quote(label), Err: err}
	}
	return n, nil
}

// cleanTitle turns "Bushy parkrun Event History" into "Bushy".
func cleanTitle(heading string) string {
	title := strings.TrimSuffix(strings.TrimSpace(heading), titleSuffix)
	title = strings.ReplaceAll(title, titleSeries, "")
	return strings.TrimSpace(title)
}
