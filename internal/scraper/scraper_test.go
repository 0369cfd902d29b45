package scraper

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/parkrun-stats/internal/clock"
	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

const pageStats = `
	<div class="aStat">Finishes: <span>1,234,567</span></div>
	<div class="aStat">Finishers: <span>98,765</span></div>
	<div class="aStat">Volunteers: <span>4,321</span></div>
	<div class="aStat">PBs: <span>200,001</span></div>
	<div class="aStat">Average finish time: <span>00:27:41</span></div>
	<div class="aStat">Groups: <span>1,050</span></div>`

const contact = `<p>Contact us at <a href="mailto:bushy@parkrun.com">bushy@parkrun.com</a></p>`

func resultRow(number int, date string, finishers, volunteers int, male, maleTime, maleID, female, femaleTime, femaleID string) string {
	var links strings.Builder
	if maleID != "" {
		fmt.Fprintf(&links, `<a href="https://www.parkrun.org.uk/bushy/results/athletehistory/?athleteNumber=%s">%s</a>`, maleID, male)
	}
	if femaleID != "" {
		fmt.Fprintf(&links, `<a href="https://www.parkrun.org.uk/bushy/results/athletehistory/?athleteNumber=%s">%s</a>`, femaleID, female)
	}
	return fmt.Sprintf(`<tr class="Results-table-row" data-parkrun="%d" data-date="%s" data-finishers="%d" data-volunteers="%d" data-male="%s" data-female="%s" data-maletime="%s" data-femaletime="%s">
		<td><a href="https://www.parkrun.org.uk/bushy/results/%d/">%d</a></td><td>%s</td></tr>`,
		number, date, finishers, volunteers, male, female, maleTime, femaleTime, number, number, links.String())
}

func historyPage(rows ...string) string {
	return `<html><head><title>Event History</title></head><body>
		<div id="primary">
		<h1>Bushy parkrun Event History</h1>` + pageStats + `
		<table class="Results-table"><thead><tr><th>Event</th></tr></thead><tbody>` +
		strings.Join(rows, "\n") +
		`</tbody></table>` + contact + `</div></body></html>`
}

func TestExtractPage(t *testing.T) {
	html := historyPage(
		resultRow(1, "02/10/2004", 13, 2, "Paul SINTON-HEWITT", "1534", "1", "Jane SMITH", "1902", "2"),
		resultRow(2, "09/10/2004", 23, 3, "Tom JONES", "16:10", "3", "", "", ""),
	)

	page, err := ExtractPage(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Bushy", page.Title)
	assert.Equal(t, 1234567, page.Finishes)
	assert.Equal(t, 98765, page.Finishers)
	assert.Equal(t, 4321, page.Volunteers)
	assert.Equal(t, 200001, page.PersonalBests)
	assert.Equal(t, 27*60+41, page.MeanSeconds)
	assert.Equal(t, 1050, page.Groups)
	assert.Equal(t, "bushy@parkrun.com", page.Email)

	require.Len(t, page.Events, 2)
	first := page.Events[0]
	assert.Equal(t, 1, first.Number)
	assert.True(t, first.Date.Equal(time.Date(2004, time.October, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, first.Finishers)
	assert.Equal(t, 2, first.Volunteers)
	require.NotNil(t, first.FirstMale)
	assert.Equal(t, event.FirstPlace{AthleteID: 1, Name: "Paul SINTON-HEWITT", Seconds: 934}, *first.FirstMale)
	require.NotNil(t, first.FirstFemale)
	assert.Equal(t, event.FirstPlace{AthleteID: 2, Name: "Jane SMITH", Seconds: 1142}, *first.FirstFemale)

	second := page.Events[1]
	require.NotNil(t, second.FirstMale)
	assert.Equal(t, 16*60+10, second.FirstMale.Seconds)
	assert.Nil(t, second.FirstFemale, "empty female name must leave the female winner absent")
}

func TestExtractPage_PreservesRowOrder(t *testing.T) {
	html := historyPage(
		resultRow(3, "16/10/2004", 30, 4, "A", "1500", "10", "B", "1700", "11"),
		resultRow(1, "02/10/2004", 13, 2, "C", "1501", "12", "D", "1701", "13"),
		resultRow(2, "09/10/2004", 20, 3, "E", "1502", "14", "F", "1702", "15"),
	)

	page, err := ExtractPage(strings.NewReader(html))
	require.NoError(t, err)

	numbers := make([]int, 0, len(page.Events))
	for _, evt := range page.Events {
		numbers = append(numbers, evt.Number)
	}
	assert.Equal(t, []int{3, 1, 2}, numbers)
}

func TestExtractPage_EmptyTable(t *testing.T) {
	page, err := ExtractPage(strings.NewReader(historyPage()))
	require.NoError(t, err, "an empty table is for the aggregator to reject")
	assert.Empty(t, page.Events)
	assert.Equal(t, "Bushy", page.Title)
}

func TestExtractPage_StructureErrors(t *testing.T) {
	row := resultRow(1, "02/10/2004", 13, 2, "A", "1534", "1", "B", "1902", "2")

	tests := []struct {
		name     string
		html     string
		wantWhat string
	}{
		{
			name:     "no table",
			html:     `<html><body><h1>Bushy parkrun Event History</h1>` + pageStats + contact + `</body></html>`,
			wantWhat: "results table",
		},
		{
			name:     "no heading",
			html:     strings.Replace(historyPage(row), "<h1>Bushy parkrun Event History</h1>", "", 1),
			wantWhat: "page heading",
		},
		{
			name:     "missing statistic",
			html:     strings.Replace(historyPage(row), `<div class="aStat">Groups: <span>1,050</span></div>`, "", 1),
			wantWhat: `statistic "Groups:"`,
		},
		{
			name:     "non-numeric statistic",
			html:     strings.Replace(historyPage(row), "<span>4,321</span>", "<span>lots</span>", 1),
			wantWhat: `statistic "Volunteers:"`,
		},
		{
			name:     "bad average time",
			html:     strings.Replace(historyPage(row), "<span>00:27:41</span>", "<span>27:41</span>", 1),
			wantWhat: `statistic "Average finish time:"`,
		},
		{
			name:     "no contact email",
			html:     strings.Replace(historyPage(row), contact, "", 1),
			wantWhat: "contact email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ExtractPage(strings.NewReader(tt.html))
			assert.Nil(t, page)

			var structErr *StructureError
			require.True(t, errors.As(err, &structErr), "want *StructureError, got %v", err)
			assert.Equal(t, tt.wantWhat, structErr.What)
		})
	}
}

func TestExtractPage_MalformedRowReportsPosition(t *testing.T) {
	html := historyPage(
		resultRow(1, "02/10/2004", 13, 2, "A", "1534", "1", "B", "1902", "2"),
		resultRow(2, "31/02/2004", 13, 2, "A", "1534", "1", "B", "1902", "2"),
	)

	_, err := ExtractPage(strings.NewReader(html))

	var rowErr *MalformedRowError
	require.True(t, errors.As(err, &rowErr), "want *MalformedRowError, got %v", err)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "data-date", rowErr.Field)
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"Bushy parkrun Event History", "Bushy"},
		{"\n  Albert Melbourne parkrun Event History \n", "Albert Melbourne"},
		{"Bushy", "Bushy"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanTitle(tt.heading))
		})
	}
}

// fakeRow is a hand-built Row for cases real markup rarely produces.
type fakeRow struct {
	attrs map[string]string
	links []string
}

func (r fakeRow) Attr(name string) (string, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

func (r fakeRow) AthleteLinks() []string {
	return r.links
}

func baseAttrs() map[string]string {
	return map[string]string{
		"data-parkrun":    "7",
		"data-date":       "13/11/2004",
		"data-finishers":  "40",
		"data-volunteers": "5",
		"data-male":       "Sam",
		"data-maletime":   "1600",
		"data-female":     "Kim",
		"data-femaletime": "1800",
	}
}

func withAttrs(overrides map[string]string, drop ...string) map[string]string {
	attrs := baseAttrs()
	for k, v := range overrides {
		attrs[k] = v
	}
	for _, k := range drop {
		delete(attrs, k)
	}
	return attrs
}

func TestExtractRow(t *testing.T) {
	twoLinks := []string{"athletehistory?athleteNumber=100", "athletehistory?athleteNumber=200"}

	tests := []struct {
		name       string
		row        fakeRow
		wantMale   *event.FirstPlace
		wantFemale *event.FirstPlace
		wantField  string
	}{
		{
			name:       "both winners",
			row:        fakeRow{attrs: baseAttrs(), links: twoLinks},
			wantMale:   &event.FirstPlace{AthleteID: 100, Name: "Sam", Seconds: 960},
			wantFemale: &event.FirstPlace{AthleteID: 200, Name: "Kim", Seconds: 1080},
		},
		{
			name: "extra athlete links are ignored",
			row: fakeRow{attrs: baseAttrs(), links: append(append([]string{}, twoLinks...),
				"athletehistory?athleteNumber=300")},
			wantMale:   &event.FirstPlace{AthleteID: 100, Name: "Sam", Seconds: 960},
			wantFemale: &event.FirstPlace{AthleteID: 200, Name: "Kim", Seconds: 1080},
		},
		{
			name: "links are taken positionally even if listed female first",
			row: fakeRow{attrs: baseAttrs(), links: []string{
				"athletehistory?athleteNumber=200", "athletehistory?athleteNumber=100"}},
			wantMale:   &event.FirstPlace{AthleteID: 200, Name: "Sam", Seconds: 960},
			wantFemale: &event.FirstPlace{AthleteID: 100, Name: "Kim", Seconds: 1080},
		},
		{
			name: "female only with a single link",
			row: fakeRow{
				attrs: withAttrs(map[string]string{"data-male": "", "data-maletime": ""}),
				links: []string{"athletehistory?athleteNumber=200"},
			},
			wantFemale: &event.FirstPlace{AthleteID: 200, Name: "Kim", Seconds: 1080},
		},
		{
			name: "male only with a single link",
			row: fakeRow{
				attrs: withAttrs(map[string]string{"data-female": "", "data-femaletime": ""}),
				links: []string{"athletehistory?athleteNumber=100"},
			},
			wantMale: &event.FirstPlace{AthleteID: 100, Name: "Sam", Seconds: 960},
		},
		{
			name: "no winners and no links",
			row: fakeRow{attrs: withAttrs(map[string]string{
				"data-male": "", "data-maletime": "", "data-female": "", "data-femaletime": ""})},
		},
		{
			name:      "missing event number",
			row:       fakeRow{attrs: withAttrs(nil, "data-parkrun"), links: twoLinks},
			wantField: "data-parkrun",
		},
		{
			name:      "non-numeric finishers",
			row:       fakeRow{attrs: withAttrs(map[string]string{"data-finishers": "n/a"}), links: twoLinks},
			wantField: "data-finishers",
		},
		{
			name:      "negative volunteers",
			row:       fakeRow{attrs: withAttrs(map[string]string{"data-volunteers": "-1"}), links: twoLinks},
			wantField: "data-volunteers",
		},
		{
			name:      "missing date",
			row:       fakeRow{attrs: withAttrs(nil, "data-date"), links: twoLinks},
			wantField: "data-date",
		},
		{
			name:      "name without time",
			row:       fakeRow{attrs: withAttrs(map[string]string{"data-femaletime": ""}), links: twoLinks},
			wantField: "data-femaletime",
		},
		{
			name:      "name without link",
			row:       fakeRow{attrs: baseAttrs(), links: []string{"athletehistory?athleteNumber=100"}},
			wantField: "athlete link",
		},
		{
			name:      "link without id",
			row:       fakeRow{attrs: baseAttrs(), links: []string{"athletehistory", "athletehistory?athleteNumber=200"}},
			wantField: "athlete link",
		},
		{
			name:      "malformed time",
			row:       fakeRow{attrs: withAttrs(map[string]string{"data-maletime": "16.00"}), links: twoLinks},
			wantField: "data-maletime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := ExtractRow(tt.row)
			if tt.wantField != "" {
				var rowErr *MalformedRowError
				require.True(t, errors.As(err, &rowErr), "want *MalformedRowError, got %v", err)
				assert.Equal(t, tt.wantField, rowErr.Field)
				assert.Equal(t, 0, rowErr.Row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, evt.Number)
			assert.Equal(t, tt.wantMale, evt.FirstMale)
			assert.Equal(t, tt.wantFemale, evt.FirstFemale)
		})
	}
}

func TestExtractRow_TimeErrorUnwrapsToFormatError(t *testing.T) {
	row := fakeRow{
		attrs: withAttrs(map[string]string{"data-maletime": "xx"}),
		links: []string{"a?athleteNumber=1", "a?athleteNumber=2"},
	}

	_, err := ExtractRow(row)

	var formatErr *clock.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestAthleteID(t *testing.T) {
	id, err := athleteID("https://www.parkrun.org.uk/bushy/results/athletehistory/?athleteNumber=123456")
	require.NoError(t, err)
	assert.Equal(t, 123456, id)

	for _, href := range []string{"athletehistory", "athlete?id=", "athlete?id=abc", "athlete?id=0"} {
		_, err := athleteID(href)
		assert.Error(t, err, href)
	}
}
