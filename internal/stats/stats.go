// Package stats derives the summary statistics of an event series from its
// extracted history.
//
// Everything here is a pure function of its input: no I/O, no shared state, and
// the same page always yields an identical Summary.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

// DefaultTopWinners is how many most-frequent winners are kept per gender.
const DefaultTopWinners = 10

const daysPerWeek = 7

// ErrInsufficientData matches every InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError means the page parsed but holds too little history
// for the named statistic.
type InsufficientDataError struct {
	What string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s", e.What)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// Options tune the aggregation.
type Options struct {
	// Weekday is the day the series normally runs on.
	Weekday time.Weekday
	// TopWinners caps the ranked winner lists.
	TopWinners int
}

// DefaultOptions returns Saturday runs and a top-10 winner list.
func DefaultOptions() Options {
	return Options{Weekday: time.Saturday, TopWinners: DefaultTopWinners}
}

// Aggregate computes the Summary of page. It fails on the first statistic that
// cannot be computed and never returns a partial result.
func Aggregate(page *event.Page, opts Options) (*event.Summary, error) {
	if page == nil {
		return nil, &InsufficientDataError{What: "no page"}
	}
	if opts.TopWinners <= 0 {
		opts.TopWinners = DefaultTopWinners
	}

	finishers := make([]int, len(page.Events))
	volunteers := make([]int, len(page.Events))
	dates := make([]time.Time, len(page.Events))
	for i, evt := range page.Events {
		finishers[i] = evt.Finishers
		volunteers[i] = evt.Volunteers
		dates[i] = evt.Date
	}

	s := &event.Summary{
		Title:         page.Title,
		EventCount:    len(page.Events),
		Finishes:      page.Finishes,
		Finishers:     page.Finishers,
		Volunteers:    page.Volunteers,
		PersonalBests: page.PersonalBests,
		MeanSeconds:   page.MeanSeconds,
		Groups:        page.Groups,
		Email:         page.Email,
	}

	var err error
	if s.MeanFinishers, s.MedianFinishers, err = Averages(finishers); err != nil {
		return nil, fmt.Errorf("finishers: %w", err)
	}
	if s.MeanVolunteers, s.MedianVolunteers, err = Averages(volunteers); err != nil {
		return nil, fmt.Errorf("volunteers: %w", err)
	}

	if s.MaleRecord, s.MeanFirstMaleSeconds, s.TopMaleWinners, err = FirstPlaces(page.Events, event.Male, opts.TopWinners); err != nil {
		return nil, err
	}
	if s.FemaleRecord, s.MeanFirstFemaleSeconds, s.TopFemaleWinners, err = FirstPlaces(page.Events, event.Female, opts.TopWinners); err != nil {
		return nil, err
	}

	if s.CancellationRate, err = CancellationRate(dates, opts.Weekday); err != nil {
		return nil, err
	}

	s.Events = make([]event.EventData, len(page.Events))
	for i, evt := range page.Events {
		s.Events[i] = cloneEvent(evt)
	}

	return s, nil
}

// cloneEvent copies evt including its winners so the summary shares no
// memory with the page it came from.
func cloneEvent(evt event.EventData) event.EventData {
	if evt.FirstMale != nil {
		fp := *evt.FirstMale
		evt.FirstMale = &fp
	}
	if evt.FirstFemale != nil {
		fp := *evt.FirstFemale
		evt.FirstFemale = &fp
	}
	return evt
}

// Averages returns the mean and the median of counts. The median of an even
// number of counts is the mean of the middle two, rounded half to even.
func Averages(counts []int) (mean float64, median int, err error) {
	if len(counts) == 0 {
		return 0, 0, &InsufficientDataError{What: "no events"}
	}

	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	mean = stat.Mean(values, nil)

	sort.Float64s(values)
	mid := len(values) / 2
	m := values[mid]
	if len(values)%2 == 0 {
		m = (values[mid-1] + values[mid]) / 2
	}

	return mean, int(math.RoundToEven(m)), nil
}

// FirstPlaces summarises the first finishers of gender g across events.
// Events without a winner of that gender are skipped. The record is the
// fastest time, the earliest such event winning ties. Winners are grouped by
// athlete id and name and ranked by wins; equal counts keep the order in which
// each athlete first appears.
func FirstPlaces(events []event.EventData, g event.Gender, limit int) (record event.FirstPlace, meanSeconds int, top []event.TopWinner, err error) {
	type key struct {
		id   int
		name string
	}

	var (
		found   bool
		seconds []float64
		order   []key
		wins    = make(map[key]int)
	)
	for _, evt := range events {
		fp, ok := evt.First(g)
		if !ok {
			continue
		}
		if !found || fp.Seconds < record.Seconds {
			record = fp
			found = true
		}
		seconds = append(seconds, float64(fp.Seconds))

		k := key{id: fp.AthleteID, name: fp.Name}
		if _, seen := wins[k]; !seen {
			order = append(order, k)
		}
		wins[k]++
	}

	if !found {
		return event.FirstPlace{}, 0, nil, &InsufficientDataError{What: fmt.Sprintf("no %s first finishers", g)}
	}

	top = make([]event.TopWinner, 0, len(order))
	for _, k := range order {
		top = append(top, event.TopWinner{AthleteID: k.id, Name: k.name, Wins: wins[k]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Wins > top[j].Wins
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}

	meanSeconds = int(math.RoundToEven(stat.Mean(seconds, nil)))
	return record, meanSeconds, top, nil
}

// CancellationRate estimates the share of expected weekly runs that did not
// happen. Only dates on weekday count: the expected number of runs is one per
// week from the first to the last such date inclusive. Runs on other days
// (Christmas, New Year) are ignored, and two runs in one week are not
// detected.
func CancellationRate(dates []time.Time, weekday time.Weekday) (float64, error) {
	var (
		first, last time.Time
		observed    int
	)
	for _, d := range dates {
		if d.Weekday() != weekday {
			continue
		}
		if observed == 0 || d.Before(first) {
			first = d
		}
		if observed == 0 || d.After(last) {
			last = d
		}
		observed++
	}

	if observed < 2 {
		return 0, &InsufficientDataError{What: fmt.Sprintf("fewer than two %s events", weekday)}
	}

	days := int(last.Sub(first).Hours()) / 24
	expected := days/daysPerWeek + 1
	return 1 - float64(observed)/float64(expected), nil
}
