package event

import (
	"sort"
	"time"
)

// Gender selects the first-place category of an event.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// FirstPlace is the fastest finisher of one gender at one event
type FirstPlace struct {
	AthleteID int    `json:"athlete_id"`
	Name      string `json:"name"`
	Seconds   int    `json:"seconds"`
}

// EventData represents a single row of the event-history table
type EventData struct {
	Number      int         `json:"number"`
	Date        time.Time   `json:"date"`
	Finishers   int         `json:"finishers"`
	Volunteers  int         `json:"volunteers"`
	FirstMale   *FirstPlace `json:"first_male,omitempty"`   // nil when nobody of that gender finished
	FirstFemale *FirstPlace `json:"first_female,omitempty"` // nil when nobody of that gender finished
}

// First returns the first-place finisher for g and whether one exists.
func (e EventData) First(g Gender) (FirstPlace, bool) {
	fp := e.FirstMale
	if g == Female {
		fp = e.FirstFemale
	}
	if fp == nil {
		return FirstPlace{}, false
	}
	return *fp, true
}

// TopWinner is an athlete's count of first-place finishes across the series
type TopWinner struct {
	AthleteID int    `json:"athlete_id"`
	Name      string `json:"name"`
	Wins      int    `json:"wins"`
}

// PageStats holds the lifetime totals printed above the results table.
// These are scraped as-is and never recomputed from the rows.
type PageStats struct {
	Title         string `json:"title"`
	Finishes      int    `json:"finishes"`
	Finishers     int    `json:"finishers"`
	Volunteers    int    `json:"volunteers"`
	PersonalBests int    `json:"personal_bests"`
	MeanSeconds   int    `json:"mean_seconds"`
	Groups        int    `json:"groups"`
	Email         string `json:"email"`
}

// Page is everything extracted from one event-history page, rows in page order.
type Page struct {
	PageStats
	Events []EventData
}

// Summary is the aggregate result of one scrape. A new scrape replaces it wholesale.
type Summary struct {
	Title                  string      `json:"title"`
	MeanFinishers          float64     `json:"mean_finishers"`
	MedianFinishers        int         `json:"median_finishers"`
	MeanVolunteers         float64     `json:"mean_volunteers"`
	MedianVolunteers       int         `json:"median_volunteers"`
	MaleRecord             FirstPlace  `json:"male_record"`
	FemaleRecord           FirstPlace  `json:"female_record"`
	MeanFirstMaleSeconds   int         `json:"mean_first_male_seconds"`
	MeanFirstFemaleSeconds int         `json:"mean_first_female_seconds"`
	TopMaleWinners         []TopWinner `json:"top_male_winners"`
	TopFemaleWinners       []TopWinner `json:"top_female_winners"`
	CancellationRate       float64     `json:"cancellation_rate"`
	EventCount             int         `json:"event_count"`
	Finishes               int         `json:"finishes"`
	Finishers              int         `json:"finishers"`
	Volunteers             int         `json:"volunteers"`
	PersonalBests          int         `json:"personal_bests"`
	MeanSeconds            int         `json:"mean_seconds"`
	Groups                 int         `json:"groups"`
	Email                  string      `json:"email"`
	Events                 []EventData `json:"events"`
}

// Record returns the course record for g.
func (s *Summary) Record(g Gender) FirstPlace {
	if g == Female {
		return s.FemaleRecord
	}
	return s.MaleRecord
}

// TopWinners returns the ranked winners for g, at most limit of them.
// A limit of zero or less returns all of them.
func (s *Summary) TopWinners(g Gender, limit int) []TopWinner {
	winners := s.TopMaleWinners
	if g == Female {
		winners = s.TopFemaleWinners
	}
	if limit > 0 && len(winners) > limit {
		winners = winners[:limit]
	}
	return winners
}

// Latest returns up to n events, most recent (highest event number) first.
// The summary's own event order is left untouched.
func (s *Summary) Latest(n int) []EventData {
	events := make([]EventData, len(s.Events))
	copy(events, s.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Number > events[j].Number
	})
	if n >= 0 && len(events) > n {
		events = events[:n]
	}
	return events
}
