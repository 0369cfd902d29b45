package event

import (
	"testing"
	"time"
)

func sampleSummary() *Summary {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	return &Summary{
		TopMaleWinners: []TopWinner{
			{AthleteID: 1, Name: "Alice", Wins: 4},
			{AthleteID: 2, Name: "Bob", Wins: 3},
			{AthleteID: 3, Name: "Carl", Wins: 1},
		},
		TopFemaleWinners: []TopWinner{{AthleteID: 9, Name: "Dana", Wins: 2}},
		MaleRecord:       FirstPlace{AthleteID: 2, Name: "Bob", Seconds: 900},
		FemaleRecord:     FirstPlace{AthleteID: 9, Name: "Dana", Seconds: 1000},
		Events: []EventData{
			{Number: 1, Date: day(6)},
			{Number: 2, Date: day(13)},
			{Number: 3, Date: day(20)},
		},
	}
}

func TestEventData_First(t *testing.T) {
	evt := EventData{
		Number:    1,
		FirstMale: &FirstPlace{AthleteID: 7, Name: "Sam", Seconds: 1000},
	}

	male, ok := evt.First(Male)
	if !ok {
		t.Fatal("First(Male) reported absent")
	}
	if male.AthleteID != 7 || male.Seconds != 1000 {
		t.Errorf("First(Male) = %+v", male)
	}

	if _, ok := evt.First(Female); ok {
		t.Error("First(Female) reported present for a nil finisher")
	}
}

func TestGender_String(t *testing.T) {
	if Male.String() != "male" || Female.String() != "female" {
		t.Errorf("unexpected gender strings %q %q", Male, Female)
	}
}

func TestSummary_TopWinners(t *testing.T) {
	s := sampleSummary()

	tests := []struct {
		name   string
		gender Gender
		limit  int
		want   int
	}{
		{"limit below length", Male, 2, 2},
		{"limit above length", Male, 10, 3},
		{"no limit", Male, 0, 3},
		{"female", Female, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.TopWinners(tt.gender, tt.limit); len(got) != tt.want {
				t.Errorf("TopWinners(%v, %d) returned %d, want %d", tt.gender, tt.limit, len(got), tt.want)
			}
		})
	}

	if got := s.TopWinners(Male, 1)[0].Name; got != "Alice" {
		t.Errorf("first male winner = %q, want Alice", got)
	}
}

func TestSummary_Record(t *testing.T) {
	s := sampleSummary()
	if s.Record(Male).Name != "Bob" || s.Record(Female).Name != "Dana" {
		t.Errorf("Record() returned wrong athletes: %+v %+v", s.Record(Male), s.Record(Female))
	}
}

func TestSummary_Latest(t *testing.T) {
	s := sampleSummary()

	latest := s.Latest(2)
	if len(latest) != 2 {
		t.Fatalf("Latest(2) returned %d events", len(latest))
	}
	if latest[0].Number != 3 || latest[1].Number != 2 {
		t.Errorf("Latest(2) = %d, %d; want 3, 2", latest[0].Number, latest[1].Number)
	}
	if s.Events[0].Number != 1 {
		t.Error("Latest() reordered the summary's events")
	}
	if got := len(s.Latest(10)); got != 3 {
		t.Errorf("Latest(10) returned %d events, want 3", got)
	}
}
