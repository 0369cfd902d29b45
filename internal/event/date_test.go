package event

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		dateText string
		want     time.Time
		wantErr  bool
	}{
		{
			name:     "Day first",
			dateText: "02/10/2004",
			want:     time.Date(2004, time.October, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Single digit components",
			dateText: "5/1/2019",
			want:     time.Date(2019, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Surrounding whitespace",
			dateText: " 25/12/2021 ",
			want:     time.Date(2021, time.December, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Leap day",
			dateText: "29/02/2020",
			want:     time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Not a leap year",
			dateText: "29/02/2021",
			wantErr:  true,
		},
		{
			name:     "Month out of range",
			dateText: "01/13/2021",
			wantErr:  true,
		},
		{
			name:     "ISO layout",
			dateText: "2021-01-01",
			wantErr:  true,
		},
		{
			name:     "Letters",
			dateText: "aa/01/2021",
			wantErr:  true,
		},
		{
			name:     "Empty string",
			dateText: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.dateText)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) = %v, want error", tt.dateText, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.dateText, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.dateText, got, tt.want)
			}
		})
	}
}
