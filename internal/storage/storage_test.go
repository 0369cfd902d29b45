package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	s, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/parkrun")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "parkrun"), s.Dir())
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Bushy", "bushy"},
		{"Crissy Field", "crissy-field"},
		{"St. Peter's  Park", "st-peter-s-park"},
		{"  Kingston  ", "kingston"},
		{"Åbo", "åbo"},
		{"", "event"},
		{"---", "event"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.title))
		})
	}
}

func TestPath(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Dir(), "crissy-field-parkrun.csv"), s.Path("Crissy Field", "csv"))
	assert.Equal(t, filepath.Join(s.Dir(), "bushy-parkrun.pdf"), s.Path("Bushy", ".pdf"))
}

func TestWrite(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := s.Write("Bushy", "csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestWriteFile_RemovesPartialOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	boom := errors.New("boom")

	err := WriteFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveSummary(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	summary := &event.Summary{
		Title:      "Bushy",
		EventCount: 2,
		MaleRecord: event.FirstPlace{AthleteID: 1, Name: "Alice", Seconds: 1500},
	}
	path, err := s.SaveSummary(summary)
	require.NoError(t, err)
	assert.Equal(t, s.Path("Bushy", "json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got event.Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Bushy", got.Title)
	assert.Equal(t, 2, got.EventCount)
	assert.Equal(t, "Alice", got.MaleRecord.Name)
}
