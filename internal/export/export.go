// Package export writes an event history out as CSV, XLSX, PNG charts and a
// PDF report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

// Columns is the header row shared by the tabular formats.
var Columns = []string{
	"Event Number", "Date", "Finishers", "Volunteers",
	"Male 1st Name", "Male 1st Athlete ID", "Male 1st Seconds",
	"Female 1st Name", "Female 1st Athlete ID", "Female 1st Seconds",
}

// MaxSheetNameLength is the longest sheet name spreadsheet applications accept.
const MaxSheetNameLength = 31

// record returns one row of cells. Absent first places leave nil cells.
func record(evt event.EventData) []interface{} {
	row := []interface{}{evt.Number, evt.Date, evt.Finishers, evt.Volunteers}
	for _, g := range []event.Gender{event.Male, event.Female} {
		if fp, ok := evt.First(g); ok {
			row = append(row, fp.Name, fp.AthleteID, fp.Seconds)
		} else {
			row = append(row, nil, nil, nil)
		}
	}
	return row
}

// Records renders events as text rows in page order. Dates are YYYY-MM-DD
// and a missing first place becomes three empty cells.
func Records(events []event.EventData) [][]string {
	records := make([][]string, 0, len(events))
	for _, evt := range events {
		cells := record(evt)
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = cellText(cell)
		}
		records = append(records, row)
	}
	return records
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	case time.Time:
		return x.Format(event.DateLayout)
	default:
		return fmt.Sprint(x)
	}
}

// WriteCSV writes the header and one line per event, newline terminated.
func WriteCSV(w io.Writer, events []event.EventData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(Records(events)); err != nil {
		return fmt.Errorf("writing csv records: %w", err)
	}
	return nil
}

// SheetName is the worksheet title for an event, cut to MaxSheetNameLength runes.
func SheetName(title string) string {
	name := title + " Parkrun"
	if utf8.RuneCountInString(name) <= MaxSheetNameLength {
		return name
	}
	return string([]rune(name)[:MaxSheetNameLength])
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, summary *event.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(summary.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, evt := range summary.Events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := record(evt)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing event %d: %w", evt.Number, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
