package scraper

import "fmt"

// StructureError means the page does not have the expected shape.
type StructureError struct {
	What string
	Err  error
}

func (e *StructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected page structure: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("unexpected page structure: %s not found", e.What)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// MalformedRowError reports a results-table row that could not be read.
// Row is 1-based within the table, or 0 when the row was extracted on its own.
type MalformedRowError struct {
	Row   int
	Field string
	Err   error
}

func (e *MalformedRowError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed row %d: %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed row: %s: %v", e.Field, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}
