// Package event provides the types describing a parkrun event series.
//
// An EventData is one row of the event-history table: its sequence number, date,
// attendance, and the first male and female finishers when present. A Page bundles
// the ordered rows with the page-level totals, and a Summary is the aggregate view
// computed once per scrape.
package event
