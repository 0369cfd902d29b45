// Package cli implements the command-line interface for parkrun-stats.
//
// The cli package provides the Cobra-based CLI that validates event URLs,
// fetches or reads an event-history page, and reports its statistics as
// text or JSON. It coordinates the fetch, scraper, stats, export and storage
// packages, and maps their failures to exit codes.
package cli
