// Package scraper extracts typed event history from a parkrun event-history page.
//
// Markup access goes through the small Document and Row interfaces so the
// extraction rules can be exercised against hand-built fixtures. NewDocument
// provides the goquery-backed implementation used for real pages. Extraction is
// pure: it performs no I/O beyond reading the supplied markup and fails on the
// first structural problem it meets.
package scraper
