// Package clock converts race times between whole seconds and the textual
// clock formats used on parkrun results pages.
//
// First-place times arrive as four-digit "MMSS" strings (or "MM:SS"), while the
// page-level average finish time is rendered as "HH:MM:SS". Output is always
// zero-padded "MM:SS".
package clock
