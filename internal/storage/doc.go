// Package storage decides where exports land and writes them there.
//
// Files are named after the event, e.g. ~/parkrun/bushy-parkrun.csv for the
// Bushy event with the directory ~/parkrun. The directory is created on
// first use.
package storage
