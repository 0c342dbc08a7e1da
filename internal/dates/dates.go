// Package dates normalizes the heterogeneous date representations that
// arrive in purchase-order records: ISO strings, two-digit-year strings,
// spreadsheet serial day counts, and free-form calendar strings.
//
// The normalizer is deliberately lenient. Ambiguous two-digit-year forms
// are resolved by segment position (a leading 4-digit segment wins as a
// year, otherwise a trailing 2-digit segment is read as 20yy); inputs
// where both readings are plausible may silently misparse. Callers fall
// back to displaying the raw input unchanged on total failure.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// excelEpochOffset is the spreadsheet serial for 1970-01-01 under the
// 1900 date system (including its leap-year bug).
const excelEpochOffset = 25569

// secondsPerDay converts serial day counts to Unix seconds.
const secondsPerDay = 86400

// genericLayouts are tried, in order, for inputs the positional rules
// don't claim.
var genericLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// Normalize parses raw into a calendar date, truncated to midnight UTC.
// It reports ok=false when no interpretation succeeds.
func Normalize(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	// Hyphenated forms: yyyy-mm-dd, or dd-mm-yy with a 2-digit year.
	if parts := strings.Split(s, "-"); len(parts) == 3 {
		if t, ok := parseHyphenated(parts); ok {
			return t, true
		}
	}

	// Spreadsheet serial day counts.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial > excelEpochOffset {
			secs := int64((serial - excelEpochOffset) * secondsPerDay)
			return Midnight(time.Unix(secs, 0).UTC()), true
		}
		return time.Time{}, false
	}

	// Generic calendar-string parsing.
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Midnight(t.UTC()), true
		}
	}

	return time.Time{}, false
}

// parseHyphenated resolves the two observed hyphenated forms by segment
// position. Returns ok=false so numeric/generic parsing can still run.
func parseHyphenated(parts []string) (time.Time, bool) {
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// yyyy-mm-dd
	if len(parts[0]) == 4 {
		if t, err := time.Parse("2006-1-2", strings.Join(parts, "-")); err == nil {
			return Midnight(t.UTC()), true
		}
		return time.Time{}, false
	}

	// dd-mm-yy with a 2-digit year from some CSV exports; the century
	// is always read as 20xx.
	if len(parts[2]) == 2 {
		joined := "20" + parts[2] + "-" + parts[1] + "-" + parts[0]
		if t, err := time.Parse("2006-1-2", joined); err == nil {
			return Midnight(t.UTC()), true
		}
		return time.Time{}, false
	}

	// dd-mm-yyyy
	if len(parts[2]) == 4 {
		joined := parts[2] + "-" + parts[1] + "-" + parts[0]
		if t, err := time.Parse("2006-1-2", joined); err == nil {
			return Midnight(t.UTC()), true
		}
	}

	return time.Time{}, false
}

// Midnight strips the time-of-day component so whole-day comparisons
// are exact.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Format renders a date as zero-padded DD-MM-YYYY.
func Format(t time.Time) string {
	return fmt.Sprintf("%02d-%02d-%04d", t.Day(), int(t.Month()), t.Year())
}

// Display renders raw for the order table: a dash placeholder for empty
// input, DD-MM-YYYY when the input normalizes, and the raw string
// unchanged when it does not.
func Display(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "-"
	}
	t, ok := Normalize(raw)
	if !ok {
		return raw
	}
	return Format(t)
}
