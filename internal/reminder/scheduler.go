// Package reminder decides when the once-daily reminder prompt is due
// and polls the wall clock to re-evaluate that decision. The gate is a
// pure predicate over the current time and the last-sent date; only
// the passage of real time flips it, so it is polled rather than
// event-driven.
package reminder

import "time"

// DateFormat is the canonical form of the persisted last-sent date.
const DateFormat = "2006-01-02"

// Window is the weekly schedule for reminder prompts: every weekday
// except DayOff, at or after the Hour:Minute cutoff.
type Window struct {
	DayOff time.Weekday
	Hour   int
	Minute int
}

// DefaultWindow returns the stock schedule: Monday through Saturday
// at 09:30.
func DefaultWindow() Window {
	return Window{
		DayOff: time.Sunday,
		Hour:   9,
		Minute: 30,
	}
}

// Contains reports whether now falls inside the active window.
func (w Window) Contains(now time.Time) bool {
	if now.Weekday() == w.DayOff {
		return false
	}
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), w.Hour, w.Minute, 0, 0, now.Location())
	return !now.Before(cutoff)
}

// IsDue reports whether a reminder should be offered: now is inside
// the window and no reminder has been sent today. lastSent is the
// persisted DateFormat string, empty when nothing was ever sent.
func IsDue(now time.Time, lastSent string, w Window) bool {
	if !w.Contains(now) {
		return false
	}
	return lastSent != now.Format(DateFormat)
}
