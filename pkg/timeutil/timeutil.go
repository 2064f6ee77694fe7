// Package timeutil provides calendar helpers for studentdesk: the civil Date
// and Month types used by attendance and payments, weekend rules, and the
// operator's local timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"sync"
	"time"
)

var (
	locMu sync.RWMutex
	loc   = time.UTC
)

// SetLocation sets the timezone used to decide which calendar day "now" falls on.
// A nil location resets it to UTC.
func SetLocation(l *time.Location) {
	if l == nil {
		l = time.UTC
	}
	locMu.Lock()
	loc = l
	locMu.Unlock()
}

// Location returns the configured timezone.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return loc
}

// Now returns the current time in the configured timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// Clock returns the current time. Services take a Clock so tests can pin "today".
type Clock func() time.Time

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// IsWeekend checks if the given time is on a weekend.
func IsWeekend(t time.Time) bool {
	weekday := t.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatMonth is the month format (YYYY-MM).
	FormatMonth = "2006-01"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "Jan 2, 2006"
)
