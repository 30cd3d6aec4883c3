// Package calendar converts option expiry date strings into trading-day
// counts. Business days are Mondays through Fridays; no holiday calendar is
// applied.
package calendar

import (
	"strings"
	"time"
)

// FarFuture is the sentinel returned for expiry strings that match neither
// accepted date format. Callers that impose an upper bound on days-to-expiry
// treat it as "too far out / unusable"; callers with no upper bound treat it
// as infinite.
const FarFuture = 999

// BusinessDays returns the number of business days from today until the
// given expiry string. See BusinessDaysFrom.
func BusinessDays(expiry string) int {
	return BusinessDaysFrom(expiry, time.Now())
}

// BusinessDaysFrom counts business days between today and the expiry date.
//
// Accepted formats are DD/MM/YYYY and YYYY-MM-DD; anything else yields
// FarFuture. An expiry on or before today yields 0 (expired).
//
// The count covers the half-open range [today, expiry): today is included
// when it is a weekday, the expiry date itself is not. A contract expiring
// tomorrow, checked on a Monday, has one business day left.
func BusinessDaysFrom(expiry string, today time.Time) int {
	exp, ok := parseExpiry(expiry)
	if !ok {
		return FarFuture
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !exp.After(day) {
		return 0
	}

	n := 0
	for d := day; d.Before(exp); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// parseExpiry parses the two accepted expiry shapes into a UTC date.
func parseExpiry(s string) (time.Time, bool) {
	var layout string
	switch {
	case strings.Contains(s, "/"):
		layout = "02/01/2006"
	case strings.Contains(s, "-"):
		layout = "2006-01-02"
	default:
		return time.Time{}, false
	}

	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
