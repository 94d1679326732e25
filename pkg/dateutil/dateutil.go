// Package dateutil works with canonical day keys (YYYY-MM-DD). Keys are
// zero-padded, so comparing them as strings orders them chronologically.
package dateutil

import "time"

const Layout = "2006-01-02"

// Key formats t as a day key in t's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a day key as midnight in loc.
func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(Layout, key, loc)
}

func IsToday(key string, now time.Time) bool {
	return key == Key(now)
}

func IsPast(key string, now time.Time) bool {
	return key < Key(now)
}

func IsFuture(key string, now time.Time) bool {
	return key > Key(now)
}

// LastNDays returns n keys ending with now's day, oldest first.
func LastNDays(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, Key(noon.AddDate(0, 0, -i)))
	}
	return keys
}

// MonthToDate returns keys from the first day of now's month through now's day.
func MonthToDate(now time.Time) []string {
	keys := make([]string, 0, now.Day())
	first := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location())
	for d := 0; d < now.Day(); d++ {
		keys = append(keys, Key(first.AddDate(0, 0, d)))
	}
	return keys
}

// DayName returns the short weekday name, e.g. "Mon". Empty on a malformed key.
func DayName(key string) string {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}

// DisplayDate returns a short label, e.g. "Apr 15".
func DisplayDate(key string) string {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return ""
	}
	return t.Format("Jan 2")
}
