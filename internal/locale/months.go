// Package locale holds month-name tables and parses dates written with them.
package locale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnknownMonth is returned when a month name is not in the table.
	ErrUnknownMonth = errors.New("unknown month name")
	// ErrBadDate is returned when text is not "day month year".
	ErrBadDate = errors.New("malformed date")
)

// Months maps lowercase month names to months.
type Months map[string]time.Month

// Romanian is the month table used by ING Romania exports.
var Romanian = Months{
	"ianuarie":   time.January,
	"februarie":  time.February,
	"martie":     time.March,
	"aprilie":    time.April,
	"mai":        time.May,
	"iunie":      time.June,
	"iulie":      time.July,
	"august":     time.August,
	"septembrie": time.September,
	"octombrie":  time.October,
	"noiembrie":  time.November,
	"decembrie":  time.December,
}

// English month names.
var English = Months{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var tables = map[string]Months{
	"ro": Romanian,
	"en": English,
}

// Lookup returns the month table for a locale code like "ro" or "ro_RO".
func Lookup(code string) (Months, error) {
	key := strings.ToLower(code)
	if i := strings.IndexAny(key, "_-."); i > 0 {
		key = key[:i]
	}
	m, ok := tables[key]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", code)
	}
	return m, nil
}

// ParseDate parses "12 martie 2020" style text into a UTC midnight date.
func ParseDate(text string, months Months) (time.Time, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, text)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day in %q", ErrBadDate, text)
	}

	month, ok := months[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownMonth, parts[1])
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year in %q", ErrBadDate, text)
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, so 31 February comes back as March.
	if date.Day() != day || date.Month() != month {
		return time.Time{}, fmt.Errorf("%w: no such day %q", ErrBadDate, text)
	}
	return date, nil
}
