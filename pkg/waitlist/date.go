package waitlist

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date compared lexicographically by year, month, day.
// No calendar validation is applied: any integers are accepted and ordered
// numerically.
type Date struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month" yaml:"month"`
	Day   int `json:"day" yaml:"day"`
}

// NewDate creates a Date from its components.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses the form produced by Date.String: three integers joined
// by '-'. Any component may carry a leading minus sign, so "2021--1-01" is
// year 2021, month -1, day 1. Values are not range checked.
func ParseDate(s string) (Date, error) {
	var vals [3]int
	rest := s
	for i := range vals {
		if i > 0 {
			if !strings.HasPrefix(rest, "-") {
				return Date{}, &DateError{Input: s, Reason: "want YYYY-MM-DD"}
			}
			rest = rest[1:]
		}
		n := 0
		if strings.HasPrefix(rest, "-") {
			n = 1
		}
		digits := n
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == n {
			return Date{}, &DateError{Input: s, Reason: fmt.Sprintf("component %d is not a number", i+1)}
		}
		v, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return Date{}, &DateError{Input: s, Reason: fmt.Sprintf("component %d: %v", i+1, err)}
		}
		vals[i] = v
		rest = rest[digits:]
	}
	if rest != "" {
		return Date{}, &DateError{Input: s, Reason: "want YYYY-MM-DD"}
	}
	return Date{Year: vals[0], Month: vals[1], Day: vals[2]}, nil
}

// Compare returns -1, 0, or +1 depending on whether d is before, equal to,
// or after other.
func (d Date) Compare(other Date) int {
	if c := cmp.Compare(d.Year, other.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, other.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, other.Day)
}

// Before reports whether d sorts strictly before other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// String formats the date as YYYY-MM-DD with zero padding. Negative
// components keep their sign, and ParseDate reads every result back.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
