package bikeshare

import (
	"strings"
	"time"
)

// City is a supported city and the CSV file backing it.
type City struct {
	Name string
	File string
}

// Cities lists the supported cities in prompt order.
var Cities = []City{
	{Name: "chicago", File: "chicago.csv"},
	{Name: "new york city", File: "new_york_city.csv"},
	{Name: "washington", File: "washington.csv"},
}

// Months holds the lowercase month names; a month's index plus one is its
// calendar number.
var Months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// AvailableMonths are the months covered by the city datasets.
var AvailableMonths = Months[:6]

// Days holds the lowercase weekday names, Sunday first like time.Weekday.
var Days = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// All disables a month or day restriction.
const All = "all"

// Filter is a resolved city/month/day selection.
type Filter struct {
	City  City
	Month int    // calendar month 1-12, 0 for all
	Day   string // capitalized weekday name, "" for all
}

// Resolve maps validated user choices to a Filter. Input is matched
// case-insensitively; anything outside the fixed lists is an
// *InvalidFilterError.
func Resolve(city, month, day string) (Filter, error) {
	var f Filter

	c, ok := LookupCity(city)
	if !ok {
		return Filter{}, &InvalidFilterError{Field: "city", Value: city}
	}
	f.City = c

	m := strings.ToLower(strings.TrimSpace(month))
	if m != All {
		idx := indexOf(Months, m)
		if idx < 0 {
			return Filter{}, &InvalidFilterError{Field: "month", Value: month}
		}
		f.Month = idx + 1
	}

	d := strings.ToLower(strings.TrimSpace(day))
	if d != All {
		idx := indexOf(Days, d)
		if idx < 0 {
			return Filter{}, &InvalidFilterError{Field: "day", Value: day}
		}
		f.Day = time.Weekday(idx).String()
	}

	return f, nil
}

// LookupCity finds a supported city by name, ignoring case.
func LookupCity(name string) (City, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Cities {
		if c.Name == n {
			return c, true
		}
	}
	return City{}, false
}

// MonthName returns the capitalized name of a calendar month, or "" if m is
// out of range.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()
}

// Matches reports whether a trip passes the month and day restrictions.
func (f Filter) Matches(t Trip) bool {
	if f.Month != 0 && t.Month != f.Month {
		return false
	}
	if f.Day != "" && t.DayOfWeek != f.Day {
		return false
	}
	return true
}

// IsAll reports whether the filter keeps every row.
func (f Filter) IsAll() bool {
	return f.Month == 0 && f.Day == ""
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
