// Package stats computes and prints the descriptive statistics of a trip
// dataset. Every statistic is skipped when the column it needs is absent
// or holds no values.
package stats

import (
	"math"

	"bikeshare/internal/bikeshare"
)

// TimeStats holds the most frequent travel times. Nil fields were skipped.
type TimeStats struct {
	Month     *Count[int]
	DayOfWeek *Count[string]
	Hour      *Count[int]
}

// Times computes the most common month, day of week and start hour.
func Times(ds *bikeshare.Dataset) TimeStats {
	var out TimeStats
	if !ds.Has(bikeshare.FieldStartTime) {
		return out
	}

	months := newCounter[int]()
	days := newCounter[string]()
	hours := newCounter[int]()
	for _, t := range ds.Trips {
		if t.Month != 0 {
			months.add(t.Month)
		}
		if t.DayOfWeek != "" {
			days.add(t.DayOfWeek)
		}
		if h, ok := t.Hour(); ok {
			hours.add(h)
		}
	}
	out.Month = modePtr(months)
	out.DayOfWeek = modePtr(days)
	out.Hour = modePtr(hours)
	return out
}

// ComboSeparator joins start and end station names into a trip combination.
const ComboSeparator = ", "

// StationStats holds the most popular stations and trip.
type StationStats struct {
	StartStation *Count[string]
	EndStation   *Count[string]
	Combination  *Count[string]
}

// Stations computes the most common start station, end station and
// start/end combination. The combination needs both columns and ignores
// trips where either station is blank.
func Stations(ds *bikeshare.Dataset) StationStats {
	var out StationStats
	hasStart := ds.Has(bikeshare.FieldStartStation)
	hasEnd := ds.Has(bikeshare.FieldEndStation)

	starts := newCounter[string]()
	ends := newCounter[string]()
	combos := newCounter[string]()
	for _, t := range ds.Trips {
		if hasStart && t.StartStation.Valid {
			starts.add(t.StartStation.String)
		}
		if hasEnd && t.EndStation.Valid {
			ends.add(t.EndStation.String)
		}
		if hasStart && hasEnd && t.StartStation.Valid && t.EndStation.Valid {
			combos.add(t.StartStation.String + ComboSeparator + t.EndStation.String)
		}
	}
	if hasStart {
		out.StartStation = modePtr(starts)
	}
	if hasEnd {
		out.EndStation = modePtr(ends)
	}
	if hasStart && hasEnd {
		out.Combination = modePtr(combos)
	}
	return out
}

// DurationStats holds total and mean trip duration in seconds.
type DurationStats struct {
	Count int
	Total float64
	Mean  float64
}

// Durations sums the trip durations. ok is false when the column is absent
// or has no values.
func Durations(ds *bikeshare.Dataset) (DurationStats, bool) {
	if !ds.Has(bikeshare.FieldTripDuration) {
		return DurationStats{}, false
	}
	var out DurationStats
	for _, t := range ds.Trips {
		if t.TripDuration.Valid {
			out.Total += t.TripDuration.Float64
			out.Count++
		}
	}
	if out.Count == 0 {
		return DurationStats{}, false
	}
	out.Mean = out.Total / float64(out.Count)
	return out, true
}

// BirthYearStats holds earliest, latest and most common birth years.
type BirthYearStats struct {
	Earliest   int64
	MostRecent int64
	MostCommon Count[int64]
}

// UserStats holds the user demographics. Nil fields were skipped.
type UserStats struct {
	UserTypes  []Count[string]
	Genders    []Count[string]
	BirthYears *BirthYearStats
}

// Users counts user types and genders and summarises birth years.
func Users(ds *bikeshare.Dataset) UserStats {
	var out UserStats
	hasType := ds.Has(bikeshare.FieldUserType)
	hasGender := ds.Has(bikeshare.FieldGender)
	hasYear := ds.Has(bikeshare.FieldBirthYear)

	types := newCounter[string]()
	genders := newCounter[string]()
	years := newCounter[int64]()
	earliest, latest := int64(math.MaxInt64), int64(math.MinInt64)
	for _, t := range ds.Trips {
		if hasType && t.UserType.Valid {
			types.add(t.UserType.String)
		}
		if hasGender && t.Gender.Valid {
			genders.add(t.Gender.String)
		}
		if hasYear && t.BirthYear.Valid {
			y := t.BirthYear.Int64
			years.add(y)
			earliest = min(earliest, y)
			latest = max(latest, y)
		}
	}

	if hasType {
		out.UserTypes = types.ranked()
	}
	if hasGender {
		out.Genders = genders.ranked()
	}
	if mode, ok := years.mode(); ok {
		out.BirthYears = &BirthYearStats{Earliest: earliest, MostRecent: latest, MostCommon: mode}
	}
	return out
}

func modePtr[K comparable](c *counter[K]) *Count[K] {
	m, ok := c.mode()
	if !ok {
		return nil
	}
	return &m
}
