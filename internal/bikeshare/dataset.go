package bikeshare

import (
	"database/sql"
	"time"
)

// Field identifies a known column of a city dataset.
type Field int

const (
	FieldStartTime Field = iota
	FieldEndTime
	FieldStartStation
	FieldEndStation
	FieldTripDuration
	FieldUserType
	FieldGender
	FieldBirthYear
	numFields
)

// Column names as they appear in the CSV header.
var fieldColumns = [numFields]string{
	FieldStartTime:    "Start Time",
	FieldEndTime:      "End Time",
	FieldStartStation: "Start Station",
	FieldEndStation:   "End Station",
	FieldTripDuration: "Trip Duration",
	FieldUserType:     "User Type",
	FieldGender:       "Gender",
	FieldBirthYear:    "Birth Year",
}

// Column returns the header name of the field.
func (f Field) Column() string {
	if f < 0 || f >= numFields {
		return ""
	}
	return fieldColumns[f]
}

// Trip is one row of a city dataset. Every source field is optional: a
// field is invalid when its column is absent or its cell is blank.
type Trip struct {
	Index int      // zero-based position in the source file
	Raw   []string // source cells in header order

	StartTime    sql.NullTime
	EndTime      sql.NullTime
	StartStation sql.NullString
	EndStation   sql.NullString
	TripDuration sql.NullFloat64 // seconds
	UserType     sql.NullString
	Gender       sql.NullString
	BirthYear    sql.NullInt64

	// Derived from StartTime; zero values when it is invalid.
	Month     int
	DayOfWeek string
}

// derive fills the month and day-of-week columns from the start time.
func (t *Trip) derive() {
	if !t.StartTime.Valid {
		t.Month = 0
		t.DayOfWeek = ""
		return
	}
	t.Month = int(t.StartTime.Time.Month())
	t.DayOfWeek = t.StartTime.Time.Weekday().String()
}

// Hour returns the start hour, and false when there is no start time.
func (t Trip) Hour() (int, bool) {
	if !t.StartTime.Valid {
		return 0, false
	}
	return t.StartTime.Time.Hour(), true
}

// Dataset is the in-memory collection of trips under analysis.
type Dataset struct {
	City   City
	Header []string
	Trips  []Trip

	fields [numFields]bool
}

// NewDataset builds a dataset whose schema is taken from the header.
// Derived columns are (re)computed for every trip.
func NewDataset(city City, header []string, trips []Trip) *Dataset {
	ds := &Dataset{City: city, Header: header, Trips: trips}
	for _, col := range header {
		if f, ok := fieldForColumn(col); ok {
			ds.fields[f] = true
		}
	}
	for i := range ds.Trips {
		ds.Trips[i].derive()
	}
	return ds
}

// Has reports whether the dataset's source carries the field's column.
// Month and day-of-week are available exactly when FieldStartTime is.
func (ds *Dataset) Has(f Field) bool {
	if f < 0 || f >= numFields {
		return false
	}
	return ds.fields[f]
}

// Len returns the number of trips.
func (ds *Dataset) Len() int {
	return len(ds.Trips)
}

// Filter returns a new dataset holding only the trips that match f, in
// their original order. The receiver is not modified.
func (ds *Dataset) Filter(f Filter) *Dataset {
	out := &Dataset{City: ds.City, Header: ds.Header, fields: ds.fields}
	if f.IsAll() {
		out.Trips = append([]Trip(nil), ds.Trips...)
		return out
	}
	out.Trips = make([]Trip, 0, len(ds.Trips)/4)
	for _, t := range ds.Trips {
		if f.Matches(t) {
			out.Trips = append(out.Trips, t)
		}
	}
	return out
}

// Page returns up to n trips starting at offset. An offset past the end
// yields an empty slice.
func (ds *Dataset) Page(offset, n int) []Trip {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ds.Trips) || n <= 0 {
		return nil
	}
	end := offset + n
	if end > len(ds.Trips) {
		end = len(ds.Trips)
	}
	return ds.Trips[offset:end]
}

func fieldForColumn(col string) (Field, bool) {
	for f, name := range fieldColumns {
		if name == col {
			return Field(f), true
		}
	}
	return 0, false
}

// timeLayouts are the Start Time / End Time formats accepted by the loader.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ParseTimestamp parses a trip timestamp in any accepted layout. Timestamps
// carry no zone and are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
