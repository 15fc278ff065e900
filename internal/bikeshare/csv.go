package bikeshare

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV decodes a city CSV into its header and trips. Columns are looked
// up by header name; unknown columns are kept only in Trip.Raw.
func ReadCSV(r io.Reader) ([]string, []Trip, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty file: missing header")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	// Strip BOM from first field if present
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	cols := buildColumnMap(header)

	var trips []Trip
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read record: %w", err)
		}
		t, err := decodeRecord(record, cols)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Index = len(trips)
		trips = append(trips, t)
	}
	return header, trips, nil
}

// columnMap gives, per known field, the CSV position of its column or -1.
type columnMap [numFields]int

// buildColumnMap creates a mapping from known fields to CSV column positions.
func buildColumnMap(header []string) columnMap {
	var cols columnMap
	for i := range cols {
		cols[i] = -1
	}
	for csvIdx, colName := range header {
		if f, ok := fieldForColumn(strings.TrimSpace(colName)); ok {
			cols[f] = csvIdx
		}
	}
	return cols
}

// decodeRecord fills a Trip from a CSV record. Blank cells leave the field
// invalid; non-blank cells that do not parse are an error.
func decodeRecord(record []string, cols columnMap) (Trip, error) {
	t := Trip{Raw: record}
	cell := func(f Field) (string, bool) {
		idx := cols[f]
		if idx < 0 || idx >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[idx])
		return v, v != ""
	}

	if v, ok := cell(FieldStartTime); ok {
		ts, err := ParseTimestamp(v)
		if err != nil {
			return Trip{}, fmt.Errorf("%s %q: %w", FieldStartTime.Column(), v, err)
		}
		t.StartTime = sql.NullTime{Time: ts, Valid: true}
	}
	if v, ok := cell(FieldEndTime); ok {
		ts, err := ParseTimestamp(v)
		if err != nil {
			return Trip{}, fmt.Errorf("%s %q: %w", FieldEndTime.Column(), v, err)
		}
		t.EndTime = sql.NullTime{Time: ts, Valid: true}
	}
	if v, ok := cell(FieldStartStation); ok {
		t.StartStation = sql.NullString{String: v, Valid: true}
	}
	if v, ok := cell(FieldEndStation); ok {
		t.EndStation = sql.NullString{String: v, Valid: true}
	}
	if v, ok := cell(FieldTripDuration); ok {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Trip{}, fmt.Errorf("%s %q: %w", FieldTripDuration.Column(), v, err)
		}
		if math.IsInf(d, 0) {
			return Trip{}, fmt.Errorf("%s %q: not a finite number", FieldTripDuration.Column(), v)
		}
		if !math.IsNaN(d) {
			t.TripDuration = sql.NullFloat64{Float64: d, Valid: true}
		}
	}
	if v, ok := cell(FieldUserType); ok {
		t.UserType = sql.NullString{String: v, Valid: true}
	}
	if v, ok := cell(FieldGender); ok {
		t.Gender = sql.NullString{String: v, Valid: true}
	}
	if v, ok := cell(FieldBirthYear); ok {
		// Years are often written as floats ("1992.0").
		y, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Trip{}, fmt.Errorf("%s %q: %w", FieldBirthYear.Column(), v, err)
		}
		if !math.IsNaN(y) {
			year, err := wholeYear(y)
			if err != nil {
				return Trip{}, fmt.Errorf("%s %q: %w", FieldBirthYear.Column(), v, err)
			}
			t.BirthYear = sql.NullInt64{Int64: year, Valid: true}
		}
	}

	t.derive()
	return t, nil
}

var errNotWholeYear = errors.New("not a whole year")

// wholeYear converts a parsed Birth Year to an integer. Infinite,
// fractional and out-of-range values are rejected.
func wholeYear(y float64) (int64, error) {
	if math.IsInf(y, 0) || y != math.Trunc(y) || y < math.MinInt64 || y >= math.MaxInt64 {
		return 0, errNotWholeYear
	}
	return int64(y), nil
}
