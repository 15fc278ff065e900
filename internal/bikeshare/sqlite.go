package bikeshare

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bikeshare/internal/storage"
)

// SQLiteSource reads city datasets imported into SQLite by Importer.
type SQLiteSource struct {
	db *storage.DB
}

// NewSQLiteSource creates a Source backed by db.
func NewSQLiteSource(db *storage.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// Open reads the imported trips of a city.
func (s *SQLiteSource) Open(ctx context.Context, city City) (*Dataset, error) {
	unavailable := func(err error) error {
		return &DataSourceUnavailableError{City: city.Name, Source: s.db.Path(), Err: err}
	}

	meta, err := s.db.Dataset(ctx, city.Name)
	if err != nil {
		return nil, unavailable(err)
	}
	rows, err := s.db.TripsForCity(ctx, city.Name)
	if err != nil {
		return nil, unavailable(err)
	}

	trips := make([]Trip, 0, len(rows))
	for _, r := range rows {
		t, err := tripFromRow(r)
		if err != nil {
			return nil, unavailable(err)
		}
		trips = append(trips, t)
	}
	return NewDataset(city, meta.Header, trips), nil
}

func tripFromRow(r storage.TripRow) (Trip, error) {
	t := Trip{
		Index:        r.RowIndex,
		Raw:          r.Raw,
		StartStation: r.StartStation,
		EndStation:   r.EndStation,
		TripDuration: r.TripDuration,
		UserType:     r.UserType,
		Gender:       r.Gender,
		BirthYear:    r.BirthYear,
	}
	var err error
	if t.StartTime, err = parseNullTime(r.StartTime); err != nil {
		return Trip{}, fmt.Errorf("trip %d start time: %w", r.RowIndex, err)
	}
	if t.EndTime, err = parseNullTime(r.EndTime); err != nil {
		return Trip{}, fmt.Errorf("trip %d end time: %w", r.RowIndex, err)
	}
	return t, nil
}

func tripToRow(t Trip) storage.TripRow {
	return storage.TripRow{
		RowIndex:     t.Index,
		StartTime:    formatNullTime(t.StartTime),
		EndTime:      formatNullTime(t.EndTime),
		StartStation: t.StartStation,
		EndStation:   t.EndStation,
		TripDuration: t.TripDuration,
		UserType:     t.UserType,
		Gender:       t.Gender,
		BirthYear:    t.BirthYear,
		Raw:          t.Raw,
	}
}

func parseNullTime(s sql.NullString) (sql.NullTime, error) {
	if !s.Valid {
		return sql.NullTime{}, nil
	}
	ts, err := ParseTimestamp(s.String)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: ts, Valid: true}, nil
}

func formatNullTime(t sql.NullTime) sql.NullString {
	if !t.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Time.Format(storage.TimeLayout), Valid: true}
}

// IsNotImported reports whether err means the city is missing from the database.
func IsNotImported(err error) bool {
	return errors.Is(err, storage.ErrNotImported)
}
