package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotImported is returned when a city has no imported dataset.
var ErrNotImported = errors.New("dataset not imported")

// TimeLayout is the format of the start_time and end_time columns.
const TimeLayout = "2006-01-02 15:04:05"

// DatasetRow describes an imported city file.
type DatasetRow struct {
	City       string
	SourceFile string
	Header     []string
	RowCount   int
	ImportedAt string
}

// TripRow is a stored trip. Timestamps use TimeLayout.
type TripRow struct {
	RowIndex     int
	StartTime    sql.NullString
	EndTime      sql.NullString
	StartStation sql.NullString
	EndStation   sql.NullString
	TripDuration sql.NullFloat64
	UserType     sql.NullString
	Gender       sql.NullString
	BirthYear    sql.NullInt64
	Raw          []string
}

// Dataset returns the metadata of an imported city, or ErrNotImported.
func (db *DB) Dataset(ctx context.Context, city string) (*DatasetRow, error) {
	var d DatasetRow
	var header string
	err := db.QueryRowContext(ctx, `
		SELECT city, source_file, header, row_count, imported_at
		FROM datasets WHERE city = ?`, city,
	).Scan(&d.City, &d.SourceFile, &header, &d.RowCount, &d.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotImported
	}
	if err != nil {
		return nil, fmt.Errorf("dataset query: %w", err)
	}
	if d.Header, err = DecodeCells(header); err != nil {
		return nil, fmt.Errorf("decode header of %s: %w", city, err)
	}
	return &d, nil
}

// Datasets returns every imported city ordered by name.
func (db *DB) Datasets(ctx context.Context) ([]DatasetRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT city, source_file, header, row_count, imported_at
		FROM datasets ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("datasets query: %w", err)
	}
	defer rows.Close()

	var out []DatasetRow
	for rows.Next() {
		var d DatasetRow
		var header string
		if err := rows.Scan(&d.City, &d.SourceFile, &header, &d.RowCount, &d.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		if d.Header, err = DecodeCells(header); err != nil {
			return nil, fmt.Errorf("decode header of %s: %w", d.City, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TripsForCity returns all stored trips of a city in source order.
func (db *DB) TripsForCity(ctx context.Context, city string) ([]TripRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT row_index, start_time, end_time, start_station, end_station,
		       trip_duration, user_type, gender, birth_year, raw
		FROM trips
		WHERE city = ?
		ORDER BY row_index`, city)
	if err != nil {
		return nil, fmt.Errorf("trips query: %w", err)
	}
	defer rows.Close()

	var trips []TripRow
	for rows.Next() {
		var t TripRow
		var raw string
		if err := rows.Scan(&t.RowIndex, &t.StartTime, &t.EndTime, &t.StartStation,
			&t.EndStation, &t.TripDuration, &t.UserType, &t.Gender, &t.BirthYear, &raw); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if t.Raw, err = DecodeCells(raw); err != nil {
			return nil, fmt.Errorf("decode trip %d: %w", t.RowIndex, err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// ReplaceDataset removes any previous import of the city and records the
// new metadata. Trips are added afterwards with InsertTrip on the same tx.
func ReplaceDataset(ctx context.Context, tx *sql.Tx, d DatasetRow) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE city = ?`, d.City); err != nil {
		return fmt.Errorf("clear trips of %s: %w", d.City, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE city = ?`, d.City); err != nil {
		return fmt.Errorf("clear dataset %s: %w", d.City, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (city, source_file, header, row_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		d.City, d.SourceFile, EncodeCells(d.Header), d.RowCount, d.ImportedAt); err != nil {
		return fmt.Errorf("insert dataset %s: %w", d.City, err)
	}
	return nil
}

// PrepareInsertTrip prepares the trip insert statement on tx. The statement
// takes the city followed by the TripRow columns; see InsertTrip.
func PrepareInsertTrip(ctx context.Context, tx *sql.Tx) (*sql.Stmt, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trips (city, row_index, start_time, end_time, start_station, end_station,
		 trip_duration, user_type, gender, birth_year, raw)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare trips: %w", err)
	}
	return stmt, nil
}

// InsertTrip executes a statement from PrepareInsertTrip.
func InsertTrip(ctx context.Context, stmt *sql.Stmt, city string, t TripRow) error {
	if _, err := stmt.ExecContext(ctx, city, t.RowIndex, t.StartTime, t.EndTime,
		t.StartStation, t.EndStation, t.TripDuration, t.UserType, t.Gender,
		t.BirthYear, EncodeCells(t.Raw)); err != nil {
		return fmt.Errorf("insert trip %s/%d: %w", city, t.RowIndex, err)
	}
	return nil
}

// EncodeCells stores cells as a JSON array of strings, so every record,
// including one holding a single empty cell, decodes back unchanged.
func EncodeCells(cells []string) string {
	if cells == nil {
		cells = []string{}
	}
	// Marshalling a []string cannot fail.
	b, _ := json.Marshal(cells)
	return string(b)
}

// DecodeCells reverses EncodeCells.
func DecodeCells(s string) ([]string, error) {
	cells := []string{}
	if err := json.Unmarshal([]byte(s), &cells); err != nil {
		return nil, fmt.Errorf("decode cells: %w", err)
	}
	if cells == nil {
		cells = []string{}
	}
	return cells, nil
}
