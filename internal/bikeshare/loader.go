package bikeshare

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Source produces the unfiltered dataset of a city.
type Source interface {
	Open(ctx context.Context, city City) (*Dataset, error)
}

// CSVSource reads city datasets from CSV files in a directory.
type CSVSource struct {
	Dir string
}

// Open reads the whole city file. The file is closed before Open returns.
func (s CSVSource) Open(ctx context.Context, city City) (*Dataset, error) {
	path := filepath.Join(s.Dir, city.File)

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceUnavailableError{City: city.Name, Source: path, Err: err}
	}
	defer f.Close()

	header, trips, err := ReadCSV(f)
	if err != nil {
		return nil, &DataSourceUnavailableError{City: city.Name, Source: path, Err: err}
	}
	return NewDataset(city, header, trips), nil
}

// Loader loads and filters city datasets.
type Loader struct {
	source Source
	logger *slog.Logger
}

// NewLoader creates a Loader reading from source.
func NewLoader(source Source, logger *slog.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Load resolves the user's choices and returns the matching trips.
func (l *Loader) Load(ctx context.Context, city, month, day string) (*Dataset, error) {
	f, err := Resolve(city, month, day)
	if err != nil {
		return nil, err
	}
	return l.LoadFilter(ctx, f)
}

// LoadFilter reads the filter's city and keeps the trips matching its month
// and day. A month or day restriction excludes trips without a start time.
func (l *Loader) LoadFilter(ctx context.Context, f Filter) (*Dataset, error) {
	if _, ok := LookupCity(f.City.Name); !ok {
		return nil, &InvalidFilterError{Field: "city", Value: f.City.Name}
	}
	if f.Month < 0 || f.Month > 12 {
		return nil, &InvalidFilterError{Field: "month", Value: fmt.Sprint(f.Month)}
	}
	if f.Day != "" && indexOf(weekdayNames, f.Day) < 0 {
		return nil, &InvalidFilterError{Field: "day", Value: f.Day}
	}

	start := time.Now()
	ds, err := l.source.Open(ctx, f.City)
	if err != nil {
		return nil, err
	}
	total := ds.Len()

	filtered := ds.Filter(f)
	l.logger.Info("dataset loaded",
		"city", f.City.Name,
		"month", f.Month,
		"day", f.Day,
		"rows", total,
		"matched", filtered.Len(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return filtered, nil
}

var weekdayNames = func() []string {
	names := make([]string, len(Days))
	for i := range Days {
		names[i] = time.Weekday(i).String()
	}
	return names
}()
