package bikeshare

import "fmt"

// InvalidFilterError reports a city, month or day outside the supported set.
type InvalidFilterError struct {
	Field string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// DataSourceUnavailableError reports a city dataset that could not be read,
// either because it is missing or because it is malformed.
type DataSourceUnavailableError struct {
	City   string
	Source string // file path or database location
	Err    error
}

func (e *DataSourceUnavailableError) Error() string {
	return fmt.Sprintf("data for %s unavailable (%s): %v", e.City, e.Source, e.Err)
}

func (e *DataSourceUnavailableError) Unwrap() error {
	return e.Err
}
