package storage

import "fmt"

// schema lists the upgrades in order. Entry i moves the cache from
// user_version i to i+1; applied entries must never change.
var schema = []string{
	`CREATE TABLE datasets (
		city        TEXT PRIMARY KEY,
		source_file TEXT NOT NULL,
		header      TEXT NOT NULL,
		row_count   INTEGER NOT NULL DEFAULT 0,
		imported_at TEXT NOT NULL
	);

	-- NULL marks a blank cell or a column the city file lacks
	CREATE TABLE trips (
		city          TEXT NOT NULL REFERENCES datasets(city),
		row_index     INTEGER NOT NULL,
		start_time    TEXT,
		end_time      TEXT,
		start_station TEXT,
		end_station   TEXT,
		trip_duration REAL,
		user_type     TEXT,
		gender        TEXT,
		birth_year    INTEGER,
		raw           TEXT NOT NULL,
		PRIMARY KEY (city, row_index)
	);

	CREATE INDEX idx_trips_city_start ON trips(city, start_time);`,
}

// SchemaVersion reports the cache's PRAGMA user_version.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// upgradeSchema applies the pending schema entries in one transaction and
// returns the resulting version. A cache newer than this binary is refused.
func (db *DB) upgradeSchema() (int, error) {
	current, err := db.SchemaVersion()
	if err != nil {
		return 0, err
	}
	if current > len(schema) {
		return 0, fmt.Errorf("schema version %d is newer than supported version %d", current, len(schema))
	}
	if current == len(schema) {
		return current, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin schema upgrade: %w", err)
	}
	defer tx.Rollback()

	for v := current; v < len(schema); v++ {
		if _, err := tx.Exec(schema[v]); err != nil {
			return 0, fmt.Errorf("schema version %d: %w", v+1, err)
		}
		db.logger.Debug("schema upgraded", "path", db.path, "version", v+1)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, len(schema))); err != nil {
		return 0, fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit schema upgrade: %w", err)
	}
	return len(schema), nil
}
