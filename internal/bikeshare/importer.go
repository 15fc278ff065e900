package bikeshare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bikeshare/internal/storage"
)

// Importer copies city CSV files into SQLite.
type Importer struct {
	db     *storage.DB
	csv    CSVSource
	logger *slog.Logger
}

// NewImporter creates an Importer reading CSV files from dir.
func NewImporter(db *storage.DB, dir string, logger *slog.Logger) *Importer {
	return &Importer{db: db, csv: CSVSource{Dir: dir}, logger: logger}
}

// ImportAll imports every supported city and returns what the cache holds
// afterwards. It stops at the first city that fails; cities imported before
// it stay committed.
func (imp *Importer) ImportAll(ctx context.Context) ([]storage.DatasetRow, error) {
	for _, c := range Cities {
		if err := imp.Import(ctx, c); err != nil {
			return nil, err
		}
	}
	return imp.db.Datasets(ctx)
}

// Import replaces the stored copy of one city. The whole city runs in a
// single transaction.
func (imp *Importer) Import(ctx context.Context, city City) error {
	start := time.Now()

	ds, err := imp.csv.Open(ctx, city)
	if err != nil {
		return err
	}

	tx, err := imp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := storage.ReplaceDataset(ctx, tx, storage.DatasetRow{
		City:       city.Name,
		SourceFile: city.File,
		Header:     ds.Header,
		RowCount:   ds.Len(),
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	stmt, err := storage.PrepareInsertTrip(ctx, tx)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range ds.Trips {
		if err := storage.InsertTrip(ctx, stmt, city.Name, tripToRow(t)); err != nil {
			return err
		}
		if (i+1)%100000 == 0 {
			imp.logger.Info("importing trips", "city", city.Name, "rows", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	imp.logger.Info("city import complete",
		"city", city.Name,
		"trips", ds.Len(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
