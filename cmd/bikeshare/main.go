package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"bikeshare/internal/bikeshare"
	"bikeshare/internal/config"
	"bikeshare/internal/console"
	"bikeshare/internal/stats"
	"bikeshare/internal/storage"
)

func main() {
	cfg := config.Load()

	// CLI flags
	importOnly := flag.Bool("import", false, "Import the city CSV files into SQLite, then exit")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the city CSV files")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.Source, "source", cfg.Source, "Trip data source: csv or sqlite")
	flag.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Raw rows shown per request")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flag.Parse()
	cfg.ImportData = *importOnly

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	source := strings.ToLower(cfg.Source)
	if !cfg.ImportData && source != config.SourceCSV && source != config.SourceSQLite {
		logger.Error("unknown data source", "source", cfg.Source)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *storage.DB
	if cfg.ImportData || source == config.SourceSQLite {
		var err error
		db, err = storage.Open(cfg.DBPath, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
	}
	closer := &shutdown{cancel: cancel}
	if db != nil {
		closer.db = db
	}
	defer closer.close()

	// An import unwinds through ctx and rolls back its open transaction.
	// The console may be blocked reading stdin, so it exits here.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		if cfg.ImportData {
			cancel()
			return
		}
		closer.close()
		os.Exit(130)
	}()

	if cfg.ImportData {
		imported, err := bikeshare.NewImporter(db, cfg.DataDir, logger).ImportAll(ctx)
		if err != nil {
			logger.Error("import failed", "error", err)
			closer.close()
			os.Exit(1)
		}
		printImportSummary(os.Stdout, cfg.DBPath, imported)
		return
	}

	var src bikeshare.Source = bikeshare.CSVSource{Dir: cfg.DataDir}
	if db != nil {
		src = bikeshare.NewSQLiteSource(db)
	}

	loader := bikeshare.NewLoader(src, logger)
	reporter := stats.NewReporter(os.Stdout, logger)
	session := console.New(os.Stdin, os.Stdout, loader, reporter, cfg.PageSize, logger)

	if err := session.Run(ctx); err != nil {
		logger.Error("session failed", "error", err)
		closer.close()
		os.Exit(1)
	}
}

// shutdown cancels the run and closes the dataset cache exactly once, from
// either the signal handler or the normal exit path.
type shutdown struct {
	once   sync.Once
	cancel context.CancelFunc
	db     io.Closer
}

func (s *shutdown) close() {
	s.once.Do(func() {
		s.cancel()
		if s.db != nil {
			s.db.Close()
		}
	})
}

func printImportSummary(w io.Writer, path string, imported []storage.DatasetRow) {
	fmt.Fprintf(w, "Imported %d cities into %s\n", len(imported), path)
	for _, d := range imported {
		fmt.Fprintf(w, "  %-15s %d trips from %s\n", d.City, d.RowCount, d.SourceFile)
	}
}
