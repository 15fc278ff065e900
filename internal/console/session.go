// Package console runs the interactive prompt loop around the loader and
// the statistics reports.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"bikeshare/internal/bikeshare"
)

// Loader loads the dataset for a validated city, month and day.
type Loader interface {
	Load(ctx context.Context, city, month, day string) (*bikeshare.Dataset, error)
}

// Reporter prints the statistics of a dataset.
type Reporter interface {
	All(ds *bikeshare.Dataset)
}

// Session is one interactive console conversation.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	loader   Loader
	reporter Reporter
	pageSize int
	logger   *slog.Logger
}

// New creates a Session reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, loader Loader, reporter Reporter, pageSize int, logger *slog.Logger) *Session {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Session{
		in:       bufio.NewScanner(in),
		out:      out,
		loader:   loader,
		reporter: reporter,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Run repeats filter selection, reports and raw paging until the user
// declines to restart or input ends. Load failures end only the current
// cycle.
func (s *Session) Run(ctx context.Context) error {
	s.printf("Hello! Let's explore some US bikeshare data!\n")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.cycle(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		restart, err := s.ask("\nWould you like to restart? Enter yes or no.\n")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if restart != "yes" {
			return nil
		}
	}
}

func (s *Session) cycle(ctx context.Context) error {
	logger := s.logger.With("cycle", uuid.NewString())

	city, month, day, err := s.PromptFilters()
	if err != nil {
		return err
	}
	logger.Info("filters selected", "city", city, "month", month, "day", day)

	ds, err := s.loader.Load(ctx, city, month, day)
	if err != nil {
		logger.Error("load failed", "error", err)
		s.printf("Could not load data: %v\n", err)
		if bikeshare.IsNotImported(err) {
			s.printf("Run with -import to load the CSV files into the database first.\n")
		}
		return nil
	}
	if ds.Len() == 0 {
		s.printf("No trips match the selected filters.\n")
	}

	s.reporter.All(ds)
	return s.ShowRaw(ds)
}

// PromptFilters asks for city, month and day, re-prompting until each
// answer is one of the accepted values. Answers are returned lowercased.
func (s *Session) PromptFilters() (city, month, day string, err error) {
	cityNames := make([]string, len(bikeshare.Cities))
	for i, c := range bikeshare.Cities {
		cityNames[i] = c.Name
	}
	months := append(append([]string(nil), bikeshare.AvailableMonths...), bikeshare.All)
	days := append(append([]string(nil), bikeshare.Days...), bikeshare.All)

	city, err = s.choose("Please enter the city name: ", cityNames,
		fmt.Sprintf("Currently we have data available only for %s. Please choose one of these to proceed.\n", quoteList(cityNames)))
	if err != nil {
		return "", "", "", err
	}
	month, err = s.choose("Please enter the month: ", months,
		fmt.Sprintf("Please choose from the list of available months %s.\n", quoteList(months)))
	if err != nil {
		return "", "", "", err
	}
	day, err = s.choose("Please enter the day of week: ", days,
		fmt.Sprintf("The input is not a valid day of the week. Please choose one of %s.\n", quoteList(days)))
	if err != nil {
		return "", "", "", err
	}

	s.printf("%s\n", strings.Repeat("-", 40))
	return city, month, day, nil
}

// ShowRaw prints the dataset pageSize rows at a time for as long as the
// user answers yes.
func (s *Session) ShowRaw(ds *bikeshare.Dataset) error {
	offset := 0
	for {
		answer, err := s.ask("\nWould you like to see the raw data? Enter yes or no.\n")
		if err != nil {
			return err
		}
		if answer != "yes" {
			return nil
		}
		page := ds.Page(offset, s.pageSize)
		if len(page) == 0 {
			s.printf("No more raw data to display.\n")
			return nil
		}
		s.printRows(ds.Header, page)
		offset += len(page)
	}
}

func (s *Session) printRows(header []string, trips []bikeshare.Trip) {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	cols := make([]string, 0, len(header)+3)
	cols = append(cols, "row")
	for _, h := range header {
		if h == "" {
			h = "-"
		}
		cols = append(cols, h)
	}
	cols = append(cols, "month", "day_of_week")
	fmt.Fprintln(tw, strings.Join(cols, "\t"))

	for _, t := range trips {
		cells := make([]string, 0, len(cols))
		cells = append(cells, fmt.Sprint(t.Index))
		for i := range header {
			v := ""
			if i < len(t.Raw) {
				v = t.Raw[i]
			}
			cells = append(cells, v)
		}
		month := ""
		if t.Month != 0 {
			month = fmt.Sprint(t.Month)
		}
		cells = append(cells, month, t.DayOfWeek)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// choose prompts until the lowercased answer is one of options.
func (s *Session) choose(prompt string, options []string, invalid string) (string, error) {
	for {
		answer, err := s.ask(prompt)
		if err != nil {
			return "", err
		}
		for _, o := range options {
			if answer == o {
				return answer, nil
			}
		}
		s.printf("%s", invalid)
	}
}

// ask prints prompt and returns the next trimmed, lowercased input line.
func (s *Session) ask(prompt string) (string, error) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(s.in.Text())), nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func quoteList(items []string) string {
	q := make([]string, len(items))
	for i, it := range items {
		q[i] = "'" + it + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}
