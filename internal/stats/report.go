package stats

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"bikeshare/internal/bikeshare"
)

const rule = "----------------------------------------"

// Reporter prints the four statistics reports to a writer.
type Reporter struct {
	w      io.Writer
	logger *slog.Logger
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, logger *slog.Logger) *Reporter {
	return &Reporter{w: w, logger: logger}
}

// All prints every report in the usual order.
func (r *Reporter) All(ds *bikeshare.Dataset) {
	r.TimeStats(ds)
	r.StationStats(ds)
	r.TripDurationStats(ds)
	r.UserStats(ds)
}

// TimeStats prints the most frequent times of travel.
func (r *Reporter) TimeStats(ds *bikeshare.Dataset) {
	r.run("time", "Calculating The Most Frequent Times of Travel...", func() {
		s := Times(ds)
		if s.Month != nil {
			r.printf("Most common month: %s\n", bikeshare.MonthName(s.Month.Value))
		}
		if s.DayOfWeek != nil {
			r.printf("Most common day of week: %s\n", s.DayOfWeek.Value)
		}
		if s.Hour != nil {
			r.printf("Most common start hour: %d\n", s.Hour.Value)
		}
	})
}

// StationStats prints the most popular stations and trip.
func (r *Reporter) StationStats(ds *bikeshare.Dataset) {
	r.run("station", "Calculating The Most Popular Stations and Trip...", func() {
		s := Stations(ds)
		if s.StartStation != nil {
			r.printf("Most common start station: %s\n", s.StartStation.Value)
		}
		if s.EndStation != nil {
			r.printf("Most common end station: %s\n", s.EndStation.Value)
		}
		if s.Combination != nil {
			r.printf("Most common combination of start and end station: %s\n", s.Combination.Value)
		}
	})
}

// TripDurationStats prints the total and average trip duration.
func (r *Reporter) TripDurationStats(ds *bikeshare.Dataset) {
	r.run("duration", "Calculating Trip Duration...", func() {
		s, ok := Durations(ds)
		if !ok {
			return
		}
		r.printf("Total travel time: %s\n", secondsWithHuman(s.Total))
		r.printf("Average travel time: %s\n", secondsWithHuman(s.Mean))
	})
}

// UserStats prints statistics on bike-share users.
func (r *Reporter) UserStats(ds *bikeshare.Dataset) {
	r.run("user", "Calculating User Stats...", func() {
		s := Users(ds)
		if len(s.UserTypes) > 0 {
			r.printf("Counts of different user types:\n")
			r.printCounts(s.UserTypes)
		}
		if len(s.Genders) > 0 {
			r.printf("Counts of different genders:\n")
			r.printCounts(s.Genders)
		}
		if y := s.BirthYears; y != nil {
			r.printf("Earliest year of birth: %d\n", y.Earliest)
			r.printf("Most recent year of birth: %d\n", y.MostRecent)
			r.printf("Most common year of birth: %d\n", y.MostCommon.Value)
		}
	})
}

// run prints the report banner, the body and the elapsed time.
func (r *Reporter) run(name, banner string, body func()) {
	r.printf("\n%s\n\n", banner)
	start := time.Now()

	body()

	elapsed := time.Since(start)
	r.printf("\nThis took %s seconds.\n", strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64))
	r.printf("%s\n", rule)
	r.logger.Debug("report printed", "report", name, "elapsed", elapsed)
}

func (r *Reporter) printCounts(counts []Count[string]) {
	width := 0
	for _, c := range counts {
		width = max(width, len(c.Value))
	}
	for _, c := range counts {
		r.printf("  %-*s  %d\n", width, c.Value, c.N)
	}
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// formatFloat prints whole numbers without a fractional part.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// secondsWithHuman prints "N seconds", followed by the human form when
// one exists.
func secondsWithHuman(seconds float64) string {
	out := formatFloat(seconds) + " seconds"
	if h := humanDuration(seconds); h != "" {
		out += " (" + h + ")"
	}
	return out
}

// maxDurationSeconds is the largest number of seconds a time.Duration holds.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// humanDuration renders seconds as e.g. "1d 2h 3m 4s". It returns "" for
// negative values and values a time.Duration cannot represent.
func humanDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 || seconds >= maxDurationSeconds {
		return ""
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	if d < time.Second {
		return "0s"
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}
