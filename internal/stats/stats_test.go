package stats

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"bikeshare/internal/bikeshare"
)

var chicago = bikeshare.Cities[0]

func str(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func year(y int64) sql.NullInt64 {
	if y == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: y, Valid: true}
}

func at(month time.Month, day, hour int) sql.NullTime {
	return sql.NullTime{Time: time.Date(2017, month, day, hour, 0, 0, 0, time.UTC), Valid: true}
}

func durationsOnly(values ...float64) *bikeshare.Dataset {
	trips := make([]bikeshare.Trip, len(values))
	for i, v := range values {
		trips[i] = bikeshare.Trip{Index: i, TripDuration: sql.NullFloat64{Float64: v, Valid: true}}
	}
	return bikeshare.NewDataset(chicago, []string{"Trip Duration"}, trips)
}

func TestDurations(t *testing.T) {
	got, ok := Durations(durationsOnly(60, 120, 180))
	if !ok {
		t.Fatal("Durations() ok = false")
	}
	want := DurationStats{Count: 3, Total: 360, Mean: 120}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Durations() mismatch (-want +got):\n%s", diff)
	}
}

func TestDurations_SkipsNulls(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"Trip Duration"}, []bikeshare.Trip{
		{TripDuration: sql.NullFloat64{Float64: 100, Valid: true}},
		{},
		{TripDuration: sql.NullFloat64{Float64: 300, Valid: true}},
	})
	got, ok := Durations(ds)
	if !ok || got.Total != 400 || got.Mean != 200 {
		t.Errorf("Durations() = %+v, %v; want total 400 mean 200", got, ok)
	}
}

func TestDurations_Absent(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"Gender"}, []bikeshare.Trip{{Gender: str("Male")}})
	if _, ok := Durations(ds); ok {
		t.Error("Durations() ok = true without Trip Duration column")
	}
	empty := bikeshare.NewDataset(chicago, []string{"Trip Duration"}, nil)
	if _, ok := Durations(empty); ok {
		t.Error("Durations() ok = true for empty dataset")
	}
}

func TestDurationOnlyDataset_OtherStatsSkipped(t *testing.T) {
	ds := durationsOnly(60, 120, 180)

	if got := Times(ds); got != (TimeStats{}) {
		t.Errorf("Times() = %+v, want all skipped", got)
	}
	if got := Stations(ds); got != (StationStats{}) {
		t.Errorf("Stations() = %+v, want all skipped", got)
	}
	got := Users(ds)
	if got.UserTypes != nil || got.Genders != nil || got.BirthYears != nil {
		t.Errorf("Users() = %+v, want all skipped", got)
	}
}

func TestStations(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"Start Station", "End Station"}, []bikeshare.Trip{
		{StartStation: str("A"), EndStation: str("X")},
		{StartStation: str("A"), EndStation: str("Y")},
		{StartStation: str("B"), EndStation: str("X")},
	})

	got := Stations(ds)
	want := StationStats{
		StartStation: &Count[string]{Value: "A", N: 2},
		EndStation:   &Count[string]{Value: "X", N: 2},
		Combination:  &Count[string]{Value: "A, X", N: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stations() mismatch (-want +got):\n%s", diff)
	}
}

func TestStations_OnlyStartColumn(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"Start Station"}, []bikeshare.Trip{
		{StartStation: str("A")},
	})
	got := Stations(ds)
	if got.StartStation == nil || got.StartStation.Value != "A" {
		t.Errorf("StartStation = %+v, want A", got.StartStation)
	}
	if got.EndStation != nil || got.Combination != nil {
		t.Errorf("end station and combination should be skipped: %+v", got)
	}
}

func TestStations_CombinationIgnoresBlankStations(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"Start Station", "End Station"}, []bikeshare.Trip{
		{StartStation: str("A")},
		{StartStation: str("A")},
		{StartStation: str("B"), EndStation: str("Y")},
	})
	got := Stations(ds)
	if got.Combination == nil || got.Combination.Value != "B, Y" {
		t.Errorf("Combination = %+v, want B, Y", got.Combination)
	}
}

func TestMode_TieBreakFirstSeen(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"single", []string{"A"}, "A"},
		{"clear winner", []string{"B", "A", "A"}, "A"},
		{"tie keeps first seen", []string{"B", "A", "A", "B"}, "B"},
		{"all distinct", []string{"Z", "Y", "X"}, "Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCounter[string]()
			for _, v := range tt.values {
				c.add(v)
			}
			got, ok := c.mode()
			if !ok || got.Value != tt.want {
				t.Errorf("mode() = %v, %v; want %q", got, ok, tt.want)
			}
		})
	}

	if _, ok := newCounter[int]().mode(); ok {
		t.Error("mode() of empty counter ok = true")
	}
}

func TestTimes(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"Start Time"}, []bikeshare.Trip{
		{StartTime: at(time.June, 23, 17)}, // Friday
		{StartTime: at(time.June, 26, 8)},  // Monday
		{StartTime: at(time.March, 6, 8)},  // Monday
		{StartTime: at(time.June, 24, 17)}, // Saturday
		{},
	})

	got := Times(ds)
	want := TimeStats{
		Month:     &Count[int]{Value: 6, N: 3},
		DayOfWeek: &Count[string]{Value: "Monday", N: 2},
		Hour:      &Count[int]{Value: 17, N: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Times() mismatch (-want +got):\n%s", diff)
	}
}

func TestUsers(t *testing.T) {
	ds := bikeshare.NewDataset(chicago, []string{"User Type", "Gender", "Birth Year"}, []bikeshare.Trip{
		{UserType: str("Customer"), Gender: str("Female"), BirthYear: year(1990)},
		{UserType: str("Subscriber"), Gender: str("Male"), BirthYear: year(1985)},
		{UserType: str("Subscriber"), BirthYear: year(1990)},
		{UserType: str("Subscriber"), Gender: str("Male"), BirthYear: year(2001)},
		{},
	})

	got := Users(ds)
	want := UserStats{
		UserTypes: []Count[string]{{Value: "Subscriber", N: 3}, {Value: "Customer", N: 1}},
		Genders:   []Count[string]{{Value: "Male", N: 2}, {Value: "Female", N: 1}},
		BirthYears: &BirthYearStats{
			Earliest:   1985,
			MostRecent: 2001,
			MostCommon: Count[int64]{Value: 1990, N: 2},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Users() mismatch (-want +got):\n%s", diff)
	}
}

func TestUsers_WithoutDemographics(t *testing.T) {
	// Washington has user types but no gender or birth year columns.
	ds := bikeshare.NewDataset(chicago, []string{"User Type"}, []bikeshare.Trip{
		{UserType: str("Subscriber")},
		{UserType: str("Customer")},
	})
	got := Users(ds)
	if len(got.UserTypes) != 2 {
		t.Errorf("UserTypes = %v, want 2 entries", got.UserTypes)
	}
	if got.Genders != nil || got.BirthYears != nil {
		t.Errorf("gender and birth year should be skipped: %+v", got)
	}
}
