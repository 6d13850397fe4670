// Package agenda holds the pure scheduling rules for the weekly room grid:
// week-window computation, slot coverage, overlap detection, and per-cell
// state classification. It performs no I/O.
package agenda

import "time"

// DateLayout is the calendar-day wire format used by bookings.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day into a midnight UTC timestamp.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate renders a timestamp's calendar day in the YYYY-MM-DD layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates t to the start of its calendar day, keeping the
// location. "Today" comparisons use the device-local midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of the ISO week containing t, truncated to
// midnight. Navigation is unbounded; the usable range is the time package's
// calendar range (years 1 through 9999 survive the date round-trip).
func WeekStart(t time.Time) time.Time {
	start := Midnight(t)
	weekday := int(start.Weekday())
	// Monday == 1, Sunday == 0 in Go's weekday numbering.
	offset := (weekday + 6) % 7
	return start.AddDate(0, 0, -offset)
}

// WeekDays enumerates the Monday through Friday days of the week starting at
// start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Grid configures the bookable hour range and the maximum booking duration.
type Grid struct {
	FirstHour   int
	HourCount   int
	MaxDuration int
}

// DefaultGrid covers 8:00 through 17:00 with a ten-hour duration ceiling.
var DefaultGrid = Grid{FirstHour: 8, HourCount: 10, MaxDuration: 10}

// Hours enumerates the grid's slot hours in ascending order.
func (g Grid) Hours() []int {
	hours := make([]int, g.HourCount)
	for i := range hours {
		hours[i] = g.FirstHour + i
	}
	return hours
}

// Contains reports whether hour is a bookable start hour of the grid.
func (g Grid) Contains(hour int) bool {
	return hour >= g.FirstHour && hour < g.FirstHour+g.HourCount
}

// Reservation is the engine's view of a booking: one contiguous hour range
// [StartTime, StartTime+Duration) on a calendar day.
type Reservation struct {
	ID        string
	OwnerID   string
	Date      string
	StartTime int
	Duration  int
}

// Covers reports whether the reservation occupies the (date, hour) slot.
func Covers(r Reservation, date string, hour int) bool {
	if r.Date != date {
		return false
	}
	return hour >= r.StartTime && hour < r.StartTime+r.Duration
}

// FindAt returns the reservation occupying the (date, hour) slot, if any.
func FindAt(reservations []Reservation, date string, hour int) (Reservation, bool) {
	for _, r := range reservations {
		if Covers(r, date, hour) {
			return r, true
		}
	}
	return Reservation{}, false
}

// Conflict records an overlap between a candidate and an existing
// reservation.
type Conflict struct {
	WithID string
}

// DetectConflicts identifies existing reservations whose hour range
// intersects the candidate's on the same date. A reservation never conflicts
// with itself, so updates can re-validate by reusing the candidate's id.
func DetectConflicts(existing []Reservation, candidate Reservation) []Conflict {
	var conflicts []Conflict
	for _, r := range existing {
		if r.ID == candidate.ID || r.Date != candidate.Date {
			continue
		}
		if candidate.StartTime < r.StartTime+r.Duration && r.StartTime < candidate.StartTime+candidate.Duration {
			conflicts = append(conflicts, Conflict{WithID: r.ID})
		}
	}
	return conflicts
}

// CellState classifies one grid cell for rendering and interaction.
type CellState string

const (
	// CellFree marks a present-or-future slot with no reservation.
	CellFree CellState = "free"
	// CellBooked marks a present-or-future slot covered by a reservation.
	CellBooked CellState = "booked"
	// CellPastFree marks an expired slot with no reservation.
	CellPastFree CellState = "past_free"
	// CellPastBooked marks an expired slot covered by a reservation.
	CellPastBooked CellState = "past_booked"
)

// Past reports whether the cell's state is one of the expired variants.
func (s CellState) Past() bool {
	return s == CellPastFree || s == CellPastBooked
}

// Classify determines the state of the (day, hour) cell against the current
// reservation set. A day strictly before today yields a past variant
// regardless of who is asking. The returned reservation is the occupant when
// the bool is true.
func Classify(reservations []Reservation, day time.Time, hour int, today time.Time) (CellState, Reservation, bool) {
	date := FormatDate(day)
	occupant, occupied := FindAt(reservations, date, hour)
	// Calendar days compare lexicographically in the YYYY-MM-DD layout, which
	// sidesteps location mismatches between stored days and local "today".
	past := date < FormatDate(today)

	switch {
	case past && occupied:
		return CellPastBooked, occupant, true
	case past:
		return CellPastFree, Reservation{}, false
	case occupied:
		return CellBooked, occupant, true
	default:
		return CellFree, Reservation{}, false
	}
}
