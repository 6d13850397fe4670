package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-agenda/internal/agenda"
)

// BookingStore captures the persistence interactions needed by the service.
// The booking set is read and replaced as a whole document.
type BookingStore interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	SaveBookings(ctx context.Context, bookings []Booking) error
}

// UserDirectory exposes the user lookups needed to render occupants and to
// address notifications.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Notifier reports a booking mutation to interested users and returns a
// human-readable delivery summary. Implementations never return an error;
// every failure degrades to a status string.
type Notifier interface {
	Notify(ctx context.Context, action NotifyAction, booking Booking, users []User) string
}

// BookingService orchestrates validation, persistence, and notification for
// the weekly agenda.
type BookingService struct {
	bookings    BookingStore
	users       UserDirectory
	notifier    Notifier
	grid        agenda.Grid
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingStore, users UserDirectory, notifier Notifier, grid agenda.Grid, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, users, notifier, grid, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings BookingStore, users UserDirectory, notifier Notifier, grid agenda.Grid, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if grid.HourCount <= 0 {
		grid = agenda.DefaultGrid
	}
	return &BookingService{
		bookings:    bookings,
		users:       users,
		notifier:    notifier,
		grid:        grid,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Grid exposes the configured hour range.
func (s *BookingService) Grid() agenda.Grid {
	return s.grid
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// WeekSchedule classifies every cell of the Monday-through-Friday grid for
// the week containing anchor.
func (s *BookingService) WeekSchedule(ctx context.Context, anchor time.Time) (WeekSchedule, error) {
	if s == nil {
		return WeekSchedule{}, fmt.Errorf("BookingService is nil")
	}

	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return WeekSchedule{}, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return WeekSchedule{}, err
	}

	usersByID := make(map[string]User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	reservations := toReservations(bookings)
	bookingsByID := make(map[string]Booking, len(bookings))
	for _, booking := range bookings {
		bookingsByID[booking.ID] = booking
	}

	today := s.now()
	weekStart := agenda.WeekStart(anchor)
	hours := s.grid.Hours()

	week := WeekSchedule{WeekStart: agenda.FormatDate(weekStart)}
	for _, day := range agenda.WeekDays(weekStart) {
		column := DaySchedule{Date: agenda.FormatDate(day), Cells: make([]SlotCell, 0, len(hours))}
		for _, hour := range hours {
			state, occupant, occupied := agenda.Classify(reservations, day, hour, today)
			cell := SlotCell{Hour: hour, State: state}
			if occupied {
				if booking, ok := bookingsByID[occupant.ID]; ok {
					cell.Booking = &booking
				}
				if owner, ok := usersByID[occupant.OwnerID]; ok {
					cell.Owner = &SlotOwner{
						Name:   fmt.Sprintf("%s, %s", formatDisplayText(owner.LastName), formatDisplayText(owner.FirstName)),
						Sector: formatDisplayText(owner.Sector),
					}
				}
			}
			column.Cells = append(column.Cells, cell)
		}
		week.Days = append(week.Days, column)
	}

	return week, nil
}

// Create validates and persists a new booking owned by the acting principal,
// then reports it to the notifier. The returned status string is
// informational only; notification outcome never reverts the booking.
func (s *BookingService) Create(ctx context.Context, params CreateBookingParams) (booking Booking, status string, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"principal_id", params.Principal.UserID,
		"date", params.Input.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	if vErr := s.validateInput(params.Input, false); vErr.HasErrors() {
		err = vErr
		return
	}

	existing, listErr := s.bookings.ListBookings(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	candidate := Booking{
		ID:        s.idGenerator(),
		UserID:    params.Principal.UserID,
		Date:      params.Input.Date,
		StartTime: params.Input.StartTime,
		Duration:  params.Input.Duration,
	}

	if conflicts := agenda.DetectConflicts(toReservations(existing), toReservation(candidate)); len(conflicts) > 0 {
		err = ErrOverlap
		return
	}

	if saveErr := s.bookings.SaveBookings(ctx, append(append([]Booking(nil), existing...), candidate)); saveErr != nil {
		err = saveErr
		return
	}

	booking = candidate
	status = s.notify(ctx, ActionCreated, candidate)
	return
}

// Update re-validates an administrator edit against all other bookings and
// replaces the booking in place.
func (s *BookingService) Update(ctx context.Context, params UpdateBookingParams) (booking Booking, status string, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Update",
		"principal_id", params.Principal.UserID,
		"booking_id", params.BookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	if vErr := s.validateInput(params.Input, true); vErr.HasErrors() {
		err = vErr
		return
	}

	existing, listErr := s.bookings.ListBookings(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	index := -1
	for i, b := range existing {
		if b.ID == params.BookingID {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	updated := existing[index]
	updated.Date = params.Input.Date
	updated.StartTime = params.Input.StartTime
	updated.Duration = params.Input.Duration

	if conflicts := agenda.DetectConflicts(toReservations(existing), toReservation(updated)); len(conflicts) > 0 {
		err = ErrOverlap
		return
	}

	replacement := append([]Booking(nil), existing...)
	replacement[index] = updated

	if saveErr := s.bookings.SaveBookings(ctx, replacement); saveErr != nil {
		err = saveErr
		return
	}

	booking = updated
	status = s.notify(ctx, ActionModified, updated)
	return
}

// Delete removes a booking. Administrators may delete any booking, including
// past ones; the owning user may only delete bookings that are not in the
// past. Everyone else is rejected.
func (s *BookingService) Delete(ctx context.Context, principal Principal, bookingID string) (status string, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Delete",
		"principal_id", principal.UserID,
		"booking_id", bookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking deleted")
	}()

	existing, listErr := s.bookings.ListBookings(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	index := -1
	for i, b := range existing {
		if b.ID == bookingID {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	target := existing[index]
	if !CanEditOrDeleteBooking(principal, target, s.now()) {
		err = ErrUnauthorized
		return
	}

	replacement := append([]Booking(nil), existing[:index]...)
	replacement = append(replacement, existing[index+1:]...)

	if saveErr := s.bookings.SaveBookings(ctx, replacement); saveErr != nil {
		err = saveErr
		return
	}

	status = s.notify(ctx, ActionDeleted, target)
	return
}

// CanEditOrDeleteBooking reports whether the principal may mutate the
// booking: administrators always, the owning user only while the booking's
// date is not in the past.
func CanEditOrDeleteBooking(principal Principal, booking Booking, now time.Time) bool {
	if principal.IsAdmin {
		return true
	}
	if principal.UserID == "" || principal.UserID != booking.UserID {
		return false
	}
	return booking.Date >= agenda.FormatDate(now)
}

func (s *BookingService) validateInput(input BookingInput, allowPast bool) *ValidationError {
	vErr := &ValidationError{}

	day, parseErr := agenda.ParseDate(strings.TrimSpace(input.Date))
	if parseErr != nil {
		vErr.add("date", "date is required")
	} else if !allowPast && agenda.FormatDate(day) < agenda.FormatDate(s.now()) {
		vErr.add("date", "date must not be in the past")
	}

	if !s.grid.Contains(input.StartTime) {
		vErr.add("start_time", "start time is outside the bookable hours")
	}

	if input.Duration < 1 || input.Duration > s.grid.MaxDuration {
		vErr.add("duration", "duration is out of range")
	}

	return vErr
}

func (s *BookingService) notify(ctx context.Context, action NotifyAction, booking Booking) string {
	if s.notifier == nil {
		return ""
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.loggerWith(ctx, "notify").ErrorContext(ctx, "failed to load notification recipients", "error", err)
		return "pero no se pudo cargar la lista de destinatarios."
	}
	return s.notifier.Notify(ctx, action, booking, users)
}

func toReservation(b Booking) agenda.Reservation {
	return agenda.Reservation{
		ID:        b.ID,
		OwnerID:   b.UserID,
		Date:      b.Date,
		StartTime: b.StartTime,
		Duration:  b.Duration,
	}
}

func toReservations(bookings []Booking) []agenda.Reservation {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]agenda.Reservation, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toReservation(b))
	}
	return out
}

// formatDisplayText capitalizes the first rune and lowercases the rest, the
// presentation the grid uses for names and sectors.
func formatDisplayText(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(strings.ToLower(text))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
