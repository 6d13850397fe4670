package application

import (
	"context"
	"time"

	"github.com/example/room-agenda/internal/testfixtures"
)

// The service tests share a small set of in-memory stubs mirroring the store
// adapters wired by the entrypoint.

type stubBookingStore struct {
	bookings []Booking
	listErr  error
	saveErr  error
	saves    int
}

func (s *stubBookingStore) ListBookings(context.Context) ([]Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]Booking(nil), s.bookings...), nil
}

func (s *stubBookingStore) SaveBookings(_ context.Context, bookings []Booking) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.bookings = append([]Booking(nil), bookings...)
	s.saves++
	return nil
}

type stubUserStore struct {
	users   []User
	listErr error
	saveErr error
	saves   int
}

func (s *stubUserStore) ListUsers(context.Context) ([]User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]User(nil), s.users...), nil
}

func (s *stubUserStore) SaveUsers(_ context.Context, users []User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.users = append([]User(nil), users...)
	s.saves++
	return nil
}

type stubNotifier struct {
	status  string
	actions []NotifyAction
	last    Booking
}

func (s *stubNotifier) Notify(_ context.Context, action NotifyAction, booking Booking, _ []User) string {
	s.actions = append(s.actions, action)
	s.last = booking
	return s.status
}

type stubRoleStore struct {
	roles   []Role
	listErr error
	saveErr error
}

func (s *stubRoleStore) ListRoles(context.Context) ([]Role, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]Role(nil), s.roles...), nil
}

func (s *stubRoleStore) SaveRoles(_ context.Context, roles []Role) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.roles = append([]Role(nil), roles...)
	return nil
}

type stubSectorStore struct {
	sectors []Sector
	saveErr error
}

func (s *stubSectorStore) ListSectors(context.Context) ([]Sector, error) {
	return append([]Sector(nil), s.sectors...), nil
}

func (s *stubSectorStore) SaveSectors(_ context.Context, sectors []Sector) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sectors = append([]Sector(nil), sectors...)
	return nil
}

type stubSettingsStore struct {
	settings AppSettings
	getErr   error
	saveErr  error
}

func (s *stubSettingsStore) Settings(context.Context) (AppSettings, error) {
	if s.getErr != nil {
		return AppSettings{}, s.getErr
	}
	return s.settings, nil
}

func (s *stubSettingsStore) SaveSettings(_ context.Context, settings AppSettings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.settings = settings
	return nil
}

type stubCascadeStore struct {
	users    []User
	bookings []Booking
	err      error
	calls    int
}

func (s *stubCascadeStore) SaveUsersAndBookings(_ context.Context, users []User, bookings []Booking) error {
	if s.err != nil {
		return s.err
	}
	s.users = append([]User(nil), users...)
	s.bookings = append([]Booking(nil), bookings...)
	s.calls++
	return nil
}

type stubSessionStore struct {
	current *User
	getErr  error
	setErr  error
}

func (s *stubSessionStore) CurrentUser(context.Context) (User, bool, error) {
	if s.getErr != nil {
		return User{}, false, s.getErr
	}
	if s.current == nil {
		return User{}, false, nil
	}
	return *s.current, true, nil
}

func (s *stubSessionStore) SetCurrentUser(_ context.Context, user *User) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.current = user
	return nil
}

// fixedNow pins the service clock to the shared fixture reference time.
func fixedNow() time.Time {
	return testfixtures.ReferenceTime()
}

func sequentialIDs(prefix string) func() string {
	return testfixtures.NewIDGenerator(prefix).NextFunc()
}
