// Package testfixtures provides deterministic clocks, identifier generators,
// record builders, and a temporary store harness shared by the test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-agenda/internal/store"
)

var (
	userCounter    uint64
	bookingCounter uint64
)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It is a Tuesday so the surrounding week has days on both sides.
func ReferenceTime() time.Time {
	return time.Date(2024, time.June, 4, 9, 0, 0, 0, time.UTC)
}

// UserOption configures a generated user record.
type UserOption func(*store.User)

// WithUserID overrides the generated identifier.
func WithUserID(id string) UserOption {
	return func(u *store.User) { u.ID = id }
}

// WithEmail overrides the generated email address.
func WithEmail(email string) UserOption {
	return func(u *store.User) { u.Email = email }
}

// WithRole assigns the named role. Privilege is not stored on the record; it
// follows from the role catalog at load time.
func WithRole(role string) UserOption {
	return func(u *store.User) { u.Role = role }
}

// WithSector overrides the generated sector.
func WithSector(sector string) UserOption {
	return func(u *store.User) { u.Sector = sector }
}

// WithPasswordHash overrides the stored credential hash.
func WithPasswordHash(hash string) UserOption {
	return func(u *store.User) { u.PasswordHash = hash }
}

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) store.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := store.User{
		ID:        fmt.Sprintf("user-%03d", idx),
		FirstName: fmt.Sprintf("Nombre%d", idx),
		LastName:  fmt.Sprintf("Apellido%d", idx),
		Email:     fmt.Sprintf("user%d@example.com", idx),
		Phone:     fmt.Sprintf("(000)-000%04d", idx),
		Sector:    "Capital Humano",
		Role:      "Empleado",
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// BookingOption configures a generated booking record.
type BookingOption func(*store.Booking)

// WithBookingID overrides the generated identifier.
func WithBookingID(id string) BookingOption {
	return func(b *store.Booking) { b.ID = id }
}

// WithOwner assigns the booking to the given user.
func WithOwner(userID string) BookingOption {
	return func(b *store.Booking) { b.UserID = userID }
}

// WithSlot places the booking on the given date and hour range.
func WithSlot(date string, startTime, duration int) BookingOption {
	return func(b *store.Booking) {
		b.Date = date
		b.StartTime = startTime
		b.Duration = duration
	}
}

// NewBooking returns a deterministic booking record with optional overrides.
func NewBooking(opts ...BookingOption) store.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	booking := store.Booking{
		ID:        fmt.Sprintf("booking-%03d", idx),
		UserID:    "user-001",
		Date:      "2024-06-04",
		StartTime: 10,
		Duration:  1,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}
