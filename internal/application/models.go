package application

import "github.com/example/room-agenda/internal/agenda"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// User represents an account exposed by the application services. Privileged
// is resolved through the role catalog when the user is loaded; it is never a
// role-name comparison inside the services. Credential is the opaque stored
// secret; PriorCredential retains the pre-promotion value while the user
// holds a privileged role.
type User struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Sector          string
	Role            string
	Privileged      bool
	Credential      string
	PriorCredential string
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Sector    string
	Role      string
}

// RegisterParams wraps the data required to register an account. AdminCode is
// checked against the current admin secret when the requested role is
// privileged.
type RegisterParams struct {
	Input     UserInput
	Password  string
	AdminCode string
}

// UpdateUserParams wraps the data required for an administrator edit.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// RoleTransition describes the privilege change applied by a user update.
type RoleTransition string

const (
	// TransitionNone indicates the update did not change privilege.
	TransitionNone RoleTransition = ""
	// TransitionPromoted indicates a non-privileged user gained a privileged
	// role; the credential now equals the admin secret.
	TransitionPromoted RoleTransition = "promoted"
	// TransitionDemoted indicates a privileged user lost the privileged role;
	// the pre-promotion credential was restored.
	TransitionDemoted RoleTransition = "demoted"
)

// Sector represents a catalog entry users reference by name.
type Sector struct {
	ID   string
	Name string
}

// Role represents a catalog entry with an explicit privilege capability.
type Role struct {
	ID         string
	Name       string
	Privileged bool
}

// Booking reserves the room for [StartTime, StartTime+Duration) hours on
// Date (YYYY-MM-DD).
type Booking struct {
	ID        string
	UserID    string
	Date      string
	StartTime int
	Duration  int
}

// BookingInput captures caller provided booking fields.
type BookingInput struct {
	Date      string
	StartTime int
	Duration  int
}

// CreateBookingParams wraps the data required to create a booking. The
// booking is always owned by the acting principal.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// UpdateBookingParams wraps the data required for an administrator edit of an
// existing booking.
type UpdateBookingParams struct {
	Principal Principal
	BookingID string
	Input     BookingInput
}

// NotifyAction identifies the booking mutation reported to the dispatcher.
type NotifyAction string

const (
	// ActionCreated reports a new booking.
	ActionCreated NotifyAction = "created"
	// ActionModified reports an edited booking.
	ActionModified NotifyAction = "modified"
	// ActionDeleted reports a removed booking.
	ActionDeleted NotifyAction = "deleted"
)

// SlotOwner carries the display attributes of a slot's occupant.
type SlotOwner struct {
	Name   string
	Sector string
}

// SlotCell is one classified cell of the weekly grid.
type SlotCell struct {
	Hour    int
	State   agenda.CellState
	Booking *Booking
	Owner   *SlotOwner
}

// DaySchedule is one weekday column of the grid.
type DaySchedule struct {
	Date  string
	Cells []SlotCell
}

// WeekSchedule is the Monday-through-Friday grid for one week window.
type WeekSchedule struct {
	WeekStart string
	Days      []DaySchedule
}

// AppSettings is the singleton branding and configuration record.
type AppSettings struct {
	LogoURL                string
	BackgroundImageURL     string
	HomeBackgroundImageURL string
	AdminSecretCode        string
	ShareableURL           string
}

// SettingsPatch applies merge-patch semantics: only non-nil fields overwrite
// the stored record.
type SettingsPatch struct {
	LogoURL                *string
	BackgroundImageURL     *string
	HomeBackgroundImageURL *string
	AdminSecretCode        *string
	ShareableURL           *string
}
