package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// UserStore persists the user collection as a whole document.
type UserStore interface {
	ListUsers(ctx context.Context) ([]User, error)
	SaveUsers(ctx context.Context, users []User) error
}

// RoleDirectory resolves role definitions, used to derive privilege at
// registration and role-change time.
type RoleDirectory interface {
	ListRoles(ctx context.Context) ([]Role, error)
}

// SettingsReader exposes the current application settings, which carry the
// administrator secret code.
type SettingsReader interface {
	Settings(ctx context.Context) (AppSettings, error)
}

// CascadeStore replaces users and bookings in one transaction so a user
// deletion never leaves orphaned bookings behind.
type CascadeStore interface {
	SaveUsersAndBookings(ctx context.Context, users []User, bookings []Booking) error
}

// UserService manages account registration and administrator-side user
// management, including privilege transitions.
type UserService struct {
	users       UserStore
	bookings    BookingStore
	roles       RoleDirectory
	settings    SettingsReader
	cascade     CascadeStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for user management operations.
func NewUserService(users UserStore, bookings BookingStore, roles RoleDirectory, settings SettingsReader, cascade CascadeStore, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, bookings, roles, settings, cascade, idGenerator, now, nil)
}

// NewUserServiceWithLogger constructs a user service with a specified logger.
func NewUserServiceWithLogger(users UserStore, bookings BookingStore, roles RoleDirectory, settings SettingsReader, cascade CascadeStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		bookings:    bookings,
		roles:       roles,
		settings:    settings,
		cascade:     cascade,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register creates a new account. An admin code matching the configured
// secret marks the account privileged, clears its sector, and stores the
// secret-derived credential instead of the chosen password's.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Register", "email", params.Input.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	}()

	input := normalizeInput(params.Input)
	vErr := validateUserInput(input)
	if strings.TrimSpace(params.Password) == "" {
		vErr.add("password", "password is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing, listErr := s.users.ListUsers(ctx)
	if listErr != nil {
		err = listErr
		return
	}
	if findUserByEmail(existing, input.Email) != nil {
		err = ErrDuplicateEmail
		return
	}

	privileged, privErr := s.rolePrivileged(ctx, input.Role)
	if privErr != nil {
		err = privErr
		return
	}

	secret := params.Password
	sector := input.Sector
	if privileged {
		settings, settingsErr := s.settings.Settings(ctx)
		if settingsErr != nil {
			err = settingsErr
			return
		}
		if params.AdminCode != settings.AdminSecretCode {
			vErr := &ValidationError{}
			vErr.add("admin_code", "admin code is not valid")
			err = vErr
			return
		}
		secret = settings.AdminSecretCode
		sector = ""
	}

	hash, hashErr := HashCredential(secret, DefaultArgon2idParams)
	if hashErr != nil {
		err = hashErr
		return
	}

	user = User{
		ID:         s.idGenerator(),
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Sector:     sector,
		Role:       input.Role,
		Privileged: privileged,
		Credential: hash,
	}

	if saveErr := s.users.SaveUsers(ctx, append(append([]User(nil), existing...), user)); saveErr != nil {
		err = saveErr
		user = User{}
		return
	}
	return
}

// Update edits a user's profile as an administrator. Switching a user onto a
// privileged role replaces their credential with the secret-derived one and
// retains the previous credential; switching off a privileged role restores
// it exactly.
func (s *UserService) Update(ctx context.Context, params UpdateUserParams) (user User, transition RoleTransition, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Update",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("transition", string(transition)).InfoContext(ctx, "user updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	input := normalizeInput(params.Input)
	if vErr := validateUserInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	existing, listErr := s.users.ListUsers(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	index := -1
	for i, u := range existing {
		if u.ID == params.UserID {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	if duplicate := findUserByEmail(existing, input.Email); duplicate != nil && duplicate.ID != params.UserID {
		err = ErrDuplicateEmail
		return
	}

	wasPrivileged := existing[index].Privileged
	willBePrivileged, privErr := s.rolePrivileged(ctx, input.Role)
	if privErr != nil {
		err = privErr
		return
	}

	updated := existing[index]
	updated.FirstName = input.FirstName
	updated.LastName = input.LastName
	updated.Email = input.Email
	updated.Phone = input.Phone
	updated.Sector = input.Sector
	updated.Role = input.Role
	updated.Privileged = willBePrivileged

	transition = TransitionNone
	switch {
	case willBePrivileged && !wasPrivileged:
		settings, settingsErr := s.settings.Settings(ctx)
		if settingsErr != nil {
			err = settingsErr
			return
		}
		hash, hashErr := HashCredential(settings.AdminSecretCode, DefaultArgon2idParams)
		if hashErr != nil {
			err = hashErr
			return
		}
		updated.PriorCredential = updated.Credential
		updated.Credential = hash
		updated.Sector = ""
		transition = TransitionPromoted
	case !willBePrivileged && wasPrivileged:
		if updated.PriorCredential != "" {
			updated.Credential = updated.PriorCredential
			updated.PriorCredential = ""
		}
		transition = TransitionDemoted
	}

	replacement := append([]User(nil), existing...)
	replacement[index] = updated

	if saveErr := s.users.SaveUsers(ctx, replacement); saveErr != nil {
		err = saveErr
		transition = TransitionNone
		return
	}

	user = updated
	return
}

// Delete removes a user and all of their bookings in a single transaction.
func (s *UserService) Delete(ctx context.Context, principal Principal, userID string) (err error) {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	logger := s.loggerWith(ctx, "Delete",
		"principal_id", principal.UserID,
		"user_id", userID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	users, listErr := s.users.ListUsers(ctx)
	if listErr != nil {
		return listErr
	}

	index := -1
	for i, u := range users {
		if u.ID == userID {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrNotFound
	}

	bookings, bookingsErr := s.bookings.ListBookings(ctx)
	if bookingsErr != nil {
		return bookingsErr
	}

	remainingUsers := append([]User(nil), users[:index]...)
	remainingUsers = append(remainingUsers, users[index+1:]...)

	remainingBookings := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.UserID != userID {
			remainingBookings = append(remainingBookings, b)
		}
	}

	return s.cascade.SaveUsersAndBookings(ctx, remainingUsers, remainingBookings)
}

// List returns all users sorted by email, for administrators only.
func (s *UserService) List(ctx context.Context, principal Principal) (users []User, err error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}

	logger := s.loggerWith(ctx, "List", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list users", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	users, err = s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return strings.ToLower(users[i].Email) < strings.ToLower(users[j].Email)
	})
	return users, nil
}

func (s *UserService) rolePrivileged(ctx context.Context, roleName string) (bool, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if role.Name == roleName {
			return role.Privileged, nil
		}
	}
	// Roles can be deleted while users still reference them; such users
	// simply lose the privilege the role carried.
	return false, nil
}

func normalizeInput(input UserInput) UserInput {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Sector = strings.TrimSpace(input.Sector)
	input.Role = strings.TrimSpace(input.Role)
	return input
}

func validateUserInput(input UserInput) *ValidationError {
	vErr := &ValidationError{}
	if input.FirstName == "" {
		vErr.add("first_name", "first name is required")
	}
	if input.LastName == "" {
		vErr.add("last_name", "last name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(input.Email, "@") {
		vErr.add("email", "email is not valid")
	}
	if input.Role == "" {
		vErr.add("role", "role is required")
	}
	return vErr
}

// findUserByEmail matches case-insensitively; two addresses differing only in
// case are the same account.
func findUserByEmail(users []User, email string) *User {
	needle := strings.ToLower(strings.TrimSpace(email))
	for i := range users {
		if strings.ToLower(users[i].Email) == needle {
			return &users[i]
		}
	}
	return nil
}
