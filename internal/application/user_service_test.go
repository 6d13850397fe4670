package application

import (
	"context"
	"errors"
	"testing"
)

func defaultRoles() []Role {
	return []Role{
		{ID: "1", Name: "Empleado"},
		{ID: "4", Name: "Jefe"},
		{ID: "6", Name: "Administrador", Privileged: true},
	}
}

func newUserServiceForTest(users *stubUserStore, bookings *stubBookingStore, roles *stubRoleStore, settings *stubSettingsStore, cascade *stubCascadeStore) *UserService {
	if roles == nil {
		roles = &stubRoleStore{roles: defaultRoles()}
	}
	if settings == nil {
		settings = &stubSettingsStore{settings: AppSettings{AdminSecretCode: "TECO2025"}}
	}
	if bookings == nil {
		bookings = &stubBookingStore{}
	}
	if cascade == nil {
		cascade = &stubCascadeStore{}
	}
	return NewUserService(users, bookings, roles, settings, cascade, sequentialIDs("user"), fixedNow)
}

func validRegistration() RegisterParams {
	return RegisterParams{
		Input: UserInput{
			FirstName: "Ana",
			LastName:  "Martinez",
			Email:     "amartinez@teco.com.ar",
			Phone:     "(333)-3333333",
			Sector:    "Capital Humano",
			Role:      "Jefe",
		},
		Password: "user123",
	}
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates a regular account with a hashed credential", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		user, err := service.Register(context.Background(), validRegistration())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID == "" {
			t.Fatalf("expected generated id")
		}
		if user.Privileged {
			t.Fatalf("expected regular account")
		}
		if user.Credential == "" || user.Credential == "user123" {
			t.Fatalf("expected hashed credential, got %q", user.Credential)
		}
		if err := VerifyCredential(user.Credential, "user123"); err != nil {
			t.Fatalf("expected credential to verify against the password: %v", err)
		}
		if len(users.users) != 1 {
			t.Fatalf("expected user to be persisted")
		}
	})

	t.Run("rejects duplicate emails case-insensitively", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{users: []User{{ID: "u1", Email: "A@B.com"}}}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		params := validRegistration()
		params.Input.Email = "a@b.COM"
		_, err := service.Register(context.Background(), params)
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("privileged role requires the admin secret", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{}, nil, nil, nil, nil)
		params := validRegistration()
		params.Input.Role = "Administrador"
		params.AdminCode = "wrong"

		_, err := service.Register(context.Background(), params)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["admin_code"]; !ok {
			t.Fatalf("expected admin_code error, got %+v", vErr.FieldErrors)
		}
	})

	t.Run("privileged registration clears the sector and derives the credential from the secret", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{}
		service := newUserServiceForTest(users, nil, nil, nil, nil)
		params := validRegistration()
		params.Input.Role = "Administrador"
		params.AdminCode = "TECO2025"

		user, err := service.Register(context.Background(), params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !user.Privileged {
			t.Fatalf("expected privileged account")
		}
		if user.Sector != "" {
			t.Fatalf("expected empty sector, got %q", user.Sector)
		}
		if err := VerifyCredential(user.Credential, "TECO2025"); err != nil {
			t.Fatalf("expected credential derived from the secret: %v", err)
		}
		if err := VerifyCredential(user.Credential, params.Password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected chosen password to be discarded, got %v", err)
		}
	})

	t.Run("validates required fields", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{}, nil, nil, nil, nil)
		_, err := service.Register(context.Background(), RegisterParams{})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"first_name", "last_name", "email", "role", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %q error, got %+v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()

	baseUser := func() User {
		return User{
			ID:         "u1",
			FirstName:  "Ana",
			LastName:   "Martinez",
			Email:      "amartinez@teco.com.ar",
			Sector:     "Capital Humano",
			Role:       "Jefe",
			Credential: "original-hash",
		}
	}
	baseInput := UserInput{
		FirstName: "Ana",
		LastName:  "Martinez",
		Email:     "amartinez@teco.com.ar",
		Sector:    "Capital Humano",
		Role:      "Jefe",
	}

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{users: []User{baseUser()}}, nil, nil, nil, nil)
		_, _, err := service.Update(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "u1"},
			UserID:    "u1",
			Input:     baseInput,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("promotion swaps the credential and retains the prior one", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{users: []User{baseUser()}}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		input := baseInput
		input.Role = "Administrador"
		user, transition, err := service.Update(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "admin", IsAdmin: true},
			UserID:    "u1",
			Input:     input,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transition != TransitionPromoted {
			t.Fatalf("expected promotion, got %q", transition)
		}
		if !user.Privileged {
			t.Fatalf("expected privileged user")
		}
		if user.Sector != "" {
			t.Fatalf("expected sector cleared on promotion, got %q", user.Sector)
		}
		if user.PriorCredential != "original-hash" {
			t.Fatalf("expected prior credential retained, got %q", user.PriorCredential)
		}
		if err := VerifyCredential(user.Credential, "TECO2025"); err != nil {
			t.Fatalf("expected credential to match the admin secret: %v", err)
		}
	})

	t.Run("demotion restores the prior credential exactly", func(t *testing.T) {
		t.Parallel()

		promoted := baseUser()
		promoted.Role = "Administrador"
		promoted.Privileged = true
		promoted.Credential = "secret-hash"
		promoted.PriorCredential = "original-hash"
		users := &stubUserStore{users: []User{promoted}}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		input := baseInput
		input.Role = "Empleado"
		user, transition, err := service.Update(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "admin", IsAdmin: true},
			UserID:    "u1",
			Input:     input,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transition != TransitionDemoted {
			t.Fatalf("expected demotion, got %q", transition)
		}
		if user.Credential != "original-hash" {
			t.Fatalf("expected exact prior credential, got %q", user.Credential)
		}
		if user.PriorCredential != "" {
			t.Fatalf("expected prior slot cleared, got %q", user.PriorCredential)
		}
		if user.Privileged {
			t.Fatalf("expected non-privileged user after demotion")
		}
	})

	t.Run("role change without privilege change keeps the credential", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{users: []User{baseUser()}}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		input := baseInput
		input.Role = "Empleado"
		user, transition, err := service.Update(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "admin", IsAdmin: true},
			UserID:    "u1",
			Input:     input,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transition != TransitionNone {
			t.Fatalf("expected no transition, got %q", transition)
		}
		if user.Credential != "original-hash" {
			t.Fatalf("expected credential untouched, got %q", user.Credential)
		}
	})

	t.Run("rejects an email already used by another user", func(t *testing.T) {
		t.Parallel()

		other := User{ID: "u2", Email: "other@teco.com.ar"}
		users := &stubUserStore{users: []User{baseUser(), other}}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		input := baseInput
		input.Email = "OTHER@teco.com.ar"
		_, _, err := service.Update(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "admin", IsAdmin: true},
			UserID:    "u1",
			Input:     input,
		})
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("surfaces missing users", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{}, nil, nil, nil, nil)
		_, _, err := service.Update(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "admin", IsAdmin: true},
			UserID:    "missing",
			Input:     baseInput,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("removes the user and their bookings in one write", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{users: []User{{ID: "u1"}, {ID: "u2"}}}
		bookings := &stubBookingStore{bookings: []Booking{
			{ID: "b1", UserID: "u1", Date: "2024-06-05", StartTime: 10, Duration: 1},
			{ID: "b2", UserID: "u2", Date: "2024-06-05", StartTime: 12, Duration: 1},
			{ID: "b3", UserID: "u1", Date: "2024-06-03", StartTime: 9, Duration: 1},
		}}
		cascade := &stubCascadeStore{}
		service := newUserServiceForTest(users, bookings, nil, nil, cascade)

		if err := service.Delete(context.Background(), Principal{UserID: "admin", IsAdmin: true}, "u1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cascade.calls != 1 {
			t.Fatalf("expected a single cascading write, got %d", cascade.calls)
		}
		if len(cascade.users) != 1 || cascade.users[0].ID != "u2" {
			t.Fatalf("expected only u2 to remain, got %+v", cascade.users)
		}
		if len(cascade.bookings) != 1 || cascade.bookings[0].ID != "b2" {
			t.Fatalf("expected only u2's booking to remain, got %+v", cascade.bookings)
		}
	})

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{users: []User{{ID: "u1"}}}, nil, nil, nil, nil)
		if err := service.Delete(context.Background(), Principal{UserID: "u1"}, "u1"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("surfaces missing users", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{}, nil, nil, nil, nil)
		if err := service.Delete(context.Background(), Principal{UserID: "admin", IsAdmin: true}, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("propagates cascade failures", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("transaction failed")
		cascade := &stubCascadeStore{err: wantErr}
		service := newUserServiceForTest(&stubUserStore{users: []User{{ID: "u1"}}}, nil, nil, nil, cascade)

		if err := service.Delete(context.Background(), Principal{UserID: "admin", IsAdmin: true}, "u1"); !errors.Is(err, wantErr) {
			t.Fatalf("expected cascade error, got %v", err)
		}
	})
}

func TestUserService_List(t *testing.T) {
	t.Parallel()

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		service := newUserServiceForTest(&stubUserStore{}, nil, nil, nil, nil)
		if _, err := service.List(context.Background(), Principal{UserID: "u1"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("sorts users by email", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{users: []User{
			{ID: "u1", Email: "zeta@teco.com.ar"},
			{ID: "u2", Email: "Alfa@teco.com.ar"},
			{ID: "u3", Email: "medio@teco.com.ar"},
		}}
		service := newUserServiceForTest(users, nil, nil, nil, nil)

		got, err := service.List(context.Background(), Principal{UserID: "admin", IsAdmin: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantOrder := []string{"u2", "u3", "u1"}
		for i, id := range wantOrder {
			if got[i].ID != id {
				t.Fatalf("expected order %v, got %+v", wantOrder, got)
			}
		}
	})
}
