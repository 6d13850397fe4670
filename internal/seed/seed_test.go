package seed

import (
	"errors"
	"testing"
	"time"

	"github.com/example/room-agenda/internal/agenda"
	"github.com/example/room-agenda/internal/application"
)

func TestRoles(t *testing.T) {
	t.Parallel()

	roles := Roles()
	if len(roles) != 6 {
		t.Fatalf("expected 6 roles, got %d", len(roles))
	}

	privileged := 0
	for _, role := range roles {
		if role.Privileged {
			privileged++
			if role.Name != "Administrador" {
				t.Errorf("unexpected privileged role %q", role.Name)
			}
		}
	}
	if privileged != 1 {
		t.Fatalf("expected exactly one privileged role, got %d", privileged)
	}
}

func TestSectors(t *testing.T) {
	t.Parallel()

	sectors := Sectors()
	if len(sectors) != 13 {
		t.Fatalf("expected 13 sectors, got %d", len(sectors))
	}

	seen := make(map[string]bool, len(sectors))
	for i, sector := range sectors {
		if sector.ID == "" || sector.Name == "" {
			t.Errorf("sector %d has empty fields: %+v", i, sector)
		}
		if seen[sector.Name] {
			t.Errorf("duplicate sector name %q", sector.Name)
		}
		seen[sector.Name] = true
	}
	if !seen["Capital Humano"] {
		t.Errorf("expected the Capital Humano sector to be present")
	}
}

func TestUsersCredentials(t *testing.T) {
	t.Parallel()

	users, err := Users()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 demo accounts, got %d", len(users))
	}

	secrets := map[string]string{
		"egarcia@teco.com.ar":   AdminSecretCode,
		"amartinez@teco.com.ar": "user123",
		"egarciateco@gmail.com": AdminSecretCode,
		"lgomez@teco.com.ar":    "admin123",
	}

	for _, user := range users {
		secret, ok := secrets[user.Email]
		if !ok {
			t.Errorf("unexpected demo account %q", user.Email)
			continue
		}
		if user.PasswordHash == secret {
			t.Errorf("account %q stores its secret in plain text", user.Email)
		}
		if err := application.VerifyCredential(user.PasswordHash, secret); err != nil {
			t.Errorf("account %q does not verify against its secret: %v", user.Email, err)
		}
		if err := application.VerifyCredential(user.PasswordHash, "wrong"); !errors.Is(err, application.ErrInvalidCredentials) {
			t.Errorf("account %q accepted a wrong secret: %v", user.Email, err)
		}
	}
}

func TestUsersAdministratorsHaveNoSector(t *testing.T) {
	t.Parallel()

	users, err := Users()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, user := range users {
		// The gmail demo account keeps its sector on purpose; it mirrors a
		// promoted user whose sector predates the promotion.
		if user.Role == "Administrador" && user.Email != "egarciateco@gmail.com" && user.Sector != "" {
			t.Errorf("administrator %q carries sector %q", user.Email, user.Sector)
		}
	}
}

func TestBookingsLandInTheCurrentWeek(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 6, 15, 30, 0, 0, time.UTC)
	weekStart := agenda.WeekStart(now)

	bookings := Bookings(now)
	if len(bookings) != 3 {
		t.Fatalf("expected 3 demo bookings, got %d", len(bookings))
	}

	for _, booking := range bookings {
		date, err := agenda.ParseDate(booking.Date)
		if err != nil {
			t.Fatalf("booking %s has an invalid date %q: %v", booking.ID, booking.Date, err)
		}
		offset := int(date.Sub(weekStart).Hours() / 24)
		if offset < 0 || offset > 4 {
			t.Errorf("booking %s falls outside the working week: %s", booking.ID, booking.Date)
		}
		if !agenda.DefaultGrid.Contains(booking.StartTime) {
			t.Errorf("booking %s starts outside the grid: %d", booking.ID, booking.StartTime)
		}
		if booking.Duration < 1 || booking.Duration > agenda.DefaultGrid.MaxDuration {
			t.Errorf("booking %s has an invalid duration %d", booking.ID, booking.Duration)
		}
	}

	if bookings[0].Date != agenda.FormatDate(weekStart) {
		t.Errorf("expected the first booking on Monday, got %s", bookings[0].Date)
	}
}

func TestSettings(t *testing.T) {
	t.Parallel()

	settings := Settings()
	if settings.AdminSecretCode != AdminSecretCode {
		t.Errorf("unexpected admin secret %q", settings.AdminSecretCode)
	}
	if settings.LogoURL == "" || settings.BackgroundImageURL == "" || settings.HomeBackgroundImageURL == "" {
		t.Errorf("expected all image URLs to be set: %+v", settings)
	}
	if settings.ShareableURL == "" {
		t.Errorf("expected a shareable URL")
	}
}
