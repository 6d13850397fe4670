package application

import (
	"context"
	"errors"
	"testing"
)

func TestSettingsService_Get(t *testing.T) {
	t.Parallel()

	store := &stubSettingsStore{settings: AppSettings{LogoURL: "https://example.com/logo.png"}}
	service := NewSettingsService(store)

	settings, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LogoURL != "https://example.com/logo.png" {
		t.Fatalf("expected stored settings, got %+v", settings)
	}
}

func TestSettingsService_Update(t *testing.T) {
	t.Parallel()

	base := AppSettings{
		LogoURL:         "https://example.com/logo.png",
		AdminSecretCode: "TECO2025",
		ShareableURL:    "https://example.com/",
	}

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		service := NewSettingsService(&stubSettingsStore{settings: base})
		_, err := service.Update(context.Background(), Principal{UserID: "u1"}, SettingsPatch{})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("applies only the fields present in the patch", func(t *testing.T) {
		t.Parallel()

		store := &stubSettingsStore{settings: base}
		service := NewSettingsService(store)

		newLogo := "https://example.com/new-logo.png"
		settings, err := service.Update(context.Background(), adminPrincipal, SettingsPatch{LogoURL: &newLogo})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.LogoURL != newLogo {
			t.Fatalf("expected patched logo, got %q", settings.LogoURL)
		}
		if settings.AdminSecretCode != "TECO2025" || settings.ShareableURL != "https://example.com/" {
			t.Fatalf("expected untouched fields to survive, got %+v", settings)
		}
	})

	t.Run("can clear a field with an explicit empty string", func(t *testing.T) {
		t.Parallel()

		store := &stubSettingsStore{settings: base}
		service := NewSettingsService(store)

		empty := ""
		settings, err := service.Update(context.Background(), adminPrincipal, SettingsPatch{ShareableURL: &empty})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.ShareableURL != "" {
			t.Fatalf("expected cleared field, got %q", settings.ShareableURL)
		}
	})

	t.Run("changing the admin secret affects future checks", func(t *testing.T) {
		t.Parallel()

		store := &stubSettingsStore{settings: base}
		service := NewSettingsService(store)

		newSecret := "NUEVO2026"
		if _, err := service.Update(context.Background(), adminPrincipal, SettingsPatch{AdminSecretCode: &newSecret}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.settings.AdminSecretCode != "NUEVO2026" {
			t.Fatalf("expected persisted secret change, got %q", store.settings.AdminSecretCode)
		}
	})

	t.Run("propagates persistence failures", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("write failed")
		service := NewSettingsService(&stubSettingsStore{settings: base, saveErr: wantErr})
		if _, err := service.Update(context.Background(), adminPrincipal, SettingsPatch{}); !errors.Is(err, wantErr) {
			t.Fatalf("expected save error, got %v", err)
		}
	})
}
