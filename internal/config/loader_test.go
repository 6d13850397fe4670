package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AGENDA_HTTP_PORT",
		"AGENDA_SQLITE_DSN",
		"AGENDA_NOTIFY_TIMEOUT",
		"EMAILJS_BASE_URL",
		"EMAILJS_SERVICE_ID",
		"EMAILJS_TEMPLATE_ID",
		"EMAILJS_PUBLIC_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:agenda.db?_foreign_keys=on" {
		t.Errorf("unexpected default DSN %q", cfg.SQLiteDSN)
	}
	if cfg.NotifyTimeout != 30*time.Second {
		t.Errorf("unexpected default timeout %s", cfg.NotifyTimeout)
	}
	if cfg.EmailJS.BaseURL != "https://api.emailjs.com" {
		t.Errorf("unexpected default EmailJS base URL %q", cfg.EmailJS.BaseURL)
	}
	if cfg.EmailJS.ServiceID != "" || cfg.EmailJS.TemplateID != "" || cfg.EmailJS.PublicKey != "" {
		t.Errorf("expected empty EmailJS identifiers, got %+v", cfg.EmailJS)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENDA_HTTP_PORT", "9090")
	t.Setenv("AGENDA_SQLITE_DSN", "file::memory:?cache=shared")
	t.Setenv("AGENDA_NOTIFY_TIMEOUT", "90s")
	t.Setenv("EMAILJS_BASE_URL", "https://emailjs.example.test")
	t.Setenv("EMAILJS_SERVICE_ID", "svc_1")
	t.Setenv("EMAILJS_TEMPLATE_ID", "tpl_1")
	t.Setenv("EMAILJS_PUBLIC_KEY", "pk_1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file::memory:?cache=shared" {
		t.Errorf("unexpected DSN %q", cfg.SQLiteDSN)
	}
	if cfg.NotifyTimeout != 90*time.Second {
		t.Errorf("unexpected timeout %s", cfg.NotifyTimeout)
	}
	if cfg.EmailJS.ServiceID != "svc_1" || cfg.EmailJS.TemplateID != "tpl_1" || cfg.EmailJS.PublicKey != "pk_1" {
		t.Errorf("unexpected EmailJS identifiers %+v", cfg.EmailJS)
	}
}

func TestLoadCollectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENDA_HTTP_PORT", "not-a-number")
	t.Setenv("AGENDA_NOTIFY_TIMEOUT", "-5s")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected an error for invalid values")
	}
	for _, name := range []string{"AGENDA_HTTP_PORT", "AGENDA_NOTIFY_TIMEOUT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to name %s, got %q", name, err)
		}
	}
}

func TestLoadRejectsNonPositivePort(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENDA_HTTP_PORT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a non positive port")
	}
}
