package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EmailJS holds the account identifiers for the notification provider. An
// account with any empty identifier disables email delivery.
type EmailJS struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Config captures environment driven configuration values for the agenda
// service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	NotifyTimeout time.Duration
	EmailJS       EmailJS
}

// Load parses configuration values from the current process environment.
//
// Every value has a sensible default; nothing is required. Invalid values
// are collected and reported together with localized error messages.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:agenda.db?_foreign_keys=on",
		NotifyTimeout: 30 * time.Second,
		EmailJS: EmailJS{
			BaseURL: "https://api.emailjs.com",
		},
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("AGENDA_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "AGENDA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("AGENDA_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("AGENDA_NOTIFY_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "AGENDA_NOTIFY_TIMEOUT")
		} else {
			cfg.NotifyTimeout = timeout
		}
	}

	if baseURL := strings.TrimSpace(os.Getenv("EMAILJS_BASE_URL")); baseURL != "" {
		cfg.EmailJS.BaseURL = baseURL
	}
	cfg.EmailJS.ServiceID = strings.TrimSpace(os.Getenv("EMAILJS_SERVICE_ID"))
	cfg.EmailJS.TemplateID = strings.TrimSpace(os.Getenv("EMAILJS_TEMPLATE_ID"))
	cfg.EmailJS.PublicKey = strings.TrimSpace(os.Getenv("EMAILJS_PUBLIC_KEY"))

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variables de entorno con valores inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
