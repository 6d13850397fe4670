package application

import (
	"context"
	"fmt"
	"log/slog"
)

// SettingsStore persists the application settings document.
type SettingsStore interface {
	SettingsReader
	SaveSettings(ctx context.Context, settings AppSettings) error
}

// SettingsService reads and patches the application settings. Reading is
// open to any caller since the settings drive public presentation; patching
// requires an administrator.
type SettingsService struct {
	settings SettingsStore
	logger   *slog.Logger
}

// NewSettingsService wires dependencies for settings operations.
func NewSettingsService(settings SettingsStore) *SettingsService {
	return NewSettingsServiceWithLogger(settings, nil)
}

// NewSettingsServiceWithLogger constructs a settings service with a specified logger.
func NewSettingsServiceWithLogger(settings SettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: defaultLogger(logger)}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (AppSettings, error) {
	if s == nil {
		return AppSettings{}, fmt.Errorf("SettingsService is nil")
	}
	return s.settings.Settings(ctx)
}

// Update applies a merge patch: only the fields present in the patch change,
// everything else keeps its stored value.
func (s *SettingsService) Update(ctx context.Context, principal Principal, patch SettingsPatch) (settings AppSettings, err error) {
	if s == nil {
		err = fmt.Errorf("SettingsService is nil")
		return
	}

	logger := serviceLogger(ctx, s.logger, "SettingsService", "Update", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update settings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "settings updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	current, getErr := s.settings.Settings(ctx)
	if getErr != nil {
		err = getErr
		return
	}

	if patch.LogoURL != nil {
		current.LogoURL = *patch.LogoURL
	}
	if patch.BackgroundImageURL != nil {
		current.BackgroundImageURL = *patch.BackgroundImageURL
	}
	if patch.HomeBackgroundImageURL != nil {
		current.HomeBackgroundImageURL = *patch.HomeBackgroundImageURL
	}
	if patch.AdminSecretCode != nil {
		current.AdminSecretCode = *patch.AdminSecretCode
	}
	if patch.ShareableURL != nil {
		current.ShareableURL = *patch.ShareableURL
	}

	if saveErr := s.settings.SaveSettings(ctx, current); saveErr != nil {
		err = saveErr
		return
	}
	settings = current
	return
}
