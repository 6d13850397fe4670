package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/room-agenda/internal/application"
)

type settingsService interface {
	Get(ctx context.Context) (application.AppSettings, error)
	Update(ctx context.Context, principal application.Principal, patch application.SettingsPatch) (application.AppSettings, error)
}

type SettingsHandler struct {
	service   settingsService
	responder responder
	logger    *slog.Logger
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	base := defaultLogger(logger)
	return &SettingsHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SettingsHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SettingsHandler", operation, attrs...)
}

// Get returns the settings. The admin secret is only included for
// administrators.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Get")
	settings, err := h.service.Get(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "settings lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	h.responder.writeJSON(r.Context(), w, http.StatusOK, settingsResponse{
		Settings: toSettingsDTO(settings, principal.IsAdmin),
	})
}

// Patch applies a partial settings update.
func (h *SettingsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req settingsPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Patch", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode settings patch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Patch", "principal_id", principal.UserID)

	settings, err := h.service.Update(r.Context(), principal, req.toPatch())
	if err != nil {
		logger.ErrorContext(r.Context(), "settings update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "settings updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, settingsResponse{
		Settings: toSettingsDTO(settings, principal.IsAdmin),
	})
}

type settingsPatchRequest struct {
	LogoURL                *string `json:"logo_url"`
	BackgroundImageURL     *string `json:"background_image_url"`
	HomeBackgroundImageURL *string `json:"home_background_image_url"`
	AdminSecretCode        *string `json:"admin_secret_code"`
	ShareableURL           *string `json:"shareable_url"`
}

func (r settingsPatchRequest) toPatch() application.SettingsPatch {
	return application.SettingsPatch{
		LogoURL:                r.LogoURL,
		BackgroundImageURL:     r.BackgroundImageURL,
		HomeBackgroundImageURL: r.HomeBackgroundImageURL,
		AdminSecretCode:        r.AdminSecretCode,
		ShareableURL:           r.ShareableURL,
	}
}

type settingsDTO struct {
	LogoURL                string `json:"logo_url"`
	BackgroundImageURL     string `json:"background_image_url"`
	HomeBackgroundImageURL string `json:"home_background_image_url"`
	AdminSecretCode        string `json:"admin_secret_code,omitempty"`
	ShareableURL           string `json:"shareable_url"`
}

type settingsResponse struct {
	Settings settingsDTO `json:"settings"`
}

func toSettingsDTO(settings application.AppSettings, includeSecret bool) settingsDTO {
	dto := settingsDTO{
		LogoURL:                settings.LogoURL,
		BackgroundImageURL:     settings.BackgroundImageURL,
		HomeBackgroundImageURL: settings.HomeBackgroundImageURL,
		ShareableURL:           settings.ShareableURL,
	}
	if includeSecret {
		dto.AdminSecretCode = settings.AdminSecretCode
	}
	return dto
}
