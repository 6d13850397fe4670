package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-agenda/internal/application"
)

type directoryService interface {
	ListSectors(ctx context.Context) ([]application.Sector, error)
	CreateSector(ctx context.Context, principal application.Principal, name string) (application.Sector, error)
	UpdateSector(ctx context.Context, principal application.Principal, sectorID, name string) (application.Sector, error)
	DeleteSector(ctx context.Context, principal application.Principal, sectorID string) error
	ListRoles(ctx context.Context) ([]application.Role, error)
	CreateRole(ctx context.Context, principal application.Principal, name string) (application.Role, error)
	UpdateRole(ctx context.Context, principal application.Principal, roleID, name string) (application.Role, error)
	DeleteRole(ctx context.Context, principal application.Principal, roleID string) error
}

// DirectoryHandler serves the sector and role catalogs.
type DirectoryHandler struct {
	service   directoryService
	responder responder
	logger    *slog.Logger
}

func NewDirectoryHandler(service directoryService, logger *slog.Logger) *DirectoryHandler {
	base := defaultLogger(logger)
	return &DirectoryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DirectoryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DirectoryHandler", operation, attrs...)
}

func (h *DirectoryHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "ListSectors")
	sectors, err := h.service.ListSectors(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "sector list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSectorsResponse{Sectors: toSectorDTOs(sectors)})
}

func (h *DirectoryHandler) CreateSector(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req catalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateSector", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode sector request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateSector", "principal_id", principal.UserID)

	sector, err := h.service.CreateSector(r.Context(), principal, req.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "sector creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("sector_id", sector.ID).InfoContext(r.Context(), "sector created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sectorResponse{Sector: toSectorDTO(sector)})
}

func (h *DirectoryHandler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sectorID, ok := SectorIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sectorID) == "" {
		h.log(r.Context(), "UpdateSector", "error_kind", "bad_request").ErrorContext(r.Context(), "missing sector id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSectorID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req catalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateSector", "principal_id", principal.UserID, "sector_id", sectorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode sector update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateSector", "principal_id", principal.UserID, "sector_id", sectorID)

	sector, err := h.service.UpdateSector(r.Context(), principal, sectorID, req.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "sector update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "sector updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sectorResponse{Sector: toSectorDTO(sector)})
}

func (h *DirectoryHandler) DeleteSector(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sectorID, ok := SectorIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sectorID) == "" {
		h.log(r.Context(), "DeleteSector", "error_kind", "bad_request").ErrorContext(r.Context(), "missing sector id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSectorID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteSector", "principal_id", principal.UserID, "sector_id", sectorID)

	if err := h.service.DeleteSector(r.Context(), principal, sectorID); err != nil {
		logger.ErrorContext(r.Context(), "sector delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "sector deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *DirectoryHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "ListRoles")
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "role list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRolesResponse{Roles: toRoleDTOs(roles)})
}

func (h *DirectoryHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req catalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateRole", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode role request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateRole", "principal_id", principal.UserID)

	role, err := h.service.CreateRole(r.Context(), principal, req.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "role creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("role_id", role.ID).InfoContext(r.Context(), "role created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roleResponse{Role: toRoleDTO(role)})
}

func (h *DirectoryHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roleID, ok := RoleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roleID) == "" {
		h.log(r.Context(), "UpdateRole", "error_kind", "bad_request").ErrorContext(r.Context(), "missing role id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoleID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req catalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateRole", "principal_id", principal.UserID, "role_id", roleID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode role update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateRole", "principal_id", principal.UserID, "role_id", roleID)

	role, err := h.service.UpdateRole(r.Context(), principal, roleID, req.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "role update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "role updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roleResponse{Role: toRoleDTO(role)})
}

func (h *DirectoryHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roleID, ok := RoleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roleID) == "" {
		h.log(r.Context(), "DeleteRole", "error_kind", "bad_request").ErrorContext(r.Context(), "missing role id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoleID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteRole", "principal_id", principal.UserID, "role_id", roleID)

	if err := h.service.DeleteRole(r.Context(), principal, roleID); err != nil {
		logger.ErrorContext(r.Context(), "role delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "role deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type catalogEntryRequest struct {
	Name string `json:"name"`
}

type sectorDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roleDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Privileged bool   `json:"privileged"`
}

type sectorResponse struct {
	Sector sectorDTO `json:"sector"`
}

type listSectorsResponse struct {
	Sectors []sectorDTO `json:"sectors"`
}

type roleResponse struct {
	Role roleDTO `json:"role"`
}

type listRolesResponse struct {
	Roles []roleDTO `json:"roles"`
}

func toSectorDTO(sector application.Sector) sectorDTO {
	return sectorDTO{ID: sector.ID, Name: sector.Name}
}

func toSectorDTOs(sectors []application.Sector) []sectorDTO {
	if len(sectors) == 0 {
		return nil
	}
	out := make([]sectorDTO, 0, len(sectors))
	for _, sector := range sectors {
		out = append(out, toSectorDTO(sector))
	}
	return out
}

func toRoleDTO(role application.Role) roleDTO {
	return roleDTO{ID: role.ID, Name: role.Name, Privileged: role.Privileged}
}

func toRoleDTOs(roles []application.Role) []roleDTO {
	if len(roles) == 0 {
		return nil
	}
	out := make([]roleDTO, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleDTO(role))
	}
	return out
}
