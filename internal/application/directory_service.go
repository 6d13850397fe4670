package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SectorStore persists the sector catalog as a whole document.
type SectorStore interface {
	ListSectors(ctx context.Context) ([]Sector, error)
	SaveSectors(ctx context.Context, sectors []Sector) error
}

// RoleStore persists the role catalog as a whole document.
type RoleStore interface {
	RoleDirectory
	SaveRoles(ctx context.Context, roles []Role) error
}

// DirectoryService maintains the sector and role catalogs. Reads are open to
// any caller; mutations require an administrator. Deleting a catalog entry
// never touches the users referencing it.
type DirectoryService struct {
	sectors     SectorStore
	roles       RoleStore
	idGenerator func() string
	logger      *slog.Logger
}

// NewDirectoryService wires dependencies for catalog operations.
func NewDirectoryService(sectors SectorStore, roles RoleStore, idGenerator func() string) *DirectoryService {
	return NewDirectoryServiceWithLogger(sectors, roles, idGenerator, nil)
}

// NewDirectoryServiceWithLogger constructs a directory service with a specified logger.
func NewDirectoryServiceWithLogger(sectors SectorStore, roles RoleStore, idGenerator func() string, logger *slog.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &DirectoryService{
		sectors:     sectors,
		roles:       roles,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

// ListSectors returns the sector catalog.
func (s *DirectoryService) ListSectors(ctx context.Context) ([]Sector, error) {
	if s == nil {
		return nil, fmt.Errorf("DirectoryService is nil")
	}
	return s.sectors.ListSectors(ctx)
}

// CreateSector appends a named sector to the catalog.
func (s *DirectoryService) CreateSector(ctx context.Context, principal Principal, name string) (sector Sector, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateSector", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create sector", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("sector_id", sector.ID).InfoContext(ctx, "sector created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	existing, listErr := s.sectors.ListSectors(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	sector = Sector{ID: s.idGenerator(), Name: name}
	if saveErr := s.sectors.SaveSectors(ctx, append(append([]Sector(nil), existing...), sector)); saveErr != nil {
		err = saveErr
		sector = Sector{}
	}
	return
}

// UpdateSector renames a sector.
func (s *DirectoryService) UpdateSector(ctx context.Context, principal Principal, sectorID, name string) (sector Sector, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSector", "principal_id", principal.UserID, "sector_id", sectorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update sector", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sector updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	existing, listErr := s.sectors.ListSectors(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	index := -1
	for i, sec := range existing {
		if sec.ID == sectorID {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	replacement := append([]Sector(nil), existing...)
	replacement[index].Name = name

	if saveErr := s.sectors.SaveSectors(ctx, replacement); saveErr != nil {
		err = saveErr
		return
	}
	sector = replacement[index]
	return
}

// DeleteSector removes a sector from the catalog. Users assigned to it keep
// the now-dangling sector name.
func (s *DirectoryService) DeleteSector(ctx context.Context, principal Principal, sectorID string) (err error) {
	if s == nil {
		return fmt.Errorf("DirectoryService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteSector", "principal_id", principal.UserID, "sector_id", sectorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete sector", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sector deleted")
	}()

	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	existing, listErr := s.sectors.ListSectors(ctx)
	if listErr != nil {
		return listErr
	}

	replacement := make([]Sector, 0, len(existing))
	for _, sec := range existing {
		if sec.ID != sectorID {
			replacement = append(replacement, sec)
		}
	}
	if len(replacement) == len(existing) {
		return ErrNotFound
	}
	return s.sectors.SaveSectors(ctx, replacement)
}

// ListRoles returns the role catalog.
func (s *DirectoryService) ListRoles(ctx context.Context) ([]Role, error) {
	if s == nil {
		return nil, fmt.Errorf("DirectoryService is nil")
	}
	return s.roles.ListRoles(ctx)
}

// CreateRole appends a named role to the catalog. New roles are never
// privileged; privilege belongs to the seeded administrator role only.
func (s *DirectoryService) CreateRole(ctx context.Context, principal Principal, name string) (role Role, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRole", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create role", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("role_id", role.ID).InfoContext(ctx, "role created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	existing, listErr := s.roles.ListRoles(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	role = Role{ID: s.idGenerator(), Name: name, Privileged: false}
	if saveErr := s.roles.SaveRoles(ctx, append(append([]Role(nil), existing...), role)); saveErr != nil {
		err = saveErr
		role = Role{}
	}
	return
}

// UpdateRole renames a role, preserving its privilege flag.
func (s *DirectoryService) UpdateRole(ctx context.Context, principal Principal, roleID, name string) (role Role, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRole", "principal_id", principal.UserID, "role_id", roleID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update role", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "role updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	existing, listErr := s.roles.ListRoles(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	index := -1
	for i, r := range existing {
		if r.ID == roleID {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	replacement := append([]Role(nil), existing...)
	replacement[index].Name = name

	if saveErr := s.roles.SaveRoles(ctx, replacement); saveErr != nil {
		err = saveErr
		return
	}
	role = replacement[index]
	return
}

// DeleteRole removes a role from the catalog. Users assigned to it keep the
// now-dangling role name and are treated as non-privileged on next lookup.
func (s *DirectoryService) DeleteRole(ctx context.Context, principal Principal, roleID string) (err error) {
	if s == nil {
		return fmt.Errorf("DirectoryService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteRole", "principal_id", principal.UserID, "role_id", roleID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete role", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "role deleted")
	}()

	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	existing, listErr := s.roles.ListRoles(ctx)
	if listErr != nil {
		return listErr
	}

	replacement := make([]Role, 0, len(existing))
	for _, r := range existing {
		if r.ID != roleID {
			replacement = append(replacement, r)
		}
	}
	if len(replacement) == len(existing) {
		return ErrNotFound
	}
	return s.roles.SaveRoles(ctx, replacement)
}
