package http

import (
	"context"

	"github.com/example/room-agenda/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	userIDContextKey    contextKey = "user_id"
	bookingIDContextKey contextKey = "booking_id"
	sectorIDContextKey  contextKey = "sector_id"
	roleIDContextKey    contextKey = "role_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithBookingID injects the booking identifier resolved from the request path.
func ContextWithBookingID(ctx context.Context, bookingID string) context.Context {
	return context.WithValue(ctx, bookingIDContextKey, bookingID)
}

// BookingIDFromContext extracts a booking identifier previously associated with the context.
func BookingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(bookingIDContextKey).(string)
	return id, ok
}

// ContextWithSectorID injects the sector identifier resolved from the request path.
func ContextWithSectorID(ctx context.Context, sectorID string) context.Context {
	return context.WithValue(ctx, sectorIDContextKey, sectorID)
}

// SectorIDFromContext extracts a sector identifier previously associated with the context.
func SectorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sectorIDContextKey).(string)
	return id, ok
}

// ContextWithRoleID injects the role identifier resolved from the request path.
func ContextWithRoleID(ctx context.Context, roleID string) context.Context {
	return context.WithValue(ctx, roleIDContextKey, roleID)
}

// RoleIDFromContext extracts a role identifier previously associated with the context.
func RoleIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roleIDContextKey).(string)
	return id, ok
}
