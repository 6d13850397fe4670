package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/example/room-agenda/internal/application"
)

// SessionResolver resolves the persisted current session into a principal.
type SessionResolver interface {
	CurrentPrincipal(ctx context.Context) (application.Principal, error)
}

// PublicRoute marks a method and path prefix reachable without a session.
type PublicRoute struct {
	Method string
	Path   string
}

// RequireSession resolves the current session before every request and
// injects the principal into the context. Routes listed as public pass
// through without a session; when a session exists anyway, the principal is
// still attached so handlers can tailor their response.
func RequireSession(resolver SessionResolver, public []PublicRoute, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolver.CurrentPrincipal(r.Context())
			if err == nil {
				ctx := ContextWithPrincipal(r.Context(), principal)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if isPublicRoute(public, r) {
				next.ServeHTTP(w, r)
				return
			}

			switch {
			case errors.Is(err, application.ErrUnauthorized):
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Message: "Es necesario iniciar sesión."})
			default:
				responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "Ocurrió un error al validar la sesión."})
			}
		})
	}
}

func isPublicRoute(public []PublicRoute, r *http.Request) bool {
	for _, route := range public {
		if route.Method != "" && route.Method != r.Method {
			continue
		}
		if r.URL.Path == route.Path {
			return true
		}
	}
	return false
}

// RequestLogger attaches a per-request logger to the context and records
// request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
