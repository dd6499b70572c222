package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"minibnb/internal/domain"
)

type ctxKey int

const actorKey ctxKey = iota

// principalHeader carries the user id verified by the auth gateway in front
// of this service. The gateway owns token verification; we only trust its
// result and never read bearer payloads ourselves.
const principalHeader = "X-User-ID"

// Identity resolves the request principal to a fresh user snapshot. The user
// (and with it the derived role) is re-read from storage on every request so
// a revoked grant or a new host flag takes effect immediately.
func Identity(users domain.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(principalHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthenticated", "invalid principal")
				return
			}
			u, err := users.GetUser(r.Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					writeProblem(w, http.StatusUnauthorized, "Unauthenticated", "unknown principal")
					return
				}
				log.Error().Err(err).Msg("identity lookup failed")
				writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, &u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards routes that need a principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Actor(r) == nil {
			writeProblem(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Actor returns the request's resolved user, nil when anonymous.
func Actor(r *http.Request) *domain.User {
	u, _ := r.Context().Value(actorKey).(*domain.User)
	return u
}
