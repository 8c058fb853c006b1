package handlers

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/database"
)

// EnsureDatabase guarantees a live store connection before a data-touching
// handler runs. In lazy startup mode this is where the first connection is
// made; in eager mode it only repairs a connection lost after boot. When
// the store stays unreachable the client gets a 503 envelope, never a
// crash or a hang on a half-initialized handle.
func EnsureDatabase(db *database.Database) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if db.Status() != database.Connected {
				if err := db.Connect(r.Context()); err != nil {
					log.Warn().Err(err).Msg("Request rejected, store unreachable")
					respondError(w, r, database.ErrNotConnected)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth protects routes behind a valid session token. The token is
// read from the Authorization header, falling back to the session cookie;
// verified claims are stored on the request context.
func RequireAuth(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.TokenFromRequest(r)
			if tokenStr == "" {
				respondError(w, r, fmt.Errorf("%w: missing auth token", auth.ErrInvalidToken))
				return
			}

			claims, err := tokens.Validate(tokenStr)
			if err != nil {
				respondError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
