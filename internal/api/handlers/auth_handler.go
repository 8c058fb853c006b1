package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/services"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	users         services.UserServiceProvider
	tokens        *auth.Manager
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, secureCookies: secureCookies}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninPayload defines the structure for login requests.
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, r, fmt.Errorf("%w: invalid request body", services.ErrInvalidInput))
		return
	}

	user, err := h.users.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Signin handles authentication and session issuance. The token travels
// both as an HttpOnly cookie and in the response body.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var payload SigninPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, r, fmt.Errorf("%w: invalid request body", services.ErrInvalidInput))
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		}
		respondError(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.tokens.TTL(), h.secureCookies))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Signout clears the session cookie. Token verification is stateless, so
// there is nothing to revoke server-side.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearedSessionCookie(h.secureCookies))
	respondMessage(w, http.StatusOK, "signed out")
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, auth.ErrInvalidToken)
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
