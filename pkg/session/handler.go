package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/klokku/moneypro/internal/rest"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionDTO struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      user.UserDTO `json:"user"`
}

type Handler struct {
	service  Service
	onLogout func(userId int)
}

// NewHandler creates the session handler. onLogout is called with the id of the
// user whose session was revoked.
func NewHandler(service Service, onLogout func(userId int)) *Handler {
	return &Handler{service: service, onLogout: onLogout}
}

// Login godoc
// @Summary Log in with email and password
// @Tags Session
// @Accept json
// @Produce json
// @Param credentials body LoginDTO true "Credentials"
// @Success 201 {object} SessionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 401 {object} rest.ErrorResponse "Invalid email or password"
// @Router /api/session [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging in")

	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	session, u, err := h.service.Login(r.Context(), dto.Email, dto.Password)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	rest.WriteJSON(w, http.StatusCreated, SessionDTO{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user.ToDTO(u),
	})
}

// Logout godoc
// @Summary Revoke the current session
// @Tags Session
// @Success 204 "No Content"
// @Failure 401 {object} rest.ErrorResponse "Invalid session"
// @Router /api/session [delete]
// @Security BearerToken
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging out")

	userId, err := h.service.Logout(r.Context(), TokenFromRequest(r))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if h.onLogout != nil {
		h.onLogout(userId)
	}

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		rest.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrInvalidSession):
		rest.WriteError(w, http.StatusUnauthorized, "Invalid session")
	default:
		log.Errorf("session request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// TokenFromRequest reads the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if found {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
