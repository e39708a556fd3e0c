package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/klokku/moneypro/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PasswordChangeDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser godoc
// @Summary Register a new user
// @Tags User
// @Accept json
// @Produce json
// @Param user body RegisterDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Email already registered"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering user")

	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	created, err := h.userService.Register(r.Context(), dto.Name, dto.Email, dto.Password)
	if err != nil {
		writeUserError(w, err)
		return
	}
	log.Tracef("Registered user: %+v", created.Uid)

	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

// CurrentUser godoc
// @Summary Get current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {object} rest.ErrorResponse "User not found"
// @Router /api/user/current [get]
// @Security BearerToken
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(u))
}

// UpdateUser godoc
// @Summary Update current user's profile
// @Tags User
// @Accept json
// @Produce json
// @Param profile body ProfileDTO true "Profile"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Email already registered"
// @Router /api/user/current [put]
// @Security BearerToken
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating user profile")

	var dto ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), dto.Name, dto.Email)
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

// ChangePassword godoc
// @Summary Change current user's password
// @Tags User
// @Accept json
// @Param password body PasswordChangeDTO true "Passwords"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 401 {object} rest.ErrorResponse "Current password does not match"
// @Router /api/user/current/password [put]
// @Security BearerToken
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log.Debug("Changing user password")

	var dto PasswordChangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), dto.CurrentPassword, dto.NewPassword); err != nil {
		writeUserError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserDataInvalid):
		rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
	case errors.Is(err, ErrEmailTaken):
		rest.WriteError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		rest.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found")
	case errors.Is(err, ErrUserNotFound):
		rest.WriteError(w, http.StatusNotFound, "User not found")
	default:
		log.Errorf("user request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func ToDTO(u User) UserDTO {
	return UserDTO{
		Uid:       u.Uid,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
