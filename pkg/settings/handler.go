package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/klokku/moneypro/internal/rest"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	MonthlyBudget        *float64 `json:"monthlyBudget"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
	BudgetAlertsEnabled  bool     `json:"budgetAlertsEnabled"`
	ReminderEnabled      bool     `json:"reminderEnabled"`
	// BudgetCeiling is the effective monthly budget, read only.
	BudgetCeiling float64 `json:"budgetCeiling"`
}

type CategoryBudgetDTO struct {
	Id           int     `json:"id"`
	CategoryName string  `json:"categoryName"`
	BudgetLimit  float64 `json:"budgetLimit"`
}

type CustomCategoryDTO struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Get godoc
// @Summary Get current user's settings
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings [get]
// @Security BearerToken
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting settings")
	current, err := h.service.Get(r.Context())
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	h.writeSettings(w, r, current)
}

// Update godoc
// @Summary Update current user's settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid settings"
// @Router /api/settings [put]
// @Security BearerToken
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating settings")
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	updated, err := h.service.Update(r.Context(), Settings{
		MonthlyBudget:        dto.MonthlyBudget,
		NotificationsEnabled: dto.NotificationsEnabled,
		BudgetAlertsEnabled:  dto.BudgetAlertsEnabled,
		ReminderEnabled:      dto.ReminderEnabled,
	})
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	h.writeSettings(w, r, updated)
}

func (h *Handler) writeSettings(w http.ResponseWriter, r *http.Request, s Settings) {
	ceiling, err := h.service.BudgetCeiling(r.Context())
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SettingsDTO{
		MonthlyBudget:        s.MonthlyBudget,
		NotificationsEnabled: s.NotificationsEnabled,
		BudgetAlertsEnabled:  s.BudgetAlertsEnabled,
		ReminderEnabled:      s.ReminderEnabled,
		BudgetCeiling:        ceiling,
	})
}

// ListCategoryBudgets godoc
// @Summary List category budgets
// @Tags Settings
// @Produce json
// @Success 200 {array} CategoryBudgetDTO
// @Router /api/settings/category-budget [get]
// @Security BearerToken
func (h *Handler) ListCategoryBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.service.ListCategoryBudgets(r.Context())
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	dtos := make([]CategoryBudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		dtos = append(dtos, categoryBudgetToDTO(b))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// AddCategoryBudget godoc
// @Summary Add a category budget
// @Tags Settings
// @Accept json
// @Produce json
// @Param budget body CategoryBudgetDTO true "Category budget"
// @Success 201 {object} CategoryBudgetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid category budget"
// @Failure 409 {object} rest.ErrorResponse "Category budget already exists"
// @Router /api/settings/category-budget [post]
// @Security BearerToken
func (h *Handler) AddCategoryBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding category budget")
	var dto CategoryBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	created, err := h.service.AddCategoryBudget(r.Context(), CategoryBudget{CategoryName: dto.CategoryName, BudgetLimit: dto.BudgetLimit})
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, categoryBudgetToDTO(created))
}

// UpdateCategoryBudget godoc
// @Summary Update a category budget
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path int true "Category budget ID"
// @Param budget body CategoryBudgetDTO true "Category budget"
// @Success 200 {object} CategoryBudgetDTO
// @Failure 404 {object} rest.ErrorResponse "Category budget not found"
// @Router /api/settings/category-budget/{id} [put]
// @Security BearerToken
func (h *Handler) UpdateCategoryBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	log.Debugf("Updating category budget %d", id)
	var dto CategoryBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	updated, err := h.service.UpdateCategoryBudget(r.Context(), CategoryBudget{Id: id, CategoryName: dto.CategoryName, BudgetLimit: dto.BudgetLimit})
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, categoryBudgetToDTO(updated))
}

// DeleteCategoryBudget godoc
// @Summary Delete a category budget
// @Tags Settings
// @Param id path int true "Category budget ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Category budget not found"
// @Router /api/settings/category-budget/{id} [delete]
// @Security BearerToken
func (h *Handler) DeleteCategoryBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategoryBudget(r.Context(), id); err != nil {
		writeSettingsError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCustomCategories godoc
// @Summary List custom categories
// @Tags Settings
// @Produce json
// @Success 200 {array} CustomCategoryDTO
// @Router /api/settings/category [get]
// @Security BearerToken
func (h *Handler) ListCustomCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCustomCategories(r.Context())
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	dtos := make([]CustomCategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, CustomCategoryDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// AddCustomCategory godoc
// @Summary Add a custom category
// @Tags Settings
// @Accept json
// @Produce json
// @Param category body CustomCategoryDTO true "Custom category"
// @Success 201 {object} CustomCategoryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid custom category"
// @Failure 409 {object} rest.ErrorResponse "Custom category already exists"
// @Router /api/settings/category [post]
// @Security BearerToken
func (h *Handler) AddCustomCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding custom category")
	var dto CustomCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	created, err := h.service.AddCustomCategory(r.Context(), CustomCategory{Name: dto.Name, Color: dto.Color})
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, CustomCategoryDTO(created))
}

// UpdateCustomCategory godoc
// @Summary Update a custom category
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path int true "Custom category ID"
// @Param category body CustomCategoryDTO true "Custom category"
// @Success 200 {object} CustomCategoryDTO
// @Failure 404 {object} rest.ErrorResponse "Custom category not found"
// @Router /api/settings/category/{id} [put]
// @Security BearerToken
func (h *Handler) UpdateCustomCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	log.Debugf("Updating custom category %d", id)
	var dto CustomCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	updated, err := h.service.UpdateCustomCategory(r.Context(), CustomCategory{Id: id, Name: dto.Name, Color: dto.Color})
	if err != nil {
		writeSettingsError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CustomCategoryDTO(updated))
}

// DeleteCustomCategory godoc
// @Summary Delete a custom category
// @Tags Settings
// @Param id path int true "Custom category ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Custom category not found"
// @Router /api/settings/category/{id} [delete]
// @Security BearerToken
func (h *Handler) DeleteCustomCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCustomCategory(r.Context(), id); err != nil {
		writeSettingsError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func categoryBudgetToDTO(b CategoryBudget) CategoryBudgetDTO {
	return CategoryBudgetDTO(b)
}

func writeSettingsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found")
	case errors.Is(err, ErrInvalidSettings):
		rest.WriteError(w, http.StatusBadRequest, "Invalid settings", err.Error())
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrAlreadyExists):
		rest.WriteError(w, http.StatusConflict, "Already exists", err.Error())
	default:
		log.Errorf("settings request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
