package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/moneypro/internal/rest"
	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Id          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Value       float64 `json:"value"`
	Date        string  `json:"date"`
}

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// List godoc
// @Summary List transactions of the current user
// @Tags Transaction
// @Produce json
// @Success 200 {array} TransactionDTO
// @Failure 502 {object} rest.ErrorResponse "Transactions could not be fetched"
// @Router /api/transaction [get]
// @Security BearerToken
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing transactions")
	store, err := h.registry.Get(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTOs(store.Transactions()))
}

// Append godoc
// @Summary Record a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid transaction"
// @Failure 409 {object} rest.ErrorResponse "Transaction already exists"
// @Failure 500 {object} rest.ErrorResponse "Transaction could not be stored"
// @Router /api/transaction [post]
// @Security BearerToken
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	log.Debug("Appending transaction")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	log.Tracef("Transaction to append: %+v", dto)

	txn, err := FromDTO(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction", err.Error())
		return
	}

	store, err := h.registry.Get(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	stored, err := store.Append(r.Context(), txn)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(stored))
}

// Remove godoc
// @Summary Delete a transaction
// @Tags Transaction
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Transaction not found"
// @Failure 500 {object} rest.ErrorResponse "Transaction could not be deleted"
// @Router /api/transaction/{id} [delete]
// @Security BearerToken
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("Removing transaction %s", id)

	store, err := h.registry.Get(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if err := store.Remove(r.Context(), id); err != nil {
		writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reload godoc
// @Summary Reload transactions from storage
// @Tags Transaction
// @Produce json
// @Success 200 {array} TransactionDTO
// @Failure 502 {object} rest.ErrorResponse "Transactions could not be fetched"
// @Router /api/transaction/reload [post]
// @Security BearerToken
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reloading transactions")
	store, err := h.registry.Get(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	transactions, err := store.Load(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTOs(transactions))
}

func writeLedgerError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var fetchErr *FetchError
	var writeErr *WriteError
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found")
	case errors.As(err, &validationErr):
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction", validationErr.Error())
	case errors.As(err, &fetchErr):
		rest.WriteError(w, http.StatusBadGateway, "Transactions could not be fetched")
	case errors.As(err, &writeErr) && errors.Is(err, transaction.ErrTransactionNotFound):
		rest.WriteError(w, http.StatusNotFound, "Transaction not found")
	case errors.As(err, &writeErr) && errors.Is(err, transaction.ErrTransactionExists):
		rest.WriteError(w, http.StatusConflict, "Transaction already exists")
	case errors.As(err, &writeErr):
		rest.WriteError(w, http.StatusInternalServerError, "Transaction could not be saved")
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// FromDTO converts a request body into a transaction. Only the date is checked
// here; the remaining shape checks run in Store.Append.
func FromDTO(dto TransactionDTO) (transaction.Transaction, error) {
	date, err := transaction.ParseDate(dto.Date)
	if err != nil {
		return transaction.Transaction{}, errors.New("date: must be formatted as YYYY-MM-DD")
	}
	return transaction.Transaction{
		Id:          dto.Id,
		Type:        transaction.Type(dto.Type),
		Description: dto.Description,
		Category:    dto.Category,
		Value:       dto.Value,
		Date:        date,
	}, nil
}

func ToDTO(t transaction.Transaction) TransactionDTO {
	return TransactionDTO{
		Id:          t.Id,
		Type:        string(t.Type),
		Description: t.Description,
		Category:    t.Category,
		Value:       t.Value,
		Date:        t.Date.Format(transaction.DateLayout),
	}
}

func ToDTOs(transactions []transaction.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, ToDTO(t))
	}
	return dtos
}
