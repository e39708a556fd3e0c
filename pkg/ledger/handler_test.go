package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/moneypro/internal/event_bus"
	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, *transaction.RepositoryStub) {
	repo := transaction.NewRepositoryStub()
	handler := NewHandler(NewRegistry(repo, event_bus.NewEventBus()))
	router := mux.NewRouter()
	router.HandleFunc("/api/transaction", handler.List).Methods("GET")
	router.HandleFunc("/api/transaction", handler.Append).Methods("POST")
	router.HandleFunc("/api/transaction/reload", handler.Reload).Methods("POST")
	router.HandleFunc("/api/transaction/{id}", handler.Remove).Methods("DELETE")
	return router, repo
}

func request(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(contextFor(userId))
}

func TestHandler_Append(t *testing.T) {
	t.Run("should create transaction", func(t *testing.T) {
		// given
		router, repo := setupHandler(t)
		body := `{"type":"expense","description":"Supermercado Extra","category":"Alimentação","value":450,"date":"2024-12-01"}`

		// when
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("POST", "/api/transaction", body))

		// then
		require.Equal(t, http.StatusCreated, rr.Code)
		var created TransactionDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
		assert.NotEmpty(t, created.Id)
		assert.Equal(t, "2024-12-01", created.Date)
		assert.Equal(t, 450.0, created.Value)
		assert.Equal(t, 1, repo.StoreCalls)
	})

	t.Run("should reject invalid transaction with 400", func(t *testing.T) {
		router, repo := setupHandler(t)
		body := `{"type":"expense","description":"","category":"Alimentação","value":450,"date":"2024-12-01"}`

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("POST", "/api/transaction", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "description")
		assert.Equal(t, 0, repo.StoreCalls)
	})

	t.Run("should reject id that is not a uuid with 400", func(t *testing.T) {
		router, repo := setupHandler(t)
		body := `{"id":"0123456789012345678901234567890123456789","type":"expense","description":"x","category":"Lazer","value":1,"date":"2024-12-01"}`

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("POST", "/api/transaction", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "must be a UUID")
		assert.Equal(t, 0, repo.StoreCalls)
	})

	t.Run("should map repeated id to 409", func(t *testing.T) {
		router, repo := setupHandler(t)
		id := "0b6f7c1e-3c52-4c4e-9f3a-2f1d5b7a9e10"
		repo.Seed(userId, txn(id, transaction.Expense, "Lazer", 1, now))
		body := `{"id":"` + id + `","type":"expense","description":"x","category":"Lazer","value":1,"date":"2024-12-01"}`

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("POST", "/api/transaction", body))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("should reject malformed date with 400", func(t *testing.T) {
		router, _ := setupHandler(t)
		body := `{"type":"expense","description":"x","category":"Lazer","value":1,"date":"01/12/2024"}`

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("POST", "/api/transaction", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should map write failure to 500", func(t *testing.T) {
		router, repo := setupHandler(t)
		repo.StoreErr = errors.New("disk full")
		body := `{"type":"income","description":"Salário","category":"Salário","value":5500,"date":"2024-12-05"}`

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("POST", "/api/transaction", body))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("should list transactions newest first", func(t *testing.T) {
		// given
		router, repo := setupHandler(t)
		repo.Seed(userId,
			txn("1", transaction.Expense, "Moradia", 180, now.AddDate(0, 0, -3)),
			txn("2", transaction.Income, "Salário", 5500, now),
		)

		// when
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("GET", "/api/transaction", ""))

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var listed []TransactionDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&listed))
		require.Len(t, listed, 2)
		assert.Equal(t, "2", listed[0].Id)
	})

	t.Run("should map fetch failure to 502", func(t *testing.T) {
		router, repo := setupHandler(t)
		repo.ListErr = errors.New("db down")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("GET", "/api/transaction", ""))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("should reject request without user", func(t *testing.T) {
		router, _ := setupHandler(t)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/transaction", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestHandler_Remove(t *testing.T) {
	t.Run("should delete transaction", func(t *testing.T) {
		router, repo := setupHandler(t)
		repo.Seed(userId, txn("1", transaction.Expense, "Moradia", 180, now))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("DELETE", "/api/transaction/1", ""))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, 1, repo.DeleteCalls)
	})

	t.Run("should return 404 for unknown id", func(t *testing.T) {
		router, _ := setupHandler(t)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, request("DELETE", "/api/transaction/missing", ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandler_Reload(t *testing.T) {
	// given
	router, repo := setupHandler(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, request("GET", "/api/transaction", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	repo.Seed(userId, txn("late", transaction.Expense, "Lazer", 30, now))

	// when
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, request("POST", "/api/transaction/reload", ""))

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var reloaded []TransactionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&reloaded))
	require.Len(t, reloaded, 1)
	assert.Equal(t, "late", reloaded[0].Id)
	assert.Equal(t, 2, repo.ListCalls)
}
