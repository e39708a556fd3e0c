package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/current/password", deps.UserHandler.ChangePassword).Methods("PUT")

	// Sessions
	r.HandleFunc("/api/session", deps.SessionHandler.Login).Methods("POST")
	r.HandleFunc("/api/session", deps.SessionHandler.Logout).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transaction", deps.LedgerHandler.List).Methods("GET")
	r.HandleFunc("/api/transaction", deps.LedgerHandler.Append).Methods("POST")
	r.HandleFunc("/api/transaction/reload", deps.LedgerHandler.Reload).Methods("POST")
	r.HandleFunc("/api/transaction/{id}", deps.LedgerHandler.Remove).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetDashboard).Methods("GET")
	r.HandleFunc("/api/dashboard/monthly.csv", deps.DashboardHandler.GetMonthlyCsv).Methods("GET")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Update).Methods("PUT")
	r.HandleFunc("/api/settings/category-budget", deps.SettingsHandler.ListCategoryBudgets).Methods("GET")
	r.HandleFunc("/api/settings/category-budget", deps.SettingsHandler.AddCategoryBudget).Methods("POST")
	r.HandleFunc("/api/settings/category-budget/{id}", deps.SettingsHandler.UpdateCategoryBudget).Methods("PUT")
	r.HandleFunc("/api/settings/category-budget/{id}", deps.SettingsHandler.DeleteCategoryBudget).Methods("DELETE")
	r.HandleFunc("/api/settings/category", deps.SettingsHandler.ListCustomCategories).Methods("GET")
	r.HandleFunc("/api/settings/category", deps.SettingsHandler.AddCustomCategory).Methods("POST")
	r.HandleFunc("/api/settings/category/{id}", deps.SettingsHandler.UpdateCustomCategory).Methods("PUT")
	r.HandleFunc("/api/settings/category/{id}", deps.SettingsHandler.DeleteCustomCategory).Methods("DELETE")
}
