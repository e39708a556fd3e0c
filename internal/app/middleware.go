package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/moneypro/internal/rest"
	"github.com/klokku/moneypro/pkg/session"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type publicRoute struct {
	method string
	path   string
}

// Routes reachable without a session.
var publicRoutes = map[publicRoute]bool{
	{http.MethodPost, "/api/user"}:    true,
	{http.MethodPost, "/api/session"}: true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {
	r.Use(AuthMiddleware(deps.SessionService))
}

// AuthMiddleware resolves the session token of the request and puts its user
// into the context. Requests to non-public routes without a live session get 401.
func AuthMiddleware(sessions session.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if publicRoutes[publicRoute{req.Method, req.URL.Path}] {
				next.ServeHTTP(w, req)
				return
			}

			token := session.TokenFromRequest(req)
			if token == "" {
				rest.WriteError(w, http.StatusUnauthorized, "Missing session token")
				return
			}

			u, err := sessions.Resolve(req.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrInvalidSession) || errors.Is(err, session.ErrExpiredSession) || errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("rejected session: %v", err)
					rest.WriteError(w, http.StatusUnauthorized, "Invalid or expired session")
					return
				}
				log.Errorf("failed to resolve session: %v", err)
				rest.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			log.Tracef("request of user %s", u.Uid)
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), u)))
		})
	}
}
