// Package api exposes the application over a JSON HTTP API.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/splitsmart/splitsmart/internal/auth"
	"github.com/splitsmart/splitsmart/internal/middleware"
	"github.com/splitsmart/splitsmart/internal/service"
)

// UserDirectory is the user-existence lookup the public check-user
// endpoint consumes. storage.Store satisfies it.
type UserDirectory interface {
	UserExists(ctx context.Context, name string) (bool, error)
}

// API wires the HTTP routes to the application services.
type API struct {
	router     *mux.Router
	authSvc    *service.AuthService
	groupSvc   *service.GroupService
	expenseSvc *service.ExpenseService
	settleSvc  *service.SettlementService
	users      UserDirectory
	jwtManager *auth.JWTManager
}

// New creates the API and registers all routes.
func New(
	authSvc *service.AuthService,
	groupSvc *service.GroupService,
	expenseSvc *service.ExpenseService,
	settleSvc *service.SettlementService,
	users UserDirectory,
	jwtManager *auth.JWTManager,
) *API {
	a := &API{
		router:     mux.NewRouter(),
		authSvc:    authSvc,
		groupSvc:   groupSvc,
		expenseSvc: expenseSvc,
		settleSvc:  settleSvc,
		users:      users,
		jwtManager: jwtManager,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(middleware.Metrics(routeTemplate))
	a.router.Use(middleware.Logging)

	// Public endpoints
	a.router.HandleFunc("/api/auth/register", a.handleRegister).Methods(http.MethodPost)
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods(http.MethodPost)
	a.router.HandleFunc("/api/check-user", a.handleCheckUser).Methods(http.MethodGet)
	a.router.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)
	a.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Authenticated endpoints
	authed := a.router.PathPrefix("/api").Subrouter()
	authed.Use(middleware.RequireAuth(a.jwtManager))
	authed.HandleFunc("/groups", a.handleCreateGroup).Methods(http.MethodPost)
	authed.HandleFunc("/groups", a.handleListGroups).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{id}", a.handleGetGroup).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{id}/balances", a.handleGetBalances).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{id}/expenses", a.handleAddExpense).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{id}/settlements", a.handleSettlePayment).Methods(http.MethodPost)
}

// Handler returns the fully wrapped HTTP handler, CORS included.
func (a *API) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(a.router)
}

// routeTemplate returns the matched route template for metrics labels,
// falling back to the raw path for unmatched requests.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}
