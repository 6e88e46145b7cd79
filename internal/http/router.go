package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Friends       *FriendHandler
	Groups        *GroupHandler
	Expenses      *ExpenseHandler
	Settlements   *SettlementHandler
	Balances      *BalanceHandler
	Notifications *NotificationHandler

	// WebSocket is the realtime upgrade endpoint.
	WebSocket http.Handler
}

// New assembles the full router: the JSON API under /api/v1, the WebSocket
// upgrade at /ws, Prometheus metrics at /metrics, and a static SPA
// fallthrough for everything else.
func New(jwtManager *auth.JWTManager, h Handlers, staticDir string, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// The upgrade endpoint sits outside the logging and metrics middleware:
	// their response recorder does not implement http.Hijacker, which the
	// WebSocket upgrade needs.
	if h.WebSocket != nil {
		router.Handle("/ws", h.WebSocket)
	}

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Logging)
		r.Use(middleware.Metrics)

		r.Route("/auth", func(r chi.Router) {
			h.Auth.PublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(jwtManager))
				h.Auth.Routes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))
			r.Route("/users", h.Users.Routes)
			r.Route("/friends", h.Friends.Routes)
			r.Route("/groups", h.Groups.Routes)
			r.Route("/expenses", h.Expenses.Routes)
			r.Route("/settlements", h.Settlements.Routes)
			r.Route("/balances", h.Balances.Routes)
			r.Route("/notifications", h.Notifications.Routes)
		})
	})

	if staticDir != "" {
		router.NotFound(staticHandler(staticDir))
	}

	return router
}

// staticHandler serves files from dir, falling back to index.html for
// unknown paths so client-side routing works.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}
