package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/config"
	api "github.com/divvyhq/divvy/internal/http"
	"github.com/divvyhq/divvy/internal/notify"
	"github.com/divvyhq/divvy/internal/realtime"
	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage/sqlite"
	"github.com/divvyhq/divvy/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	hub := realtime.NewHub()
	dispatcher := notify.NewDispatcher(store, hub)

	expenseService := service.NewExpenseService(store, dispatcher)
	handlers := api.Handlers{
		Auth:          api.NewAuthHandler(service.NewAuthService(authenticator, jwtManager, store)),
		Users:         api.NewUserHandler(store),
		Friends:       api.NewFriendHandler(service.NewFriendService(store, dispatcher)),
		Groups:        api.NewGroupHandler(service.NewGroupService(store), expenseService),
		Expenses:      api.NewExpenseHandler(expenseService),
		Settlements:   api.NewSettlementHandler(service.NewSettlementService(store, dispatcher)),
		Balances:      api.NewBalanceHandler(service.NewBalanceService(store)),
		Notifications: api.NewNotificationHandler(service.NewNotificationService(store)),
		WebSocket:     realtime.NewHandler(hub, jwtManager),
	}

	staticDir := ""
	if cfg.Static.Dir != "" {
		staticDir, err = filepath.Abs(cfg.Static.Dir)
		if err != nil {
			slog.Error("Failed to resolve static path", "error", err)
			os.Exit(1)
		}
		slog.Info("Serving static files", "path", staticDir)
	}

	router := api.New(jwtManager, handlers, staticDir, cfg.CORS.AllowedOrigins)

	// h2c lets HTTP/2 clients connect without TLS; a reverse proxy
	// terminates TLS in front of this server.
	handler := h2c.NewHandler(router, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
