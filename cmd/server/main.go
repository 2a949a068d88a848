package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/micahvs/sentimental-gifts/internal/config"
	"github.com/micahvs/sentimental-gifts/internal/handlers"
	"github.com/micahvs/sentimental-gifts/internal/store"
	"github.com/micahvs/sentimental-gifts/internal/upload"
)

func main() {
	// Configure slog as early as possible in main. TextHandler for console
	// readability; for production JSONHandler might be preferred.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}
	sess := &handlers.Sessions{Store: db, Cookies: sessionStore}

	// 4. Upload storage
	storage, err := upload.NewLocalStorage(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		slog.Error("Failed to initialize upload storage", "error", err)
		os.Exit(1)
	}
	uploads := upload.NewService(storage)

	// 5. Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 6. Handlers
	homeHandler := &handlers.HomeHandler{Templates: templates, Sessions: sess}
	authHandler := &handlers.AuthHandler{Store: db, Templates: templates, Sessions: sess, Config: cfg}
	createHandler := &handlers.CreateHandler{Store: db, Templates: templates, Sessions: sess, Uploads: uploads, Config: cfg}
	previewHandler := &handlers.PreviewHandler{Store: db, Templates: templates, Sessions: sess, Home: homeHandler}
	dashboardHandler := &handlers.DashboardHandler{Store: db, Templates: templates, Sessions: sess, Home: homeHandler}
	adminHandler := &handlers.AdminHandler{Store: db, Templates: templates, Sessions: sess, Config: cfg}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Submissions are rate limited per address.
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Public Routes
	mux.HandleFunc("/", homeHandler.Index)
	mux.HandleFunc("GET /create/{product}", createHandler.Form)
	mux.HandleFunc("POST /create/{product}", rateLimiter.Middleware(createHandler.Submit))
	mux.HandleFunc("GET /preview/{orderId}", previewHandler.Show)

	// Auth
	mux.HandleFunc("GET /login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", authHandler.LoginPost)
	mux.HandleFunc("POST /login/magic-link", rateLimiter.Middleware(authHandler.MagicLink))
	mux.HandleFunc("GET /auth/callback", authHandler.Callback)
	mux.HandleFunc("/logout", authHandler.Logout)

	// Dashboard (session required)
	mux.HandleFunc("GET /dashboard", sess.RequireUser(dashboardHandler.Summary))
	mux.HandleFunc("GET /dashboard/orders", sess.RequireUser(dashboardHandler.Orders))
	mux.HandleFunc("GET /dashboard/orders/{orderId}", sess.RequireUser(dashboardHandler.OrderDetail))
	mux.HandleFunc("GET /dashboard/profile", sess.RequireUser(dashboardHandler.Profile))
	mux.HandleFunc("POST /dashboard/profile", sess.RequireUser(dashboardHandler.UpdateProfile))
	mux.HandleFunc("GET /dashboard/settings", sess.RequireUser(dashboardHandler.Settings))
	mux.HandleFunc("POST /dashboard/settings/delete", sess.RequireUser(dashboardHandler.DeleteAccount))

	// Admin (single configured identity)
	mux.HandleFunc("GET /admin", adminHandler.RequireAdmin(adminHandler.Dashboard))
	mux.HandleFunc("GET /admin/orders", adminHandler.RequireAdmin(adminHandler.ListOrders))
	mux.HandleFunc("POST /admin/orders/update", adminHandler.RequireAdmin(adminHandler.UpdateOrderStatus))

	// 7. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
