package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gpdecorators/site/internal/config"
	"github.com/gpdecorators/site/internal/handler"
	"github.com/gpdecorators/site/internal/logging"
	"github.com/gpdecorators/site/internal/metrics"
	"github.com/gpdecorators/site/internal/repository"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
	"github.com/gpdecorators/site/pkg/auth"
	"github.com/gpdecorators/site/pkg/emailjs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backend API
	client := repository.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	bookingRepo := repository.NewAPIBookingRepository(client)
	contactRepo := repository.NewAPIContactRepository(client)
	serviceRepo := repository.NewAPIServiceRepository(client)
	eventRepo := repository.NewAPIEventRepository(client)
	testimonialRepo := repository.NewAPITestimonialRepository(client)

	// Sessions live in Postgres when DATABASE_URL is set, otherwise in memory.
	health := map[string]handler.Pinger{"backend": client}
	var sessionRepo repository.SessionRepository
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		sessionRepo = repository.NewPgSessionRepository(pool)
		health["sessions"] = pool
	} else {
		slog.Warn("DATABASE_URL not set; admin sessions are kept in memory")
		sessionRepo = repository.NewMemorySessionRepository()
	}

	sessionService := service.NewSessionService(sessionRepo)
	authService := service.NewAuthService(sessionService, cfg.AdminEmails)
	catalogService := service.NewCatalogService(serviceRepo, eventRepo, testimonialRepo)
	mailer := emailjs.NewClient(emailjs.Config{
		ServiceID:  cfg.EmailJSServiceID,
		TemplateID: cfg.EmailJSTemplateID,
		PublicKey:  cfg.EmailJSPublicKey,
		PrivateKey: cfg.EmailJSPrivateKey,
	})
	submissionService := service.NewSubmissionService(contactRepo, bookingRepo, testimonialRepo, mailer)
	consoles := service.NewConsoleStore(service.ConsoleRepos{
		Bookings:     bookingRepo,
		Contacts:     contactRepo,
		Services:     serviceRepo,
		Events:       eventRepo,
		Testimonials: testimonialRepo,
	})

	go sessionService.RunCleanup(ctx, 15*time.Minute)
	go consoles.Run(ctx, 10*time.Minute)

	pages, err := view.New()
	if err != nil {
		logging.Fatal("failed to parse templates", "error", err)
	}

	healthHandler := handler.NewHealthHandler(health)
	pageHandler := handler.NewPageHandler(catalogService, pages)
	formHandler := handler.NewFormHandler(submissionService, pageHandler, pages)
	docHandler := handler.NewDocumentHandler(view.Documents{Dir: cfg.ContentDir}, pages)
	adminHandler := handler.NewAdminHandler(consoles, pages)
	authHandler := handler.NewAuthHandler(authService, sessionService, consoles, pages, handler.AuthConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GitHubClientID:     cfg.GitHubClientID,
		GitHubClientSecret: cfg.GitHubClientSecret,
		PublicURL:          cfg.PublicURL,
		Secure:             cfg.IsProduction(),
	})

	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	go limiter.Run(ctx, 5*time.Minute)
	limit := func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }

	// Admin gate: signed in, then optionally narrowed to ADMIN_EMAILS.
	gate := func(h http.HandlerFunc) http.Handler {
		if !cfg.AuthRequired {
			return auth.DevAuth(h)
		}
		return auth.RequireSignIn(sessionService, "/admin/signin")(auth.RequireAdmin(cfg.AdminEmails)(h))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", view.Static())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Public pages
	mux.HandleFunc("GET /{$}", pageHandler.Home)
	mux.HandleFunc("GET /services", pageHandler.Services)
	mux.HandleFunc("GET /events", pageHandler.Events)
	mux.HandleFunc("GET /about", docHandler.About)
	mux.HandleFunc("GET /legal/{type}", docHandler.Legal)
	mux.HandleFunc("GET /contact", formHandler.ContactPage)
	mux.HandleFunc("GET /book", formHandler.BookPage)
	mux.Handle("POST /contact", limit(formHandler.SubmitContact))
	mux.Handle("POST /book", limit(formHandler.SubmitBooking))
	mux.Handle("POST /testimonials", limit(formHandler.SubmitTestimonial))

	// Sign-in
	mux.HandleFunc("GET /admin/signin", authHandler.SignIn)
	mux.HandleFunc("GET /auth/{provider}/login", authHandler.Login)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.Callback)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)

	// Admin console
	mux.Handle("GET /admin", gate(adminHandler.Dashboard))
	mux.Handle("GET /admin/{tab}", gate(adminHandler.Tab))
	mux.Handle("POST /admin/{tab}/reload", gate(adminHandler.Reload))
	mux.Handle("POST /admin/{tab}/{id}/delete", gate(adminHandler.Delete))
	mux.Handle("POST /admin/bookings/{id}/approve", gate(adminHandler.ApproveBooking))
	mux.Handle("POST /admin/contacts/{id}/read", gate(adminHandler.MarkContactRead))
	mux.Handle("POST /admin/contacts/refresh", gate(adminHandler.RefreshContacts))
	mux.Handle("POST /admin/services", gate(adminHandler.SaveService))
	mux.Handle("POST /admin/services/{id}/edit", gate(adminHandler.EditService))
	mux.Handle("POST /admin/services/cancel", gate(adminHandler.CancelService))
	mux.Handle("POST /admin/events", gate(adminHandler.SaveEvent))
	mux.Handle("POST /admin/events/{id}/edit", gate(adminHandler.EditEvent))
	mux.Handle("POST /admin/events/cancel", gate(adminHandler.CancelEvent))
	mux.Handle("POST /admin/testimonials/view", gate(adminHandler.SetTestimonialView))
	mux.Handle("POST /admin/testimonials/{id}/approve", gate(adminHandler.ApproveTestimonial))

	mux.Handle("/", handler.NotFound(pages))

	protect := csrf.Protect(cfg.CSRFKey,
		csrf.Secure(cfg.IsProduction()),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			pages.Render(w, r, http.StatusForbidden, "error", view.Page{
				Title: "Forbidden",
				Data:  struct{ Message string }{"Your form expired. Please go back, reload the page and try again."},
			})
		})),
	)
	var root http.Handler = protect(mux)
	if !cfg.IsProduction() {
		root = plaintext(root)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.SecurityHeaders(handler.RequestLogger(root)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// plaintext marks requests as plain HTTP so the CSRF check skips the
// Referer comparison used for TLS.
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
