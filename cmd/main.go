// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/eventup/eventup/internal/auth"
	"github.com/eventup/eventup/internal/clock"
	"github.com/eventup/eventup/internal/config"
	"github.com/eventup/eventup/internal/database"
	"github.com/eventup/eventup/internal/handler"
	"github.com/eventup/eventup/internal/notify"
	"github.com/eventup/eventup/internal/repository"
	"github.com/eventup/eventup/internal/service"
	"github.com/eventup/eventup/internal/ticket"
	"github.com/eventup/eventup/migrations"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Connect to PostgreSQL and apply the schema ─────────────────────
	pool, err := database.NewPool(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	log.Println("✓ Schema up to date")

	// ── 2. Optional RabbitMQ publisher ────────────────────────────────────
	var notifier service.Notifier
	if cfg.AMQPURL != "" {
		pub, err := notify.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer pub.Close()
		notifier = pub
		log.Println("✓ Connected to RabbitMQ")
	}

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	clk := clock.NewSystem()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	eventRepo := repository.NewEventRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	eventSvc := service.NewEventService(eventRepo, clk)
	reservationSvc := service.NewReservationService(
		reservationRepo, eventSvc, userRepo, ticket.NewRenderer(), notifier, clk)
	adminSvc := service.NewAdminService(eventRepo, reservationRepo, clk.Now)
	authSvc := service.NewAuthService(userRepo, tokens, clk)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	// ── 4. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for browser clients

	// Public surface
	r.Get("/health", handler.HealthCheck)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/events/published", eventHandler.ListPublished)

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(handler.Authenticate(tokens))

		r.Route("/events", func(r chi.Router) {
			r.Get("/{id}", eventHandler.Get)

			// Admin-only event lifecycle
			r.Group(func(r chi.Router) {
				r.Use(handler.RequireAdmin)
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Patch("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
				r.Post("/{id}/publish", eventHandler.Publish)
				r.Post("/{id}/cancel", eventHandler.Cancel)
			})
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", reservationHandler.Create)
			r.Get("/me", reservationHandler.ListMine)
			r.Get("/{id}", reservationHandler.Get)
			r.Patch("/{id}", reservationHandler.Update)
			r.Post("/{id}/confirm", reservationHandler.Confirm)
			r.Post("/{id}/cancel", reservationHandler.Cancel)
			r.Get("/{id}/ticket", reservationHandler.Ticket)

			r.Group(func(r chi.Router) {
				r.Use(handler.RequireAdmin)
				r.Get("/admin", reservationHandler.ListAll)
				r.Post("/admin/create", reservationHandler.AdminCreate)
				r.Get("/admin/by-event/{eventID}", reservationHandler.ListByEvent)
				r.Get("/admin/by-participant/{userID}", reservationHandler.ListByParticipant)
				r.Post("/{id}/admin/confirm", reservationHandler.AdminConfirm)
				r.Post("/{id}/admin/refuse", reservationHandler.AdminRefuse)
				r.Post("/{id}/admin/cancel", reservationHandler.AdminCancel)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAdmin)
			r.Get("/admin/stats", adminHandler.Stats)
			r.Get("/users/participants", authHandler.ListParticipants)
		})
	})

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
