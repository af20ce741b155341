package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tamariki-backend/internal/handlers"
	"tamariki-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	streakHandler *handlers.StreakHandler,
	activityHandler *handlers.ActivityHandler,
	studentsHandler *handlers.StudentsHandler,
	dashboardHandler *handlers.DashboardHandler,
	contentHandler *handlers.ContentHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Streak Routes ────
		r.Route("/streak", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/status", streakHandler.Status)
			r.Post("/increment", streakHandler.Increment)
		})

		// ──── Activity Routes ────
		r.Route("/activity", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/log", activityHandler.Log)
			r.Get("/analytics", activityHandler.Analytics)
		})

		// ──── Student Routes ────
		r.Route("/students", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", studentsHandler.List)
			r.Post("/", studentsHandler.Create)
		})

		// ──── Dashboard Routes ────
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", dashboardHandler.Overview)
		})

		// ──── Content Catalog (public) ────
		r.Get("/content/{subject}/{format}/{index}", contentHandler.Lookup)
	})

	return r
}
