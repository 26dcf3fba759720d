package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/task-manager/internal/api/handlers"
	"github.com/baharkarakas/task-manager/internal/config"
	"github.com/baharkarakas/task-manager/internal/metrics"
	"github.com/baharkarakas/task-manager/internal/middleware"
	"github.com/baharkarakas/task-manager/internal/services"
)

type RouterDeps struct {
	Cfg     config.Config
	Log     *slog.Logger
	UserSvc *services.UserService
	TaskSvc *services.TaskService
}

func NewRouter(d RouterDeps) http.Handler {
	uh := handlers.NewUserHandler(d.UserSvc, d.Log)
	th := handlers.NewTaskHandler(d.TaskSvc, d.Log)
	authMW := middleware.NewAuthMiddleware(d.UserSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// ---------- users ----------
	r.Route("/users", func(r chi.Router) {
		r.Post("/", uh.Signup)
		r.Post("/login", uh.Login)
		r.Get("/{id}/avatar", uh.Avatar)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Post("/logout", uh.Logout)
			r.Post("/logoutAll", uh.LogoutAll)
			r.Get("/me", uh.Me)
			r.Patch("/me", uh.UpdateMe)
			r.Delete("/me", uh.DeleteMe)
			r.Post("/me/avatar", uh.UploadAvatar)
			r.Delete("/me/avatar", uh.DeleteAvatar)
		})
	})

	// ---------- tasks ----------
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMW.Auth)
		r.Post("/", th.Create)
		r.Get("/", th.List)
		r.Get("/{id}", th.Get)
		r.Patch("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
	})

	return r
}
