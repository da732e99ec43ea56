package handlers

import (
	"net/http"

	"Gallerist/internal/config"
	"Gallerist/internal/middleware"
	"Gallerist/internal/response"
	"Gallerist/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — зависимости HTTP слоя.
type Services struct {
	Auth       *service.AuthService
	Categories *service.CategoryService
	Gallery    *service.GalleryService
	Uploads    *service.UploadService
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, logger *zap.SugaredLogger, config *config.Config) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging)
	r.Use(middleware.WithRecover(!config.IsProduction()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Content-Encoding"},
		MaxAge:         300,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(svc.Auth))

	// Handlers
	authHandler := NewAuthHandler(svc.Auth, logger, config)
	categoryHandler := NewCategoryHandler(svc.Categories, logger, config)
	galleryHandler := NewGalleryHandler(svc.Gallery, logger, config)
	uploadHandler := NewUploadHandler(svc.Uploads, logger, config)

	r.Get("/", Index(config))

	r.Route("/api", func(r chi.Router) {
		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.With(middleware.RequireAdmin).Get("/verify", authHandler.Verify)
			r.With(middleware.RequireAdmin).Post("/logout", authHandler.Logout)
		})

		// Category routes
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		// Gallery routes
		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", galleryHandler.List)
			r.Get("/{id}", galleryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", galleryHandler.Create)
				r.Put("/{id}", galleryHandler.Update)
				r.Delete("/{id}", galleryHandler.Delete)
			})
		})

		// Upload routes
		r.Route("/upload", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/single", uploadHandler.Single)
			r.Post("/multiple", uploadHandler.Multiple)
			r.Delete("/", uploadHandler.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return &Handler{Router: r}
}

// Index отдаёт описание API.
func Index(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, http.StatusOK, "Gallerist API", map[string]any{
			"environment": cfg.AppEnv,
			"endpoints": map[string]string{
				"auth":       "/api/auth",
				"categories": "/api/categories",
				"gallery":    "/api/gallery",
				"upload":     "/api/upload",
			},
		})
	}
}
