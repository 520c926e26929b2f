package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appmiddleware "github.com/donteatkebab/backend/internal/middleware"
	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/services"
)

// RouterConfig carries the deployment-variant knobs: CORS allow-list,
// upload cap, and the local upload directory (empty when avatars live in
// the object store).
type RouterConfig struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	UploadDir      string
}

// NewRouter builds the full route table with middleware.
func NewRouter(
	cfg RouterConfig,
	identity services.IdentityProvider,
	profiles services.ProfileStore,
	weights services.WeightStore,
	avatars services.AvatarStore,
	log zerolog.Logger,
) *chi.Mux {
	authHandler := NewAuthHandler(identity, log)
	profileHandler := NewProfileHandler(profiles, avatars, cfg.MaxUploadBytes, log)
	weightHandler := NewWeightHandler(weights, log)
	usersHandler := NewUsersHandler(profiles, weights, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	root := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Don't Eat Kebab API"})
	}
	r.Get("/", root)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", root)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.BearerAuth(identity))

			r.Route("/profile/{userID}", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Put("/", profileHandler.UpdateProfile)
				r.Post("/avatar", profileHandler.UploadAvatar)
			})

			r.Post("/weight", weightHandler.LogWeight)
			r.Get("/weight/{userID}", weightHandler.ListWeights)
			r.Get("/users", usersHandler.ListUsers)
		})
	})

	// Serve local avatar uploads when the filesystem store is active.
	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	return r
}
