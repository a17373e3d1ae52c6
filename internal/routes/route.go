package routes

import (
	"net/http"

	"indoor-network/internal/app"
	"indoor-network/internal/config"
	"indoor-network/internal/handlers"
	"indoor-network/internal/logger"
	"indoor-network/internal/metrics"
	mdlwr "indoor-network/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(a *app.App, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mdlwr.NewRequestLogger(logr.Named("http")).Log)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	networkHandler := handlers.NewNetworkHandler(a.Importer, a.Exporter, a.Network, logr.Logger)
	pedestrianHandler := handlers.NewPedestrianHandler(a.Pedestrian, logr.Logger)
	floorPolyHandler := handlers.NewFloorPolyHandler(a.FloorPolys, logr.Logger)
	referenceHandler := handlers.NewReferenceHandler(a.References, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/network", func(r chi.Router) {
			r.Get("/", networkHandler.GetNetwork)
			r.Post("/import", networkHandler.Import)
			r.Get("/export", networkHandler.Export)
		})

		r.Post("/pedestrian/sync", pedestrianHandler.Sync)
		r.Post("/floorpoly/sync", floorPolyHandler.Sync)
		r.Get("/imdf/{collection}", referenceHandler.GetCollection)
	})

	return r
}
