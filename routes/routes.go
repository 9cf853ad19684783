package routes

import (
	"net/http"

	"github.com/50RISHU/E-Sport-Calc/handlers"
	"github.com/50RISHU/E-Sport-Calc/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret []byte
	OwnerID   string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	scoringHandler *handlers.ScoringHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Get("/ws", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.RequireOwner(opts.OwnerID))

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.List)
			r.Post("/", tournamentHandler.Create)
			r.Post("/reload", tournamentHandler.Reload)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.Get)
				r.Delete("/", tournamentHandler.Delete)

				r.Post("/teams", teamHandler.Create)
				r.Delete("/teams/{teamID}", teamHandler.Delete)
				r.Post("/teams/{teamID}/logo", teamHandler.UploadLogo)

				r.Put("/matches/{matchID}", matchHandler.Save)
				r.Delete("/matches/{matchID}", matchHandler.Delete)

				r.Put("/scoring/kill-points", scoringHandler.UpdateKillPoints)
				r.Put("/scoring/positions", scoringHandler.UpdatePositionPoints)
			})
		})

		r.Route("/scoring/defaults", func(r chi.Router) {
			r.Get("/", scoringHandler.GetDefaults)
			r.Put("/", scoringHandler.SaveDefaults)
		})
	})
}
