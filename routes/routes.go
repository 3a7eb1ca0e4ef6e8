package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/wrestling-league/docs"
	"github.com/Dosada05/wrestling-league/handlers"
	"github.com/Dosada05/wrestling-league/metrics"
	"github.com/Dosada05/wrestling-league/middleware"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

// SetupRoutes mounts the public API under /api/v1. Reads are public; writes
// need a referee, delegate or admin token.
func SetupRoutes(
	r chi.Router,
	opts Options,
	matchHandler *handlers.MatchHandler,
	actHandler *handlers.ActHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Get("/ws/matches/{matchID}", wsHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	officials := middleware.RequireRole(middleware.RoleReferee, middleware.RoleDelegate, middleware.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/competitions/{competitionID}/matches", matchHandler.ListCompetitionMatches)

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)

			r.Route("/act", func(r chi.Router) {
				r.Get("/", actHandler.GetAct)
				r.Get("/verify", actHandler.VerifyAct)

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Use(officials)

					r.Put("/", actHandler.SubmitAct)
					r.Put("/bouts/{order}", actHandler.PutBout)
					r.Post("/bouts/{order}/falls", actHandler.RecordFall)
					r.Delete("/bouts/{order}/falls/{side}", actHandler.RemoveLastFall)
					r.Post("/bouts/{order}/penalties", actHandler.RecordPenalty)
					r.Post("/complete", actHandler.CompleteAct)
				})

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Use(middleware.RequireRole(middleware.RoleReferee, middleware.RoleDelegate))

					r.Post("/sign", actHandler.SignAct)
				})
			})
		})
	})
}
