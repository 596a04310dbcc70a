package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fantasyfrc/draft-system/handlers"
	"github.com/fantasyfrc/draft-system/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	draftHandler *handlers.DraftHandler,
	rosterHandler *handlers.RosterHandler,
	scheduleHandler *handlers.ScheduleHandler,
	inviteHandler *handlers.InviteHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/users/me", userHandler.Me)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamKey}", teamHandler.GetByKey)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/sync", teamHandler.Sync)
		})
	})

	router.Route("/rooms", func(r chi.Router) {
		// Read endpoints are public; state reconstruction backs clients
		// that missed live events.
		r.Get("/", draftHandler.List)
		r.Get("/{roomID}", draftHandler.GetByID)
		r.Get("/{roomID}/state", draftHandler.State)
		r.Get("/{roomID}/matchups", scheduleHandler.ListMatchups)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", draftHandler.Create)
			r.Delete("/{roomID}", draftHandler.Delete)
			r.Post("/{roomID}/join", draftHandler.Join)
			r.Patch("/{roomID}/ready", draftHandler.Ready)
			r.Post("/{roomID}/start", draftHandler.Start)
			r.Post("/{roomID}/picks", draftHandler.Pick)
			r.Post("/{roomID}/logo", draftHandler.UploadLogo)
			r.Post("/{roomID}/invites", inviteHandler.Create)
			r.Get("/{roomID}/roster", rosterHandler.Get)
			r.Patch("/{roomID}/roster", rosterHandler.SetStarting)
		})
	})

	router.Get("/ws/rooms/{roomID}", webSocketHandler.ServeWs)
}
