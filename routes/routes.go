package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/padelhq/club-manager/handlers"
	"github.com/padelhq/club-manager/middleware"
)

// SetupRoutes wires the HTTP surface. Lookups and the live feed are open;
// mutating operations require a staff token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	memberHandler *handlers.MemberHandler,
	matchmakingHandler *handlers.MatchmakingHandler,
	reservationHandler *handlers.ReservationHandler,
	feedHandler *handlers.FeedHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/members", func(r chi.Router) {
		r.Get("/lookup", memberHandler.LookupByPhoneHandler)
		r.Get("/candidates", memberHandler.CandidatesHandler)
	})

	router.Get("/courts/{courtID}/availability", reservationHandler.CourtAvailabilityHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Route("/match-requests", func(r chi.Router) {
			r.Post("/", matchmakingHandler.CreateRequestHandler)
			r.Get("/{requestID}", matchmakingHandler.GetRequestHandler)
			r.Post("/{requestID}/invitations", matchmakingHandler.InviteByPhoneHandler)
			r.Patch("/{requestID}/invitations", matchmakingHandler.UpdateInvitationStatusHandler)
		})

		r.Post("/reservations", reservationHandler.ReserveHandler)
		r.Get("/reservations/{reservationID}/members", reservationHandler.MembersHandler)
	})

	router.Get("/ws/courts/{courtID}", feedHandler.ServeCourtFeed)
}
