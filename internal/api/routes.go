package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/api/profile", s.handleGetProfile)
		r.Post("/api/profile", s.handleUpdateProfile)
		r.Post("/api/streak/claim", s.handleClaimStreak)

		r.Post("/api/reviews", s.handleSubmitReview)
		r.Get("/api/reviews/due", s.handleGetReviewItems)
		r.Post("/api/reviews/learn", s.handleLearnItems)

		r.Post("/api/games", s.handleCreateGame)
		r.Get("/api/games/{id}", s.handleGetGame)
		r.Post("/api/games/{id}/join", s.handleJoinGame)
		r.Post("/api/games/{id}/start", s.handleStartGame)
		r.Post("/api/games/{id}/turn", s.handleTakeTurn)
		r.Post("/api/games/{id}/minigame", s.handleSubmitMiniGameAnswer)
		r.Post("/api/games/{id}/event", s.handleResolveEvent)
		r.Post("/api/games/{id}/attack", s.handleDuelAttack)
		r.Post("/api/games/{id}/spells", s.handleCastSpell)

		r.Post("/api/guilds", s.handleCreateGuild)
		r.Get("/api/guilds/{id}", s.handleGetGuild)
		r.Post("/api/guilds/{id}/join", s.handleJoinGuild)
		r.Post("/api/guilds/{id}/leave", s.handleLeaveGuild)

		r.Get("/api/shop/items", s.handleListShopItems)
		r.Post("/api/shop/purchase", s.handlePurchase)
	})

	return r
}
