package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

type createGameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	game, err := s.GameService.CreateGame(r.Context(), uidFromContext(r.Context()), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

type gameResponse struct {
	Game    *models.Game        `json:"game"`
	Players []models.GamePlayer `json:"players"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, players, err := s.GameService.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, gameResponse{Game: game, Players: players})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	if err := s.GameService.JoinGame(r.Context(), gameID, uidFromContext(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "joined game"})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	game, err := s.GameService.StartGame(r.Context(), gameID, uidFromContext(r.Context()), time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (s *Server) handleTakeTurn(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	result, err := s.GameService.TakeTurn(r.Context(), gameID, uidFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type miniGameAnswerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleSubmitMiniGameAnswer(w http.ResponseWriter, r *http.Request) {
	var req miniGameAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	gameID := chi.URLParam(r, "id")
	result, err := s.GameService.SubmitMiniGameAnswer(r.Context(), gameID, uidFromContext(r.Context()), req.Answer, time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleResolveEvent(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	result, err := s.GameService.ResolveEvent(r.Context(), gameID, uidFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type duelAttackRequest struct {
	AttackerID string `json:"attackerId,omitempty"`
	TargetID   string `json:"targetId"`
	AttackWord string `json:"attackWord"`
}

type duelAttackResponse struct {
	Status        string `json:"status"`
	DestroyedWord string `json:"destroyedWord,omitempty"`
	RiseAmount    int    `json:"riseAmount,omitempty"`
	Reason        string `json:"reason,omitempty"`
	PenaltyAmount int    `json:"penaltyAmount,omitempty"`
}

func (s *Server) handleDuelAttack(w http.ResponseWriter, r *http.Request) {
	var req duelAttackRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	gameID := chi.URLParam(r, "id")
	attackerID := uidFromContext(r.Context())
	// Clients may echo their own id; attacking as someone else is not a thing.
	if req.AttackerID != "" && req.AttackerID != attackerID {
		handleError(w, r, errors.NewInvalidArgumentError("attackerId", "must match the authenticated caller"))
		return
	}
	outcome, err := s.DuelService.SendAttack(r.Context(), gameID, attackerID, req.TargetID, req.AttackWord, time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := duelAttackResponse{
		DestroyedWord: outcome.DestroyedWord,
		RiseAmount:    outcome.RiseAmount,
		Reason:        outcome.FailureReason,
		PenaltyAmount: outcome.PenaltyAmount,
	}
	if outcome.Success {
		resp.Status = "success"
	} else {
		resp.Status = "failure"
	}
	respondJSON(w, http.StatusOK, resp)
}

type castSpellRequest struct {
	SpellID  string `json:"spellId"`
	TargetID string `json:"targetId"`
}

func (s *Server) handleCastSpell(w http.ResponseWriter, r *http.Request) {
	var req castSpellRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.SpellID == "" {
		handleError(w, r, errors.NewInvalidArgumentError("spellId", "must not be empty"))
		return
	}

	gameID := chi.URLParam(r, "id")
	effect, err := s.SpellService.Cast(r.Context(), gameID, uidFromContext(r.Context()), req.SpellID, req.TargetID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, effect)
}
