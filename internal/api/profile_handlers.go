package api

import (
	"net/http"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/models"
)

type registerRequest struct {
	Pseudo string `json:"pseudo"`
	Email  string `json:"email"`
}

type registerResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, token, err := s.ProfileService.Register(r.Context(), req.Pseudo, req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, registerResponse{User: user, Token: token})
}

type profileResponse struct {
	User           *models.User `json:"user"`
	OwnedCosmetics []string     `json:"owned_cosmetics"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid := uidFromContext(r.Context())

	user, err := s.ProfileService.GetProfile(r.Context(), uid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	owned, err := s.ShopService.Owned(r.Context(), uid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{User: user, OwnedCosmetics: owned})
}

type updateProfileRequest struct {
	Pseudo string `json:"pseudo"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	uid := uidFromContext(r.Context())
	if err := s.ProfileService.UpdateProfile(r.Context(), uid, req.Pseudo); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

func (s *Server) handleClaimStreak(w http.ResponseWriter, r *http.Request) {
	uid := uidFromContext(r.Context())

	claim, err := s.StreakService.Claim(r.Context(), uid, time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, claim)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.PingContext(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
