package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hangeulsoft/koreanparty/internal/models"
)

type createGuildRequest struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

func (s *Server) handleCreateGuild(w http.ResponseWriter, r *http.Request) {
	var req createGuildRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	guildID, err := s.GuildService.Create(r.Context(), uidFromContext(r.Context()), req.Name, req.Tag, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"guildId": guildID})
}

type guildResponse struct {
	Guild   *models.Guild        `json:"guild"`
	Members []models.GuildMember `json:"members"`
}

func (s *Server) handleGetGuild(w http.ResponseWriter, r *http.Request) {
	guild, members, err := s.GuildService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, guildResponse{Guild: guild, Members: members})
}

func (s *Server) handleJoinGuild(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "id")
	if err := s.GuildService.Join(r.Context(), uidFromContext(r.Context()), guildID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "joined guild"})
}

func (s *Server) handleLeaveGuild(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "id")
	if err := s.GuildService.Leave(r.Context(), uidFromContext(r.Context()), guildID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "left guild"})
}
