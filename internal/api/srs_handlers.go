package api

import (
	"net/http"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

type submitReviewRequest struct {
	ItemID     string `json:"itemId"`
	WasCorrect *bool  `json:"wasCorrect"`
}

type submitReviewResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Record  *models.MasteryRecord `json:"record"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.WasCorrect == nil {
		handleError(w, r, errors.NewInvalidArgumentError("wasCorrect", "must be a boolean"))
		return
	}

	uid := uidFromContext(r.Context())
	record, err := s.SRSService.SubmitReview(r.Context(), uid, req.ItemID, *req.WasCorrect, time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, submitReviewResponse{
		Success: true,
		Message: "review recorded",
		Record:  record,
	})
}

type reviewItemsResponse struct {
	Items []models.MasteryRecord `json:"items"`
}

func (s *Server) handleGetReviewItems(w http.ResponseWriter, r *http.Request) {
	uid := uidFromContext(r.Context())
	status := models.MasteryStatus(r.URL.Query().Get("level"))

	items, err := s.SRSService.DueItems(r.Context(), uid, status, time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if items == nil {
		items = []models.MasteryRecord{}
	}
	respondJSON(w, http.StatusOK, reviewItemsResponse{Items: items})
}

type learnItemsRequest struct {
	ItemIDs []string `json:"itemIds"`
}

func (s *Server) handleLearnItems(w http.ResponseWriter, r *http.Request) {
	var req learnItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	uid := uidFromContext(r.Context())
	created, err := s.SRSService.LearnItems(r.Context(), uid, req.ItemIDs, time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"created": created})
}
