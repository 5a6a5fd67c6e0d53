package api

import (
	"net/http"
	"sort"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
)

func (s *Server) handleListShopItems(w http.ResponseWriter, r *http.Request) {
	items := s.ShopService.Items(r.Context())
	sort.Slice(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	respondJSON(w, http.StatusOK, map[string][]catalog.ShopItem{"items": items})
}

type purchaseRequest struct {
	ItemID string `json:"itemId"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ShopService.Purchase(r.Context(), uidFromContext(r.Context()), req.ItemID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "purchase complete"})
}
