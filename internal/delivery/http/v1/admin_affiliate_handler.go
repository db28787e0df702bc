package v1

import (
	"encoding/json"
	"net/http"

	"productpraat-backend/internal/domain"
	"productpraat-backend/internal/usecase"
	"productpraat-backend/pkg/utils"
)

type AdminAffiliateHandler struct {
	configUC   *usecase.AffiliateConfigUsecase
	trackingUC *usecase.TrackingUsecase
}

func NewAdminAffiliateHandler(configUC *usecase.AffiliateConfigUsecase, trackingUC *usecase.TrackingUsecase) *AdminAffiliateHandler {
	return &AdminAffiliateHandler{configUC: configUC, trackingUC: trackingUC}
}

func (h *AdminAffiliateHandler) GetNetworks(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configUC.LoadConfig(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (h *AdminAffiliateHandler) UpdateNetwork(w http.ResponseWriter, r *http.Request) {
	networkID := r.PathValue("id")
	if networkID == "" {
		http.Error(w, "Network ID required", http.StatusBadRequest)
		return
	}

	var req domain.NetworkConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	cfg, err := h.configUC.UpdateNetwork(r.Context(), networkID, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (h *AdminAffiliateHandler) GetNetworkStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.trackingUC.GetNetworkStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminAffiliateHandler) GetTotalStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.trackingUC.GetTotalStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, totals)
}

func (h *AdminAffiliateHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	days := utils.ParseInt(r.URL.Query().Get("days"), 30)
	stats, err := h.trackingUC.GetDailyStats(r.Context(), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminAffiliateHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 10)
	top, err := h.trackingUC.GetTopProducts(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, top)
}

func (h *AdminAffiliateHandler) GetRecentClicks(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)
	clicks, err := h.trackingUC.GetRecentClicks(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, clicks)
}

func (h *AdminAffiliateHandler) GetRecentConversions(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)
	conversions, err := h.trackingUC.GetRecentConversions(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, conversions)
}

// ClearTrackingData drops every click and conversion and resets lifetime
// totals. Destructive and admin-only.
func (h *AdminAffiliateHandler) ClearTrackingData(w http.ResponseWriter, r *http.Request) {
	if err := h.trackingUC.ClearTrackingData(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
