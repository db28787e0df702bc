package v1

import (
	"encoding/json"
	"net/http"

	"productpraat-backend/internal/affiliate"
	"productpraat-backend/internal/usecase"
	"productpraat-backend/pkg/logger"
	"productpraat-backend/pkg/utils"
)

// AffiliateHandler serves the public tracking endpoints. Tracking is
// best-effort: a storefront click must never fail because the ledger write
// did, so persist errors are logged and the event is still acknowledged.
type AffiliateHandler struct {
	trackingUC *usecase.TrackingUsecase
	configUC   *usecase.AffiliateConfigUsecase
}

func NewAffiliateHandler(trackingUC *usecase.TrackingUsecase, configUC *usecase.AffiliateConfigUsecase) *AffiliateHandler {
	return &AffiliateHandler{trackingUC: trackingUC, configUC: configUC}
}

func (h *AffiliateHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NetworkID   string `json:"networkId"`
		ProductID   string `json:"productId"`
		ProductName string `json:"productName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.trackingUC.RecordClick(r.Context(), req.NetworkID, req.ProductID, req.ProductName); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).
			Str("network_id", req.NetworkID).
			Str("product_id", req.ProductID).
			Msg("click not persisted")
	}

	utils.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func (h *AffiliateHandler) RecordConversion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NetworkID   string  `json:"networkId"`
		ProductID   string  `json:"productId"`
		ProductName string  `json:"productName"`
		Amount      float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.trackingUC.RecordConversion(r.Context(), req.NetworkID, req.ProductID, req.Amount, req.ProductName); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).
			Str("network_id", req.NetworkID).
			Str("product_id", req.ProductID).
			Msg("conversion not persisted")
	}

	utils.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// GenerateLink rewrites an outbound URL with the configured affiliate id.
// The response always carries a usable URL: when nothing applies, it is the
// input itself.
func (h *AffiliateHandler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		utils.WriteError(w, http.StatusBadRequest, "url parameter required")
		return
	}
	override := affiliate.Network(r.URL.Query().Get("network"))

	link, err := h.configUC.GenerateLink(r.Context(), rawURL, override)
	if err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Msg("link generation failed")
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": link})
}

// LinkInfo inspects a URL for tracking markers already present.
func (h *AffiliateHandler) LinkInfo(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		utils.WriteError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	resp := map[string]any{"tracked": false}
	if info, ok := affiliate.Extract(rawURL); ok {
		resp["tracked"] = true
		resp["networkId"] = string(info.NetworkID)
		resp["affiliateId"] = info.AffiliateID
	} else if network, detected := affiliate.Detect(rawURL); detected {
		resp["networkId"] = string(network)
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
