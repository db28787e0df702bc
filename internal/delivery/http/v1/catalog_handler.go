package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"productpraat-backend/internal/domain"
	"productpraat-backend/internal/usecase"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	var isFeatured *bool
	if val := query.Get("featured"); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			isFeatured = &b
		}
	}

	// Public listing only ever sees active products.
	active := true
	filter := domain.ProductFilter{
		Category:   query.Get("category"),
		Query:      query.Get("q"),
		Sort:       query.Get("sort"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
		IsActive:   &active,
		IsFeatured: isFeatured,
	}

	products, total, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": products,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func (h *CatalogHandler) GetProductDetails(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.Error(w, "Slug required", http.StatusBadRequest)
		return
	}

	product, err := h.catalogUC.GetProductDetails(r.Context(), slug)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if product == nil || !product.IsActive {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}
