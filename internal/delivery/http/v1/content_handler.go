package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"productpraat-backend/internal/domain"
	"productpraat-backend/internal/usecase"
)

type ContentHandler struct {
	usecase usecase.ContentUsecase
}

func NewContentHandler(u usecase.ContentUsecase) *ContentHandler {
	return &ContentHandler{usecase: u}
}

func (h *ContentHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	articles, total, err := h.usecase.ListArticles(r.Context(), limit, (page-1)*limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": articles,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func (h *ContentHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.Error(w, "Slug required", http.StatusBadRequest)
		return
	}

	article, err := h.usecase.GetArticle(r.Context(), slug)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if article == nil || !article.IsPublished {
		http.Error(w, "Article not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(article)
}

// UpsertArticle creates or replaces the article at the given slug. The
// generator pipeline re-publishes articles under a stable slug, so upsert is
// the natural write.
func (h *ContentHandler) UpsertArticle(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.Error(w, "Slug required", http.StatusBadRequest)
		return
	}

	var article domain.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	article.Slug = slug

	updated, err := h.usecase.UpsertArticle(r.Context(), &article)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *ContentHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.Error(w, "Slug required", http.StatusBadRequest)
		return
	}

	if err := h.usecase.DeleteArticle(r.Context(), slug); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
