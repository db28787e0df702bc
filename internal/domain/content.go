package domain

import (
	"context"
	"time"
)

// Article is a generated review or buying-guide article served on the public
// site. Body is markdown; Metadata carries generator details (model, prompt
// version, source query) as an opaque document.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ProductEANs []string  `json:"productEans"`
	Metadata    RawJSON   `json:"metadata"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ArticleRepository interface {
	GetArticleBySlug(ctx context.Context, slug string) (*Article, error)
	ListPublishedArticles(ctx context.Context, limit, offset int) ([]Article, int64, error)
	UpsertArticle(ctx context.Context, article *Article) error
	DeleteArticle(ctx context.Context, slug string) error
}
