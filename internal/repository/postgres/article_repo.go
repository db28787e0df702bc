package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"productpraat-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type articleRepository struct {
	db *pgxpool.Pool
}

func NewArticleRepository(db *pgxpool.Pool) domain.ArticleRepository {
	return &articleRepository{db: db}
}

const articleColumns = `id, slug, title, body, product_eans, metadata,
	is_published, created_at, updated_at`

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Body, &a.ProductEANs, &a.Metadata,
		&a.IsPublished, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	return &a, nil
}

func (r *articleRepository) GetArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	query := fmt.Sprintf("SELECT %s FROM articles WHERE slug = $1", articleColumns)
	return scanArticle(r.db.QueryRow(ctx, query, slug))
}

func (r *articleRepository) ListPublishedArticles(ctx context.Context, limit, offset int) ([]domain.Article, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM articles WHERE is_published = true`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM articles
		WHERE is_published = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, articleColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return articles, total, nil
}

func (r *articleRepository) UpsertArticle(ctx context.Context, article *domain.Article) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO articles (id, slug, title, body, product_eans, metadata,
			is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			product_eans = EXCLUDED.product_eans,
			metadata = EXCLUDED.metadata,
			is_published = EXCLUDED.is_published,
			updated_at = EXCLUDED.updated_at`,
		article.ID, article.Slug, article.Title, article.Body, article.ProductEANs,
		article.Metadata, article.IsPublished, article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

func (r *articleRepository) DeleteArticle(ctx context.Context, slug string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM articles WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}
