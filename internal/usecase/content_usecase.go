package usecase

import (
	"context"
	"fmt"
	"time"

	"productpraat-backend/config"
	"productpraat-backend/internal/domain"
	"productpraat-backend/pkg/cache"
	"productpraat-backend/pkg/utils"
)

type ContentUsecase interface {
	GetArticle(ctx context.Context, slug string) (*domain.Article, error)
	ListArticles(ctx context.Context, limit, offset int) ([]domain.Article, int64, error)
	UpsertArticle(ctx context.Context, article *domain.Article) (*domain.Article, error)
	DeleteArticle(ctx context.Context, slug string) error
}

type contentUsecase struct {
	repo  domain.ArticleRepository
	cache cache.CacheService
	cfg   *config.Config
}

func NewContentUsecase(r domain.ArticleRepository, cache cache.CacheService, cfg *config.Config) ContentUsecase {
	return &contentUsecase{repo: r, cache: cache, cfg: cfg}
}

func articleCacheKey(slug string) string {
	return fmt.Sprintf("article:slug:%s", slug)
}

func (u *contentUsecase) GetArticle(ctx context.Context, slug string) (*domain.Article, error) {
	if val, found := u.cache.Get(articleCacheKey(slug)); found {
		article := val.(domain.Article)
		return &article, nil
	}

	article, err := u.repo.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}
	u.cache.Set(articleCacheKey(slug), *article, u.cfg.CacheArticleTTL)
	return article, nil
}

func (u *contentUsecase) ListArticles(ctx context.Context, limit, offset int) ([]domain.Article, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.ListPublishedArticles(ctx, limit, offset)
}

func (u *contentUsecase) UpsertArticle(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if article.Title == "" {
		return nil, fmt.Errorf("article title is required")
	}
	if article.Slug == "" {
		article.Slug = utils.GenerateSlug(article.Title)
	}
	if article.ID == "" {
		article.ID = utils.GenerateUUID()
	}
	article.UpdatedAt = time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = article.UpdatedAt
	}
	if err := u.repo.UpsertArticle(ctx, article); err != nil {
		return nil, err
	}
	u.cache.Delete(articleCacheKey(article.Slug))
	return article, nil
}

func (u *contentUsecase) DeleteArticle(ctx context.Context, slug string) error {
	if err := u.repo.DeleteArticle(ctx, slug); err != nil {
		return err
	}
	u.cache.Delete(articleCacheKey(slug))
	return nil
}
