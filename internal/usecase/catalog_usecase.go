package usecase

import (
	"context"
	"fmt"
	"time"

	"productpraat-backend/config"
	"productpraat-backend/internal/domain"
	"productpraat-backend/pkg/cache"
	"productpraat-backend/pkg/logger"
	"productpraat-backend/pkg/utils"
)

type CatalogUsecase struct {
	repo        domain.ProductRepository
	affiliateUC *AffiliateConfigUsecase
	cache       cache.CacheService
	cfg         *config.Config
}

func NewCatalogUsecase(repo domain.ProductRepository, affiliateUC *AffiliateConfigUsecase, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:        repo,
		affiliateUC: affiliateUC,
		cache:       cache,
		cfg:         cfg,
	}
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.Title == "" {
		return fmt.Errorf("product title is required")
	}
	if product.Slug == "" {
		product.Slug = utils.GenerateSlug(product.Title)
	}
	// EAN is the import key: re-importing the same Bol.com product must not
	// create a duplicate.
	if product.EAN != "" {
		existing, err := uc.repo.GetProductByEAN(ctx, product.EAN)
		if err != nil {
			return fmt.Errorf("check existing EAN: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("product with EAN %s already exists", product.EAN)
		}
	}
	if product.ID == "" {
		product.ID = utils.GenerateUUID()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	product.IsActive = true

	return uc.repo.CreateProduct(ctx, product)
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product ID required")
	}
	product.UpdatedAt = time.Now()
	uc.cache.Delete(fmt.Sprintf("product:slug:%s", product.Slug))
	return uc.repo.UpdateProduct(ctx, product)
}

func (uc *CatalogUsecase) UpdateProductStatus(ctx context.Context, id string, isActive bool) error {
	return uc.repo.UpdateProductStatus(ctx, id, isActive)
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	return uc.repo.DeleteProduct(ctx, id)
}

func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	products, total, err := uc.repo.GetProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		uc.decorateTrackingURL(ctx, &products[i])
	}
	return products, total, nil
}

func (uc *CatalogUsecase) GetProductDetails(ctx context.Context, slug string) (*domain.Product, error) {
	key := fmt.Sprintf("product:slug:%s", slug)
	if val, found := uc.cache.Get(key); found {
		product := val.(domain.Product)
		uc.decorateTrackingURL(ctx, &product)
		return &product, nil
	}

	product, err := uc.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	// Cached without the tracking URL so config changes take effect
	// immediately on the next read.
	uc.cache.Set(key, *product, uc.cfg.CacheProductTTL)

	uc.decorateTrackingURL(ctx, product)
	return product, nil
}

func (uc *CatalogUsecase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := uc.repo.GetProductByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}
	uc.decorateTrackingURL(ctx, product)
	return product, nil
}

// decorateTrackingURL fills TrackingURL from the stored outbound URL. The
// rewrite is strictly additive, so on any failure the bare product URL is
// served and the link stays followable.
func (uc *CatalogUsecase) decorateTrackingURL(ctx context.Context, product *domain.Product) {
	link, err := uc.affiliateUC.GenerateLink(ctx, product.ProductURL, "")
	if err != nil {
		logger.Get().Warn().Err(err).Str("product_id", product.ID).Msg("tracking url generation failed")
		product.TrackingURL = product.ProductURL
		return
	}
	product.TrackingURL = link
}
