package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"productpraat-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, ean, title, slug, description, price, strikethrough_price,
	rating, image_url, product_url, delivery_description, category,
	is_featured, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.EAN, &p.Title, &p.Slug, &p.Description, &p.Price,
		&p.StrikethroughPrice, &p.Rating, &p.ImageURL, &p.ProductURL,
		&p.DeliveryDescription, &p.Category, &p.IsFeatured, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}
	if filter.IsFeatured != nil {
		conds = append(conds, "is_featured = "+arg(*filter.IsFeatured))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.Sort {
	case "price_asc":
		orderBy = "price ASC"
	case "price_desc":
		orderBy = "price DESC"
	case "rating":
		orderBy = "rating DESC NULLS LAST"
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s LIMIT %s OFFSET %s",
		productColumns, where, orderBy, arg(filter.Limit), arg(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) getProductBy(ctx context.Context, column, value string) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE %s = $1", productColumns, column)
	return scanProduct(r.db.QueryRow(ctx, query, value))
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getProductBy(ctx, "slug", slug)
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getProductBy(ctx, "id", id)
}

func (r *productRepository) GetProductByEAN(ctx context.Context, ean string) (*domain.Product, error) {
	return r.getProductBy(ctx, "ean", ean)
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, ean, title, slug, description, price,
			strikethrough_price, rating, image_url, product_url,
			delivery_description, category, is_featured, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		product.ID, product.EAN, product.Title, product.Slug, product.Description,
		product.Price, product.StrikethroughPrice, product.Rating, product.ImageURL,
		product.ProductURL, product.DeliveryDescription, product.Category,
		product.IsFeatured, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			ean = $2, title = $3, slug = $4, description = $5, price = $6,
			strikethrough_price = $7, rating = $8, image_url = $9,
			product_url = $10, delivery_description = $11, category = $12,
			is_featured = $13, is_active = $14, updated_at = $15
		WHERE id = $1`,
		product.ID, product.EAN, product.Title, product.Slug, product.Description,
		product.Price, product.StrikethroughPrice, product.Rating, product.ImageURL,
		product.ProductURL, product.DeliveryDescription, product.Category,
		product.IsFeatured, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", product.ID)
	}
	return nil
}

func (r *productRepository) UpdateProductStatus(ctx context.Context, id string, isActive bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, isActive,
	)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
