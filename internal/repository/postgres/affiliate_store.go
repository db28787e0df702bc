package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"productpraat-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document keys for the two affiliate aggregates. Each aggregate is one jsonb
// row, read and written whole.
const (
	docKeyConfig = "affiliate_config"
	docKeyLedger = "affiliate_tracking"
)

type affiliateStore struct {
	db *pgxpool.Pool
}

func NewAffiliateStore(db *pgxpool.Pool) domain.AffiliateStore {
	return &affiliateStore{db: db}
}

func (s *affiliateStore) loadDoc(ctx context.Context, key string, out any) (bool, error) {
	var doc []byte
	err := s.db.QueryRow(ctx,
		`SELECT doc FROM affiliate_documents WHERE key = $1`, key,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load document %s: %w", key, err)
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return false, fmt.Errorf("decode document %s: %w", key, err)
	}
	return true, nil
}

func (s *affiliateStore) saveDoc(ctx context.Context, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO affiliate_documents (key, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		key, doc,
	)
	if err != nil {
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}

func (s *affiliateStore) LoadConfig(ctx context.Context) (*domain.AffiliateConfig, error) {
	var cfg domain.AffiliateConfig
	found, err := s.loadDoc(ctx, docKeyConfig, &cfg)
	if err != nil || !found {
		return nil, err
	}
	return &cfg, nil
}

func (s *affiliateStore) SaveConfig(ctx context.Context, cfg *domain.AffiliateConfig) error {
	return s.saveDoc(ctx, docKeyConfig, cfg)
}

func (s *affiliateStore) LoadLedger(ctx context.Context) (*domain.TrackingLedger, error) {
	var ledger domain.TrackingLedger
	found, err := s.loadDoc(ctx, docKeyLedger, &ledger)
	if err != nil || !found {
		return nil, err
	}
	return &ledger, nil
}

func (s *affiliateStore) SaveLedger(ctx context.Context, ledger *domain.TrackingLedger) error {
	return s.saveDoc(ctx, docKeyLedger, ledger)
}
