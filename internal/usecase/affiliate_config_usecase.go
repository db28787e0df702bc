package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"productpraat-backend/internal/affiliate"
	"productpraat-backend/internal/domain"
)

// AffiliateConfigUsecase owns the singleton network configuration: lazy
// load-or-default, partial updates, and outbound link generation against the
// stored per-network affiliate ids.
type AffiliateConfigUsecase struct {
	store domain.AffiliateStore
	now   func() time.Time
	mu    sync.Mutex
}

func NewAffiliateConfigUsecase(store domain.AffiliateStore) *AffiliateConfigUsecase {
	return &AffiliateConfigUsecase{
		store: store,
		now:   time.Now,
	}
}

// defaultNetworkConfigs synthesizes one disabled, unconfigured entry per
// supported network in enumeration order.
func defaultNetworkConfigs(now time.Time) []domain.NetworkConfig {
	networks := affiliate.Networks()
	out := make([]domain.NetworkConfig, len(networks))
	ts := now.UTC().Format(domain.TimestampLayout)
	for i, n := range networks {
		out[i] = domain.NetworkConfig{
			NetworkID: string(n),
			Name:      affiliate.DisplayName(n),
			Enabled:   false,
			UpdatedAt: ts,
		}
	}
	return out
}

// mergeWithDefaults rehydrates a persisted config against the current
// network list: networks added to the code after the config was persisted
// appear with defaults, and persisted customizations are preserved. Exactly
// one entry per known network comes out; stale entries for networks the code
// no longer knows are dropped.
func mergeWithDefaults(persisted *domain.AffiliateConfig, now time.Time) *domain.AffiliateConfig {
	merged := &domain.AffiliateConfig{
		Networks:  defaultNetworkConfigs(now),
		UpdatedAt: now.UTC().Format(domain.TimestampLayout),
	}
	if persisted == nil {
		return merged
	}

	merged.Stats = persisted.Stats
	if persisted.UpdatedAt != "" {
		merged.UpdatedAt = persisted.UpdatedAt
	}
	for i := range merged.Networks {
		if existing := persisted.Network(merged.Networks[i].NetworkID); existing != nil {
			name := merged.Networks[i].Name
			merged.Networks[i] = *existing
			// Display names follow the code, not old persisted state.
			merged.Networks[i].Name = name
		}
	}
	return merged
}

// LoadConfig returns the merged configuration, persisting the defaults on
// first load so subsequent readers see a stable document.
func (uc *AffiliateConfigUsecase) LoadConfig(ctx context.Context) (*domain.AffiliateConfig, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.loadMerged(ctx)
}

func (uc *AffiliateConfigUsecase) loadMerged(ctx context.Context) (*domain.AffiliateConfig, error) {
	persisted, err := uc.store.LoadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load affiliate config: %w", err)
	}
	merged := mergeWithDefaults(persisted, uc.now())
	if persisted == nil {
		if err := uc.store.SaveConfig(ctx, merged); err != nil {
			// Best-effort initial persist; the merged result is still usable.
			return merged, fmt.Errorf("persist default affiliate config: %w", err)
		}
	}
	return merged, nil
}

// UpdateNetwork applies a partial update to one network's config and
// persists the full aggregate. Unknown networks are an error; networks are
// never deleted, only reset via updates.
func (uc *AffiliateConfigUsecase) UpdateNetwork(ctx context.Context, networkID string, upd domain.NetworkConfigUpdate) (*domain.AffiliateConfig, error) {
	if !affiliate.Valid(affiliate.Network(networkID)) {
		return nil, fmt.Errorf("unknown affiliate network %q", networkID)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	cfg, err := uc.loadMerged(ctx)
	if err != nil {
		return nil, err
	}

	nc := cfg.Network(networkID)
	if upd.AffiliateID != nil {
		nc.AffiliateID = *upd.AffiliateID
	}
	if upd.Enabled != nil {
		nc.Enabled = *upd.Enabled
	}
	if upd.Notes != nil {
		nc.Notes = *upd.Notes
	}
	ts := uc.now().UTC().Format(domain.TimestampLayout)
	nc.UpdatedAt = ts
	cfg.UpdatedAt = ts

	if err := uc.store.SaveConfig(ctx, cfg); err != nil {
		return cfg, fmt.Errorf("persist affiliate config: %w", err)
	}
	return cfg, nil
}

// GenerateLink produces the outbound trackable URL for rawURL. The network
// is taken from override when given, detected otherwise. Any failure to
// resolve a usable network (no match, no affiliate id, disabled) returns the
// input unchanged: rewriting is strictly additive.
func (uc *AffiliateConfigUsecase) GenerateLink(ctx context.Context, rawURL string, override affiliate.Network) (string, error) {
	if rawURL == "" {
		return rawURL, nil
	}

	network := override
	if network == "" {
		detected, ok := affiliate.Detect(rawURL)
		if !ok {
			return rawURL, nil
		}
		network = detected
	}
	if !affiliate.Valid(network) {
		return rawURL, nil
	}

	cfg, err := uc.LoadConfig(ctx)
	if err != nil {
		return rawURL, err
	}

	nc := cfg.Network(string(network))
	if nc == nil || nc.AffiliateID == "" || !nc.Enabled {
		return rawURL, nil
	}
	return affiliate.Generate(rawURL, network, nc.AffiliateID), nil
}
