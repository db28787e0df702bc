package usecase

import (
	"context"
	"testing"
	"time"

	"productpraat-backend/internal/affiliate"
	"productpraat-backend/internal/domain"
)

func newTestConfig(store *memStore) *AffiliateConfigUsecase {
	uc := NewAffiliateConfigUsecase(store)
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestLoadConfigDefaults(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestConfig(store)

	cfg, err := uc.LoadConfig(ctx)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Networks) != 6 {
		t.Fatalf("got %d networks, want 6", len(cfg.Networks))
	}
	for i, n := range affiliate.Networks() {
		nc := cfg.Networks[i]
		if nc.NetworkID != string(n) {
			t.Errorf("network %d = %s, want %s", i, nc.NetworkID, n)
		}
		if nc.Enabled || nc.AffiliateID != "" {
			t.Errorf("default entry %s not disabled/empty: %+v", nc.NetworkID, nc)
		}
	}
	if cfg.Network("bol").Name != "Bol.com Partner" {
		t.Errorf("bol display name = %q", cfg.Network("bol").Name)
	}

	// First load persists the defaults.
	if store.configDoc == nil {
		t.Error("defaults were not persisted on first load")
	}
}

func TestLoadConfigMergePreservesCustomizations(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	seed := &domain.AffiliateConfig{
		Networks: []domain.NetworkConfig{
			{NetworkID: "bol", Name: "Old Name", AffiliateID: "42", Enabled: true, Notes: "live"},
			{NetworkID: "retired-network", AffiliateID: "x"},
		},
		Stats:     domain.TotalStats{TotalClicks: 7, TotalEarnings: 1.5},
		UpdatedAt: "2025-01-01T00:00:00.000Z",
	}
	if err := store.SaveConfig(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := newTestConfig(store)
	cfg, err := uc.LoadConfig(ctx)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if len(cfg.Networks) != 6 {
		t.Fatalf("got %d networks, want 6 (stale entry dropped, missing ones defaulted)", len(cfg.Networks))
	}
	bol := cfg.Network("bol")
	if bol.AffiliateID != "42" || !bol.Enabled || bol.Notes != "live" {
		t.Errorf("persisted bol customization lost: %+v", bol)
	}
	if bol.Name != "Bol.com Partner" {
		t.Errorf("display name should follow code, got %q", bol.Name)
	}
	if cfg.Network("retired-network") != nil {
		t.Error("stale network survived the merge")
	}
	if cfg.Network("awin") == nil {
		t.Error("missing network not filled from defaults")
	}
	if cfg.Stats.TotalClicks != 7 || cfg.Stats.TotalEarnings != 1.5 {
		t.Errorf("lifetime stats lost in merge: %+v", cfg.Stats)
	}
	if cfg.UpdatedAt != "2025-01-01T00:00:00.000Z" {
		t.Errorf("aggregate updatedAt rewritten on read: %s", cfg.UpdatedAt)
	}
}

func TestUpdateNetworkPartial(t *testing.T) {
	ctx := context.Background()
	uc := newTestConfig(&memStore{})

	id := "42"
	enabled := true
	cfg, err := uc.UpdateNetwork(ctx, "bol", domain.NetworkConfigUpdate{AffiliateID: &id, Enabled: &enabled})
	if err != nil {
		t.Fatalf("UpdateNetwork: %v", err)
	}
	bol := cfg.Network("bol")
	if bol.AffiliateID != "42" || !bol.Enabled {
		t.Errorf("update not applied: %+v", bol)
	}

	// A later partial update must not disturb the other fields.
	notes := "primary network"
	cfg, err = uc.UpdateNetwork(ctx, "bol", domain.NetworkConfigUpdate{Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateNetwork: %v", err)
	}
	bol = cfg.Network("bol")
	if bol.AffiliateID != "42" || !bol.Enabled || bol.Notes != "primary network" {
		t.Errorf("partial update clobbered fields: %+v", bol)
	}

	ts := testNow.UTC().Format(domain.TimestampLayout)
	if bol.UpdatedAt != ts || cfg.UpdatedAt != ts {
		t.Errorf("updatedAt not stamped: network=%s aggregate=%s", bol.UpdatedAt, cfg.UpdatedAt)
	}
}

func TestUpdateNetworkUnknown(t *testing.T) {
	uc := newTestConfig(&memStore{})
	if _, err := uc.UpdateNetwork(context.Background(), "clickbank", domain.NetworkConfigUpdate{}); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestGenerateLinkBolWrapper(t *testing.T) {
	ctx := context.Background()
	uc := newTestConfig(&memStore{})

	id := "42"
	enabled := true
	if _, err := uc.UpdateNetwork(ctx, "bol", domain.NetworkConfigUpdate{AffiliateID: &id, Enabled: &enabled}); err != nil {
		t.Fatalf("UpdateNetwork: %v", err)
	}

	got, err := uc.GenerateLink(ctx, "https://www.bol.com/nl/p/X", "")
	if err != nil {
		t.Fatalf("GenerateLink: %v", err)
	}
	want := "https://partner.bol.com/click/click?p=2&t=url&s=42&f=TXL&url=https%3A%2F%2Fwww.bol.com%2Fnl%2Fp%2FX"
	if got != want {
		t.Errorf("GenerateLink = %q, want %q", got, want)
	}
}

func TestGenerateLinkPassThrough(t *testing.T) {
	ctx := context.Background()
	uc := newTestConfig(&memStore{})

	// Enabled but with a different URL universe than the override cases below.
	id := "abc"
	enabled := true
	if _, err := uc.UpdateNetwork(ctx, "awin", domain.NetworkConfigUpdate{AffiliateID: &id, Enabled: &enabled}); err != nil {
		t.Fatalf("UpdateNetwork: %v", err)
	}

	tests := []struct {
		name     string
		rawURL   string
		override affiliate.Network
	}{
		{"empty url", "", ""},
		{"no network match", "https://example.com/page", ""},
		{"invalid override", "https://example.com/page", affiliate.Network("bogus")},
		{"network disabled", "https://www.bol.com/nl/p/X", ""},
		{"no affiliate id", "https://tc.tradetracker.net/?c=1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.GenerateLink(ctx, tt.rawURL, tt.override)
			if err != nil {
				t.Fatalf("GenerateLink: %v", err)
			}
			if got != tt.rawURL {
				t.Errorf("GenerateLink = %q, want input unchanged %q", got, tt.rawURL)
			}
		})
	}
}

func TestGenerateLinkOverride(t *testing.T) {
	ctx := context.Background()
	uc := newTestConfig(&memStore{})

	id := "camp-9"
	enabled := true
	if _, err := uc.UpdateNetwork(ctx, "awin", domain.NetworkConfigUpdate{AffiliateID: &id, Enabled: &enabled}); err != nil {
		t.Fatalf("UpdateNetwork: %v", err)
	}

	// The URL would not be detected as awin, but the override forces it.
	got, err := uc.GenerateLink(ctx, "https://merchant.example.com/deal", affiliate.NetworkAwin)
	if err != nil {
		t.Fatalf("GenerateLink: %v", err)
	}
	want := "https://merchant.example.com/deal?awc=camp-9"
	if got != want {
		t.Errorf("GenerateLink = %q, want %q", got, want)
	}
}
