package domain

import (
	"context"
)

// TimestampLayout is the wire format for all affiliate timestamps: ISO-8601
// UTC with millisecond precision. The fixed width makes lexicographic
// comparison equivalent to chronological ordering, which the ledger relies
// on for retention and recency sorting.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// NetworkConfig is the per-network affiliate configuration. Exactly one
// entry exists per supported network; networks missing from persisted state
// are synthesized with an empty affiliate id and enabled=false.
type NetworkConfig struct {
	NetworkID   string `json:"networkId"`
	Name        string `json:"name"`
	AffiliateID string `json:"affiliateId"`
	Enabled     bool   `json:"enabled"`
	Notes       string `json:"notes"`
	UpdatedAt   string `json:"updatedAt"`
}

// TotalStats are lifetime counters. They are never decremented by retention
// expiry: lifetime totals and the windowed network breakdown are different
// numbers by design.
type TotalStats struct {
	TotalClicks      int     `json:"totalClicks"`
	TotalConversions int     `json:"totalConversions"`
	TotalEarnings    float64 `json:"totalEarnings"`
}

// AffiliateConfig is the singleton configuration aggregate.
type AffiliateConfig struct {
	Networks  []NetworkConfig `json:"networks"`
	Stats     TotalStats      `json:"stats"`
	UpdatedAt string          `json:"updatedAt"`
}

// Network returns the config entry for the given network id, or nil.
func (c *AffiliateConfig) Network(networkID string) *NetworkConfig {
	for i := range c.Networks {
		if c.Networks[i].NetworkID == networkID {
			return &c.Networks[i]
		}
	}
	return nil
}

// NetworkConfigUpdate carries a partial update; nil fields are left as-is.
type NetworkConfigUpdate struct {
	AffiliateID *string `json:"affiliateId"`
	Enabled     *bool   `json:"enabled"`
	Notes       *string `json:"notes"`
}

// ClickRecord marks that a user followed an affiliate link. Immutable once
// created; removed only by retention expiry or an explicit bulk clear.
type ClickRecord struct {
	ID          string `json:"id"`
	NetworkID   string `json:"networkId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// ConversionRecord marks that a click resulted in a purchase, with the
// commission amount in EUR.
type ConversionRecord struct {
	ID          string  `json:"id"`
	NetworkID   string  `json:"networkId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Amount      float64 `json:"amount"`
	Timestamp   string  `json:"timestamp"`
}

// TrackingLedger owns the full click and conversion collections. Records
// older than the retention window are logically absent at every read or
// write.
type TrackingLedger struct {
	Clicks      []ClickRecord      `json:"clicks"`
	Conversions []ConversionRecord `json:"conversions"`
}

// NetworkStats is the windowed per-network breakdown derived from the
// retained ledger.
type NetworkStats struct {
	NetworkID   string  `json:"networkId"`
	Clicks      int     `json:"clicks"`
	Conversions int     `json:"conversions"`
	Earnings    float64 `json:"earnings"`
}

// TopProduct is one entry of the click-count ranking.
type TopProduct struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Clicks      int    `json:"clicks"`
}

// DailyStat is one calendar-day bucket (UTC, YYYY-MM-DD).
type DailyStat struct {
	Date        string `json:"date"`
	Clicks      int    `json:"clicks"`
	Conversions int    `json:"conversions"`
}

// AffiliateStore persists the two affiliate documents: the config aggregate
// and the tracking ledger. Both are whole-document reads and writes; Load
// methods return (nil, nil) when nothing has been persisted yet.
type AffiliateStore interface {
	LoadConfig(ctx context.Context) (*AffiliateConfig, error)
	SaveConfig(ctx context.Context, cfg *AffiliateConfig) error
	LoadLedger(ctx context.Context) (*TrackingLedger, error)
	SaveLedger(ctx context.Context, ledger *TrackingLedger) error
}

// ClickCounter is an optional realtime counter (e.g. Redis-backed) bumped on
// every recorded click. Implementations must be cheap and failure-tolerant.
type ClickCounter interface {
	IncrClick(ctx context.Context, productID string) error
}
