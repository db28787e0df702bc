package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"productpraat-backend/internal/affiliate"
	"productpraat-backend/internal/domain"
	"productpraat-backend/pkg/logger"

	"github.com/google/uuid"
)

// RetentionDays is the rolling window for click and conversion records.
// Expiry is re-evaluated on every ledger read or write; there is no
// background timer.
const RetentionDays = 90

// TrackingUsecase is the event ledger: append-only click/conversion
// recording plus on-demand aggregates. The store is a whole-document
// read-modify-write, so a mutex serializes in-process writers; cross-instance
// writers can still race (last write wins), which is an accepted limitation
// of the persistence model.
type TrackingUsecase struct {
	store   domain.AffiliateStore
	counter domain.ClickCounter // optional, may be nil
	now     func() time.Time
	mu      sync.Mutex
}

func NewTrackingUsecase(store domain.AffiliateStore, counter domain.ClickCounter) *TrackingUsecase {
	return &TrackingUsecase{
		store:   store,
		counter: counter,
		now:     time.Now,
	}
}

// newRecordID returns an opaque, unique, time-sortable id.
func newRecordID(t time.Time) string {
	return fmt.Sprintf("%013d-%s", t.UnixMilli(), uuid.NewString()[:8])
}

// RecordClick appends a click event, bumps the lifetime click counter, runs
// retention cleanup and persists both documents. Empty identifiers make the
// call a logged no-op, not an error; a failed persist is returned so callers
// can surface a warning, but the recorded event is not rolled back.
func (uc *TrackingUsecase) RecordClick(ctx context.Context, networkID, productID, productName string) error {
	if networkID == "" || productID == "" {
		logger.Get().Warn().
			Str("network_id", networkID).
			Str("product_id", productID).
			Msg("recordClick called with empty identifier, ignoring")
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now().UTC()
	ledger, err := uc.loadLedger(ctx)
	if err != nil {
		return err
	}

	ledger.Clicks = append(ledger.Clicks, domain.ClickRecord{
		ID:          newRecordID(now),
		NetworkID:   networkID,
		ProductID:   productID,
		ProductName: productName,
		Timestamp:   now.Format(domain.TimestampLayout),
	})
	purgeExpired(ledger, now)

	if err := uc.store.SaveLedger(ctx, ledger); err != nil {
		return fmt.Errorf("persist tracking ledger: %w", err)
	}
	if err := uc.bumpTotals(ctx, now, func(s *domain.TotalStats) { s.TotalClicks++ }); err != nil {
		return err
	}

	if uc.counter != nil {
		if err := uc.counter.IncrClick(ctx, productID); err != nil {
			logger.Get().Warn().Err(err).Str("product_id", productID).Msg("realtime click counter increment failed")
		}
	}
	return nil
}

// RecordConversion appends a conversion event with its commission amount.
// Negative amounts are recorded as given but flagged, preserving the lenient
// legacy behavior.
func (uc *TrackingUsecase) RecordConversion(ctx context.Context, networkID, productID string, amount float64, productName string) error {
	if networkID == "" || productID == "" {
		logger.Get().Warn().
			Str("network_id", networkID).
			Str("product_id", productID).
			Msg("recordConversion called with empty identifier, ignoring")
		return nil
	}
	if amount < 0 {
		logger.Get().Warn().
			Float64("amount", amount).
			Str("product_id", productID).
			Msg("recordConversion called with negative amount")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now().UTC()
	ledger, err := uc.loadLedger(ctx)
	if err != nil {
		return err
	}

	ledger.Conversions = append(ledger.Conversions, domain.ConversionRecord{
		ID:          newRecordID(now),
		NetworkID:   networkID,
		ProductID:   productID,
		ProductName: productName,
		Amount:      amount,
		Timestamp:   now.Format(domain.TimestampLayout),
	})
	purgeExpired(ledger, now)

	if err := uc.store.SaveLedger(ctx, ledger); err != nil {
		return fmt.Errorf("persist tracking ledger: %w", err)
	}
	return uc.bumpTotals(ctx, now, func(s *domain.TotalStats) {
		s.TotalConversions++
		s.TotalEarnings += amount
	})
}

// GetClicks returns all retained clicks, optionally filtered to one network.
func (uc *TrackingUsecase) GetClicks(ctx context.Context, networkID string) ([]domain.ClickRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}
	if networkID == "" {
		return ledger.Clicks, nil
	}
	out := make([]domain.ClickRecord, 0, len(ledger.Clicks))
	for _, c := range ledger.Clicks {
		if c.NetworkID == networkID {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetConversions returns all retained conversions, optionally filtered.
func (uc *TrackingUsecase) GetConversions(ctx context.Context, networkID string) ([]domain.ConversionRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}
	if networkID == "" {
		return ledger.Conversions, nil
	}
	out := make([]domain.ConversionRecord, 0, len(ledger.Conversions))
	for _, c := range ledger.Conversions {
		if c.NetworkID == networkID {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetNetworkStats scans the retained ledger once and returns a triple for
// every known network, including ones with zero activity.
func (uc *TrackingUsecase) GetNetworkStats(ctx context.Context) ([]domain.NetworkStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}

	networks := affiliate.Networks()
	stats := make([]domain.NetworkStats, len(networks))
	index := make(map[string]*domain.NetworkStats, len(networks))
	for i, n := range networks {
		stats[i] = domain.NetworkStats{NetworkID: string(n)}
		index[string(n)] = &stats[i]
	}

	for _, c := range ledger.Clicks {
		if s, ok := index[c.NetworkID]; ok {
			s.Clicks++
		}
	}
	for _, c := range ledger.Conversions {
		if s, ok := index[c.NetworkID]; ok {
			s.Conversions++
			s.Earnings += c.Amount
		}
	}
	return stats, nil
}

// GetTotalStats returns the lifetime counters stored on the config
// aggregate. These are never decremented by retention expiry: lifetime
// totals and the windowed breakdown are deliberately different numbers.
func (uc *TrackingUsecase) GetTotalStats(ctx context.Context) (domain.TotalStats, error) {
	persisted, err := uc.store.LoadConfig(ctx)
	if err != nil {
		return domain.TotalStats{}, fmt.Errorf("load affiliate config: %w", err)
	}
	if persisted == nil {
		return domain.TotalStats{}, nil
	}
	return persisted.Stats, nil
}

// GetTopProducts groups retained clicks by product and returns the `limit`
// most clicked, ties broken by first-encountered order.
func (uc *TrackingUsecase) GetTopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}

	var ranked []domain.TopProduct
	index := make(map[string]int)
	for _, c := range ledger.Clicks {
		if i, ok := index[c.ProductID]; ok {
			ranked[i].Clicks++
			continue
		}
		index[c.ProductID] = len(ranked)
		ranked = append(ranked, domain.TopProduct{
			ProductID:   c.ProductID,
			ProductName: c.ProductName,
			Clicks:      1,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Clicks > ranked[j].Clicks
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit], nil
}

// GetDailyStats returns one bucket per calendar day (UTC) for the trailing
// `days` days including today, ascending by date. Days without activity
// still appear with zero counts.
func (uc *TrackingUsecase) GetDailyStats(ctx context.Context, days int) ([]domain.DailyStat, error) {
	if days < 1 {
		days = 1
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	buckets := make([]domain.DailyStat, days)
	index := make(map[string]*domain.DailyStat, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i-(days-1)).Format("2006-01-02")
		buckets[i] = domain.DailyStat{Date: date}
		index[date] = &buckets[i]
	}

	for _, c := range ledger.Clicks {
		if b, ok := index[dayOf(c.Timestamp)]; ok {
			b.Clicks++
		}
	}
	for _, c := range ledger.Conversions {
		if b, ok := index[dayOf(c.Timestamp)]; ok {
			b.Conversions++
		}
	}
	return buckets, nil
}

// GetRecentClicks returns the `limit` most recent clicks, newest first.
func (uc *TrackingUsecase) GetRecentClicks(ctx context.Context, limit int) ([]domain.ClickRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ClickRecord, len(ledger.Clicks))
	copy(out, ledger.Clicks)
	// Fixed-width ISO timestamps sort lexicographically in time order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return clampRecords(out, limit), nil
}

// GetRecentConversions returns the `limit` most recent conversions, newest
// first.
func (uc *TrackingUsecase) GetRecentConversions(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ledger, err := uc.retainedLedger(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ConversionRecord, len(ledger.Conversions))
	copy(out, ledger.Conversions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return clampRecords(out, limit), nil
}

// ClearTrackingData empties both collections and zeroes the lifetime
// counters in one logical operation.
func (uc *TrackingUsecase) ClearTrackingData(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.store.SaveLedger(ctx, &domain.TrackingLedger{
		Clicks:      []domain.ClickRecord{},
		Conversions: []domain.ConversionRecord{},
	}); err != nil {
		return fmt.Errorf("persist tracking ledger: %w", err)
	}

	now := uc.now().UTC()
	persisted, err := uc.store.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load affiliate config: %w", err)
	}
	cfg := mergeWithDefaults(persisted, now)
	cfg.Stats = domain.TotalStats{}
	cfg.UpdatedAt = now.Format(domain.TimestampLayout)
	if err := uc.store.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("persist affiliate config: %w", err)
	}
	return nil
}

// --- internals ---

func (uc *TrackingUsecase) loadLedger(ctx context.Context) (*domain.TrackingLedger, error) {
	ledger, err := uc.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tracking ledger: %w", err)
	}
	if ledger == nil {
		ledger = &domain.TrackingLedger{}
	}
	return ledger, nil
}

// retainedLedger loads the ledger, purges expired records and persists the
// cleaned document, so expiry is enforced lazily but consistently on every
// read.
func (uc *TrackingUsecase) retainedLedger(ctx context.Context) (*domain.TrackingLedger, error) {
	ledger, err := uc.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	if purgeExpired(ledger, uc.now().UTC()) {
		if err := uc.store.SaveLedger(ctx, ledger); err != nil {
			// The filtered view is still correct; report the failed persist.
			logger.Get().Warn().Err(err).Msg("failed to persist retention cleanup")
		}
	}
	return ledger, nil
}

// bumpTotals applies fn to the lifetime counters and persists the config.
func (uc *TrackingUsecase) bumpTotals(ctx context.Context, now time.Time, fn func(*domain.TotalStats)) error {
	persisted, err := uc.store.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load affiliate config: %w", err)
	}
	cfg := mergeWithDefaults(persisted, now)
	fn(&cfg.Stats)
	cfg.UpdatedAt = now.Format(domain.TimestampLayout)
	if err := uc.store.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("persist affiliate config: %w", err)
	}
	return nil
}

// purgeExpired drops records older than the retention window. The cutoff is
// compared as a string: the fixed-width timestamp layout makes lexicographic
// order chronological, so records never need parsing.
func purgeExpired(ledger *domain.TrackingLedger, now time.Time) bool {
	cutoff := now.AddDate(0, 0, -RetentionDays).Format(domain.TimestampLayout)
	changed := false

	clicks := ledger.Clicks[:0]
	for _, c := range ledger.Clicks {
		if c.Timestamp >= cutoff {
			clicks = append(clicks, c)
		} else {
			changed = true
		}
	}
	ledger.Clicks = clicks

	conversions := ledger.Conversions[:0]
	for _, c := range ledger.Conversions {
		if c.Timestamp >= cutoff {
			conversions = append(conversions, c)
		} else {
			changed = true
		}
	}
	ledger.Conversions = conversions

	return changed
}

// dayOf extracts the YYYY-MM-DD portion of a ledger timestamp.
func dayOf(timestamp string) string {
	if len(timestamp) < 10 {
		return ""
	}
	return timestamp[:10]
}

func clampRecords[T any](records []T, limit int) []T {
	if limit < 0 {
		limit = 0
	}
	if limit > len(records) {
		limit = len(records)
	}
	return records[:limit]
}
