package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"productpraat-backend/internal/domain"

	"github.com/goccy/go-json"
)

// memStore is an in-memory AffiliateStore that round-trips through JSON the
// way the real document store does.
type memStore struct {
	configDoc []byte
	ledgerDoc []byte
	saveErr   error
}

func (m *memStore) LoadConfig(ctx context.Context) (*domain.AffiliateConfig, error) {
	if m.configDoc == nil {
		return nil, nil
	}
	var cfg domain.AffiliateConfig
	if err := json.Unmarshal(m.configDoc, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (m *memStore) SaveConfig(ctx context.Context, cfg *domain.AffiliateConfig) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	doc, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	m.configDoc = doc
	return nil
}

func (m *memStore) LoadLedger(ctx context.Context) (*domain.TrackingLedger, error) {
	if m.ledgerDoc == nil {
		return nil, nil
	}
	var ledger domain.TrackingLedger
	if err := json.Unmarshal(m.ledgerDoc, &ledger); err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (m *memStore) SaveLedger(ctx context.Context, ledger *domain.TrackingLedger) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	doc, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	m.ledgerDoc = doc
	return nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestTracking(store *memStore) *TrackingUsecase {
	uc := NewTrackingUsecase(store, nil)
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestRecordClickStats(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	if err := uc.RecordClick(ctx, "bol", "prod-1", "Koptelefoon"); err != nil {
		t.Fatalf("RecordClick: %v", err)
	}

	stats, err := uc.GetNetworkStats(ctx)
	if err != nil {
		t.Fatalf("GetNetworkStats: %v", err)
	}
	if len(stats) != 6 {
		t.Fatalf("GetNetworkStats returned %d networks, want 6", len(stats))
	}
	for _, s := range stats {
		want := 0
		if s.NetworkID == "bol" {
			want = 1
		}
		if s.Clicks != want {
			t.Errorf("network %s clicks = %d, want %d", s.NetworkID, s.Clicks, want)
		}
	}

	totals, err := uc.GetTotalStats(ctx)
	if err != nil {
		t.Fatalf("GetTotalStats: %v", err)
	}
	if totals.TotalClicks != 1 {
		t.Errorf("totalClicks = %d, want 1", totals.TotalClicks)
	}
}

func TestRecordClickEmptyIdentifiersNoOp(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	if err := uc.RecordClick(ctx, "", "prod-1", ""); err != nil {
		t.Fatalf("RecordClick with empty network: %v", err)
	}
	if err := uc.RecordClick(ctx, "bol", "", ""); err != nil {
		t.Fatalf("RecordClick with empty product: %v", err)
	}

	clicks, err := uc.GetClicks(ctx, "")
	if err != nil {
		t.Fatalf("GetClicks: %v", err)
	}
	if len(clicks) != 0 {
		t.Errorf("got %d clicks, want 0", len(clicks))
	}
}

func TestRecordConversionStats(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	if err := uc.RecordConversion(ctx, "awin", "prod-1", 12.50, "Smartwatch"); err != nil {
		t.Fatalf("RecordConversion: %v", err)
	}

	stats, err := uc.GetNetworkStats(ctx)
	if err != nil {
		t.Fatalf("GetNetworkStats: %v", err)
	}
	for _, s := range stats {
		if s.NetworkID == "awin" {
			if s.Conversions != 1 || s.Earnings != 12.50 {
				t.Errorf("awin stats = %+v, want 1 conversion / 12.50 earnings", s)
			}
		} else if s.Conversions != 0 {
			t.Errorf("network %s conversions = %d, want 0", s.NetworkID, s.Conversions)
		}
	}

	totals, err := uc.GetTotalStats(ctx)
	if err != nil {
		t.Fatalf("GetTotalStats: %v", err)
	}
	if totals.TotalConversions != 1 || totals.TotalEarnings != 12.50 {
		t.Errorf("totals = %+v, want 1 conversion / 12.50 earnings", totals)
	}
}

// A record older than the retention window must disappear from windowed
// reads but still count toward lifetime totals.
func TestRetentionExpiry(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	if err := uc.RecordClick(ctx, "bol", "prod-old", ""); err != nil {
		t.Fatalf("RecordClick: %v", err)
	}

	// Backdate the stored record to 91 days ago.
	ledger, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	ledger.Clicks[0].Timestamp = testNow.AddDate(0, 0, -91).Format(domain.TimestampLayout)
	if err := store.SaveLedger(ctx, ledger); err != nil {
		t.Fatalf("SaveLedger: %v", err)
	}

	clicks, err := uc.GetClicks(ctx, "")
	if err != nil {
		t.Fatalf("GetClicks: %v", err)
	}
	if len(clicks) != 0 {
		t.Errorf("expired click still visible: %+v", clicks)
	}

	stats, err := uc.GetNetworkStats(ctx)
	if err != nil {
		t.Fatalf("GetNetworkStats: %v", err)
	}
	for _, s := range stats {
		if s.Clicks != 0 {
			t.Errorf("network %s clicks = %d after expiry, want 0", s.NetworkID, s.Clicks)
		}
	}

	totals, err := uc.GetTotalStats(ctx)
	if err != nil {
		t.Fatalf("GetTotalStats: %v", err)
	}
	if totals.TotalClicks != 1 {
		t.Errorf("lifetime totalClicks = %d, want 1 (retention-independent)", totals.TotalClicks)
	}

	// The cleanup must have been persisted too.
	stored, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if len(stored.Clicks) != 0 {
		t.Errorf("expired click still persisted")
	}
}

func TestRetentionKeepsRecentRecords(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	if err := uc.RecordClick(ctx, "bol", "prod-1", ""); err != nil {
		t.Fatalf("RecordClick: %v", err)
	}

	ledger, _ := store.LoadLedger(ctx)
	ledger.Clicks[0].Timestamp = testNow.AddDate(0, 0, -89).Format(domain.TimestampLayout)
	_ = store.SaveLedger(ctx, ledger)

	clicks, err := uc.GetClicks(ctx, "")
	if err != nil {
		t.Fatalf("GetClicks: %v", err)
	}
	if len(clicks) != 1 {
		t.Errorf("89-day-old click dropped, want kept")
	}
}

func TestGetClicksNetworkFilter(t *testing.T) {
	ctx := context.Background()
	uc := newTestTracking(&memStore{})

	_ = uc.RecordClick(ctx, "bol", "p1", "")
	_ = uc.RecordClick(ctx, "awin", "p2", "")
	_ = uc.RecordClick(ctx, "bol", "p3", "")

	clicks, err := uc.GetClicks(ctx, "bol")
	if err != nil {
		t.Fatalf("GetClicks: %v", err)
	}
	if len(clicks) != 2 {
		t.Fatalf("got %d bol clicks, want 2", len(clicks))
	}
	for _, c := range clicks {
		if c.NetworkID != "bol" {
			t.Errorf("filtered result contains network %s", c.NetworkID)
		}
	}
}

func TestGetDailyStats(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	_ = uc.RecordClick(ctx, "bol", "p1", "")
	_ = uc.RecordConversion(ctx, "bol", "p1", 5, "")

	// Move one click to two days ago.
	ledger, _ := store.LoadLedger(ctx)
	ledger.Clicks[0].Timestamp = testNow.AddDate(0, 0, -2).Format(domain.TimestampLayout)
	_ = store.SaveLedger(ctx, ledger)

	days, err := uc.GetDailyStats(ctx, 7)
	if err != nil {
		t.Fatalf("GetDailyStats: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("got %d buckets, want 7", len(days))
	}
	for i := 1; i < len(days); i++ {
		if days[i].Date <= days[i-1].Date {
			t.Errorf("dates not strictly increasing: %s then %s", days[i-1].Date, days[i].Date)
		}
	}
	if days[6].Date != testNow.Format("2006-01-02") {
		t.Errorf("last bucket = %s, want today %s", days[6].Date, testNow.Format("2006-01-02"))
	}
	if days[4].Clicks != 1 {
		t.Errorf("bucket two days ago clicks = %d, want 1", days[4].Clicks)
	}
	if days[6].Conversions != 1 {
		t.Errorf("today conversions = %d, want 1", days[6].Conversions)
	}
}

func TestGetTopProducts(t *testing.T) {
	ctx := context.Background()
	uc := newTestTracking(&memStore{})

	_ = uc.RecordClick(ctx, "bol", "A", "Product A")
	_ = uc.RecordClick(ctx, "bol", "B", "Product B")
	_ = uc.RecordClick(ctx, "bol", "A", "Product A")
	_ = uc.RecordClick(ctx, "awin", "A", "Product A")

	top, err := uc.GetTopProducts(ctx, 1)
	if err != nil {
		t.Fatalf("GetTopProducts: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("got %d entries, want 1", len(top))
	}
	if top[0].ProductID != "A" || top[0].Clicks != 3 {
		t.Errorf("top product = %+v, want A with 3 clicks", top[0])
	}
}

func TestGetTopProductsTieOrder(t *testing.T) {
	ctx := context.Background()
	uc := newTestTracking(&memStore{})

	_ = uc.RecordClick(ctx, "bol", "first", "")
	_ = uc.RecordClick(ctx, "bol", "second", "")

	top, err := uc.GetTopProducts(ctx, 2)
	if err != nil {
		t.Fatalf("GetTopProducts: %v", err)
	}
	if len(top) != 2 || top[0].ProductID != "first" || top[1].ProductID != "second" {
		t.Errorf("tie order not first-encountered: %+v", top)
	}
}

func TestGetRecentClicks(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := newTestTracking(store)

	_ = uc.RecordClick(ctx, "bol", "p1", "")
	_ = uc.RecordClick(ctx, "bol", "p2", "")
	_ = uc.RecordClick(ctx, "bol", "p3", "")

	// Spread the timestamps so ordering is meaningful.
	ledger, _ := store.LoadLedger(ctx)
	for i := range ledger.Clicks {
		ledger.Clicks[i].Timestamp = testNow.Add(time.Duration(i) * time.Minute).Format(domain.TimestampLayout)
	}
	_ = store.SaveLedger(ctx, ledger)

	recent, err := uc.GetRecentClicks(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecentClicks: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want 2", len(recent))
	}
	if recent[0].ProductID != "p3" || recent[1].ProductID != "p2" {
		t.Errorf("recent order wrong: %s, %s", recent[0].ProductID, recent[1].ProductID)
	}
}

func TestClearTrackingData(t *testing.T) {
	ctx := context.Background()
	uc := newTestTracking(&memStore{})

	_ = uc.RecordClick(ctx, "bol", "p1", "")
	_ = uc.RecordConversion(ctx, "bol", "p1", 9.99, "")

	if err := uc.ClearTrackingData(ctx); err != nil {
		t.Fatalf("ClearTrackingData: %v", err)
	}

	clicks, _ := uc.GetClicks(ctx, "")
	conversions, _ := uc.GetConversions(ctx, "")
	if len(clicks) != 0 || len(conversions) != 0 {
		t.Errorf("collections not empty after clear: %d clicks, %d conversions", len(clicks), len(conversions))
	}

	totals, err := uc.GetTotalStats(ctx)
	if err != nil {
		t.Fatalf("GetTotalStats: %v", err)
	}
	if totals != (domain.TotalStats{}) {
		t.Errorf("totals not reset: %+v", totals)
	}
}

func TestRecordClickPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := &memStore{saveErr: errors.New("storage unavailable")}
	uc := newTestTracking(store)

	err := uc.RecordClick(ctx, "bol", "p1", "")
	if err == nil {
		t.Fatal("RecordClick returned nil, want persist error surfaced")
	}
}

func TestRecordIDsTimeSortable(t *testing.T) {
	earlier := newRecordID(testNow)
	later := newRecordID(testNow.Add(time.Second))
	if !(earlier < later) {
		t.Errorf("record ids not time-sortable: %s !< %s", earlier, later)
	}
}
