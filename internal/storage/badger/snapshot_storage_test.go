package badger

import (
	"context"
	"testing"
	"time"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/models"
)

func newTestSnapshots(t *testing.T) (*SnapshotStorage, *time.Time) {
	t.Helper()
	store := NewSnapshotStorage(setupTestDB(t), common.NewSilentLogger())
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func sampleBars() []models.Bar {
	d := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	return []models.Bar{
		{Date: d, Open: 199, High: 201, Low: 198, Close: 200.5, AdjClose: 200.5, Volume: 1000},
		{Date: d.AddDate(0, 0, 3), Open: 200, High: 203, Low: 199, Close: 202.1, AdjClose: 202.1, Volume: 1200},
	}
}

func TestSnapshotStorage_TickerRoundTrip(t *testing.T) {
	store, _ := newTestSnapshots(t)
	ctx := context.Background()
	pe := 31.2

	data := &models.TickerData{
		Symbol:  "AAPL",
		Info:    &models.Info{Symbol: "AAPL", LongName: "Apple Inc.", TrailingPE: &pe},
		History: sampleBars(),
		News:    []models.NewsItem{{Title: "Apple unveils new chip"}},
	}
	if err := store.SaveTicker(ctx, data); err != nil {
		t.Fatalf("SaveTicker failed: %v", err)
	}

	got, ok, err := store.LoadTicker(ctx, "AAPL", time.Hour)
	if err != nil {
		t.Fatalf("LoadTicker failed: %v", err)
	}
	if !ok {
		t.Fatal("expected fresh snapshot")
	}
	if got.Info.TrailingPE == nil || *got.Info.TrailingPE != pe {
		t.Errorf("expected trailing PE %v, got %v", pe, got.Info.TrailingPE)
	}
	if len(got.History) != 2 || got.History[1].Close != 202.1 {
		t.Errorf("unexpected history: %+v", got.History)
	}
}

func TestSnapshotStorage_TickerStale(t *testing.T) {
	store, now := newTestSnapshots(t)
	ctx := context.Background()

	if err := store.SaveTicker(ctx, &models.TickerData{Symbol: "MSFT", Info: &models.Info{Symbol: "MSFT"}}); err != nil {
		t.Fatalf("SaveTicker failed: %v", err)
	}

	*now = now.Add(2 * time.Hour)

	_, ok, err := store.LoadTicker(ctx, "MSFT", time.Hour)
	if err != nil {
		t.Fatalf("LoadTicker failed: %v", err)
	}
	if ok {
		t.Error("expected stale snapshot to be ignored")
	}
}

func TestSnapshotStorage_TickerMissing(t *testing.T) {
	store, _ := newTestSnapshots(t)

	_, ok, err := store.LoadTicker(context.Background(), "NOPE", time.Hour)
	if err != nil {
		t.Fatalf("expected no error for missing snapshot, got %v", err)
	}
	if ok {
		t.Error("expected missing snapshot")
	}
}

func TestSnapshotStorage_SaveTickerRequiresSymbol(t *testing.T) {
	store, _ := newTestSnapshots(t)

	if err := store.SaveTicker(context.Background(), &models.TickerData{}); err == nil {
		t.Error("expected error for snapshot without symbol")
	}
}

func TestSnapshotStorage_HistoryPerPeriod(t *testing.T) {
	store, _ := newTestSnapshots(t)
	ctx := context.Background()

	if err := store.SaveHistory(ctx, "GOOGL", models.Period1Y, sampleBars()); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	bars, ok, err := store.LoadHistory(ctx, "GOOGL", models.Period1Y, time.Hour)
	if err != nil || !ok {
		t.Fatalf("expected stored 1y history, got ok=%v err=%v", ok, err)
	}
	if len(bars) != 2 {
		t.Errorf("expected 2 bars, got %d", len(bars))
	}

	_, ok, err = store.LoadHistory(ctx, "GOOGL", models.Period5Y, time.Hour)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if ok {
		t.Error("expected no 5y history")
	}
}

func TestSnapshotStorage_Purge(t *testing.T) {
	store, _ := newTestSnapshots(t)
	ctx := context.Background()

	store.SaveTicker(ctx, &models.TickerData{Symbol: "TSLA", Info: &models.Info{Symbol: "TSLA"}})
	store.SaveHistory(ctx, "TSLA", models.Period1Y, sampleBars())
	store.SaveHistory(ctx, "TSLA", models.Period5Y, sampleBars())
	store.SaveTicker(ctx, &models.TickerData{Symbol: "TSLAX", Info: &models.Info{Symbol: "TSLAX"}})
	store.SaveHistory(ctx, "TSLAX", models.Period1Y, sampleBars())

	if err := store.Purge(ctx, "TSLA"); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	if _, ok, _ := store.LoadTicker(ctx, "TSLA", time.Hour); ok {
		t.Error("expected ticker snapshot to be purged")
	}
	if _, ok, _ := store.LoadHistory(ctx, "TSLA", models.Period5Y, time.Hour); ok {
		t.Error("expected 5y history to be purged")
	}
	if _, ok, _ := store.LoadHistory(ctx, "TSLAX", models.Period1Y, time.Hour); !ok {
		t.Error("expected TSLAX history to survive")
	}
	if _, ok, _ := store.LoadTicker(ctx, "TSLAX", time.Hour); !ok {
		t.Error("expected TSLAX ticker to survive")
	}
}

func TestManager_ExposesStores(t *testing.T) {
	mgr, err := NewManager(common.NewSilentLogger(), &config.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.KeyValueStorage() == nil {
		t.Error("expected key-value storage")
	}
	if mgr.SnapshotStorage() == nil {
		t.Error("expected snapshot storage")
	}
	if mgr.DB() == nil {
		t.Error("expected underlying store")
	}
}
