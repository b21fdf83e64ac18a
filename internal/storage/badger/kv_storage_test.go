package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
)

func setupTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := &config.BadgerConfig{Path: t.TempDir()}
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVStorage_SetAndGet(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())
	ctx := context.Background()

	if err := kv.Set(ctx, "watchlist", "AAPL,MSFT"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := kv.Get(ctx, "watchlist")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "AAPL,MSFT" {
		t.Errorf("expected AAPL,MSFT, got %s", val)
	}
}

func TestKVStorage_GetNotFound(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())

	_, err := kv.Get(context.Background(), "nonexistent-key")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestKVStorage_Upsert(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())
	ctx := context.Background()

	if err := kv.Set(ctx, "key", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(ctx, "key", "value2"); err != nil {
		t.Fatalf("Set (upsert) failed: %v", err)
	}

	val, err := kv.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "value2" {
		t.Errorf("expected value2, got %s", val)
	}
}

func TestKVStorage_UpdatedAt(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())
	ctx := context.Background()
	stamp := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return stamp }

	if err := kv.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := kv.UpdatedAt(ctx, "key")
	if err != nil {
		t.Fatalf("UpdatedAt failed: %v", err)
	}
	if !got.Equal(stamp) {
		t.Errorf("expected %v, got %v", stamp, got)
	}
}

func TestKVStorage_Delete(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())
	ctx := context.Background()

	if err := kv.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "key"); err == nil {
		t.Error("expected error after delete, got nil")
	}
}

func TestKVStorage_DeleteNonexistent(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())

	if err := kv.Delete(context.Background(), "nonexistent"); err != nil {
		t.Errorf("Delete nonexistent key should not error: %v", err)
	}
}

func TestKVStorage_GetAll(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())
	ctx := context.Background()

	kv.Set(ctx, "key1", "val1")
	kv.Set(ctx, "key2", "val2")
	kv.Set(ctx, "key3", "val3")

	all, err := kv.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}
	if all["key2"] != "val2" {
		t.Errorf("expected key2=val2, got key2=%s", all["key2"])
	}
}

func TestKVStorage_GetAllEmpty(t *testing.T) {
	kv := NewKVStorage(setupTestDB(t), common.NewSilentLogger())

	all, err := kv.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected 0 entries, got %d", len(all))
	}
}
