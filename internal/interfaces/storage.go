package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/argentis/internal/models"
)

// StorageManager provides access to domain-specific storage interfaces.
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	SnapshotStorage() SnapshotStorage
	DB() interface{}
	Close() error
}

// KeyValueStorage provides basic key-value operations.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// SnapshotStorage persists fetched market data so restarts do not refetch it.
// Load methods return ok=false for missing or stale snapshots.
type SnapshotStorage interface {
	SaveTicker(ctx context.Context, data *models.TickerData) error
	LoadTicker(ctx context.Context, symbol string, maxAge time.Duration) (*models.TickerData, bool, error)
	SaveHistory(ctx context.Context, symbol string, period models.Period, bars []models.Bar) error
	LoadHistory(ctx context.Context, symbol string, period models.Period, maxAge time.Duration) ([]models.Bar, bool, error)
	Purge(ctx context.Context, symbol string) error
}
