package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/models"
	"github.com/dgraph-io/badger/v4"
)

// snapshotRetention bounds how long Badger keeps a snapshot before expiring it.
const snapshotRetention = 30 * 24 * time.Hour

const (
	tickerPrefix  = "snapshot:ticker:"
	historyPrefix = "snapshot:history:"
)

type tickerSnapshot struct {
	SavedAt time.Time          `json:"saved_at"`
	Data    *models.TickerData `json:"data"`
}

type historySnapshot struct {
	SavedAt time.Time    `json:"saved_at"`
	Bars    []models.Bar `json:"bars"`
}

// SnapshotStorage implements interfaces.SnapshotStorage on raw Badger keys.
type SnapshotStorage struct {
	db     *BadgerDB
	logger *common.Logger
	now    func() time.Time
}

// NewSnapshotStorage creates a snapshot store sharing the given connection.
func NewSnapshotStorage(db *BadgerDB, logger *common.Logger) *SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func tickerKey(symbol string) []byte {
	return []byte(tickerPrefix + symbol)
}

func historyKey(symbol string, period models.Period) []byte {
	return []byte(historyPrefix + symbol + ":" + string(period))
}

func (s *SnapshotStorage) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}
	return s.db.Badger().Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(snapshotRetention))
	})
}

// read decodes the value at key into v. Returns false when the key is absent.
func (s *SnapshotStorage) read(key []byte, v any) (bool, error) {
	err := s.db.Badger().View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return true, nil
}

// SaveTicker persists a ticker bundle.
func (s *SnapshotStorage) SaveTicker(_ context.Context, data *models.TickerData) error {
	if data == nil || data.Symbol == "" {
		return errors.New("ticker snapshot requires a symbol")
	}
	return s.put(tickerKey(data.Symbol), tickerSnapshot{SavedAt: s.now(), Data: data})
}

// LoadTicker returns the stored bundle when it is younger than maxAge.
func (s *SnapshotStorage) LoadTicker(_ context.Context, symbol string, maxAge time.Duration) (*models.TickerData, bool, error) {
	var snap tickerSnapshot
	found, err := s.read(tickerKey(symbol), &snap)
	if err != nil || !found || snap.Data == nil {
		return nil, false, err
	}
	if s.now().Sub(snap.SavedAt) >= maxAge {
		s.logger.Debug().Str("symbol", symbol).Str("saved_at", snap.SavedAt.Format(time.RFC3339)).Msg("Ticker snapshot stale")
		return nil, false, nil
	}
	return snap.Data, true, nil
}

// SaveHistory persists bars fetched for a period.
func (s *SnapshotStorage) SaveHistory(_ context.Context, symbol string, period models.Period, bars []models.Bar) error {
	return s.put(historyKey(symbol, period), historySnapshot{SavedAt: s.now(), Bars: bars})
}

// LoadHistory returns stored bars when they are younger than maxAge.
func (s *SnapshotStorage) LoadHistory(_ context.Context, symbol string, period models.Period, maxAge time.Duration) ([]models.Bar, bool, error) {
	var snap historySnapshot
	found, err := s.read(historyKey(symbol, period), &snap)
	if err != nil || !found {
		return nil, false, err
	}
	if s.now().Sub(snap.SavedAt) >= maxAge {
		return nil, false, nil
	}
	return snap.Bars, true, nil
}

// Purge removes every snapshot stored for symbol.
func (s *SnapshotStorage) Purge(_ context.Context, symbol string) error {
	prefix := []byte(historyPrefix + symbol + ":")
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		keys := [][]byte{tickerKey(symbol)}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge snapshots for %s: %w", symbol, err)
	}
	return nil
}
