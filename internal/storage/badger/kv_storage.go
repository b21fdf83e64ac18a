package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// ErrKeyNotFound is returned by Get and UpdatedAt for unknown keys.
var ErrKeyNotFound = errors.New("key not found")

// KVEntry represents a key-value pair stored in BadgerDB.
type KVEntry struct {
	Key       string `badgerhold:"key"`
	Value     string
	UpdatedAt time.Time
}

// KVStorage implements interfaces.KeyValueStorage using BadgerDB.
type KVStorage struct {
	db     *BadgerDB
	logger *common.Logger
	now    func() time.Time
}

// NewKVStorage creates a new key-value storage backed by BadgerDB.
func NewKVStorage(db *BadgerDB, logger *common.Logger) *KVStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (s *KVStorage) get(key string) (KVEntry, error) {
	var entry KVEntry
	err := s.db.Store().Get(key, &entry)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return entry, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return entry, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry, nil
}

// Get retrieves a value by key.
func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	entry, err := s.get(key)
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// UpdatedAt returns when the key was last written.
func (s *KVStorage) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	entry, err := s.get(key)
	if err != nil {
		return time.Time{}, err
	}
	return entry.UpdatedAt, nil
}

// Set stores a key-value pair.
func (s *KVStorage) Set(_ context.Context, key, value string) error {
	entry := KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now(),
	}
	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key-value pair.
func (s *KVStorage) Delete(_ context.Context, key string) error {
	err := s.db.Store().Delete(key, KVEntry{})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all key-value pairs.
func (s *KVStorage) GetAll(_ context.Context) (map[string]string, error) {
	var entries []KVEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to get all keys: %w", err)
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		result[entry.Key] = entry.Value
	}
	return result, nil
}
