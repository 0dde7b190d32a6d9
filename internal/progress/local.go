// Package progress tracks per-lesson completion on the device and derives
// the aggregate completion ratio shown in progress bars.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carnetlify/carnetlify/internal/kvstore"
	"github.com/carnetlify/carnetlify/internal/logger"
)

// StorageKey is the single key the whole record collection lives under.
const StorageKey = "lessonProgress"

// Record is the local completion state of one lesson.
type Record struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
	Timestamp *int64 `json:"timestamp,omitempty"` // Unix milliseconds of the last update
}

// KV is the key-value facility the local store persists to.
// Get must return kvstore.ErrNotFound for keys never written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}

// Reader exposes the record collection.
type Reader interface {
	GetAll(ctx context.Context) []Record
}

// LocalStore is a best-effort cache of lesson completion. Reads never fail:
// missing, unreadable, or corrupt data reads as an empty collection.
type LocalStore struct {
	kv  KV
	log *logger.Logger
	now func() time.Time

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewLocalStore creates a LocalStore over kv.
func NewLocalStore(kv KV, log *logger.Logger) *LocalStore {
	if log == nil {
		log = logger.Nop()
	}
	return &LocalStore{
		kv:  kv,
		log: log.With("component", "local_progress"),
		now: time.Now,
	}
}

// GetAll returns the full ordered record collection.
func (s *LocalStore) GetAll(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Upsert sets the completion state of lessonID, replacing an existing record
// in place or appending a new one, and persists the whole collection in a
// single write. The updated collection is returned even when the write
// fails; the error tells the caller the change is not durable.
func (s *LocalStore) Upsert(ctx context.Context, lessonID string, completed bool) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	ts := s.now().UnixMilli()

	found := false
	for i := range records {
		if records[i].ID == lessonID {
			records[i].Completed = completed
			records[i].Timestamp = &ts
			found = true
			break
		}
	}
	if !found {
		records = append(records, Record{ID: lessonID, Completed: completed, Timestamp: &ts})
	}

	if err := s.save(ctx, records); err != nil {
		s.log.Error("persist lesson progress", "lesson_id", lessonID, "completed", completed, "error", err)
		return records, err
	}
	return records, nil
}

// Save replaces the persisted collection with records.
func (s *LocalStore) Save(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, records)
}

// Reset drops every local record.
func (s *LocalStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("reset local progress: %w", err)
	}
	return nil
}

func (s *LocalStore) load(ctx context.Context) []Record {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.log.Warn("read lesson progress", "error", err)
		}
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Warn("decode lesson progress", "error", err)
		return []Record{}
	}
	if records == nil {
		records = []Record{}
	}
	return records
}

func (s *LocalStore) save(ctx context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode lesson progress: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("write lesson progress: %w", err)
	}
	return nil
}
