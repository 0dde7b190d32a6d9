package remote

import (
	"context"
	"sync"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

// MockStore is an in-memory Store for tests and offline play.
type MockStore struct {
	mu          sync.Mutex
	flags       map[string]bool
	writes      []string
	setErrs     []error
	snapshotErr error
}

var _ Store = (*MockStore)(nil)

// NewMockStore returns an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{flags: make(map[string]bool)}
}

// FailNextSet queues errors returned by the next SetLessonFlag calls, in order.
func (m *MockStore) FailNextSet(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErrs = append(m.setErrs, errs...)
}

// FailSnapshot makes every ProgressSnapshot call return err (nil clears it).
func (m *MockStore) FailSnapshot(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotErr = err
}

// Seed sets flags directly, bypassing the write log.
func (m *MockStore) Seed(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.flags[k] = true
	}
}

// Writes returns the slot keys of every successful SetLessonFlag call.
func (m *MockStore) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

func (m *MockStore) SetLessonFlag(_ context.Context, key catalog.SlotKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.setErrs) > 0 {
		err := m.setErrs[0]
		m.setErrs = m.setErrs[1:]
		if err != nil {
			return err
		}
	}
	m.flags[key.String()] = true
	m.writes = append(m.writes, key.String())
	return nil
}

func (m *MockStore) ProgressSnapshot(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	out := make(Snapshot, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out, nil
}
