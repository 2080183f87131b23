// Package prefs is the durable per-origin preference store. The only key the
// hub writes is KeyDarkMode.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/ziadkadry99/learnhub/internal/db"
)

// KeyDarkMode holds the dark-mode flag.
const KeyDarkMode = "darkMode"

// DefaultScope is used when no origin is known, e.g. in the terminal browser.
const DefaultScope = "local"

// Store reads and writes boolean preferences.
type Store interface {
	// Bool returns the stored value and whether it was set.
	Bool(ctx context.Context, key string) (value bool, ok bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
}

// SQLStore persists preferences in the preferences table, one row per
// (scope, key).
type SQLStore struct {
	db    *db.DB
	scope string
}

// NewSQLStore creates a store for the given scope, typically the serving
// origin. An empty scope means DefaultScope.
func NewSQLStore(database *db.DB, scope string) *SQLStore {
	if scope == "" {
		scope = DefaultScope
	}
	return &SQLStore{db: database, scope: scope}
}

// Scope returns the origin this store writes under.
func (s *SQLStore) Scope() string { return s.scope }

// WithScope returns a store over the same database for another scope.
func (s *SQLStore) WithScope(scope string) *SQLStore {
	return NewSQLStore(s.db, scope)
}

func (s *SQLStore) Bool(ctx context.Context, key string) (bool, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE scope = ? AND key = ?`, s.scope, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("reading preference %s: %w", key, err)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("preference %s holds %q: %w", key, raw, err)
	}
	return v, true, nil
}

func (s *SQLStore) SetBool(ctx context.Context, key string, value bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (scope, key, value, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.scope, key, strconv.FormatBool(value),
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

// MemoryStore keeps preferences for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]bool
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]bool)}
}

func (m *MemoryStore) Bool(_ context.Context, key string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) SetBool(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

// Writes returns how many times SetBool was called.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
