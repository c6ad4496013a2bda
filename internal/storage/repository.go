// Package storage contains storage-agnostic contracts: the Repository a
// backend implements, a registry of backend factories, and the Loader that
// writes AdRecords through them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is an explicitly opened handle on a destination store. Callers
// own the handle and must Close it on every path.
type Repository interface {
	// Exec runs a statement that returns no rows, typically DDL.
	Exec(ctx context.Context, sql string) error
	// CopyFrom inserts rows (aligned to columns) into the configured table
	// inside a single transaction. Either every row is committed or none is.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Count returns the number of rows in the configured table.
	Count(ctx context.Context) (int64, error)
	Close()
}

// Config is the backend-agnostic connection configuration.
type Config struct {
	Kind  string
	DSN   string
	Table string
	// BatchSize bounds the rows sent per statement by backends that chunk
	// inserts. All chunks still share one transaction.
	BatchSize int
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a storage kind. Backends
// call it from init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
