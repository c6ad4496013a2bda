package storage

import (
	"context"
	"fmt"
)

// ForEachBatch calls fn with consecutive slices of at most size rows. It stops
// at the first error or when ctx is done. Backends use it to chunk a single
// transactional insert into statements of bounded size.
func ForEachBatch(ctx context.Context, rows [][]any, size int, fn func(batch [][]any) error) error {
	if size <= 0 {
		return fmt.Errorf("batch size must be > 0")
	}
	for start := 0; start < len(rows); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		if err := fn(rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
