// checkpoint.go implements WAL checkpoint operations for SQLite.
//
// Called on graceful shutdown so the state directory is left with a single
// database file. TRUNCATE mode fully flushes the WAL and removes the
// -wal/-shm files.

package store

import (
	"context"
	"fmt"
)

// Checkpoint writes all WAL data back to the main database file and truncates
// the WAL.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}
