package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/room-agenda/internal/store"
)

// StoreHarness provides a migrated document store backed by a temporary
// SQLite file for integration-style persistence tests.
type StoreHarness struct {
	Store *store.Store

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *StoreHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewStoreHarness constructs a StoreHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewStoreHarness(tb testing.TB) *StoreHarness {
	tb.Helper()

	dir := tb.TempDir()
	dsn := "file:" + filepath.Join(dir, "agenda.db")

	st, err := store.Open(dsn)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	if err := st.Migrate(context.Background()); err != nil {
		_ = st.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	harness := &StoreHarness{
		Store: st,
		cleanup: func() {
			_ = st.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
