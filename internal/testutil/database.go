// Package testutil provides shared fixtures and fakes for fintrack's tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/storage"
)

// SetupTestStore creates a migrated preference store in a temp directory.
// It is closed automatically when the test ends.
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SetupSignedInStore is SetupTestStore with a token and user already persisted.
func SetupSignedInStore(t *testing.T, token string, user model.User) *storage.SQLiteStorage {
	t.Helper()

	store := SetupTestStore(t)
	ctx := context.Background()
	if err := store.SetToken(ctx, token); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}
	if err := store.SetUser(ctx, &user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return store
}
