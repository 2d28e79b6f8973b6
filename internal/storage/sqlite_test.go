package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testUser() *model.User {
	return &model.User{
		ID:        7,
		Name:      "Ana Souza",
		Email:     "ana@example.com",
		Role:      model.RoleUser,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMissingKeysAreNotErrors(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	user, err := store.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	theme, err := store.Theme(ctx)
	require.NoError(t, err)
	assert.Empty(t, theme)

	assert.NoError(t, store.RemoveToken(ctx))
	assert.NoError(t, store.ClearAll(ctx))
}

func TestTokenRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "first"))
	require.NoError(t, store.SetToken(ctx, "second"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token, "last write wins")

	require.NoError(t, store.RemoveToken(ctx))
	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	assert.ErrorIs(t, store.SetToken(ctx, ""), ErrEmptyString)
}

func TestUserRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetUser(ctx, testUser()))

	got, err := store.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, testUser(), got)

	assert.ErrorIs(t, store.SetUser(ctx, nil), ErrNilParameter)
}

func TestUser_Corrupted(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyUser, "{not json"))

	_, err := store.User(ctx)
	assert.ErrorIs(t, err, common.ErrSessionCorrupted)
}

func TestTheme(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetTheme(ctx, model.ThemeDark))
	theme, err := store.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)

	assert.ErrorIs(t, store.SetTheme(ctx, "sepia"), ErrInvalidTheme)

	require.NoError(t, store.Set(ctx, KeyTheme, "sepia"))
	theme, err = store.Theme(ctx)
	require.NoError(t, err)
	assert.Empty(t, theme)
}

func TestClearSessionKeepsTheme(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "jwt"))
	require.NoError(t, store.SetUser(ctx, testUser()))
	require.NoError(t, store.SetTheme(ctx, model.ThemeLight))

	require.NoError(t, store.ClearSession(ctx))

	token, _ := store.Token(ctx)
	user, _ := store.User(ctx)
	theme, _ := store.Theme(ctx)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, model.ThemeLight, theme)

	require.NoError(t, store.ClearAll(ctx))
	theme, _ = store.Theme(ctx)
	assert.Empty(t, theme)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SetToken(ctx, "kept"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	token, err := reopened.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", token)
}

func TestConcurrentWrites(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.SetToken(ctx, "token"))
			_, err := store.Token(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token", token)
}

func TestNilContext(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // exercising the nil guard
	_, err := store.Get(nil, KeyToken)
	assert.ErrorIs(t, err, ErrNilContext)
}
