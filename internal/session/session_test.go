package session_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/session"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/Veraticus/fintrack/internal/testutil"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, store *storage.SQLiteStorage) (*session.Manager, *testutil.FakeAPI) {
	t.Helper()

	fake := testutil.NewFakeAPI(t)
	client, err := api.New(api.Config{BaseURL: fake.URL(), Timeout: 5 * time.Second}, store)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	mgr := session.New(store, client)
	client.OnUnauthorized(mgr.HandleUnauthorized)
	return mgr, fake
}

func TestRestore_NoToken(t *testing.T) {
	store := testutil.SetupTestStore(t)
	mgr, fake := setup(t, store)

	require.NoError(t, mgr.Restore(context.Background()))
	assert.Equal(t, session.Unauthenticated, mgr.State())
	assert.Nil(t, mgr.User())
	assert.Empty(t, fake.Requests())
}

func TestRestore_ValidToken(t *testing.T) {
	stale := testutil.TestUser()
	stale.Name = "Old Name"
	store := testutil.SetupSignedInStore(t, testutil.TestToken, stale)
	mgr, _ := setup(t, store)

	require.NoError(t, mgr.Restore(context.Background()))
	assert.Equal(t, session.Authenticated, mgr.State())
	require.NotNil(t, mgr.User())
	assert.Equal(t, "Ana Souza", mgr.User().Name)

	persisted, err := store.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", persisted.Name)
}

func TestRestore_InvalidTokenClearsSilently(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupSignedInStore(t, "expired-token", testutil.TestUser())
	require.NoError(t, store.SetTheme(ctx, model.ThemeDark))
	mgr, fake := setup(t, store)

	require.NoError(t, mgr.Restore(ctx))
	assert.Equal(t, session.Unauthenticated, mgr.State())
	assert.False(t, mgr.IsAuthenticated())
	assert.Nil(t, mgr.User())
	assert.Equal(t, 1, fake.CountRequests(http.MethodGet, "/users/me"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	user, err := store.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	theme, err := store.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)
}

func TestRestore_ServerErrorClearsSilently(t *testing.T) {
	store := testutil.SetupSignedInStore(t, testutil.TestToken, testutil.TestUser())
	mgr, fake := setup(t, store)
	fake.FailWith(http.MethodGet, "/users/me", http.StatusInternalServerError)

	require.NoError(t, mgr.Restore(context.Background()))
	assert.Equal(t, session.Unauthenticated, mgr.State())

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRestore_CanceledContextKeepsStorage(t *testing.T) {
	store := testutil.SetupSignedInStore(t, testutil.TestToken, testutil.TestUser())
	mgr, _ := setup(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mgr.Restore(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, session.Unauthenticated, mgr.State())

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.TestToken, token)
}

type blockingAuth struct {
	release chan struct{}
	user    model.User
	calls   atomic.Int32
}

func (b *blockingAuth) Login(context.Context, model.LoginRequest) (*model.AuthResponse, error) {
	return nil, errors.New("unused")
}

func (b *blockingAuth) Register(context.Context, model.RegisterRequest) (*model.AuthResponse, error) {
	return nil, errors.New("unused")
}

func (b *blockingAuth) CurrentUser(context.Context) (*model.User, error) {
	b.calls.Add(1)
	<-b.release
	u := b.user
	return &u, nil
}

func (b *blockingAuth) UpdateProfile(context.Context, model.ProfileUpdate) (*model.User, error) {
	return nil, errors.New("unused")
}

func TestRestore_ConcurrentCallersShareOneFetch(t *testing.T) {
	store := testutil.SetupSignedInStore(t, testutil.TestToken, testutil.TestUser())
	auth := &blockingAuth{release: make(chan struct{}), user: testutil.TestUser()}
	mgr := session.New(store, auth)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- mgr.Restore(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return auth.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, session.Authenticating, mgr.State())
	close(auth.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), auth.calls.Load())
	assert.Equal(t, session.Authenticated, mgr.State())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	user, err := mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, testutil.TestEmail, user.Email)
	assert.Equal(t, session.Authenticated, mgr.State())

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestToken, token)
	persisted, err := store.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, int64(1), persisted.ID)
}

func TestLogin_ValidationNeverCallsNetwork(t *testing.T) {
	store := testutil.SetupTestStore(t)
	mgr, fake := setup(t, store)

	_, err := mgr.Login(context.Background(), model.LoginRequest{Email: "not-an-email", Password: ""})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	var verrs validate.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.NotEmpty(t, verrs.Field("email"))
	assert.NotEmpty(t, verrs.Field("password"))
	assert.Empty(t, fake.Requests())
	assert.Equal(t, session.Unauthenticated, mgr.State())
}

func TestLogin_WrongPasswordKeepsState(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	_, err := mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: "wrong-password"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, session.Unauthenticated, mgr.State())

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogin_FailureWhileSignedInKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	_, err := mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.NoError(t, err)

	_, err = mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, session.Authenticated, mgr.State())
	require.NotNil(t, mgr.User())
	assert.Equal(t, testutil.TestEmail, mgr.User().Email)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	req := model.RegisterRequest{
		Name:            "Bruno Lima",
		Email:           "bruno@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}
	user, err := mgr.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Bruno Lima", user.Name)
	assert.True(t, mgr.IsAuthenticated())
}

func TestRegister_MismatchedConfirmation(t *testing.T) {
	store := testutil.SetupTestStore(t)
	mgr, fake := setup(t, store)

	_, err := mgr.Register(context.Background(), model.RegisterRequest{
		Name:            "Bruno Lima",
		Email:           "bruno@example.com",
		Password:        "longenough",
		ConfirmPassword: "different1",
	})
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Empty(t, fake.Requests())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	_, err := mgr.Register(context.Background(), model.RegisterRequest{
		Name:            "Ana Again",
		Email:           testutil.TestEmail,
		Password:        "longenough",
		ConfirmPassword: "longenough",
	})
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Email already registered", apiErr.Message)
	assert.Equal(t, session.Unauthenticated, mgr.State())
}

type failingStore struct {
	*storage.SQLiteStorage
	failSetUser bool
}

func (f *failingStore) SetUser(ctx context.Context, user *model.User) error {
	if f.failSetUser {
		return errors.New("disk full")
	}
	return f.SQLiteStorage.SetUser(ctx, user)
}

func TestLogin_PersistFailureClearsPartialState(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{SQLiteStorage: testutil.SetupTestStore(t), failSetUser: true}
	fake := testutil.NewFakeAPI(t)
	client, err := api.New(api.Config{BaseURL: fake.URL()}, store)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	mgr := session.New(store, client)

	_, err = mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, session.Unauthenticated, mgr.State())

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupSignedInStore(t, testutil.TestToken, testutil.TestUser())
	mgr, _ := setup(t, store)
	require.NoError(t, mgr.Restore(ctx))
	require.True(t, mgr.IsAuthenticated())

	require.NoError(t, mgr.Logout(ctx))
	assert.Equal(t, session.Unauthenticated, mgr.State())
	assert.Nil(t, mgr.User())

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUnauthorizedResponseTearsDownSession(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupSignedInStore(t, testutil.TestToken, testutil.TestUser())
	mgr, fake := setup(t, store)
	require.NoError(t, mgr.Restore(ctx))
	require.True(t, mgr.IsAuthenticated())

	fake.Lock()
	fake.Token = "rotated-token"
	fake.Unlock()

	client, err := api.New(api.Config{BaseURL: fake.URL()}, store)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	client.OnUnauthorized(mgr.HandleUnauthorized)

	_, err = client.ListCategories(ctx, "")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, session.Unauthenticated, mgr.State())

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = client.ListCategories(ctx, "")
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	name := "Ana S."
	_, err := mgr.UpdateProfile(ctx, model.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.NoError(t, err)

	user, err := mgr.UpdateProfile(ctx, model.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, user.Name)
	assert.Equal(t, name, mgr.User().Name)

	persisted, err := store.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, name, persisted.Name)

	bad := "nope"
	_, err = mgr.UpdateProfile(ctx, model.ProfileUpdate{Email: &bad})
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, _ := setup(t, store)

	_, err := mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.NoError(t, err)

	mgr.User().Name = "mutated"
	assert.Equal(t, "Ana Souza", mgr.User().Name)
}

func TestTokenExpiry(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	mgr, fake := setup(t, store)

	_, err := mgr.TokenExpiry()
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.NoError(t, err)
	_, err = mgr.TokenExpiry()
	require.ErrorIs(t, err, session.ErrNoExpiry)

	exp := time.Unix(1900000000, 0)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	fake.Lock()
	fake.Token = signed
	fake.Unlock()

	_, err = mgr.Login(ctx, model.LoginRequest{Email: testutil.TestEmail, Password: testutil.TestPassword})
	require.NoError(t, err)

	got, err := mgr.TokenExpiry()
	require.NoError(t, err)
	assert.True(t, exp.Equal(got), "got %s", got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", session.Unauthenticated.String())
	assert.Equal(t, "authenticating", session.Authenticating.String())
	assert.Equal(t, "authenticated", session.Authenticated.String())
}
