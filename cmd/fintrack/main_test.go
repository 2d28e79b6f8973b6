package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/Veraticus/fintrack/internal/testutil"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs the CLI against a fake API and a temp preference store.
type harness struct {
	t     *testing.T
	fake  *testutil.FakeAPI
	store *storage.SQLiteStorage
}

func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()

	fake := testutil.NewFakeAPI(t)
	var store *storage.SQLiteStorage
	if signedIn {
		store = testutil.SetupSignedInStore(t, testutil.TestToken, testutil.TestUser())
	} else {
		store = testutil.SetupTestStore(t)
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("FINTRACK_API_URL", fake.URL())
	t.Setenv("FINTRACK_DATABASE_PATH", store.Path())
	t.Setenv("FINTRACK_API_CACHE_TTL", "0s")
	for _, key := range []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
	} {
		t.Setenv(key, "")
	}

	return &harness{t: t, fake: fake, store: store}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) token() string {
	h.t.Helper()
	token, err := h.store.Token(context.Background())
	require.NoError(h.t, err)
	return token
}

func (h *harness) transactions() []model.Transaction {
	h.fake.Lock()
	defer h.fake.Unlock()
	return append([]model.Transaction(nil), h.fake.Transactions...)
}

func (h *harness) transaction(id int64) model.Transaction {
	h.t.Helper()
	for _, txn := range h.transactions() {
		if txn.ID == id {
			return txn
		}
	}
	h.t.Fatalf("transaction %d not found", id)
	return model.Transaction{}
}

func TestVersion(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fintrack dev")
}

func TestLogin(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.run(testutil.TestPassword+"\n", "auth", "login", "--email", testutil.TestEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ana Souza (ana@example.com)")
	assert.Equal(t, testutil.TestToken, h.token())

	user, err := h.store.User(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testutil.TestEmail, user.Email)
}

func TestLogin_PromptsForEmail(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.run(testutil.TestEmail+"\n"+testutil.TestPassword+"\n", "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
	assert.Equal(t, testutil.TestToken, h.token())
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run("", "auth", "login", "-e", testutil.TestEmail, "-p", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", describeError(err))
	assert.Empty(t, h.token())
}

func TestLogin_InvalidEmailNeverHitsNetwork(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run("", "auth", "login", "-e", "@example.com", "-p", "whatever-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.True(t, strings.HasPrefix(describeError(err), "Invalid input: "))
	assert.Zero(t, h.fake.CountRequests("POST", "/auth/login"))
}

func TestRegister(t *testing.T) {
	h := newHarness(t, false)

	stdin := "new-password\nnew-password\n"
	out, err := h.run(stdin, "auth", "register", "-n", "Bea Lima", "-e", "bea@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Bea Lima!")
	assert.NotEmpty(t, h.token())
}

func TestRegister_MismatchedConfirmation(t *testing.T) {
	h := newHarness(t, false)

	stdin := "new-password\nother-password\n"
	_, err := h.run(stdin, "auth", "register", "-n", "Bea Lima", "-e", "bea@example.com")
	require.Error(t, err)

	var verrs validate.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.NotEmpty(t, verrs.Field("confirmPassword"))
	assert.Zero(t, h.fake.CountRequests("POST", "/auth/register"))
}

func TestLogout(t *testing.T) {
	h := newHarness(t, true)
	require.NoError(t, h.store.SetTheme(context.Background(), model.ThemeLight))

	out, err := h.run("", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.Empty(t, h.token())

	theme, err := h.store.Theme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, theme)
}

func TestStatus(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		h := newHarness(t, true)
		out, err := h.run("", "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Signed in as Ana Souza")
		assert.Contains(t, out, h.fake.URL())
	})

	t.Run("signed out", func(t *testing.T) {
		h := newHarness(t, false)
		out, err := h.run("", "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Not signed in.")
		assert.Zero(t, h.fake.CountRequests("GET", "/users/me"))
	})
}

func TestProfile(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "auth", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")

	out, err = h.run("", "auth", "profile", "--name", "Ana S.")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile updated.")
	assert.Contains(t, out, "Ana S.")

	user, err := h.store.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana S.", user.Name)
}

func TestCommandsRequireSession(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run("", "transactions", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, "You are not signed in. Run 'fintrack auth login' first.", describeError(err))
	assert.Empty(t, h.fake.Requests())
}

func TestExpiredStoredToken(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.store.SetToken(context.Background(), "stale-token"))

	_, err := h.run("", "transactions", "list")
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Empty(t, h.token(), "invalid session is cleared")
	assert.Zero(t, h.fake.CountRequests("GET", "/transactions"))
}

func TestUnauthorizedMidCommandEndsSession(t *testing.T) {
	h := newHarness(t, true)
	h.fake.FailWith("GET", "/transactions", 401)

	_, err := h.run("", "transactions", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Your session has expired. Run 'fintrack auth login' to sign in again.", describeError(err))
	assert.Empty(t, h.token())
}

func TestTransactionsList(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "transactions", "list", "--size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Freelance")
	assert.Contains(t, out, "Bus pass")
	assert.NotContains(t, out, "Rent")
	assert.Contains(t, out, "Page 1 of 3 (6 transactions)")

	out, err = h.run("", "transactions", "list", "--size", "2", "--page", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Supermarket")
	assert.Contains(t, out, "January salary")
}

func TestTransactionsList_Filters(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "transactions", "list", "--all", "--type", "expense", "--category", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "Supermarket")
	assert.Contains(t, out, "Restaurant")
	assert.NotContains(t, out, "Rent")
	assert.Contains(t, out, "2 transactions")
	assert.Contains(t, out, "-$500.25")

	reqs := h.fake.Requests()
	last := reqs[len(reqs)-1]
	assert.Contains(t, last.Query, "categoryId=2")
	assert.Contains(t, last.Query, "type=EXPENSE")
}

func TestTransactionsList_BadFlags(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("", "transactions", "list", "--type", "transfer")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = h.run("", "transactions", "list", "--from", "yesterday")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = h.run("", "transactions", "list", "--page", "0")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = h.run("", "transactions", "list", "--category", "Nope")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, `no category named "Nope"`, describeError(err))
}

func TestTransactionsGet(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "transactions", "get", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction #3")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "-$1,500.00")

	_, err = h.run("", "transactions", "get", "999")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Transaction not found", describeError(err))

	_, err = h.run("", "transactions", "get", "abc")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestTransactionsAdd(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "transactions", "add",
		"-d", "Coffee", "-a", "$4.50", "-c", "Food", "--date", "2024-02-01", "-n", "oat latte")
	require.NoError(t, err)
	assert.Contains(t, out, "Added transaction #101: Coffee -$4.50")

	txn := h.transaction(101)
	assert.Equal(t, "Coffee", txn.Description)
	assert.Equal(t, model.TransactionTypeExpense, txn.Type)
	assert.Equal(t, int64(2), txn.CategoryID())
	assert.Equal(t, "4.5", txn.Amount.String())
	assert.Equal(t, "2024-02-01", txn.Date.String())
	assert.Equal(t, "oat latte", txn.Notes)
}

func TestTransactionsAdd_ValidationNeverHitsNetwork(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("", "transactions", "add", "-d", "Coffee", "--amount=-3", "-c", "2")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = h.run("", "transactions", "add", "-d", "   ", "-a", "3", "-c", "2")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	assert.Zero(t, h.fake.CountRequests("POST", "/transactions"))
	assert.Len(t, h.transactions(), 6)
}

func TestTransactionsUpdate(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "transactions", "update", "3", "--amount", "1600")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated transaction #3")

	txn := h.transaction(3)
	assert.Equal(t, "1600", txn.Amount.String())
	assert.Equal(t, "Rent", txn.Description, "unchanged fields are kept")
	assert.Equal(t, int64(3), txn.CategoryID())
	assert.Equal(t, "2024-01-07", txn.Date.String())
}

func TestTransactionsDelete(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("n\n", "transactions", "delete", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept transaction.")
	assert.Len(t, h.transactions(), 6)

	out, err = h.run("y\n", "transactions", "delete", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted transaction #4")
	assert.Len(t, h.transactions(), 5)

	_, err = h.run("", "transactions", "delete", "4", "--yes")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestTransactionsSummary(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("", "transactions", "summary", "--from", "2024-01-01", "--to", "2024-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "$5,800.00")
	assert.Contains(t, out, "$2,330.50")
	assert.Contains(t, out, "$3,469.50")
	assert.Contains(t, out, "Transactions: 6")
}

func TestTransactionsExport(t *testing.T) {
	h := newHarness(t, true)
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := h.run("", "transactions", "export", "-o", path, "--type", "income")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
	assert.Contains(t, string(data), "January salary,INCOME,5000.00,1,Salary")
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "user error", err: common.NewUserError("friendly", errors.New("raw")), want: "friendly"},
		{name: "not authenticated", err: common.ErrNotAuthenticated, want: "You are not signed in. Run 'fintrack auth login' first."},
		{name: "api error", err: &api.Error{StatusCode: 409, Message: "Email already registered"}, want: "Email already registered"},
		{name: "cancelled", err: context.Canceled, want: "Cancelled."},
		{name: "other", err: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}
