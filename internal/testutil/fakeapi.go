package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/model"
)

// RecordedRequest is one request FakeAPI received.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

// FakeAPI is an in-memory fintrack server for tests.
type FakeAPI struct {
	Server            *httptest.Server
	failures          map[string]int
	Overview          model.FinancialOverview
	MonthSummary      model.MonthSummary
	User              model.User
	Token             string
	Password          string
	Categories        []model.Category
	Transactions      []model.Transaction
	Budgets           []model.Budget
	Progress          []model.BudgetProgress
	CategorySummaries []model.CategorySummary
	Evolution         []model.MonthlyEvolution
	requests          []RecordedRequest
	nextID            int64
	mu                sync.Mutex
}

// NewFakeAPI starts a server seeded with the package fixtures.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		User:         TestUser(),
		Token:        TestToken,
		Password:     TestPassword,
		Categories:   Categories(),
		Transactions: Transactions(),
		Budgets:      Budgets(),
		failures:     map[string]int{},
		nextID:       100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("POST /auth/register", f.register)
	mux.HandleFunc("GET /users/me", f.authed(f.me))
	mux.HandleFunc("PUT /users/me", f.authed(f.updateMe))

	mux.HandleFunc("GET /transactions", f.authed(f.listTransactions))
	mux.HandleFunc("GET /transactions/summary", f.authed(f.transactionSummary))
	mux.HandleFunc("GET /transactions/{id}", f.authed(f.getTransaction))
	mux.HandleFunc("POST /transactions", f.authed(f.createTransaction))
	mux.HandleFunc("PUT /transactions/{id}", f.authed(f.updateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", f.authed(f.deleteTransaction))

	mux.HandleFunc("GET /categories", f.authed(f.listCategories))
	mux.HandleFunc("GET /categories/{id}", f.authed(f.getCategory))
	mux.HandleFunc("POST /categories", f.authed(f.createCategory))
	mux.HandleFunc("PUT /categories/{id}", f.authed(f.updateCategory))
	mux.HandleFunc("DELETE /categories/{id}", f.authed(f.deleteCategory))

	mux.HandleFunc("GET /budgets", f.authed(f.listBudgets))
	mux.HandleFunc("GET /budgets/progress", f.authed(f.budgetProgress))
	mux.HandleFunc("GET /budgets/{id}", f.authed(f.getBudget))
	mux.HandleFunc("POST /budgets", f.authed(f.createBudget))
	mux.HandleFunc("PUT /budgets/{id}", f.authed(f.updateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", f.authed(f.deleteBudget))

	mux.HandleFunc("GET /reports/month-summary", f.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.MonthSummary)
	}))
	mux.HandleFunc("GET /reports/category-summary", f.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.CategorySummaries)
	}))
	mux.HandleFunc("GET /reports/monthly-evolution", f.authed(f.evolution))
	mux.HandleFunc("GET /reports/overview", f.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.Overview)
	}))

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)

	return f
}

// URL is the server's base URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// FailWith makes every "METHOD /path" request answer with status.
func (f *FakeAPI) FailWith(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = status
}

// ClearFailures removes every FailWith rule.
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = map[string]int{}
}

// Requests returns a copy of everything received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// CountRequests counts requests matching method and path.
func (f *FakeAPI) CountRequests(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Lock guards direct field access while the server is running.
func (f *FakeAPI) Lock() { f.mu.Lock() }

// Unlock releases Lock.
func (f *FakeAPI) Unlock() { f.mu.Unlock() }

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		status, fail := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.Token == "" || r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": what + " not found"})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Email != f.User.Email || req.Password != f.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, model.AuthResponse{Token: f.Token, Type: "Bearer", User: f.User})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Email == f.User.Email {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
		return
	}

	f.nextID++
	f.User = model.User{ID: f.nextID, Name: req.Name, Email: req.Email, Role: model.RoleUser, CreatedAt: time.Now().UTC()}
	f.Password = req.Password
	writeJSON(w, http.StatusCreated, model.AuthResponse{Token: f.Token, Type: "Bearer", User: f.User})
}

func (f *FakeAPI) me(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.User)
}

func (f *FakeAPI) updateMe(w http.ResponseWriter, r *http.Request) {
	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}
	if update.Name != nil {
		f.User.Name = *update.Name
	}
	if update.Email != nil {
		f.User.Email = *update.Email
	}
	writeJSON(w, http.StatusOK, f.User)
}

func queryFilter(r *http.Request) model.TransactionFilter {
	q := r.URL.Query()
	filter := model.TransactionFilter{
		Search: q.Get("search"),
		Type:   model.TransactionType(q.Get("type")),
	}
	if id, err := strconv.ParseInt(q.Get("categoryId"), 10, 64); err == nil {
		filter.CategoryID = id
	}
	if d, err := model.ParseDate(q.Get("startDate")); err == nil {
		filter.StartDate = &d
	}
	if d, err := model.ParseDate(q.Get("endDate")); err == nil {
		filter.EndDate = &d
	}
	return filter
}

func (f *FakeAPI) listTransactions(w http.ResponseWriter, r *http.Request) {
	filtered := ledger.Filter(f.Transactions, queryFilter(r))
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date.Time)
	})

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 {
		size = 20
	}

	p, err := ledger.Paginate(filtered, page+1, size)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	content := p.Items
	if content == nil {
		content = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, model.PaginatedTransactions{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: p.TotalItems,
		TotalPages:    p.TotalPages,
		Last:          page+1 >= p.TotalPages,
	})
}

func (f *FakeAPI) transactionSummary(w http.ResponseWriter, r *http.Request) {
	filter := queryFilter(r)
	totals := ledger.Totals(ledger.Filter(f.Transactions, filter))

	summary := model.TransactionSummary{
		TotalIncome:      totals.Income,
		TotalExpense:     totals.Expense,
		Balance:          totals.Balance,
		TransactionCount: totals.Count,
	}
	if filter.StartDate != nil {
		summary.Period.StartDate = *filter.StartDate
	}
	if filter.EndDate != nil {
		summary.Period.EndDate = *filter.EndDate
	}
	writeJSON(w, http.StatusOK, summary)
}

func (f *FakeAPI) findTransaction(id int64) int {
	for i, t := range f.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) findCategoryRef(id int64) (model.CategoryRef, bool) {
	for _, c := range f.Categories {
		if c.ID == id {
			return c.Ref(), true
		}
	}
	return model.CategoryRef{}, false
}

func (f *FakeAPI) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findTransaction(id)
	if i < 0 {
		notFound(w, "Transaction")
		return
	}
	writeJSON(w, http.StatusOK, f.Transactions[i])
}

func (f *FakeAPI) transactionFromRequest(w http.ResponseWriter, r *http.Request) (model.Transaction, bool) {
	var req model.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return model.Transaction{}, false
	}
	ref, ok := f.findCategoryRef(req.CategoryID)
	if !ok {
		notFound(w, "Category")
		return model.Transaction{}, false
	}
	return model.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    ref,
		Date:        req.Date,
		Notes:       req.Notes,
		Recurring:   req.Recurring,
		UpdatedAt:   time.Now().UTC(),
	}, true
}

func (f *FakeAPI) createTransaction(w http.ResponseWriter, r *http.Request) {
	txn, ok := f.transactionFromRequest(w, r)
	if !ok {
		return
	}
	f.nextID++
	txn.ID = f.nextID
	txn.CreatedAt = txn.UpdatedAt
	f.Transactions = append(f.Transactions, txn)
	writeJSON(w, http.StatusCreated, txn)
}

func (f *FakeAPI) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findTransaction(id)
	if i < 0 {
		notFound(w, "Transaction")
		return
	}
	txn, ok := f.transactionFromRequest(w, r)
	if !ok {
		return
	}
	txn.ID = id
	txn.CreatedAt = f.Transactions[i].CreatedAt
	f.Transactions[i] = txn
	writeJSON(w, http.StatusOK, txn)
}

func (f *FakeAPI) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findTransaction(id)
	if i < 0 {
		notFound(w, "Transaction")
		return
	}
	f.Transactions = append(f.Transactions[:i], f.Transactions[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listCategories(w http.ResponseWriter, r *http.Request) {
	kind := model.TransactionType(r.URL.Query().Get("type"))
	out := make([]model.Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		if kind == "" || c.Type == kind {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) findCategory(id int64) int {
	for i, c := range f.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findCategory(id)
	if i < 0 {
		notFound(w, "Category")
		return
	}
	writeJSON(w, http.StatusOK, f.Categories[i])
}

func (f *FakeAPI) createCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}
	f.nextID++
	c := model.Category{ID: f.nextID, Name: req.Name, Type: req.Type, Color: req.Color, Icon: req.Icon, CreatedAt: time.Now().UTC()}
	f.Categories = append(f.Categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findCategory(id)
	if i < 0 {
		notFound(w, "Category")
		return
	}
	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}
	c := f.Categories[i]
	c.Name, c.Type, c.Color, c.Icon = req.Name, req.Type, req.Color, req.Icon
	f.Categories[i] = c
	writeJSON(w, http.StatusOK, c)
}

func (f *FakeAPI) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findCategory(id)
	if i < 0 {
		notFound(w, "Category")
		return
	}
	f.Categories = append(f.Categories[:i], f.Categories[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listBudgets(w http.ResponseWriter, r *http.Request) {
	period := model.BudgetPeriod(r.URL.Query().Get("period"))
	out := make([]model.Budget, 0, len(f.Budgets))
	for _, b := range f.Budgets {
		if period == "" || b.Period == period {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) budgetProgress(w http.ResponseWriter, _ *http.Request) {
	out := f.Progress
	if out == nil {
		out = []model.BudgetProgress{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) findBudget(id int64) int {
	for i, b := range f.Budgets {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) getBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findBudget(id)
	if i < 0 {
		notFound(w, "Budget")
		return
	}
	writeJSON(w, http.StatusOK, f.Budgets[i])
}

func (f *FakeAPI) budgetFromRequest(w http.ResponseWriter, r *http.Request) (model.Budget, bool) {
	var req model.BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return model.Budget{}, false
	}
	ref, ok := f.findCategoryRef(req.CategoryID)
	if !ok {
		notFound(w, "Category")
		return model.Budget{}, false
	}
	return model.Budget{
		Amount:    req.Amount,
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Category:  ref,
		UpdatedAt: time.Now().UTC(),
	}, true
}

func (f *FakeAPI) createBudget(w http.ResponseWriter, r *http.Request) {
	b, ok := f.budgetFromRequest(w, r)
	if !ok {
		return
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = b.UpdatedAt
	f.Budgets = append(f.Budgets, b)
	writeJSON(w, http.StatusCreated, b)
}

func (f *FakeAPI) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findBudget(id)
	if i < 0 {
		notFound(w, "Budget")
		return
	}
	b, ok := f.budgetFromRequest(w, r)
	if !ok {
		return
	}
	b.ID = id
	b.CreatedAt = f.Budgets[i].CreatedAt
	f.Budgets[i] = b
	writeJSON(w, http.StatusOK, b)
}

func (f *FakeAPI) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	i := f.findBudget(id)
	if i < 0 {
		notFound(w, "Budget")
		return
	}
	f.Budgets = append(f.Budgets[:i], f.Budgets[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) evolution(w http.ResponseWriter, r *http.Request) {
	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	out := f.Evolution
	if err == nil && months > 0 && months < len(out) {
		out = out[len(out)-months:]
	}
	if out == nil {
		out = []model.MonthlyEvolution{}
	}
	writeJSON(w, http.StatusOK, out)
}
