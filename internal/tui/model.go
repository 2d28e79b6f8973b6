// Package tui is the interactive transaction browser: a filterable, paged
// view over the signed-in user's transactions.
package tui

import (
	"context"

	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Source loads what the browser shows.
type Source interface {
	ListAllTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
	ListCategories(ctx context.Context, kind model.TransactionType) ([]model.Category, error)
}

// Model holds the browser state.
type Model struct {
	ctx          context.Context
	source       Source
	lastError    error
	pager        *ledger.Pager
	theme        themes.Theme
	filter       model.TransactionFilter
	search       textinput.Model
	spinner      spinner.Model
	help         help.Model
	keymap       KeyMap
	transactions []model.Transaction
	filtered     []model.Transaction
	categories   []model.Category
	width        int
	height       int
	cursor       int
	loading      int
	searching    bool
	quitting     bool
}

func newModel(ctx context.Context, source Source, cfg Config) Model {
	search := textinput.New()
	search.Placeholder = "description or category"
	search.Prompt = "/ "
	search.CharLimit = 100

	return Model{
		ctx:     ctx,
		source:  source,
		pager:   ledger.NewPager(cfg.PageSize),
		theme:   cfg.Theme,
		search:  search,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		width:   cfg.Width,
		height:  cfg.Height,
		loading: 2,
	}
}

// Init loads transactions and categories.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTransactions(), m.loadCategories())
}

func (m Model) loadTransactions() tea.Cmd {
	return func() tea.Msg {
		txns, err := m.source.ListAllTransactions(m.ctx, model.TransactionFilter{})
		return transactionsLoadedMsg{transactions: txns, err: err}
	}
}

func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		cats, err := m.source.ListCategories(m.ctx, "")
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case transactionsLoadedMsg:
		m.loading = max(m.loading-1, 0)
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.transactions = msg.transactions
		m.refilter()
		return m, nil

	case categoriesLoadedMsg:
		m.loading = max(m.loading-1, 0)
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.categories = msg.categories
		return m, nil

	case spinner.TickMsg:
		if m.loading == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Apply):
		m.searching = false
		m.search.Blur()
		m.setSearch(m.search.Value())
		return m, nil
	case key.Matches(msg, m.keymap.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.filter.Search)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.pageItems())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.NextPage):
		if m.pager.Next() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keymap.PrevPage):
		if m.pager.Previous() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keymap.FirstPage):
		m.pager.Reset()
		m.cursor = 0
	case key.Matches(msg, m.keymap.LastPage):
		for m.pager.CanGoNext() {
			m.pager.Next()
		}
		m.cursor = 0
	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keymap.CycleType):
		m.setType(nextType(m.filter.Type))
	case key.Matches(msg, m.keymap.CycleCategory):
		m.setCategory(m.nextCategory())
	case key.Matches(msg, m.keymap.ClearFilters):
		m.search.SetValue("")
		m.filter = model.TransactionFilter{}
		m.refilter()
	case key.Matches(msg, m.keymap.Refresh):
		m.loading++
		return m, tea.Batch(m.spinner.Tick, m.loadTransactions())
	}
	return m, nil
}

func (m *Model) setSearch(s string) {
	m.filter.Search = s
	m.refilter()
}

func (m *Model) setType(t model.TransactionType) {
	m.filter.Type = t
	if m.filter.CategoryID != 0 && t != "" {
		if c := m.category(m.filter.CategoryID); c != nil && c.Type != t {
			m.filter.CategoryID = 0
		}
	}
	m.refilter()
}

func (m *Model) setCategory(id int64) {
	m.filter.CategoryID = id
	m.refilter()
}

// refilter recomputes the visible list and returns to the first page.
func (m *Model) refilter() {
	m.filtered = ledger.Filter(m.transactions, m.filter)
	m.pager.SetTotal(len(m.filtered))
	m.pager.Reset()
	m.cursor = 0
}

func (m Model) pageItems() []model.Transaction {
	page, err := ledger.Paginate(m.filtered, m.pager.Page(), m.pager.Size())
	if err != nil {
		return nil
	}
	return page.Items
}

func nextType(t model.TransactionType) model.TransactionType {
	switch t {
	case "":
		return model.TransactionTypeIncome
	case model.TransactionTypeIncome:
		return model.TransactionTypeExpense
	default:
		return ""
	}
}

// nextCategory cycles through the categories matching the type filter,
// then back to "all".
func (m Model) nextCategory() int64 {
	var ids []int64
	for _, c := range m.categories {
		if m.filter.Type == "" || c.Type == m.filter.Type {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return 0
	}
	if m.filter.CategoryID == 0 {
		return ids[0]
	}
	for i, id := range ids {
		if id == m.filter.CategoryID {
			if i+1 < len(ids) {
				return ids[i+1]
			}
			return 0
		}
	}
	return 0
}

func (m Model) category(id int64) *model.Category {
	for i := range m.categories {
		if m.categories[i].ID == id {
			return &m.categories[i]
		}
	}
	return nil
}

// Filter returns the active filter.
func (m Model) Filter() model.TransactionFilter { return m.filter }

// Page returns the current 1-indexed page.
func (m Model) Page() int { return m.pager.Page() }

// Visible returns the transactions on the current page.
func (m Model) Visible() []model.Transaction { return m.pageItems() }

// Filtered returns every transaction matching the filter.
func (m Model) Filtered() []model.Transaction { return m.filtered }
