package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Column widths of the transaction table.
const (
	dateWidth     = 13
	amountWidth   = 14
	categoryWidth = 14
	minDescWidth  = 12
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.theme.Title.Render(cli.MoneyIcon + " Transactions")}

	if m.loading > 0 && len(m.transactions) == 0 {
		sections = append(sections, m.spinner.View()+" Loading transactions…")
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderFilters(), "", m.renderTable(), "", m.renderFooter())

	if m.lastError != nil {
		sections = append(sections, m.theme.StatusError.Render(cli.ErrorIcon+" "+common.UserMessage(m.lastError)))
	}

	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFilters() string {
	var search string
	if m.searching {
		search = m.search.View()
	} else {
		value := m.filter.Search
		if value == "" {
			value = "-"
		}
		search = "search: " + value
	}

	kind := "all"
	if m.filter.Type != "" {
		kind = strings.ToLower(string(m.filter.Type))
	}

	category := "all"
	if m.filter.CategoryID != 0 {
		if c := m.category(m.filter.CategoryID); c != nil {
			category = c.Name
		} else {
			category = fmt.Sprintf("#%d", m.filter.CategoryID)
		}
	}

	return m.theme.Subtitle.Render(fmt.Sprintf("%s   type: %s   category: %s", search, kind, category))
}

func (m Model) descWidth() int {
	return max(m.width-dateWidth-amountWidth-categoryWidth-6, minDescWidth)
}

func (m Model) renderTable() string {
	items := m.pageItems()
	if len(items) == 0 {
		if len(m.transactions) == 0 {
			return m.theme.Subtitle.Render("No transactions yet.")
		}
		return m.theme.Subtitle.Render("No transactions match the current filters.")
	}

	descWidth := m.descWidth()
	header := m.theme.Bold.Render(fmt.Sprintf("%-*s %-*s %-*s %*s",
		dateWidth, "Date",
		descWidth, "Description",
		categoryWidth, "Category",
		amountWidth, "Amount"))

	rows := make([]string, 0, len(items)+1)
	rows = append(rows, header)
	for i, t := range items {
		rows = append(rows, m.renderRow(t, descWidth, i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(t model.Transaction, descWidth int, selected bool) string {
	amount := fmt.Sprintf("%*s", amountWidth, cli.FormatSignedCurrency(t.Amount, t.Type))
	if t.IsExpense() {
		amount = m.theme.Expense.Render(amount)
	} else {
		amount = m.theme.Income.Render(amount)
	}

	line := fmt.Sprintf("%-*s %-*s %-*s ",
		dateWidth, cli.FormatDate(t.Date),
		descWidth, cli.Truncate(t.Description, descWidth),
		categoryWidth, cli.Truncate(t.Category.Name, categoryWidth))

	if selected {
		return m.theme.Selected.Render(line) + amount
	}
	return m.theme.Normal.Render(line) + amount
}

func (m Model) renderFooter() string {
	totals := ledger.Totals(m.filtered)

	summary := fmt.Sprintf("%d transactions   income %s   expense %s   balance %s",
		totals.Count,
		m.theme.Income.Render(cli.FormatCurrency(totals.Income)),
		m.theme.Expense.Render(cli.FormatCurrency(totals.Expense)),
		cli.FormatCurrency(totals.Balance))

	pages := max(m.pager.TotalPages(), 1)
	pageInfo := m.theme.Subtitle.Render(fmt.Sprintf("page %d of %d", m.pager.Page(), pages))

	return lipgloss.JoinVertical(lipgloss.Left, summary, pageInfo)
}
