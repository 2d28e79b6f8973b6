package tui

import (
	"github.com/Veraticus/fintrack/internal/model"
)

// Data loading messages.
type transactionsLoadedMsg struct {
	err          error
	transactions []model.Transaction
}

type categoriesLoadedMsg struct {
	err        error
	categories []model.Category
}
