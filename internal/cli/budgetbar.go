package cli

import (
	"fmt"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Bar widths accepted by BudgetBar.
const (
	MinBarWidth = 10
	MaxBarWidth = 60
)

// StatusColor is the theme color for a budget status.
func StatusColor(theme themes.Theme, status model.BudgetStatus) lipgloss.Color {
	switch status {
	case model.StatusExceeded:
		return theme.Error
	case model.StatusWarning:
		return theme.Warning
	default:
		return theme.Success
	}
}

// BudgetBar renders the usage bar for p. The fill uses the clamped display
// percentage while the label shows the raw one.
func BudgetBar(theme themes.Theme, p model.BudgetProgress, width int) string {
	width = min(max(width, MinBarWidth), MaxBarWidth)

	bar := progress.New(
		progress.WithSolidFill(string(StatusColor(theme, p.Status))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Border)

	fill := p.DisplayPercentage().Div(model.Hundred).InexactFloat64()
	label := lipgloss.NewStyle().Foreground(StatusColor(theme, p.Status)).Render(FormatPercent(p.PercentageUsed))
	return fmt.Sprintf("%s %s", bar.ViewAs(fill), label)
}
