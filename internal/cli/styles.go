// Package cli provides styled terminal output, value formatting and prompts
// for the fintrack command line.
package cli

import (
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main accent color.
	PrimaryColor = lipgloss.AdaptiveColor{Light: string(themes.Light.Primary), Dark: string(themes.Dark.Primary)}
	// SuccessColor indicates successful operations and income.
	SuccessColor = lipgloss.AdaptiveColor{Light: string(themes.Light.Success), Dark: string(themes.Dark.Success)}
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.AdaptiveColor{Light: string(themes.Light.Warning), Dark: string(themes.Dark.Warning)}
	// ErrorColor indicates errors and expenses.
	ErrorColor = lipgloss.AdaptiveColor{Light: string(themes.Light.Error), Dark: string(themes.Dark.Error)}
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.AdaptiveColor{Light: string(themes.Light.Info), Dark: string(themes.Dark.Info)}
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.AdaptiveColor{Light: string(themes.Light.Muted), Dark: string(themes.Dark.Muted)}

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MoneyIcon   = "💰"
	ChartIcon   = "📊"
	BudgetIcon  = "🎯"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title with the fintrack icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a prompt label.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + ": ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// StyleAmount colors an amount by transaction type.
func StyleAmount(text string, expense bool) string {
	if expense {
		return ErrorStyle.Render(text)
	}
	return SuccessStyle.Render(text)
}
