package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	RoundedBox    lipgloss.Style
	Income        lipgloss.Style
	Expense       lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Help          lipgloss.Style
	Name          string
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color
}

type palette struct {
	primary, secondary, muted, border, fg, bg, subtle string
	success, warning, danger, info, selectedFg        string
}

func build(name string, p palette) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.Color(p.primary),
		Secondary:  lipgloss.Color(p.secondary),
		Muted:      lipgloss.Color(p.muted),
		Border:     lipgloss.Color(p.border),
		Foreground: lipgloss.Color(p.fg),
		Background: lipgloss.Color(p.bg),
		Success:    lipgloss.Color(p.success),
		Warning:    lipgloss.Color(p.warning),
		Error:      lipgloss.Color(p.danger),
		Info:       lipgloss.Color(p.info),

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.fg)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.selectedFg)).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(lipgloss.Color(p.border)).
			Foreground(lipgloss.Color(p.fg)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),

		// Component styles
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),

		// Amount styles
		Income: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)),
		Expense: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.danger)),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.danger)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
	}
}

// Light is the theme for light terminal backgrounds.
var Light = build("light", palette{
	primary:    "#4f46e5",
	secondary:  "#7c3aed",
	muted:      "#6b7280",
	border:     "#d1d5db",
	fg:         "#111827",
	bg:         "#ffffff",
	subtle:     "#4b5563",
	success:    "#059669",
	warning:    "#d97706",
	danger:     "#dc2626",
	info:       "#2563eb",
	selectedFg: "#ffffff",
})

// Dark is the theme for dark terminal backgrounds.
var Dark = build("dark", palette{
	primary:    "#818cf8",
	secondary:  "#a78bfa",
	muted:      "#737373",
	border:     "#404040",
	fg:         "#fafafa",
	bg:         "#1a1a1a",
	subtle:     "#a3a3a3",
	success:    "#10b981",
	warning:    "#f59e0b",
	danger:     "#ef4444",
	info:       "#3b82f6",
	selectedFg: "#1a1a1a",
})
