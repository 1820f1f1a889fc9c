package tui

import "github.com/charmbracelet/lipgloss"

// Calance brand palette.
var (
	ColorNavy   = lipgloss.Color("#1a2b4a") // Brand primary
	ColorBlue   = lipgloss.Color("#2563eb") // Accent
	ColorOrange = lipgloss.Color("#f97316") // Highlights and metrics
	ColorMuted  = lipgloss.Color("#94a3b8") // Slate
	ColorError  = lipgloss.Color("#dc2626")

	ColorSuccess = lipgloss.Color("#16a34a")
	ColorWarning = lipgloss.Color("#f59e0b")
	ColorLight   = lipgloss.Color("#f8fafc")
)

// Text styles.
var (
	// TitleStyle for main headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	SubtitleStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// HelpStyle for key hints and footers.
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	// ValueStyle for user-entered or generated values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	// BrandStyle renders the brand bar at the top of a preview.
	BrandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLight).
			Background(ColorNavy).
			Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorNavy).
			Underline(true)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorOrange)
)

// Box styles.
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	HighlightBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBlue).
				Padding(1, 2)

	// CalloutStyle frames the ROI block.
	CalloutStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(ColorOrange).
			PaddingLeft(1)

	MetricCardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorNavy).
			Padding(0, 1).
			MarginRight(1)
)
