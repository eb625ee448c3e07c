package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	nonWorkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	nameStyle       = lipgloss.NewStyle()
	mainNameStyle   = lipgloss.NewStyle().Bold(true)
	freeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#01d065"))
	emptyCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#475569"))
	offCellStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#1f2937")).Foreground(lipgloss.Color("#475569"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3e635"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f44336")).Bold(true)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	formPromptStyle = lipgloss.NewStyle().Bold(true)
)

// Menu
var (
	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#64748b")).
			Padding(0, 1)
	menuHeaderStyle  = lipgloss.NewStyle().Bold(true)
	menuActiveStyle  = lipgloss.NewStyle().Reverse(true)
	menuHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	menuDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#475569"))
)
