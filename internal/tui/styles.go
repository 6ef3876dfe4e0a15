package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/cjdiaz98/showdown/engine"
	"golang.org/x/term"
)

var (
	TERM_WIDTH, TERM_HEIGHT, _ = term.GetSize(int(os.Stdout.Fd()))

	HighlightedColor = lipgloss.Color("33")
	DimColor         = lipgloss.Color("241")
	WinColor         = lipgloss.Color("#3FB950")
	LossColor        = lipgloss.Color("#F85149")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(HighlightedColor)
	dimStyle       = lipgloss.NewStyle().Foreground(DimColor)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).Padding(0, 1)
	errorStyle     = lipgloss.NewStyle().Border(lipgloss.BlockBorder(), true).Foreground(LossColor)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightedColor)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
)

var statusColors = map[engine.Status]lipgloss.Color{
	engine.STATUS_BURN:   lipgloss.Color("#E36D1C"),
	engine.STATUS_PARA:   lipgloss.Color("#FFD400"),
	engine.STATUS_TOXIC:  lipgloss.Color("#A61AE5"),
	engine.STATUS_POISON: lipgloss.Color("#A61AE5"),
	engine.STATUS_FROZEN: lipgloss.Color("#31BBCE"),
	engine.STATUS_SLEEP:  lipgloss.Color("#BCE9EF"),
}

func Center(width int, height int, text string) string {
	return lipgloss.PlaceVertical(height, lipgloss.Center, lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
}

// GlobalCenter centers text on the terminal, or leaves it alone when stdout is not one
func GlobalCenter(text string) string {
	if TERM_WIDTH <= 0 || TERM_HEIGHT <= 0 {
		return text
	}
	return Center(TERM_WIDTH, TERM_HEIGHT, text)
}

// BestTextColor picks black or white text for a background color
func BestTextColor(backgroundColor lipgloss.Color) lipgloss.Color {
	r, g, b, _ := backgroundColor.RGBA()
	mean := (r>>8 + g>>8 + b>>8) / 3

	if mean < 127 {
		return lipgloss.Color("#FFFFFF")
	}
	return lipgloss.Color("#000000")
}
