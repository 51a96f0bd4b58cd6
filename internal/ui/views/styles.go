package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the lipgloss styles used by the renderer
type Styles struct {
	Title      lipgloss.Style
	Dim        lipgloss.Style
	Selected   lipgloss.Style
	Kind       lipgloss.Style
	Symbol     lipgloss.Style
	Container  lipgloss.Style
	External   lipgloss.Style
	FileHeader lipgloss.Style
	Location   lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Suggestion lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles creates the default styles
func NewStyles() *Styles {
	return &Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected:   lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true),
		Kind:       lipgloss.NewStyle().Foreground(lipgloss.Color("74")),
		Symbol:     lipgloss.NewStyle().Bold(true),
		Container:  lipgloss.NewStyle().Foreground(lipgloss.Color("140")),
		External:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		FileHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Suggestion: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
