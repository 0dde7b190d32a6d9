package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/router"
	"github.com/carnetlify/carnetlify/internal/screen"
	"github.com/carnetlify/carnetlify/internal/ui/layout"
	"github.com/carnetlify/carnetlify/internal/ui/theme"
)

// Result is what the summary reports.
type Result struct {
	Ratio     float64
	Completed map[string]bool // lesson ids
}

// SummaryScreen is shown after the last lesson of the catalog.
type SummaryScreen struct {
	catalog *catalog.Catalog
	result  Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.ProgressProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(cat *catalog.Catalog, result Result) *SummaryScreen {
	return &SummaryScreen{catalog: cat, result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Resumen"
}

func (s *SummaryScreen) Progress() float64 {
	return s.result.Ratio
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Inicio"},
		{Key: "Esc", Description: "Inicio"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// Done counts the completed lessons known to the catalog.
func (s *SummaryScreen) Done() int {
	n := 0
	for _, l := range s.catalog.Lessons() {
		if s.result.Completed[l.ID] {
			n++
		}
	}
	return n
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	title := "¡Has llegado al final del temario!"
	if s.Done() == s.catalog.TotalLessons() {
		title = "¡Curso completado!"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Lecciones completadas: %d de %d    Progreso: %d%%",
			s.Done(), s.catalog.TotalLessons(), layout.Percent(s.result.Ratio))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))

	for _, blk := range s.catalog.Blocks() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(blk.Title)))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")

		for _, l := range blk.Lessons {
			mark := "·"
			style := lipgloss.NewStyle().Foreground(theme.TextDim)
			if s.result.Completed[l.ID] {
				mark = "✓"
				style = lipgloss.NewStyle().Foreground(theme.Success)
			}
			line := fmt.Sprintf("%s  %d.%d  %s", mark, l.Block, l.Index, l.Title)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render("Pulsa Enter para volver al inicio")))

	return b.String()
}
