package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/remote"
	"github.com/carnetlify/carnetlify/internal/router"
	"github.com/carnetlify/carnetlify/internal/screen"
	"github.com/carnetlify/carnetlify/internal/ui/layout"
	"github.com/carnetlify/carnetlify/internal/ui/theme"
)

// Limit is how many events are requested.
const Limit = 50

// EventSource lists the learner's recent flag events.
type EventSource interface {
	RecentEvents(ctx context.Context, limit int) (*remote.EventsResponse, error)
}

type historyLoadedMsg struct {
	Events []remote.FlagEvent
	Err    error
}

// HistoryScreen displays the lesson flags recently recorded for the learner.
type HistoryScreen struct {
	source   EventSource
	catalog  *catalog.Catalog
	events   []remote.FlagEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source EventSource, cat *catalog.Catalog) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		catalog:  cat,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source := s.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := source.RecentEvents(ctx, Limit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Events: resp.Events}
	}
}

func (s *HistoryScreen) Title() string {
	return "Actividad reciente"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Detalles"},
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Failure.Width(width).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Cargando actividad...")
	}
	if len(s.events) == 0 {
		return theme.Empty.Width(width).Render("\n\n  Todavía no hay actividad. ¡Empieza una lección!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.events {
		dateStr := time.UnixMilli(ev.Timestamp).Format("02/01/2006 15:04")

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s", prefix, dateStr, s.describe(ev.SlotKey))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Accent).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    #%d  %s", ev.Sequence, ev.SlotKey)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// describe turns a slot key into a learner-facing sentence.
func (s *HistoryScreen) describe(raw string) string {
	key, err := catalog.ParseSlotKey(raw)
	if err != nil {
		return raw
	}
	name := fmt.Sprintf("lección %d.%d", key.Block, key.Index)
	for _, l := range s.catalog.Lessons() {
		if l.Block == key.Block && l.Index == key.Index {
			name = fmt.Sprintf("%s (%d.%d)", l.Title, key.Block, key.Index)
			break
		}
	}
	if key.Kind == catalog.KindState {
		return "Completada: " + name
	}
	return "Iniciada: " + name
}
