package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/progress"
	"github.com/carnetlify/carnetlify/internal/router"
	"github.com/carnetlify/carnetlify/internal/screen"
	"github.com/carnetlify/carnetlify/internal/ui/components"
	"github.com/carnetlify/carnetlify/internal/ui/layout"
	"github.com/carnetlify/carnetlify/internal/ui/theme"
)

const loadTimeout = 10 * time.Second

// Syncer folds the remote snapshot into the local cache.
type Syncer interface {
	Pull(ctx context.Context) (*progress.PullResult, error)
}

// Options wires the home screen to the session.
type Options struct {
	Catalog *catalog.Catalog
	Sync    Syncer
	Local   progress.Reader

	// OpenLesson builds the exercise screen for a lesson.
	OpenLesson func(ctx context.Context, lessonID string) (screen.Screen, error)

	// History builds the activity screen. Nil hides the entry.
	History func() screen.Screen

	Log *logger.Logger
}

type progressLoadedMsg struct {
	snapshot map[string]bool
	ratio    float64
	err      error
}

type openFailedMsg struct {
	err error
}

// HomeScreen lists the blocks and lessons with their lock and completion
// state and the learner's overall progress.
type HomeScreen struct {
	opts     Options
	menu     components.Menu
	snapshot map[string]bool
	ratio    float64
	loaded   bool
	offline  bool
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.ProgressProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	h := &HomeScreen{opts: opts, snapshot: map[string]bool{}}
	h.rebuildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads progress after an exercise screen is closed.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	opts := h.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		total := opts.Catalog.TotalLessons()
		res, err := opts.Sync.Pull(ctx)
		if err != nil {
			opts.Log.Warn("progress sync failed", "error", err)
			// Fall back to the local cache for lock state.
			records := opts.Local.GetAll(ctx)
			snap := map[string]bool{}
			for id := range progress.Completed(records) {
				if l, lerr := opts.Catalog.Lesson(id); lerr == nil {
					snap[l.StateKey().String()] = true
				}
			}
			return progressLoadedMsg{snapshot: snap, ratio: progress.Ratio(records, total), err: err}
		}
		return progressLoadedMsg{
			snapshot: res.Snapshot,
			ratio:    progress.CalculateTotalProgress(ctx, opts.Local, total),
		}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressLoadedMsg:
		h.loaded = true
		h.snapshot = msg.snapshot
		h.ratio = msg.ratio
		h.offline = msg.err != nil
		h.errMsg = ""
		h.rebuildMenu()
		return h, nil

	case openFailedMsg:
		h.errMsg = msg.err.Error()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// rebuildMenu recomputes lesson entries, keeping the cursor where it was.
func (h *HomeScreen) rebuildMenu() {
	var items []components.MenuItem
	for _, b := range h.opts.Catalog.Blocks() {
		for _, l := range b.Lessons {
			items = append(items, h.lessonItem(b.Title, l))
		}
	}
	if h.opts.History != nil {
		history := h.opts.History
		items = append(items, components.MenuItem{
			Section: "·",
			Label:   "Actividad reciente",
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: history()} }
			},
		})
	}
	items = append(items, components.MenuItem{
		Section: "·",
		Label:   "Salir",
		Action:  func() tea.Cmd { return tea.Quit },
	})

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) lessonItem(section string, l *catalog.Lesson) components.MenuItem {
	item := components.MenuItem{
		Section: section,
		Label:   fmt.Sprintf("%d.%d  %s", l.Block, l.Index, l.Title),
	}
	switch {
	case h.snapshot[l.StateKey().String()]:
		item.Badge = "✓"
	case !h.opts.Catalog.Unlocked(l.ID, h.snapshot):
		item.Badge = "bloqueada"
		item.Disabled = true
	}

	open := h.opts.OpenLesson
	id := l.ID
	item.Action = func() tea.Cmd {
		return func() tea.Msg {
			s, err := open(context.Background(), id)
			if err != nil {
				return openFailedMsg{err: err}
			}
			return router.PushScreenMsg{Screen: s}
		}
	}
	return item
}

// Progress returns the local completion ratio.
func (h *HomeScreen) Progress() float64 {
	return h.ratio
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render("TU CARNET, LECCIÓN A LECCIÓN"))

	bar := components.NewProgressBar("Progreso", h.ratio, true, cw)
	sections = append(sections, bar.View())

	switch {
	case !h.loaded:
		sections = append(sections, theme.Hint.Render("Sincronizando progreso..."))
	case h.offline:
		sections = append(sections, theme.Notice.Render("Sin conexión: mostrando el progreso guardado en este equipo"))
	}
	if h.errMsg != "" {
		sections = append(sections, theme.Incorrect.Render(h.errMsg))
	}

	sections = append(sections, h.menu.View())

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return components.Frame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Inicio"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Abrir"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}
