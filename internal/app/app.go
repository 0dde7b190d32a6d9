package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carnetlify/carnetlify/internal/appsession"
	"github.com/carnetlify/carnetlify/internal/progress"
	"github.com/carnetlify/carnetlify/internal/router"
	"github.com/carnetlify/carnetlify/internal/screen"
	exercisescreen "github.com/carnetlify/carnetlify/internal/screens/exercise"
	"github.com/carnetlify/carnetlify/internal/screens/history"
	"github.com/carnetlify/carnetlify/internal/screens/home"
	"github.com/carnetlify/carnetlify/internal/screens/summary"
	"github.com/carnetlify/carnetlify/internal/screens/welcome"
	"github.com/carnetlify/carnetlify/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(sess *appsession.Session) AppModel {
	s := screens{sess: sess}
	return AppModel{
		router: router.New(welcome.New(s.home)),
	}
}

// screens builds every screen from the session.
type screens struct {
	sess *appsession.Session
}

func (s screens) home() screen.Screen {
	opts := home.Options{
		Catalog:    s.sess.Catalog,
		Sync:       s.sess.Reconciler(),
		Local:      s.sess.Local,
		OpenLesson: s.exercise,
		Log:        s.sess.Log,
	}
	if s.sess.Client != nil {
		client := s.sess.Client
		opts.History = func() screen.Screen { return history.New(client, s.sess.Catalog) }
	}
	return home.New(opts)
}

func (s screens) exercise(ctx context.Context, lessonID string) (screen.Screen, error) {
	ctrl, err := s.sess.Exercise(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return exercisescreen.New(exercisescreen.Options{
		Controller: ctrl,
		Next:       s.exercise,
		Finished:   s.summary,
	}), nil
}

func (s screens) summary() screen.Screen {
	records := s.sess.Local.GetAll(context.Background())
	return summary.New(s.sess.Catalog, summary.Result{
		Ratio:     progress.Ratio(records, s.sess.Catalog.TotalLessons()),
		Completed: progress.Completed(records),
	})
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Sequence(m.router.LeaveAll(), tea.Quit)
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	ratio := -1.0
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.ProgressProvider); ok {
			ratio = p.Progress()
		}
	}

	header := layout.RenderHeader(title, ratio, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Volver"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program for sess.
func Run(sess *appsession.Session) error {
	p := tea.NewProgram(newAppModel(sess))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
