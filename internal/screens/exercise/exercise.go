// Package exercise is the classification exercise screen: the learner sorts
// concepts into categories, verifies, and continues to the next lesson.
package exercise

import (
	"context"
	"errors"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/carnetlify/carnetlify/internal/catalog"
	ex "github.com/carnetlify/carnetlify/internal/exercise"
	"github.com/carnetlify/carnetlify/internal/router"
	"github.com/carnetlify/carnetlify/internal/screen"
	"github.com/carnetlify/carnetlify/internal/ui/layout"
)

// FeedbackDuration is how long verification feedback stays on screen.
const FeedbackDuration = 2 * time.Second

const (
	verifyTimeout = 30 * time.Second
	closeTimeout  = 5 * time.Second
)

// Options wires the screen to its controller and to the screens it can
// move on to.
type Options struct {
	Controller *ex.Controller

	// Next builds the screen for the following lesson.
	Next func(ctx context.Context, lessonID string) (screen.Screen, error)

	// Finished builds the screen shown after the last lesson.
	Finished func() screen.Screen
}

// ExerciseScreen drives an exercise.Controller from the keyboard.
type ExerciseScreen struct {
	opts    Options
	ctrl    *ex.Controller
	items   []string
	cursor  int
	pending bool
	fadeSeq int
	notice  string
	left    bool
}

var _ screen.Screen = (*ExerciseScreen)(nil)
var _ screen.KeyHintProvider = (*ExerciseScreen)(nil)
var _ screen.Leaver = (*ExerciseScreen)(nil)
var _ screen.ProgressProvider = (*ExerciseScreen)(nil)

// New creates an ExerciseScreen for the controller's lesson.
func New(opts Options) *ExerciseScreen {
	l := opts.Controller.Lesson()
	return &ExerciseScreen{
		opts:  opts,
		ctrl:  opts.Controller,
		items: append([]string(nil), l.Items...),
	}
}

func (s *ExerciseScreen) Init() tea.Cmd {
	return nil
}

func (s *ExerciseScreen) Title() string {
	l := s.ctrl.Lesson()
	return "Lección " + strconv.Itoa(l.Block) + "." + strconv.Itoa(l.Index) + " · " + l.Title
}

// Progress returns the completion ratio tracked by the controller.
func (s *ExerciseScreen) Progress() float64 {
	return s.ctrl.Ratio()
}

func (s *ExerciseScreen) KeyHints() []layout.KeyHint {
	n := len(s.ctrl.Lesson().Categories)
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Elegir"},
		{Key: "1-" + strconv.Itoa(n), Description: "Clasificar"},
		{Key: "0", Description: "Quitar"},
		{Key: "Enter", Description: s.ctrl.ButtonLabel()},
		{Key: "Esc", Description: "Volver"},
	}
}

// Leave closes the controller when the screen is popped or replaced.
func (s *ExerciseScreen) Leave() tea.Cmd {
	if s.left {
		return nil
	}
	s.left = true
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	s.ctrl.Close(ctx)
	return nil
}

func (s *ExerciseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case verifiedMsg:
		s.pending = false
		s.fadeSeq++
		seq := s.fadeSeq
		return s, tea.Tick(FeedbackDuration, func(time.Time) tea.Msg {
			return feedbackFadeMsg{Seq: seq}
		})

	case feedbackFadeMsg:
		if msg.Seq == s.fadeSeq && !s.pending {
			s.ctrl.Acknowledge()
		}
		return s, nil

	case openFailedMsg:
		s.notice = msg.Err.Error()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ExerciseScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j":
		if s.cursor < len(s.items)-1 {
			s.cursor++
		}
		return s, nil
	case "0", "backspace":
		s.move(catalog.Unassigned)
		return s, nil
	case "enter":
		return s, s.primary()
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 {
		cats := s.ctrl.Lesson().Categories
		if n <= len(cats) {
			s.move(cats[n-1].Name)
		}
	}
	return s, nil
}

// move sends the item under the cursor to category.
func (s *ExerciseScreen) move(category string) {
	if s.pending || len(s.items) == 0 {
		return
	}
	s.notice = ""
	err := s.ctrl.Move(s.items[s.cursor], category)
	switch {
	case err == nil, errors.Is(err, ex.ErrLocked):
	case errors.Is(err, ex.ErrCategoryFull):
		s.notice = "Esa categoría ya está completa"
	default:
		s.notice = err.Error()
	}
}

// primary runs the action behind the main button: verify, or continue
// once the answer is correct.
func (s *ExerciseScreen) primary() tea.Cmd {
	if s.pending {
		return nil
	}
	switch s.ctrl.State() {
	case ex.Correct:
		return s.next()
	case ex.Unanswered, ex.Incorrect:
		s.pending = true
		s.notice = ""
		ctrl := s.ctrl
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
			defer cancel()
			return verifiedMsg{State: ctrl.Verify(ctx)}
		}
	}
	return nil
}

func (s *ExerciseScreen) next() tea.Cmd {
	lesson, err := s.ctrl.Continue()
	if err != nil {
		return nil
	}
	if lesson == nil {
		if s.opts.Finished == nil {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
		done := s.opts.Finished()
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: done} }
	}
	open := s.opts.Next
	id := lesson.ID
	return func() tea.Msg {
		scr, err := open(context.Background(), id)
		if err != nil {
			return openFailedMsg{Err: err}
		}
		return router.ReplaceScreenMsg{Screen: scr}
	}
}
