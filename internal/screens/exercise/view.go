package exercise

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/carnetlify/carnetlify/internal/catalog"
	ex "github.com/carnetlify/carnetlify/internal/exercise"
	"github.com/carnetlify/carnetlify/internal/ui/components"
	"github.com/carnetlify/carnetlify/internal/ui/theme"
)

func (s *ExerciseScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	lesson := s.ctrl.Lesson()
	cand := s.ctrl.Candidate()

	var sections []string

	if lesson.Prompt != "" {
		sections = append(sections, theme.Prompt.Width(cw).Render(lesson.Prompt))
	}

	sections = append(sections, s.renderItems(lesson, cand, cw))
	sections = append(sections, s.renderCategories(lesson, cand, cw))

	if line := s.renderFeedback(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, s.button().View())

	bar := components.NewProgressBar("Progreso", s.ctrl.Ratio(), true, cw)
	sections = append(sections, bar.View())

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *ExerciseScreen) buttonLabel() string {
	if s.pending {
		return "Verificando"
	}
	return s.ctrl.ButtonLabel()
}

func (s *ExerciseScreen) button() components.Button {
	switch {
	case s.pending:
		return components.NewButton(s.buttonLabel(), components.ButtonBusy)
	case s.ctrl.State() == ex.Correct:
		return components.NewButton(s.buttonLabel(), components.ButtonContinue)
	default:
		return components.NewButton(s.buttonLabel(), components.ButtonVerify)
	}
}

// renderItems lists every concept with the bucket it currently sits in.
func (s *ExerciseScreen) renderItems(lesson *catalog.Lesson, cand *ex.CandidateAnswerSet, cw int) string {
	var lines []string
	for i, item := range s.items {
		where := "sin clasificar"
		if loc, ok := cand.Location(item); ok && loc != catalog.Unassigned {
			if c, ok := lesson.Category(loc); ok {
				where = c.Label
			}
		}
		row := fmt.Sprintf("%s  %s", item, theme.Hint.Render("→ "+where))
		if i == s.cursor {
			lines = append(lines, theme.Selected.Render("▸ ")+row)
		} else {
			lines = append(lines, "  "+row)
		}
	}
	return components.Card(strings.Join(lines, "\n"), cw, theme.Border)
}

// renderCategories draws one card per category with its key and fill level.
func (s *ExerciseScreen) renderCategories(lesson *catalog.Lesson, cand *ex.CandidateAnswerSet, cw int) string {
	var cards []string
	for i, c := range lesson.Categories {
		items := cand.Items(c.Name)
		head := fmt.Sprintf("%d · %s", i+1, c.Label)
		if c.Capacity > 0 {
			head += fmt.Sprintf(" (%d/%d)", len(items), c.Capacity)
		}
		border := theme.Border
		if cand.Full(c.Name) {
			border = theme.Secondary
		}
		body := theme.Selected.Render(head)
		if len(items) == 0 {
			body += "\n" + theme.Hint.Render("vacía")
		}
		for _, it := range items {
			body += "\n• " + it
		}
		cards = append(cards, components.Card(body, cw, border))
	}
	return strings.Join(cards, "\n")
}

func (s *ExerciseScreen) renderFeedback() string {
	if s.notice != "" {
		return theme.Notice.Render(s.notice)
	}
	fb := s.ctrl.Feedback()
	switch fb.Kind {
	case ex.FeedbackPositive:
		return theme.Correct.Render(fb.Message)
	case ex.FeedbackNegative, ex.FeedbackVerifyFailed:
		return theme.Incorrect.Render(fb.Message)
	}
	return ""
}
