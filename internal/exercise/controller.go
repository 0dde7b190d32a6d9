package exercise

import (
	"context"
	"errors"
	"sync"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/progress"
	"github.com/carnetlify/carnetlify/internal/remote"
)

// State is the exercise screen's position in the verification flow.
type State int

const (
	Unanswered State = iota
	Verifying
	Correct
	Incorrect
)

func (s State) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Verifying:
		return "verifying"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Primary button labels.
const (
	LabelVerify   = "Verificar"
	LabelContinue = "Continuar"
)

// FeedbackKind classifies the transient message shown after a verification.
type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackPositive
	FeedbackNegative
	FeedbackVerifyFailed
)

// Feedback is the transient message shown after a verification.
type Feedback struct {
	Kind    FeedbackKind
	Message string
}

var (
	feedbackCorrect      = Feedback{Kind: FeedbackPositive, Message: "¡Correcto! Lección completada."}
	feedbackIncorrect    = Feedback{Kind: FeedbackNegative, Message: "Respuesta incorrecta. Inténtalo de nuevo."}
	feedbackVerifyFailed = Feedback{Kind: FeedbackVerifyFailed, Message: "No se pudo verificar. Inténtalo de nuevo."}
)

var (
	// ErrLocked is returned when the arrangement cannot change in the
	// current state.
	ErrLocked = errors.New("exercise is locked")

	// ErrNotCorrect is returned by Continue before the lesson is solved.
	ErrNotCorrect = errors.New("lesson not completed")
)

// LocalProgress is the slice of the local progress store the controller uses.
type LocalProgress interface {
	progress.Reader
	Upsert(ctx context.Context, lessonID string, completed bool) ([]progress.Record, error)
}

// Deps are the collaborators a Controller records progress through.
type Deps struct {
	Remote  remote.Store
	Local   LocalProgress
	Catalog *catalog.Catalog
	Log     *logger.Logger
}

// Controller drives one lesson screen: it owns the candidate arrangement
// and turns a correct answer into a remote flag, a local record, and a
// recomputed progress ratio. A failure in either write leaves the lesson
// Incorrect with the arrangement intact.
type Controller struct {
	lesson *catalog.Lesson
	deps   Deps

	mu        sync.Mutex
	candidate *CandidateAnswerSet
	state     State
	feedback  Feedback
	ratio     float64
}

// NewController starts lesson in the Unanswered state with the current
// local progress ratio.
func NewController(ctx context.Context, lesson *catalog.Lesson, deps Deps) *Controller {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Controller{
		lesson:    lesson,
		deps:      deps,
		candidate: NewCandidate(lesson),
		state:     Unanswered,
		ratio:     progress.CalculateTotalProgress(ctx, deps.Local, deps.Catalog.TotalLessons()),
	}
}

// Lesson returns the lesson being played.
func (c *Controller) Lesson() *catalog.Lesson {
	return c.lesson
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Candidate returns a copy of the current arrangement.
func (c *Controller) Candidate() *CandidateAnswerSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.candidate.Clone()
}

// Feedback returns the message from the last verification, if it has not
// been acknowledged.
func (c *Controller) Feedback() Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback
}

// Ratio returns the last computed local progress ratio.
func (c *Controller) Ratio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ratio
}

// ButtonLabel returns the primary action label for the current state.
func (c *Controller) ButtonLabel() string {
	if c.State() == Correct {
		return LabelContinue
	}
	return LabelVerify
}

// Move places item into category. Moving after an incorrect answer
// returns the exercise to Unanswered.
func (c *Controller) Move(item, category string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Verifying || c.state == Correct {
		return ErrLocked
	}
	if err := c.candidate.Move(item, category); err != nil {
		return err
	}
	if c.state == Incorrect {
		c.state = Unanswered
		c.feedback = Feedback{}
	}
	return nil
}

// Verify checks the arrangement and, when it is correct, records the
// completion remotely then locally. It returns the resulting state.
func (c *Controller) Verify(ctx context.Context) State {
	c.mu.Lock()
	if c.state != Unanswered && c.state != Incorrect {
		st := c.state
		c.mu.Unlock()
		return st
	}
	c.state = Verifying
	c.feedback = Feedback{}
	answer := c.candidate.Assignment()
	c.mu.Unlock()

	log := c.deps.Log.With("lesson", c.lesson.ID)

	if !Validate(answer, c.lesson.Expected) {
		log.Debug("answer rejected")
		return c.finish(Incorrect, feedbackIncorrect, -1)
	}

	key := c.lesson.StateKey()
	if err := c.deps.Remote.SetLessonFlag(ctx, key); err != nil {
		log.Error("remote flag write failed", "slot_key", key.String(), "error", err)
		return c.finish(Incorrect, feedbackVerifyFailed, -1)
	}

	records, err := c.deps.Local.Upsert(ctx, c.lesson.ID, true)
	if err != nil {
		log.Error("local progress write failed", "error", err)
		return c.finish(Incorrect, feedbackVerifyFailed, -1)
	}

	ratio := progress.Ratio(records, c.deps.Catalog.TotalLessons())
	log.Info("lesson completed", "slot_key", key.String(), "ratio", ratio)
	return c.finish(Correct, feedbackCorrect, ratio)
}

func (c *Controller) finish(st State, fb Feedback, ratio float64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = st
	c.feedback = fb
	if ratio >= 0 {
		c.ratio = ratio
	}
	return st
}

// Acknowledge clears the transient feedback once it has faded. An
// incorrect answer returns to Unanswered with the arrangement kept.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = Feedback{}
	if c.state == Incorrect {
		c.state = Unanswered
	}
}

// Continue returns the lesson that follows this one, or nil at the end of
// the catalog. It fails unless the lesson has been answered correctly.
func (c *Controller) Continue() (*catalog.Lesson, error) {
	if c.State() != Correct {
		return nil, ErrNotCorrect
	}
	return c.deps.Catalog.Next(c.lesson.ID), nil
}

// Close runs when the screen is left. Unless the lesson was solved, it
// records the lesson as not completed locally. Failures are logged.
func (c *Controller) Close(ctx context.Context) {
	if c.State() == Correct {
		return
	}
	if _, err := c.deps.Local.Upsert(ctx, c.lesson.ID, false); err != nil {
		c.deps.Log.Warn("cleanup write failed", "lesson", c.lesson.ID, "error", err)
	}
}
