package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// SlotKind distinguishes the two flag families stored per lesson.
type SlotKind string

const (
	// KindState flags an exercise as completed.
	KindState SlotKind = "state"

	// KindNumber flags a lesson as reached.
	KindNumber SlotKind = "number"
)

// SlotKey names one boolean flag on a user's remote progress document.
// Its string form is <kind>Lesson<block><index>, e.g. "stateLesson11".
type SlotKey struct {
	Kind  SlotKind
	Block int
	Index int
}

var slotKeyPattern = regexp.MustCompile(`^(state|number)Lesson([1-9])([1-9])$`)

// String renders the wire form of the key.
func (k SlotKey) String() string {
	return fmt.Sprintf("%sLesson%d%d", k.Kind, k.Block, k.Index)
}

// Validate reports whether k can be rendered to a well-formed key.
func (k SlotKey) Validate() error {
	if k.Kind != KindState && k.Kind != KindNumber {
		return fmt.Errorf("slot key: unknown kind %q", k.Kind)
	}
	if k.Block < 1 || k.Block > 9 {
		return fmt.Errorf("slot key: block %d out of range 1-9", k.Block)
	}
	if k.Index < 1 || k.Index > 9 {
		return fmt.Errorf("slot key: index %d out of range 1-9", k.Index)
	}
	return nil
}

// ParseSlotKey parses the wire form produced by SlotKey.String.
func ParseSlotKey(s string) (SlotKey, error) {
	m := slotKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return SlotKey{}, fmt.Errorf("slot key %q: want <state|number>Lesson<block><index>", s)
	}
	block, _ := strconv.Atoi(m[2])
	index, _ := strconv.Atoi(m[3])
	return SlotKey{Kind: SlotKind(m[1]), Block: block, Index: index}, nil
}
