// Package catalog holds the lesson catalog: blocks, lessons, the categories
// each exercise sorts into, and the expected answer for every exercise.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

// Unassigned is the reserved bucket holding items not yet sorted.
const Unassigned = "unassigned"

// ErrLessonNotFound is returned when a lesson id is not in the catalog.
var ErrLessonNotFound = errors.New("lesson not found")

// ExpectedAnswerSet maps a category name to the unordered set of concepts
// that belong in it.
type ExpectedAnswerSet map[string][]string

// Category is one drop zone of an exercise. Capacity 0 means unbounded.
type Category struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity,omitempty"`
}

// Lesson is a single classification exercise.
type Lesson struct {
	ID         string            `json:"id"`
	Block      int               `json:"-"`
	Index      int               `json:"index"`
	Title      string            `json:"title"`
	Prompt     string            `json:"prompt,omitempty"`
	Categories []Category        `json:"categories"`
	Items      []string          `json:"items"`
	Expected   ExpectedAnswerSet `json:"expected"`
}

// StateKey is the remote flag set when the exercise is completed.
func (l *Lesson) StateKey() SlotKey {
	return SlotKey{Kind: KindState, Block: l.Block, Index: l.Index}
}

// NumberKey is the remote flag set when the lesson is reached.
func (l *Lesson) NumberKey() SlotKey {
	return SlotKey{Kind: KindNumber, Block: l.Block, Index: l.Index}
}

// Category returns the category with the given name.
func (l *Lesson) Category(name string) (Category, bool) {
	for _, c := range l.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Clone returns a deep copy of l.
func (l *Lesson) Clone() *Lesson {
	out := *l
	out.Categories = append([]Category(nil), l.Categories...)
	out.Items = append([]string(nil), l.Items...)
	out.Expected = make(ExpectedAnswerSet, len(l.Expected))
	for name, items := range l.Expected {
		out.Expected[name] = append([]string(nil), items...)
	}
	return &out
}

// Block groups lessons under a theme.
type Block struct {
	Number  int       `json:"number"`
	Title   string    `json:"title"`
	Lessons []*Lesson `json:"lessons"`
}

type document struct {
	Version int      `json:"version"`
	Blocks  []*Block `json:"blocks"`
}

// Catalog is an immutable, validated lesson catalog. Accessors hand out
// copies, so callers may modify what they receive.
type Catalog struct {
	version int
	blocks  []*Block
	order   []*Lesson
	byID    map[string]*Lesson
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Load(defaultCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load parses and validates a catalog document.
func Load(raw []byte) (*Catalog, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		version: doc.Version,
		blocks:  doc.Blocks,
		byID:    make(map[string]*Lesson),
	}
	seenBlocks := make(map[int]bool)
	for _, b := range doc.Blocks {
		if seenBlocks[b.Number] {
			return nil, fmt.Errorf("block %d: duplicate block number", b.Number)
		}
		seenBlocks[b.Number] = true

		seenIndex := make(map[int]bool)
		for _, l := range b.Lessons {
			l.Block = b.Number
			if seenIndex[l.Index] {
				return nil, fmt.Errorf("block %d: duplicate lesson index %d", b.Number, l.Index)
			}
			seenIndex[l.Index] = true
			if _, dup := c.byID[l.ID]; dup {
				return nil, fmt.Errorf("lesson %s: duplicate id", l.ID)
			}
			if err := checkLesson(l); err != nil {
				return nil, fmt.Errorf("lesson %s: %w", l.ID, err)
			}
			c.byID[l.ID] = l
			c.order = append(c.order, l)
		}
	}
	return c, nil
}

// checkLesson enforces the invariants the schema cannot express.
func checkLesson(l *Lesson) error {
	items := make(map[string]bool, len(l.Items))
	for _, it := range l.Items {
		items[it] = true
	}

	names := make(map[string]bool, len(l.Categories))
	for _, cat := range l.Categories {
		if cat.Name == Unassigned {
			return fmt.Errorf("category name %q is reserved", Unassigned)
		}
		if names[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		names[cat.Name] = true
	}

	placed := make(map[string]string)
	for name, expected := range l.Expected {
		cat, ok := l.Category(name)
		if !ok {
			return fmt.Errorf("expected answer names unknown category %q", name)
		}
		if cat.Capacity > 0 && len(expected) > cat.Capacity {
			return fmt.Errorf("category %q expects %d items but holds at most %d", name, len(expected), cat.Capacity)
		}
		for _, it := range expected {
			if !items[it] {
				return fmt.Errorf("expected item %q is not offered", it)
			}
			if other, dup := placed[it]; dup {
				return fmt.Errorf("item %q expected in both %q and %q", it, other, name)
			}
			placed[it] = name
		}
	}
	return nil
}

// Version is the document version the catalog was loaded from.
func (c *Catalog) Version() int {
	return c.version
}

// Blocks returns the blocks in catalog order.
func (c *Catalog) Blocks() []*Block {
	out := make([]*Block, len(c.blocks))
	for i, b := range c.blocks {
		cp := *b
		cp.Lessons = cloneLessons(b.Lessons)
		out[i] = &cp
	}
	return out
}

// Lessons returns every lesson in catalog order.
func (c *Catalog) Lessons() []*Lesson {
	return cloneLessons(c.order)
}

func cloneLessons(ls []*Lesson) []*Lesson {
	out := make([]*Lesson, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}

// TotalLessons is the denominator used for the progress ratio.
func (c *Catalog) TotalLessons() int {
	return len(c.order)
}

// Lesson looks up a lesson by id.
func (c *Catalog) Lesson(id string) (*Lesson, error) {
	l, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrLessonNotFound)
	}
	return l.Clone(), nil
}

// Next returns the lesson after id, or nil at the end of the catalog.
func (c *Catalog) Next(id string) *Lesson {
	for i, l := range c.order {
		if l.ID == id && i+1 < len(c.order) {
			return c.order[i+1].Clone()
		}
	}
	return nil
}

// BlockComplete reports whether every exercise of block is flagged complete
// in the remote snapshot.
func (c *Catalog) BlockComplete(block int, snapshot map[string]bool) bool {
	found := false
	for _, l := range c.order {
		if l.Block != block {
			continue
		}
		found = true
		if !snapshot[l.StateKey().String()] {
			return false
		}
	}
	return found
}

// Unlocked reports whether the lesson may be opened: the first lesson always
// is, every other lesson once its predecessor is completed.
func (c *Catalog) Unlocked(id string, snapshot map[string]bool) bool {
	for i, l := range c.order {
		if l.ID != id {
			continue
		}
		if i == 0 {
			return true
		}
		return snapshot[c.order[i-1].StateKey().String()]
	}
	return false
}
