// Package exercise implements the classification exercises: the learner's
// in-progress answer, its validation against the expected answer, and the
// controller that turns a correct answer into recorded progress.
package exercise

import (
	"errors"
	"fmt"
	"slices"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

var (
	// ErrUnknownItem is returned when moving an item the lesson does not offer.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownCategory is returned when moving into a category the lesson
	// does not define.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrCategoryFull is returned when the target category is at capacity.
	ErrCategoryFull = errors.New("category is full")
)

// CandidateAnswerSet is the learner's live arrangement of items into
// categories. Every item is in exactly one bucket, starting in
// catalog.Unassigned.
type CandidateAnswerSet struct {
	categories []string
	capacity   map[string]int
	buckets    map[string][]string
	location   map[string]string
}

// NewCandidate starts an arrangement for lesson with every item unassigned.
func NewCandidate(lesson *catalog.Lesson) *CandidateAnswerSet {
	c := &CandidateAnswerSet{
		capacity: make(map[string]int, len(lesson.Categories)),
		buckets:  make(map[string][]string, len(lesson.Categories)+1),
		location: make(map[string]string, len(lesson.Items)),
	}
	for _, cat := range lesson.Categories {
		c.categories = append(c.categories, cat.Name)
		c.capacity[cat.Name] = cat.Capacity
		c.buckets[cat.Name] = []string{}
	}
	c.buckets[catalog.Unassigned] = append([]string(nil), lesson.Items...)
	for _, it := range lesson.Items {
		c.location[it] = catalog.Unassigned
	}
	return c
}

// Move takes item out of its current bucket and appends it to category.
// The arrangement is left untouched when the move is rejected.
func (c *CandidateAnswerSet) Move(item, category string) error {
	from, ok := c.location[item]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	if _, ok := c.buckets[category]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if from == category {
		return nil
	}
	if limit := c.capacity[category]; limit > 0 && len(c.buckets[category]) >= limit {
		return fmt.Errorf("%w: %q holds at most %d", ErrCategoryFull, category, limit)
	}

	src := c.buckets[from]
	i := slices.Index(src, item)
	c.buckets[from] = slices.Delete(slices.Clone(src), i, i+1)
	c.buckets[category] = append(c.buckets[category], item)
	c.location[item] = category
	return nil
}

// Items returns a copy of the items in category, in insertion order.
func (c *CandidateAnswerSet) Items(category string) []string {
	return slices.Clone(c.buckets[category])
}

// Categories returns the lesson's category names in display order,
// excluding catalog.Unassigned.
func (c *CandidateAnswerSet) Categories() []string {
	return slices.Clone(c.categories)
}

// Location returns the bucket holding item.
func (c *CandidateAnswerSet) Location(item string) (string, bool) {
	cat, ok := c.location[item]
	return cat, ok
}

// Full reports whether category has reached its capacity.
func (c *CandidateAnswerSet) Full(category string) bool {
	limit := c.capacity[category]
	return limit > 0 && len(c.buckets[category]) >= limit
}

// Assignment returns a copy of every category's items, excluding
// catalog.Unassigned.
func (c *CandidateAnswerSet) Assignment() map[string][]string {
	out := make(map[string][]string, len(c.categories))
	for _, name := range c.categories {
		out[name] = slices.Clone(c.buckets[name])
	}
	return out
}

// Clone returns an independent copy of the arrangement.
func (c *CandidateAnswerSet) Clone() *CandidateAnswerSet {
	out := &CandidateAnswerSet{
		categories: slices.Clone(c.categories),
		capacity:   make(map[string]int, len(c.capacity)),
		buckets:    make(map[string][]string, len(c.buckets)),
		location:   make(map[string]string, len(c.location)),
	}
	for k, v := range c.capacity {
		out.capacity[k] = v
	}
	for k, v := range c.buckets {
		out.buckets[k] = slices.Clone(v)
	}
	for k, v := range c.location {
		out.location[k] = v
	}
	return out
}
