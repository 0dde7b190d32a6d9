package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

func lesson1(t *testing.T) *catalog.Lesson {
	t.Helper()
	l, err := catalog.Default().Lesson("lesson1")
	require.NoError(t, err)
	return l
}

func TestNewCandidateStartsUnassigned(t *testing.T) {
	l := lesson1(t)
	c := NewCandidate(l)

	assert.Equal(t, l.Items, c.Items(catalog.Unassigned))
	assert.Equal(t, []string{"prohibidas", "permitidas"}, c.Categories())
	for _, name := range c.Categories() {
		assert.Empty(t, c.Items(name))
	}
}

func TestMoveBetweenBuckets(t *testing.T) {
	c := NewCandidate(lesson1(t))

	require.NoError(t, c.Move("Ráfagas", "permitidas"))
	assert.Equal(t, []string{"Ráfagas"}, c.Items("permitidas"))
	assert.NotContains(t, c.Items(catalog.Unassigned), "Ráfagas")

	require.NoError(t, c.Move("Ráfagas", "prohibidas"))
	assert.Empty(t, c.Items("permitidas"))
	assert.Equal(t, []string{"Ráfagas"}, c.Items("prohibidas"))

	require.NoError(t, c.Move("Ráfagas", catalog.Unassigned))
	loc, ok := c.Location("Ráfagas")
	require.True(t, ok)
	assert.Equal(t, catalog.Unassigned, loc)
}

func TestMoveIntoSameBucketIsNoop(t *testing.T) {
	c := NewCandidate(lesson1(t))
	require.NoError(t, c.Move("Travesía", "prohibidas"))
	before := c.Clone()

	require.NoError(t, c.Move("Travesía", "prohibidas"))
	assert.Equal(t, before, c)
}

func TestMoveRejectsUnknown(t *testing.T) {
	c := NewCandidate(lesson1(t))
	before := c.Clone()

	assert.ErrorIs(t, c.Move("Semáforo", "permitidas"), ErrUnknownItem)
	assert.ErrorIs(t, c.Move("Ráfagas", "obligatorias"), ErrUnknownCategory)
	assert.Equal(t, before, c)
}

func TestMoveRejectsFullCategoryWithoutMutating(t *testing.T) {
	c := NewCandidate(lesson1(t))
	require.NoError(t, c.Move("Ráfagas", "permitidas"))
	require.NoError(t, c.Move("Vía interurbana", "permitidas"))
	assert.True(t, c.Full("permitidas"))

	before := c.Clone()
	err := c.Move("Travesía", "permitidas")
	require.ErrorIs(t, err, ErrCategoryFull)
	assert.Equal(t, before, c)

	loc, _ := c.Location("Travesía")
	assert.Equal(t, catalog.Unassigned, loc)
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewCandidate(lesson1(t))
	cp := c.Clone()

	require.NoError(t, cp.Move("Ráfagas", "permitidas"))
	assert.Empty(t, c.Items("permitidas"))
	assert.Len(t, c.Items(catalog.Unassigned), 6)
}

func TestAssignmentExcludesUnassigned(t *testing.T) {
	c := NewCandidate(lesson1(t))
	require.NoError(t, c.Move("Ráfagas", "permitidas"))

	got := c.Assignment()
	assert.Equal(t, map[string][]string{
		"prohibidas": {},
		"permitidas": {"Ráfagas"},
	}, got)
}
