package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/remote"
)

func TestPullMarksRemoteCompletions(t *testing.T) {
	s, _ := newBadgerStore(t)
	ctx := context.Background()
	mock := remote.NewMockStore()
	mock.Seed("stateLesson11", "stateLesson21", "numberLesson12", "unknownKey")

	_, err := s.Upsert(ctx, "lesson3", true)
	require.NoError(t, err)

	res, err := NewReconciler(mock, s, catalog.Default()).Pull(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lesson1", "lesson4"}, res.Marked)

	done := Completed(s.GetAll(ctx))
	assert.True(t, done["lesson1"])
	assert.True(t, done["lesson3"], "local-only completion is kept")
	assert.True(t, done["lesson4"])
	assert.False(t, done["lesson2"], "numberLesson flags do not mark completion")
}

func TestPullIsIdempotent(t *testing.T) {
	s, _ := newBadgerStore(t)
	ctx := context.Background()
	mock := remote.NewMockStore()
	mock.Seed("stateLesson11")
	r := NewReconciler(mock, s, catalog.Default())

	_, err := r.Pull(ctx)
	require.NoError(t, err)
	res, err := r.Pull(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Marked)
	assert.Len(t, s.GetAll(ctx), 1)
}

func TestPullSnapshotFailureLeavesLocalAlone(t *testing.T) {
	s, _ := newBadgerStore(t)
	ctx := context.Background()
	mock := remote.NewMockStore()
	mock.FailSnapshot(remote.ErrUnauthorized)

	_, err := NewReconciler(mock, s, catalog.Default()).Pull(ctx)
	assert.True(t, errors.Is(err, remote.ErrUnauthorized))
	assert.Empty(t, s.GetAll(ctx))
}
