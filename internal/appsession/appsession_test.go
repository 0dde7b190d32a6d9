package appsession

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetlify/carnetlify/internal/config"
	"github.com/carnetlify/carnetlify/internal/exercise"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/remote"
)

func TestUserIDPersistsAcrossSessions(t *testing.T) {
	cfg := config.Default()
	cfg.Local.Dir = t.TempDir()
	ctx := context.Background()

	s, err := Open(ctx, cfg, logger.Nop(), Options{Offline: true})
	require.NoError(t, err)
	first := s.UserID
	require.NotEmpty(t, first)
	require.NoError(t, s.Close())

	s, err = Open(ctx, cfg, logger.Nop(), Options{Offline: true})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, first, s.UserID)
}

func TestOnlineRequiresCredentials(t *testing.T) {
	cfg := config.Default()
	_, err := Open(context.Background(), cfg, logger.Nop(), Options{InMemory: true})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestOnlineWithSecret(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.Secret = "session-secret"
	s, err := Open(context.Background(), cfg, logger.Nop(), Options{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.Client)
	assert.NotNil(t, s.Remote)
}

func TestOnlineWithStaticToken(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.Token = "pre-issued"
	s, err := Open(context.Background(), cfg, logger.Nop(), Options{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	assert.NotNil(t, s.Client)
}

func TestOfflineExerciseFlow(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.Default(), logger.Nop(), Options{Offline: true, InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	c, err := s.Exercise(ctx, "lesson1")
	require.NoError(t, err)
	for name, items := range c.Lesson().Expected {
		for _, it := range items {
			require.NoError(t, c.Move(it, name))
		}
	}
	require.Equal(t, exercise.Correct, c.Verify(ctx))
	assert.InDelta(t, 1.0/6.0, s.Ratio(ctx), 1e-9)

	mock, ok := s.Remote.(*remote.MockStore)
	require.True(t, ok)
	assert.Equal(t, []string{"numberLesson11", "stateLesson11"}, mock.Writes())

	_, err = s.Exercise(ctx, "lesson99")
	assert.Error(t, err)
}

func TestReconcilerPullsRemoteCompletions(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.Default(), logger.Nop(), Options{Offline: true, InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	s.Remote.(*remote.MockStore).Seed("stateLesson11", "stateLesson21")
	res, err := s.Reconciler().Pull(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lesson1", "lesson4"}, res.Marked)
	assert.InDelta(t, 2.0/6.0, s.Ratio(ctx), 1e-9)
}

func TestExerciseMarksLessonReached(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.Default(), logger.Nop(), Options{Offline: true, InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	mock := s.Remote.(*remote.MockStore)

	_, err = s.Exercise(ctx, "lesson2")
	require.NoError(t, err)
	assert.Equal(t, []string{"numberLesson12"}, mock.Writes())

	snap, err := mock.ProgressSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap["numberLesson12"])
	assert.False(t, snap["stateLesson12"], "reaching a lesson does not complete it")
}

func TestExerciseOpensWhenReachedWriteFails(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.Default(), logger.Nop(), Options{Offline: true, InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	mock := s.Remote.(*remote.MockStore)
	mock.FailNextSet(remote.ErrUnauthorized)

	c, err := s.Exercise(ctx, "lesson1")
	require.NoError(t, err)
	assert.Equal(t, exercise.Unanswered, c.State())
	assert.Empty(t, mock.Writes())
}
