package home

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/kvstore"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/progress"
	"github.com/carnetlify/carnetlify/internal/remote"
	"github.com/carnetlify/carnetlify/internal/router"
	"github.com/carnetlify/carnetlify/internal/screen"
)

type stubScreen struct{ id string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.id }
func (s *stubScreen) Title() string                           { return s.id }

type fixture struct {
	remote  *remote.MockStore
	local   *progress.LocalStore
	opened  []string
	openErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := kvstore.Open(kvstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return &fixture{
		remote: remote.NewMockStore(),
		local:  progress.NewLocalStore(kv, logger.Nop()),
	}
}

func (f *fixture) screen() *HomeScreen {
	cat := catalog.Default()
	return New(Options{
		Catalog: cat,
		Sync:    progress.NewReconciler(f.remote, f.local, cat),
		Local:   f.local,
		OpenLesson: func(_ context.Context, id string) (screen.Screen, error) {
			if f.openErr != nil {
				return nil, f.openErr
			}
			f.opened = append(f.opened, id)
			return &stubScreen{id: id}, nil
		},
		History: func() screen.Screen { return &stubScreen{id: "history"} },
	})
}

// load runs Init and feeds the result back into the screen.
func load(t *testing.T, h *HomeScreen) {
	t.Helper()
	cmd := h.Init()
	require.NotNil(t, cmd)
	h.Update(cmd())
}

func itemFor(h *HomeScreen, prefix string) (int, bool) {
	for i, it := range h.menu.Items {
		if len(it.Label) >= len(prefix) && it.Label[:len(prefix)] == prefix {
			return i, true
		}
	}
	return -1, false
}

func TestInitialLockState(t *testing.T) {
	f := newFixture(t)
	h := f.screen()
	load(t, h)

	assert.True(t, h.loaded)
	assert.False(t, h.offline)
	assert.Equal(t, 0.0, h.Progress())

	i, ok := itemFor(h, "1.1")
	require.True(t, ok)
	assert.False(t, h.menu.Items[i].Disabled, "first lesson is always open")

	i, _ = itemFor(h, "1.2")
	assert.True(t, h.menu.Items[i].Disabled)
	assert.Equal(t, "bloqueada", h.menu.Items[i].Badge)
}

func TestRemoteCompletionUnlocksNextLesson(t *testing.T) {
	f := newFixture(t)
	f.remote.Seed("stateLesson11")
	h := f.screen()
	load(t, h)

	i, _ := itemFor(h, "1.1")
	assert.Equal(t, "✓", h.menu.Items[i].Badge)
	i, _ = itemFor(h, "1.2")
	assert.False(t, h.menu.Items[i].Disabled)
	i, _ = itemFor(h, "1.3")
	assert.True(t, h.menu.Items[i].Disabled)

	assert.InDelta(t, 1.0/6, h.Progress(), 1e-9, "pull marks the lesson locally")
}

func TestSyncFailureFallsBackToLocalProgress(t *testing.T) {
	f := newFixture(t)
	f.remote.FailSnapshot(errors.New("unreachable"))
	_, err := f.local.Upsert(context.Background(), "lesson1", true)
	require.NoError(t, err)

	h := f.screen()
	load(t, h)

	assert.True(t, h.offline)
	i, _ := itemFor(h, "1.2")
	assert.False(t, h.menu.Items[i].Disabled)
	assert.Contains(t, h.View(100, 40), "Sin conexión")
}

func TestEnterOpensSelectedLesson(t *testing.T) {
	f := newFixture(t)
	h := f.screen()
	load(t, h)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "lesson1", msg.Screen.Title())
	assert.Equal(t, []string{"lesson1"}, f.opened)
}

func TestOpenFailureIsShown(t *testing.T) {
	f := newFixture(t)
	f.openErr = errors.New("lesson not found")
	h := f.screen()
	load(t, h)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	h.Update(cmd())
	assert.Contains(t, h.View(100, 40), "lesson not found")
}

func TestCursorSkipsLockedLessons(t *testing.T) {
	f := newFixture(t)
	h := f.screen()
	load(t, h)

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	i, _ := itemFor(h, "Actividad")
	assert.Equal(t, i, h.menu.Selected, "locked lessons are skipped")
}

func TestResumeReloadsProgress(t *testing.T) {
	f := newFixture(t)
	h := f.screen()
	load(t, h)

	f.remote.Seed("stateLesson11")
	cmd := h.Resume()
	require.NotNil(t, cmd)
	h.Update(cmd())

	i, _ := itemFor(h, "1.2")
	assert.False(t, h.menu.Items[i].Disabled)
}
