package history

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/remote"
	"github.com/carnetlify/carnetlify/internal/router"
)

type fakeSource struct {
	events []remote.FlagEvent
	err    error
	limit  int
}

func (f *fakeSource) RecentEvents(_ context.Context, limit int) (*remote.EventsResponse, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &remote.EventsResponse{UID: "u1", Events: f.events}, nil
}

func loaded(t *testing.T, src *fakeSource) *HistoryScreen {
	t.Helper()
	s := New(src, catalog.Default())
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s
}

func TestHistoryListsEvents(t *testing.T) {
	src := &fakeSource{events: []remote.FlagEvent{
		{Sequence: 2, SlotKey: "stateLesson11", Timestamp: 1_700_000_060_000},
		{Sequence: 1, SlotKey: "numberLesson11", Timestamp: 1_700_000_000_000},
	}}
	s := loaded(t, src)

	assert.Equal(t, Limit, src.limit)
	view := s.View(100, 30)
	assert.Contains(t, view, "Completada: Uso de las ráfagas (1.1)")
	assert.Contains(t, view, "Iniciada: Uso de las ráfagas (1.1)")
	assert.NotContains(t, view, "#2")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(100, 30), "#2  stateLesson11")
}

func TestHistoryNavigationBounds(t *testing.T) {
	src := &fakeSource{events: []remote.FlagEvent{
		{Sequence: 1, SlotKey: "stateLesson11"},
		{Sequence: 2, SlotKey: "stateLesson12"},
	}}
	s := loaded(t, src)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
}

func TestHistoryEmptyAndError(t *testing.T) {
	s := loaded(t, &fakeSource{})
	assert.Contains(t, s.View(100, 30), "Todavía no hay actividad")

	s = loaded(t, &fakeSource{err: errors.New("progress service unavailable")})
	assert.Contains(t, s.View(100, 30), "progress service unavailable")
}

func TestHistoryUnknownKeyShownRaw(t *testing.T) {
	s := New(&fakeSource{}, catalog.Default())
	assert.Equal(t, "bogus", s.describe("bogus"))
	assert.Equal(t, "Completada: lección 9.9", s.describe("stateLesson99"))
}

func TestHistoryEscPops(t *testing.T) {
	s := loaded(t, &fakeSource{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
