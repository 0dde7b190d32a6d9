package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedReader []Record

func (f fixedReader) GetAll(context.Context) []Record { return f }

func TestCalculateTotalProgress(t *testing.T) {
	ctx := context.Background()
	records := fixedReader{
		{ID: "lesson1", Completed: true},
		{ID: "lesson2", Completed: true},
		{ID: "lesson3", Completed: true},
		{ID: "lesson4", Completed: false},
	}

	tests := []struct {
		name  string
		total int
		want  float64
	}{
		{name: "half", total: 6, want: 0.5},
		{name: "zero total", total: 0, want: 0},
		{name: "negative total", total: -3, want: 0},
		{name: "clamped", total: 2, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateTotalProgress(ctx, records, tt.total), 1e-9)
		})
	}
}

func TestRatioCountsDistinctIDs(t *testing.T) {
	records := []Record{
		{ID: "lesson1", Completed: true},
		{ID: "lesson1", Completed: true},
	}
	assert.InDelta(t, 1.0/6, Ratio(records, 6), 1e-9)
}

func TestCalculateTotalProgressFromLocalStore(t *testing.T) {
	s, _ := newBadgerStore(t)
	ctx := context.Background()
	for _, id := range []string{"lesson1", "lesson2", "lesson3"} {
		_, err := s.Upsert(ctx, id, true)
		require.NoError(t, err)
	}
	_, err := s.Upsert(ctx, "lesson4", false)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, CalculateTotalProgress(ctx, s, 6), 1e-9)
}
