package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

var lesson1Expected = catalog.ExpectedAnswerSet{
	"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía", "Vía urbana"},
	"permitidas": {"Ráfagas", "Vía interurbana"},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate map[string][]string
		want      bool
	}{
		{
			name: "exact order",
			candidate: map[string][]string{
				"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía", "Vía urbana"},
				"permitidas": {"Ráfagas", "Vía interurbana"},
			},
			want: true,
		},
		{
			name: "any order",
			candidate: map[string][]string{
				"prohibidas": {"Vía urbana", "Travesía", "Inmovilizado", "Deslumbramiento"},
				"permitidas": {"Vía interurbana", "Ráfagas"},
			},
			want: true,
		},
		{
			name: "swapped item",
			candidate: map[string][]string{
				"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía", "Ráfagas"},
				"permitidas": {"Vía urbana", "Vía interurbana"},
			},
			want: false,
		},
		{
			name: "subset only",
			candidate: map[string][]string{
				"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía"},
				"permitidas": {"Ráfagas", "Vía interurbana"},
			},
			want: false,
		},
		{
			name: "superset",
			candidate: map[string][]string{
				"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía", "Vía urbana", "Ráfagas"},
				"permitidas": {"Ráfagas", "Vía interurbana"},
			},
			want: false,
		},
		{
			name: "missing category",
			candidate: map[string][]string{
				"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía", "Vía urbana"},
			},
			want: false,
		},
		{
			name: "unassigned bucket ignored",
			candidate: map[string][]string{
				"prohibidas":       {"Inmovilizado", "Deslumbramiento", "Travesía", "Vía urbana"},
				"permitidas":       {"Ráfagas", "Vía interurbana"},
				catalog.Unassigned: {},
			},
			want: true,
		},
		{
			name: "extra non-empty category",
			candidate: map[string][]string{
				"prohibidas": {"Inmovilizado", "Deslumbramiento", "Travesía", "Vía urbana"},
				"permitidas": {"Ráfagas", "Vía interurbana"},
				"dudosas":    {"Semáforo"},
			},
			want: false,
		},
		{
			name:      "nil candidate",
			candidate: nil,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.candidate, lesson1Expected))
		})
	}
}

func TestValidateEmptyExpected(t *testing.T) {
	assert.True(t, Validate(nil, nil))
	assert.True(t, Validate(map[string][]string{"a": {}}, catalog.ExpectedAnswerSet{}))
	assert.False(t, Validate(map[string][]string{"a": {"x"}}, catalog.ExpectedAnswerSet{}))
}

// Every expected answer in the bundled catalog must validate against itself
// once arranged through a candidate.
func TestCatalogAnswersValidate(t *testing.T) {
	for _, l := range catalog.Default().Lessons() {
		c := NewCandidate(l)
		for name, items := range l.Expected {
			for _, it := range items {
				if err := c.Move(it, name); err != nil {
					t.Fatalf("%s: move %q to %q: %v", l.ID, it, name, err)
				}
			}
		}
		assert.True(t, Validate(c.Assignment(), l.Expected), l.ID)
	}
}
