package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		ratio float64
		want  int
	}{
		{-0.5, 0},
		{0, 0},
		{1.0 / 6, 17},
		{0.5, 50},
		{1, 100},
		{1.2, 100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Percent(c.ratio), "ratio %v", c.ratio)
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Inicio", 0.5, 90)
	assert.Contains(t, h, "Carnetlify")
	assert.Contains(t, h, "Inicio")
	assert.Contains(t, h, "50%")

	hidden := RenderHeader("Inicio", -1, 90)
	assert.False(t, strings.Contains(hidden, "%"), "negative ratio hides progress")
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 30))
	assert.True(t, IsTooSmall(100, 23))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}
