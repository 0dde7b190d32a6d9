package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactSecretKeys(t *testing.T) {
	out := redact([]interface{}{"user_id", "u1", "token", "abc.def.ghi", "Authorization", "Bearer x"})
	require.Len(t, out, 6)
	assert.Equal(t, "u1", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Equal(t, "[REDACTED]", out[5])
}

func TestRedactOddLength(t *testing.T) {
	out := redact([]interface{}{"slot", "stateLesson11", "dangling"})
	assert.Equal(t, []interface{}{"slot", "stateLesson11", "dangling"}, out)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", "v")
	l.Error("boom", "err", assert.AnError)
}
