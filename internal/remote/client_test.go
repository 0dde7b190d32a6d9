package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

type failingTokens struct{}

func (failingTokens) Token(context.Context) (string, error) { return "", errors.New("signed out") }

var lesson11 = catalog.SlotKey{Kind: catalog.KindState, Block: 1, Index: 1}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	return NewClient(cfg, tokens)
}

func TestSetLessonFlagSendsSlotKeyWithBearer(t *testing.T) {
	var gotAuth string
	var gotBody SetLessonFlagRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/progress/lessons", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(ProgressResponse{UID: "u1", Lessons: map[string]bool{"stateLesson11": true}})
	}, staticTokens("tok"))

	require.NoError(t, c.SetLessonFlag(context.Background(), lesson11))
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "stateLesson11", gotBody.SlotKey)
}

func TestSetLessonFlagRejectsInvalidKeyBeforeSending(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, staticTokens("tok"))

	err := c.SetLessonFlag(context.Background(), catalog.SlotKey{Kind: "bogus", Block: 1, Index: 1})
	var reqErr *ErrRequest
	require.ErrorAs(t, err, &reqErr)
	assert.False(t, called)
}

func TestProgressSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/progress", r.URL.Path)
		_ = json.NewEncoder(w).Encode(ProgressResponse{
			UID:     "u1",
			Lessons: map[string]bool{"stateLesson11": true, "numberLesson12": true, "legacyField": true},
		})
	}, staticTokens("tok"))

	snap, err := c.ProgressSnapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Has(lesson11))
	assert.True(t, snap["numberLesson12"])
}

func TestTokenFailureIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent without a token")
	}, failingTokens{})

	err := c.SetLessonFlag(context.Background(), lesson11)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{name: "401", status: http.StatusUnauthorized, check: func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{name: "403", status: http.StatusForbidden, check: func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{name: "429", status: http.StatusTooManyRequests, check: func(t *testing.T, err error) {
			var rl *ErrRateLimit
			require.ErrorAs(t, err, &rl)
			assert.Equal(t, 3*time.Second, rl.RetryAfter)
		}},
		{name: "500", status: http.StatusInternalServerError, check: func(t *testing.T, err error) {
			var un *ErrUnavailable
			assert.ErrorAs(t, err, &un)
		}},
		{name: "400", status: http.StatusBadRequest, check: func(t *testing.T, err error) {
			var re *ErrRequest
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "invalid_slot_key", re.Code)
			assert.Equal(t, "bad key", re.Message)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "3")
				w.WriteHeader(tt.status)
				var eb ErrorBody
				eb.Error.Code = "invalid_slot_key"
				eb.Error.Message = "bad key"
				_ = json.NewEncoder(w).Encode(eb)
			}, staticTokens("tok"))
			tt.check(t, c.SetLessonFlag(context.Background(), lesson11))
		})
	}
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = url
	c := NewClient(cfg, staticTokens("tok"))

	err := c.SetLessonFlag(context.Background(), lesson11)
	var un *ErrUnavailable
	assert.ErrorAs(t, err, &un)
}

func TestLegacyRequestKey(t *testing.T) {
	assert.Equal(t, "stateLesson11", SetLessonFlagRequest{StateLesson: "stateLesson11"}.Key())
	assert.Equal(t, "numberLesson11", SetLessonFlagRequest{NumberLesson: "numberLesson11"}.Key())
	assert.Equal(t, "stateLesson12", SetLessonFlagRequest{SlotKey: "stateLesson12", StateLesson: "stateLesson11"}.Key())
}
