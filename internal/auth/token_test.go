package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-bytes"

func TestIssueAndVerify(t *testing.T) {
	iss, err := NewIssuer(testSecret, "", time.Hour)
	require.NoError(t, err)
	ver, err := NewVerifier(testSecret, "")
	require.NoError(t, err)

	tok, exp, err := iss.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	uid, err := ver.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestVerifyRejects(t *testing.T) {
	iss, err := NewIssuer(testSecret, "carnetlify", time.Hour)
	require.NoError(t, err)
	good, _, err := iss.Issue("user-1")
	require.NoError(t, err)

	expiredIss, err := NewIssuer(testSecret, "carnetlify", time.Hour)
	require.NoError(t, err)
	expiredIss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIss.Issue("user-1")
	require.NoError(t, err)

	otherIss, err := NewIssuer(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	foreign, _, err := otherIss.Issue("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "another-secret", good},
		{"expired", testSecret, expired},
		{"wrong issuer", testSecret, foreign},
		{"garbage", testSecret, "not.a.jwt"},
		{"empty", testSecret, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ver, err := NewVerifier(tt.secret, "carnetlify")
			require.NoError(t, err)
			_, err = ver.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestEmptySecret(t *testing.T) {
	_, err := NewIssuer("", "", 0)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = NewVerifier("", "")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestIssueEmptyUID(t *testing.T) {
	iss, err := NewIssuer(testSecret, "", 0)
	require.NoError(t, err)
	_, _, err = iss.Issue("")
	assert.Error(t, err)
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticTokenSource("").Token(context.Background())
	assert.Error(t, err)
}

func TestIssuerTokenSourceCachesUntilNearExpiry(t *testing.T) {
	iss, err := NewIssuer(testSecret, "", time.Minute)
	require.NoError(t, err)
	clock := time.Now()
	iss.now = func() time.Time { return clock }

	src := NewIssuerTokenSource(iss, "user-1")
	ctx := context.Background()

	first, err := src.Token(ctx)
	require.NoError(t, err)
	again, err := src.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	clock = clock.Add(45 * time.Second)
	renewed, err := src.Token(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, renewed)
}
