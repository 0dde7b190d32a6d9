// Package auth mints and verifies the bearer tokens that identify a
// learner to the progress service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry,
	// issuer, or subject checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoSecret is returned when signing or verifying without a secret.
	ErrNoSecret = errors.New("auth secret is empty")
)

// DefaultIssuer is the iss claim used when none is configured.
const DefaultIssuer = "carnetlify"

// Claims are the registered claims carried by a learner token.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens for a user id.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. An empty issuer uses DefaultIssuer and a
// non-positive ttl defaults to one hour.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for uid and its expiry.
func (i *Issuer) Issue(uid string) (string, time.Time, error) {
	if uid == "" {
		return "", time.Time{}, errors.New("empty user id")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verifier checks tokens minted by an Issuer sharing the same secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier returns a Verifier. An empty issuer uses DefaultIssuer.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify checks the token and returns its subject.
func (v *Verifier) Verify(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

// Token returns the token, or an error when it is empty.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("no token configured")
	}
	return string(s), nil
}

// IssuerTokenSource mints tokens for a fixed user and reuses each one until
// shortly before it expires.
type IssuerTokenSource struct {
	issuer *Issuer
	uid    string
	leeway time.Duration

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewIssuerTokenSource returns a token source for uid.
func NewIssuerTokenSource(issuer *Issuer, uid string) *IssuerTokenSource {
	return &IssuerTokenSource{issuer: issuer, uid: uid, leeway: 30 * time.Second}
}

// Token returns a cached token or mints a new one.
func (s *IssuerTokenSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.issuer.now().Add(s.leeway).Before(s.expiry) {
		return s.token, nil
	}
	tok, exp, err := s.issuer.Issue(s.uid)
	if err != nil {
		return "", err
	}
	s.token, s.expiry = tok, exp
	return tok, nil
}
