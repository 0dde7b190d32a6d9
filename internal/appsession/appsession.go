// Package appsession builds the client's long-lived collaborators once at
// start-up: identity, local and remote progress stores, and the catalog.
package appsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carnetlify/carnetlify/internal/auth"
	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/config"
	"github.com/carnetlify/carnetlify/internal/exercise"
	"github.com/carnetlify/carnetlify/internal/kvstore"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/progress"
	"github.com/carnetlify/carnetlify/internal/remote"
)

// UserIDKey is the local KV key holding the generated user id.
const UserIDKey = "userId"

// reachTimeout bounds the lesson-reached write made when a lesson opens.
const reachTimeout = 3 * time.Second

// ErrNoCredentials is returned when neither a token nor a signing secret
// is configured for an online session.
var ErrNoCredentials = errors.New("no credentials: set CARNETLIFY_TOKEN or CARNETLIFY_AUTH_SECRET, or play offline")

// Options tune Open.
type Options struct {
	// Offline replaces the progress service with an in-memory store.
	Offline bool

	// InMemory keeps the local cache in RAM.
	InMemory bool
}

// Session is the client's application context.
type Session struct {
	UserID  string
	Config  *config.Config
	Log     *logger.Logger
	Catalog *catalog.Catalog
	Local   *progress.LocalStore
	Remote  remote.Store

	// Client is the undecorated HTTP client, nil when offline.
	Client *remote.Client

	kv *kvstore.Store
}

// Open builds a Session from cfg.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*Session, error) {
	if log == nil {
		log = logger.Nop()
	}

	kvCfg := kvstore.InMemoryConfig()
	if !opts.InMemory {
		dir := cfg.Local.Dir
		if dir == "" {
			d, err := kvstore.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		kvCfg = kvstore.DefaultConfig(dir)
	}
	kvCfg.Logger = log
	kv, err := kvstore.Open(kvCfg)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	uid, err := ensureUserID(ctx, kv)
	if err != nil {
		kv.Close()
		return nil, err
	}
	log = log.With("uid", uid)

	s := &Session{
		UserID:  uid,
		Config:  cfg,
		Log:     log,
		Catalog: catalog.Default(),
		Local:   progress.NewLocalStore(kv, log),
		kv:      kv,
	}

	if opts.Offline {
		s.Remote = remote.NewMockStore()
		return s, nil
	}

	tokens, err := tokenSource(cfg, uid)
	if err != nil {
		kv.Close()
		return nil, err
	}
	rc := cfg.RemoteClient()
	s.Client = remote.NewClient(rc, tokens)
	s.Remote = remote.New(rc, tokens, log)
	return s, nil
}

func tokenSource(cfg *config.Config, uid string) (remote.TokenSource, error) {
	switch {
	case cfg.Auth.Token != "":
		return auth.StaticTokenSource(cfg.Auth.Token), nil
	case cfg.Auth.Secret != "":
		iss, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, err
		}
		return auth.NewIssuerTokenSource(iss, uid), nil
	default:
		return nil, ErrNoCredentials
	}
}

// ensureUserID returns the persisted user id, generating and storing one on
// first run.
func ensureUserID(ctx context.Context, kv *kvstore.Store) (string, error) {
	raw, err := kv.Get(ctx, UserIDKey)
	switch {
	case err == nil && len(raw) > 0:
		return string(raw), nil
	case err != nil && !errors.Is(err, kvstore.ErrNotFound):
		return "", fmt.Errorf("read user id: %w", err)
	}

	uid := uuid.NewString()
	if err := kv.Set(ctx, UserIDKey, []byte(uid)); err != nil {
		return "", fmt.Errorf("persist user id: %w", err)
	}
	return uid, nil
}

// Reconciler returns a Reconciler pulling from the session's remote store.
func (s *Session) Reconciler() *progress.Reconciler {
	return progress.NewReconciler(s.Remote, s.Local, s.Catalog)
}

// Exercise starts a controller for the lesson with id and records that the
// lesson was reached.
func (s *Session) Exercise(ctx context.Context, lessonID string) (*exercise.Controller, error) {
	l, err := s.Catalog.Lesson(lessonID)
	if err != nil {
		return nil, err
	}
	s.markReached(ctx, l)
	return exercise.NewController(ctx, l, exercise.Deps{
		Remote:  s.Remote,
		Local:   s.Local,
		Catalog: s.Catalog,
		Log:     s.Log,
	}), nil
}

// markReached sets the lesson's number flag. A failure is logged and the
// lesson opens anyway.
func (s *Session) markReached(ctx context.Context, l *catalog.Lesson) {
	ctx, cancel := context.WithTimeout(ctx, reachTimeout)
	defer cancel()
	if err := s.Remote.SetLessonFlag(ctx, l.NumberKey()); err != nil {
		s.Log.Warn("mark lesson reached failed", "lesson", l.ID, "slot_key", l.NumberKey().String(), "error", err)
	}
}

// Ratio returns the local completion ratio.
func (s *Session) Ratio(ctx context.Context) float64 {
	return progress.CalculateTotalProgress(ctx, s.Local, s.Catalog.TotalLessons())
}

// Close releases the local store.
func (s *Session) Close() error {
	return s.kv.Close()
}
